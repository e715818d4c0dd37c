package sexp

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Encoder converts Go values to nodes. In strict mode values without an
// S-expression form are errors; otherwise they become nil or a string.
type Encoder struct {
	Strict bool
	// Warnf reports lenient fallbacks for opaque values. Nil means log.Printf.
	Warnf func(format string, v ...interface{})
}

var LenientEncoder = Encoder{Strict: false}
var StrictEncoder = Encoder{Strict: true}

func encoderFor(strict bool) Encoder {
	if strict {
		return StrictEncoder
	}
	return LenientEncoder
}

// EncodeNode converts v to a node.
func EncodeNode(v interface{}, strict bool) (*Node, error) {
	return encoderFor(strict).Node(v)
}

// Encode converts v to canonical S-expression text.
func Encode(v interface{}, strict bool) (string, error) {
	return encoderFor(strict).Encode(v)
}

// EncodeMany encodes each value on its own and joins the results with sep,
// which defaults to a single space.
func EncodeMany(vs []interface{}, sep string, strict bool) (string, error) {
	return encoderFor(strict).EncodeMany(vs, sep)
}

func (e Encoder) Encode(v interface{}) (string, error) {
	n, err := e.Node(v)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

func (e Encoder) EncodeMany(vs []interface{}, sep string) (string, error) {
	if sep == "" {
		sep = " "
	}

	var b []byte
	for i, v := range vs {
		n, err := e.Node(v)
		if err != nil {
			return "", errors.Wrapf(err, "value %d", i)
		}
		if i > 0 {
			b = append(b, sep...)
		}
		b = n.AppendText(b)
	}
	return string(b), nil
}

func (e Encoder) Node(v interface{}) (*Node, error) {
	s := encodeState{Encoder: e}
	return s.encode(reflect.ValueOf(v))
}

// Unknown handles a host value with no S-expression form, such as a time,
// a pattern or a function: an error in strict mode, otherwise nil and a
// warning.
func (e Encoder) Unknown(v interface{}) (*Node, error) {
	if e.Strict {
		return nil, &EncodeError{Err: ErrUnknownType, Value: v}
	}
	e.warnf("sexp: unknown object type %T, encoded as nil", v)
	return Nil(), nil
}

func (e Encoder) warnf(format string, v ...interface{}) {
	if e.Warnf != nil {
		e.Warnf(format, v...)
		return
	}
	log.Printf(format, v...)
}

// category is the shape of a Go value as far as encoding cares. classify
// checks them in declaration order; the first match wins.
type category int

const (
	categoryNullish category = iota
	categoryNaN
	categoryText
	categoryNumeric
	categoryBoolean
	categorySequence
	categoryNode
	categoryOpaque
	categoryPointer
	categoryMapping
	categoryFallback
)

var (
	nodePtrType    = reflect.TypeOf((*Node)(nil))
	nodeType       = reflect.TypeOf(Node{})
	bytesType      = reflect.TypeOf([]byte(nil))
	jsonNumberType = reflect.TypeOf(json.Number(""))
	bigIntPtrType  = reflect.TypeOf((*big.Int)(nil))
	bigIntType     = reflect.TypeOf(big.Int{})
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	timeType       = reflect.TypeOf(time.Time{})
	regexpType     = reflect.TypeOf(regexp.Regexp{})
)

func classify(rv reflect.Value) category {
	if !rv.IsValid() {
		return categoryNullish
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return categoryNullish
		}
	case reflect.Float32, reflect.Float64:
		if math.IsNaN(rv.Float()) {
			return categoryNaN
		}
	}

	t := rv.Type()
	switch t {
	case jsonNumberType, bigIntPtrType, bigIntType:
		return categoryNumeric
	case bytesType:
		return categoryText
	case nodePtrType, nodeType:
		return categoryNode
	case timeType, regexpType:
		return categoryOpaque
	}

	switch rv.Kind() {
	case reflect.String:
		return categoryText
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return categoryNumeric
	case reflect.Bool:
		return categoryBoolean
	case reflect.Slice, reflect.Array:
		return categorySequence
	}

	if t.Implements(errorType) {
		return categoryOpaque
	}

	switch rv.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return categoryOpaque
	case reflect.Pointer, reflect.Interface:
		return categoryPointer
	case reflect.Map, reflect.Struct:
		return categoryMapping
	}

	return categoryFallback
}

// encodeState carries the containers on the current encode path so a value
// that contains itself fails with ErrCycle instead of recursing forever.
type encodeState struct {
	Encoder
	seen map[seenKey]struct{}
}

type seenKey struct {
	t   reflect.Type
	ptr uintptr
	len int
}

// enter records rv on the path. It returns false if rv is already there.
func (s *encodeState) enter(rv reflect.Value) (seenKey, bool) {
	k := seenKey{t: rv.Type(), ptr: rv.Pointer()}
	if rv.Kind() == reflect.Slice {
		k.len = rv.Len()
	}
	if s.seen == nil {
		s.seen = make(map[seenKey]struct{})
	}
	if _, ok := s.seen[k]; ok {
		return k, false
	}
	s.seen[k] = struct{}{}
	return k, true
}

func (s *encodeState) encode(rv reflect.Value) (*Node, error) {
	e := s.Encoder
	switch classify(rv) {
	case categoryNullish:
		return Nil(), nil
	case categoryNaN:
		if e.Strict {
			return nil, &EncodeError{Err: ErrNaN, Value: rv.Interface()}
		}
		return Nil(), nil
	case categoryText:
		if rv.Type() == bytesType {
			return String(string(rv.Bytes())), nil
		}
		return String(rv.String()), nil
	case categoryNumeric:
		return e.encodeNumber(rv)
	case categoryBoolean:
		if rv.Bool() {
			return Symbol("t"), nil
		}
		return Nil(), nil
	case categorySequence:
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			k, ok := s.enter(rv)
			if !ok {
				return nil, &EncodeError{Err: ErrCycle, Value: rv.Interface()}
			}
			defer delete(s.seen, k)
		}
		return s.encodeSequence(rv)
	case categoryNode:
		if rv.Kind() == reflect.Pointer {
			return rv.Interface().(*Node), nil
		}
		n := rv.Interface().(Node)
		return &n, nil
	case categoryOpaque:
		return e.Unknown(rv.Interface())
	case categoryPointer:
		if rv.Kind() == reflect.Pointer {
			k, ok := s.enter(rv)
			if !ok {
				return nil, &EncodeError{Err: ErrCycle, Value: rv.Interface()}
			}
			defer delete(s.seen, k)
		}
		return s.encode(rv.Elem())
	case categoryMapping:
		if rv.Kind() == reflect.Map {
			k, ok := s.enter(rv)
			if !ok {
				return nil, &EncodeError{Err: ErrCycle, Value: rv.Interface()}
			}
			defer delete(s.seen, k)
			return s.encodeMap(rv)
		}
		return s.encodeStruct(rv)
	}

	if e.Strict {
		return nil, &EncodeError{Err: ErrUnsupportedType, Value: rv.Interface()}
	}
	return String(fmt.Sprint(rv.Interface())), nil
}

func (e Encoder) encodeNumber(rv reflect.Value) (*Node, error) {
	switch rv.Type() {
	case jsonNumberType:
		return e.encodeJSONNumber(rv.Interface().(json.Number))
	case bigIntPtrType:
		return BigInt(rv.Interface().(*big.Int)), nil
	case bigIntType:
		b := rv.Interface().(big.Int)
		return BigInt(&b), nil
	}

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Node{Kind: KindInt, Atom: strconv.FormatUint(rv.Uint(), 10)}, nil
	}

	return e.encodeFloat(rv.Float(), rv.Interface())
}

func (e Encoder) encodeFloat(f float64, v interface{}) (*Node, error) {
	if math.IsNaN(f) {
		if e.Strict {
			return nil, &EncodeError{Err: ErrNaN, Value: v}
		}
		return Nil(), nil
	}
	if math.IsInf(f, 0) {
		if e.Strict {
			return nil, &EncodeError{Err: ErrInfinite, Value: v}
		}
		return Nil(), nil
	}
	if f == math.Trunc(f) {
		return &Node{Kind: KindInt, Atom: strconv.FormatFloat(f, 'f', -1, 64)}, nil
	}
	return Float(f), nil
}

func (e Encoder) encodeJSONNumber(num json.Number) (*Node, error) {
	n, err := NewNumber(string(num))
	if err != nil {
		if e.Strict {
			return nil, &EncodeError{Err: ErrUnsupportedType, Value: num}
		}
		return String(string(num)), nil
	}
	if n.Kind == KindInt {
		return n, nil
	}

	f, _ := strconv.ParseFloat(string(num), 64)
	return e.encodeFloat(f, num)
}

func (s *encodeState) encodeSequence(rv reflect.Value) (*Node, error) {
	children := make([]*Node, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		c, err := s.encode(rv.Index(i))
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		children = append(children, c)
	}
	return List(children...), nil
}

// encodeMap emits one cons per entry, ordered by the text of the encoded key.
func (s *encodeState) encodeMap(rv reflect.Value) (*Node, error) {
	type entry struct {
		key  string
		cons *Node
	}

	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, err := s.encode(iter.Key())
		if err != nil {
			return nil, errors.Wrapf(err, "key %v", iter.Key())
		}
		v, err := s.encode(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "key %v", iter.Key())
		}
		entries = append(entries, entry{key: k.String(), cons: Cons(k, v)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	children := make([]*Node, 0, len(entries))
	for _, en := range entries {
		children = append(children, en.cons)
	}
	return List(children...), nil
}

// encodeStruct emits one cons per exported field in declaration order. A
// `sexp:"name"` tag renames the key; `sexp:"-"` skips the field.
func (s *encodeState) encodeStruct(rv reflect.Value) (*Node, error) {
	t := rv.Type()
	children := make([]*Node, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue
		}

		name := f.Name
		if tag, ok := f.Tag.Lookup("sexp"); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}

		v, err := s.encode(rv.Field(i))
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", f.Name)
		}
		children = append(children, Cons(String(name), v))
	}
	return List(children...), nil
}
