package sexp

import (
	"math"
	"math/big"
	"strconv"
)

// Decode converts n to plain Go values:
//
//	nil            nil
//	symbol         string (the name)
//	string         string
//	int            int64, or *big.Int when it does not fit
//	float          float64
//	list           []interface{}
//	cons           []interface{}{car, cdr}
//	list-dot       the head elements followed by the tail
//	quoted         []interface{}{inner}
func (n *Node) Decode() interface{} {
	if n == nil {
		return nil
	}

	switch n.Kind {
	case KindNil:
		return nil
	case KindSymbol, KindString:
		return n.Atom
	case KindInt:
		if i, err := strconv.ParseInt(n.Atom, 10, 64); err == nil {
			return i
		}
		if b, ok := new(big.Int).SetString(n.Atom, 10); ok {
			return b
		}
		return nil
	case KindFloat:
		f, _ := strconv.ParseFloat(n.Atom, 64)
		return f
	case KindList:
		if len(n.List) == 0 {
			return nil
		}
		return decodeNodes(n.List, len(n.List))
	case KindCons:
		return []interface{}{n.Car.Decode(), n.Cdr.Decode()}
	case KindListDot:
		return append(decodeNodes(n.List, len(n.List)+1), n.Cdr.Decode())
	case KindQuoted:
		return []interface{}{n.Car.Decode()}
	}

	return nil
}

func decodeNodes(list []*Node, capacity int) []interface{} {
	v := make([]interface{}, 0, capacity)
	for _, c := range list {
		v = append(v, c.Decode())
	}
	return v
}

// Int returns the value of a number node, truncating floats toward zero.
func (n *Node) Int() (int64, error) {
	switch n.Kind {
	case KindInt:
		return strconv.ParseInt(n.Atom, 10, 64)
	case KindFloat:
		f, err := strconv.ParseFloat(n.Atom, 64)
		if err != nil {
			return 0, err
		}
		if f < -(1<<63) || f >= 1<<63 || math.IsNaN(f) {
			return 0, &strconv.NumError{Func: "Int", Num: n.Atom, Err: strconv.ErrRange}
		}
		return int64(f), nil
	}
	return 0, ErrNotNumber
}

// BigInt returns the exact value of an int node.
func (n *Node) BigInt() (*big.Int, error) {
	if n.Kind != KindInt {
		return nil, ErrNotNumber
	}
	b, ok := new(big.Int).SetString(n.Atom, 10)
	if !ok {
		return nil, &strconv.NumError{Func: "BigInt", Num: n.Atom, Err: strconv.ErrSyntax}
	}
	return b, nil
}

// Float returns the value of a number node as a float64.
func (n *Node) Float() (float64, error) {
	switch n.Kind {
	case KindInt, KindFloat:
		return strconv.ParseFloat(n.Atom, 64)
	}
	return 0, ErrNotNumber
}

// ToObject converts an alist to a map from each element's decoded car to
// its decoded cdr. Later keys overwrite earlier ones. A car that does not
// decode to a string is keyed by its canonical text. Nil is not an alist,
// but it is how an empty alist prints, so it gives an empty map.
func (n *Node) ToObject() (map[string]interface{}, error) {
	switch n.Kind {
	case KindNil:
		return map[string]interface{}{}, nil
	case KindList:
	default:
		return nil, &FormatError{Err: ErrNotAlist, Node: n}
	}

	m := make(map[string]interface{}, len(n.List))
	for _, item := range n.List {
		if !item.IsCons() {
			return nil, &FormatError{Err: ErrNotAlist, Node: item, Parent: n}
		}
		m[objectKey(item.First())] = item.Rest().Decode()
	}
	return m, nil
}

func objectKey(car *Node) string {
	if s, ok := car.Decode().(string); ok {
		return s
	}
	return car.String()
}
