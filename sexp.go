package sexp

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type Kind int

const (
	KindNil Kind = iota
	KindSymbol
	KindString
	KindInt
	KindFloat
	KindList
	KindCons
	KindListDot
	KindQuoted
)

var kindNames = [...]string{
	KindNil:     "nil",
	KindSymbol:  "symbol",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindList:    "list",
	KindCons:    "cons",
	KindListDot: "list-dot",
	KindQuoted:  "quoted",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Node is a single S-expression. Which fields are meaningful depends on Kind:
//
//	KindNil      none
//	KindSymbol   Atom is the symbol name
//	KindString   Atom is the unescaped string value
//	KindInt      Atom is the integer literal text
//	KindFloat    Atom is the float literal text
//	KindList     List holds the elements
//	KindCons     Car and Cdr
//	KindListDot  List holds the head elements, Cdr the tail
//	KindQuoted   Car is the quoted expression
//
// Nodes are not modified after construction except through Visit.
type Node struct {
	Kind
	Atom string
	List []*Node
	Car  *Node
	Cdr  *Node
}

// String renders n in canonical text form.
func (n *Node) String() string {
	return string(n.AppendText(nil))
}

// AppendText appends the canonical text form of n to b.
func (n *Node) AppendText(b []byte) []byte {
	if n == nil {
		return append(b, "nil"...)
	}

	switch n.Kind {
	case KindNil:
		return append(b, "nil"...)
	case KindSymbol, KindInt, KindFloat:
		return append(b, n.Atom...)
	case KindString:
		return appendQuoted(b, n.Atom)
	case KindList:
		if len(n.List) == 0 {
			return append(b, "nil"...)
		}
		b = append(b, '(')
		b = appendElements(b, n.List)
		return append(b, ')')
	case KindCons:
		b = append(b, '(')
		b = n.Car.AppendText(b)
		// a list cdr prints as the rest of the list: (a . (b c)) => (a b c)
		if n.Cdr != nil && n.Cdr.Kind == KindList {
			if len(n.Cdr.List) > 0 {
				b = append(b, ' ')
				b = appendElements(b, n.Cdr.List)
			}
			return append(b, ')')
		}
		b = append(b, " . "...)
		b = n.Cdr.AppendText(b)
		return append(b, ')')
	case KindListDot:
		b = append(b, '(')
		b = appendElements(b, n.List)
		b = append(b, " . "...)
		b = n.Cdr.AppendText(b)
		return append(b, ')')
	case KindQuoted:
		b = append(b, '\'')
		return n.Car.AppendText(b)
	}

	return b
}

func appendElements(b []byte, list []*Node) []byte {
	for i, c := range list {
		if i > 0 {
			b = append(b, ' ')
		}
		b = c.AppendText(b)
	}
	return b
}

const hexDigits = "0123456789abcdef"

func appendQuoted(b []byte, s string) []byte {
	b = append(b, '"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			// not UTF-8: keep the byte so the text reads back the same
			b = append(b, s[i])
			i++
			continue
		}
		i += size

		switch r {
		case '"':
			b = append(b, '\\', '"')
		case '\\':
			b = append(b, '\\', '\\')
		case '\b':
			b = append(b, '\\', 'b')
		case '\f':
			b = append(b, '\\', 'f')
		case '\n':
			b = append(b, '\\', 'n')
		case '\r':
			b = append(b, '\\', 'r')
		case '\t':
			b = append(b, '\\', 't')
		case '\u2028', '\u2029':
			b = appendUnicodeEscape(b, r)
		default:
			if r < 0x20 {
				b = appendUnicodeEscape(b, r)
			} else {
				b = utf8.AppendRune(b, r)
			}
		}
	}
	return append(b, '"')
}

func appendUnicodeEscape(b []byte, r rune) []byte {
	return append(b, '\\', 'u',
		hexDigits[r>>12&0xf],
		hexDigits[r>>8&0xf],
		hexDigits[r>>4&0xf],
		hexDigits[r&0xf],
	)
}

// IsAtom reports whether n is a leaf: nil, a symbol, a string or a number.
func (n *Node) IsAtom() bool {
	switch n.Kind {
	case KindNil, KindSymbol, KindString, KindInt, KindFloat:
		return true
	}
	return false
}

// IsCons reports whether n has a car and a cdr. The empty list does not.
func (n *Node) IsCons() bool {
	switch n.Kind {
	case KindCons, KindListDot:
		return true
	case KindList:
		return len(n.List) > 0
	}
	return false
}

// IsList reports whether n is a proper list, nil included.
func (n *Node) IsList() bool {
	return n.Kind == KindNil || n.Kind == KindList
}

// IsAlist reports whether n is a list whose every element is cons-shaped.
// Only direct children are inspected. Nil is not an alist.
func (n *Node) IsAlist() bool {
	switch n.Kind {
	case KindList:
		for _, c := range n.List {
			if !c.IsCons() {
				return false
			}
		}
		return true
	}
	return false
}

// First returns the car of a cons-shaped node, or nil for anything else.
func (n *Node) First() *Node {
	switch n.Kind {
	case KindCons:
		return n.Car
	case KindList, KindListDot:
		if len(n.List) > 0 {
			return n.List[0]
		}
	}
	return nil
}

// Rest returns the cdr of a cons-shaped node, or nil for anything else.
func (n *Node) Rest() *Node {
	switch n.Kind {
	case KindCons:
		return n.Cdr
	case KindList:
		if len(n.List) == 0 {
			return nil
		}
		if len(n.List) < 2 {
			return Nil()
		}
		return List(copyNodes(n.List[1:])...)
	case KindListDot:
		return ListDot(copyNodes(n.List[1:]), n.Cdr)
	}
	return nil
}

func copyNodes(list []*Node) []*Node {
	return append(make([]*Node, 0, len(list)), list...)
}

// Visit replaces every direct child c of n with f(c), in place. The tree
// must not be read concurrently while Visit runs.
func (n *Node) Visit(f func(*Node) *Node) {
	switch n.Kind {
	case KindList:
		for i, c := range n.List {
			n.List[i] = f(c)
		}
	case KindCons:
		n.Car = f(n.Car)
		n.Cdr = f(n.Cdr)
	case KindListDot:
		for i, c := range n.List {
			n.List[i] = f(c)
		}
		n.Cdr = f(n.Cdr)
	case KindQuoted:
		n.Car = f(n.Car)
	}
}

// Map returns a shallow copy of n whose direct children are replaced by
// f(child). n itself is left untouched.
func (n *Node) Map(f func(*Node) *Node) *Node {
	m := *n
	if n.List != nil {
		m.List = copyNodes(n.List)
	}
	m.Visit(f)
	return &m
}

// Equal reports whether a and b have the same shape and payload. Nil and
// the empty list compare equal.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if isEmpty(a) && isEmpty(b) {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindSymbol, KindString, KindInt, KindFloat:
		return a.Atom == b.Atom
	case KindList:
		return equalNodes(a.List, b.List)
	case KindCons:
		return Equal(a.Car, b.Car) && Equal(a.Cdr, b.Cdr)
	case KindListDot:
		return equalNodes(a.List, b.List) && Equal(a.Cdr, b.Cdr)
	case KindQuoted:
		return Equal(a.Car, b.Car)
	}
	return true
}

func isEmpty(n *Node) bool {
	return n.Kind == KindNil || (n.Kind == KindList && len(n.List) == 0)
}

func equalNodes(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// symbolName reports whether s can be printed as a symbol and read back.
func symbolName(s string) bool {
	if s == "" || s == "nil" || s[0] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 0 && !isSymbolStart(s[i]) {
			return false
		}
		if !isSymbolPart(s[i]) {
			return false
		}
	}
	if strings.HasPrefix(s, "nil") {
		return false
	}
	p := newParseState(s, 0)
	_, numeric := p.parseNumber()
	return !numeric
}
