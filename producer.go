package sexp

import (
	"math/big"
	"strconv"
	"strings"
)

func Nil() *Node {
	return &Node{Kind: KindNil}
}

// Symbol returns a symbol node without checking that name reads back as a
// symbol. Use NewSymbol for names from untrusted input.
func Symbol(name string) *Node {
	return &Node{Kind: KindSymbol, Atom: name}
}

func NewSymbol(name string) (n *Node, err error) {
	if !symbolName(name) {
		return nil, ErrInvalidSymbol
	}
	return Symbol(name), nil
}

func MustSymbol(name string) (n *Node) {
	var err error
	n, err = NewSymbol(name)
	if err != nil {
		panic(err)
	}
	return
}

// String returns a string atom holding s unescaped.
func String(s string) *Node {
	return &Node{Kind: KindString, Atom: s}
}

func Int(i int64) *Node {
	return &Node{Kind: KindInt, Atom: strconv.FormatInt(i, 10)}
}

func BigInt(i *big.Int) *Node {
	return &Node{Kind: KindInt, Atom: i.String()}
}

// Float returns a float atom for a finite f. The text always carries a
// decimal point or an exponent so it reads back as a float.
func Float(f float64) *Node {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return &Node{Kind: KindFloat, Atom: s}
}

// NewNumber classifies a numeric literal the way the parser does. The whole
// of raw must be a single literal.
func NewNumber(raw string) (n *Node, err error) {
	p := newParseState(raw, 0)
	var ok bool
	n, ok = p.parseNumber()
	if !ok || p.pos != len(raw) {
		return nil, ErrNotNumber
	}
	return
}

func MustNumber(raw string) (n *Node) {
	var err error
	n, err = NewNumber(raw)
	if err != nil {
		panic(err)
	}
	return
}

func List(children ...*Node) *Node {
	if children == nil {
		children = make([]*Node, 0, 0)
	}
	return &Node{Kind: KindList, List: children}
}

func Cons(car, cdr *Node) *Node {
	return &Node{Kind: KindCons, Car: car, Cdr: cdr}
}

// ListDot returns the improper list (head... . tail). A single head element
// gives a cons and an empty head gives tail itself, so the result always
// prints as readable text.
func ListDot(head []*Node, tail *Node) *Node {
	switch len(head) {
	case 0:
		return tail
	case 1:
		return Cons(head[0], tail)
	}
	return &Node{Kind: KindListDot, List: head, Cdr: tail}
}

func Quote(n *Node) *Node {
	return &Node{Kind: KindQuoted, Car: n}
}
