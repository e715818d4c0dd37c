// Package lua converts between S-expression nodes and gopher-lua values and
// exposes the parser and encoder to Lua scripts as require("sexp").
package lua

import (
	"sort"

	sexp "github.com/alttpo/elsexp"
	glua "github.com/yuin/gopher-lua"
)

// ErrCycle is returned for a table that contains itself.
var ErrCycle = sexp.ErrCycle

// ToLua converts n as Node.Decode does: nil to nil, numbers to numbers,
// symbols and strings to strings, and every list shape to an array table.
// Nil elements leave holes in the array.
func ToLua(L *glua.LState, n *sexp.Node) glua.LValue {
	if n == nil {
		return glua.LNil
	}

	switch n.Kind {
	case sexp.KindNil:
		return glua.LNil
	case sexp.KindSymbol, sexp.KindString:
		return glua.LString(n.Atom)
	case sexp.KindInt:
		if i, err := n.Int(); err == nil {
			return glua.LNumber(i)
		}
		f, _ := n.Float()
		return glua.LNumber(f)
	case sexp.KindFloat:
		f, _ := n.Float()
		return glua.LNumber(f)
	case sexp.KindList:
		if len(n.List) == 0 {
			return glua.LNil
		}
		return array(L, n.List...)
	case sexp.KindCons:
		return array(L, n.Car, n.Cdr)
	case sexp.KindListDot:
		t := array(L, n.List...)
		t.RawSetInt(len(n.List)+1, ToLua(L, n.Cdr))
		return t
	case sexp.KindQuoted:
		return array(L, n.Car)
	}

	return glua.LNil
}

func array(L *glua.LState, children ...*sexp.Node) *glua.LTable {
	t := L.CreateTable(len(children), 0)
	for i, c := range children {
		t.RawSetInt(i+1, ToLua(L, c))
	}
	return t
}

// FromLua converts a Lua value as Encoder.Node converts a Go value. Tables
// whose keys are exactly 1..n become lists; any other table becomes an
// alist ordered by the text of its keys. Userdata holding a *sexp.Node
// passes through.
func FromLua(v glua.LValue, e sexp.Encoder) (*sexp.Node, error) {
	c := converter{Encoder: e, seen: make(map[*glua.LTable]bool)}
	return c.convert(v)
}

type converter struct {
	sexp.Encoder
	seen map[*glua.LTable]bool
}

func (c converter) convert(v glua.LValue) (*sexp.Node, error) {
	switch x := v.(type) {
	case *glua.LNilType:
		return sexp.Nil(), nil
	case glua.LBool:
		return c.Node(bool(x))
	case glua.LNumber:
		return c.Node(float64(x))
	case glua.LString:
		return sexp.String(string(x)), nil
	case *glua.LTable:
		return c.table(x)
	case *glua.LUserData:
		if n, ok := x.Value.(*sexp.Node); ok {
			return n, nil
		}
		return c.Unknown(x)
	}

	return c.Unknown(v)
}

func (c converter) table(t *glua.LTable) (*sexp.Node, error) {
	if c.seen[t] {
		return nil, &sexp.EncodeError{Err: ErrCycle, Value: t}
	}
	c.seen[t] = true
	defer delete(c.seen, t)

	keys := 0
	t.ForEach(func(glua.LValue, glua.LValue) { keys++ })

	if n := t.MaxN(); n == keys {
		children := make([]*sexp.Node, 0, n)
		for i := 1; i <= n; i++ {
			child, err := c.convert(t.RawGetInt(i))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return sexp.List(children...), nil
	}

	type entry struct {
		key  string
		cons *sexp.Node
	}
	var entries []entry
	var err error
	t.ForEach(func(k, v glua.LValue) {
		if err != nil {
			return
		}
		var kn, vn *sexp.Node
		if kn, err = c.convert(k); err != nil {
			return
		}
		if vn, err = c.convert(v); err != nil {
			return
		}
		entries = append(entries, entry{key: kn.String(), cons: sexp.Cons(kn, vn)})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})
	children := make([]*sexp.Node, 0, len(entries))
	for _, en := range entries {
		children = append(children, en.cons)
	}
	return sexp.List(children...), nil
}
