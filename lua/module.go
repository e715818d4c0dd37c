package lua

import (
	sexp "github.com/alttpo/elsexp"
	glua "github.com/yuin/gopher-lua"
)

const nodeTypeName = "sexp.node"

// Preload makes the module available to scripts as require("sexp").
func Preload(L *glua.LState) {
	L.PreloadModule("sexp", Loader)
}

// Loader builds the sexp module table. Functions that can fail return
// nil and an error message instead of raising.
func Loader(L *glua.LState) int {
	mt := L.NewTypeMetatable(nodeTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(nodeToString))

	mod := L.SetFuncs(L.NewTable(), map[string]glua.LGFunction{
		"parse":       parse,
		"parse1":      parseOne,
		"read":        read,
		"decode":      decode,
		"encode":      encode,
		"encode_many": encodeMany,
		"format":      format,
	})
	L.Push(mod)
	return 1
}

func fail(L *glua.LState, err error) int {
	L.Push(glua.LNil)
	L.Push(glua.LString(err.Error()))
	return 2
}

// parse(text) returns an array of every decoded expression in text.
func parse(L *glua.LState) int {
	nodes, err := sexp.Parse(L.CheckString(1))
	if err != nil {
		return fail(L, err)
	}
	L.Push(array(L, nodes...))
	return 1
}

// parse1(text) returns the single decoded expression in text.
func parseOne(L *glua.LState) int {
	n, err := sexp.ParseOne(L.CheckString(1))
	if err != nil {
		return fail(L, err)
	}
	L.Push(ToLua(L, n))
	return 1
}

// read(text) returns the parsed expression as an opaque node that encode
// emits unchanged.
func read(L *glua.LState) int {
	n, err := sexp.ParseOne(L.CheckString(1))
	if err != nil {
		return fail(L, err)
	}
	L.Push(newNode(L, n))
	return 1
}

// decode(node) converts a node from read into plain Lua values.
func decode(L *glua.LState) int {
	L.Push(ToLua(L, checkNode(L, 1)))
	return 1
}

// encode(v[, strict]) returns the canonical text of v.
func encode(L *glua.LState) int {
	e := sexp.Encoder{Strict: L.OptBool(2, false)}
	n, err := FromLua(L.CheckAny(1), e)
	if err != nil {
		return fail(L, err)
	}
	L.Push(glua.LString(n.String()))
	return 1
}

// encode_many(values[, sep[, strict]]) encodes each array element and joins
// the results with sep.
func encodeMany(L *glua.LState) int {
	tb := L.CheckTable(1)
	sep := L.OptString(2, " ")
	e := sexp.Encoder{Strict: L.OptBool(3, false)}

	vs := make([]interface{}, 0, tb.MaxN())
	for i := 1; i <= tb.MaxN(); i++ {
		n, err := FromLua(tb.RawGetInt(i), e)
		if err != nil {
			return fail(L, err)
		}
		vs = append(vs, n)
	}

	s, err := e.EncodeMany(vs, sep)
	if err != nil {
		return fail(L, err)
	}
	L.Push(glua.LString(s))
	return 1
}

// format(text) reparses text and returns it in canonical form, one
// expression per line.
func format(L *glua.LState) int {
	nodes, err := sexp.Parse(L.CheckString(1))
	if err != nil {
		return fail(L, err)
	}
	vs := make([]interface{}, len(nodes))
	for i, n := range nodes {
		vs[i] = n
	}
	s, err := sexp.EncodeMany(vs, "\n", true)
	if err != nil {
		return fail(L, err)
	}
	L.Push(glua.LString(s))
	return 1
}

func newNode(L *glua.LState, n *sexp.Node) *glua.LUserData {
	ud := L.NewUserData()
	ud.Value = n
	L.SetMetatable(ud, L.GetTypeMetatable(nodeTypeName))
	return ud
}

func checkNode(L *glua.LState, i int) *sexp.Node {
	ud := L.CheckUserData(i)
	if n, ok := ud.Value.(*sexp.Node); ok {
		return n
	}
	L.ArgError(i, "sexp.node expected")
	return nil
}

func nodeToString(L *glua.LState) int {
	L.Push(glua.LString(checkNode(L, 1).String()))
	return 1
}
