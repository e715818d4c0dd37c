package sexp

import (
	"errors"
	"math/big"
	"reflect"
	"strings"
	"testing"
)

func TestNode_Decode(t *testing.T) {
	tests := []struct {
		s    string
		want interface{}
	}{
		{s: "nil", want: nil},
		{s: "()", want: nil},
		{s: "1", want: int64(1)},
		{s: "1 \t\f\t\r\n", want: int64(1)},
		{s: "1.123", want: 1.123},
		{s: "-1.23", want: -1.23},
		{s: "+1.23", want: 1.23},
		{s: ".45", want: 0.45},
		{s: "1.732e+5", want: 173200.0},
		{s: "abc", want: "abc"},
		{s: `"abcde"`, want: "abcde"},
		{s: "'abc", want: []interface{}{"abc"}},
		{s: "(1)", want: []interface{}{int64(1)}},
		{s: "(1 2)", want: []interface{}{int64(1), int64(2)}},
		{s: "(1 (2 3) 4)", want: []interface{}{int64(1), []interface{}{int64(2), int64(3)}, int64(4)}},
		{s: "(((1)))", want: []interface{}{[]interface{}{[]interface{}{int64(1)}}}},
		{s: `(1 'a "b" ())`, want: []interface{}{int64(1), []interface{}{"a"}, "b", nil}},
		{
			s: "(+ 1 2 (- 2 (* 3 4)))",
			want: []interface{}{"+", int64(1), int64(2),
				[]interface{}{"-", int64(2), []interface{}{"*", int64(3), int64(4)}}},
		},
		{
			s:    "(((1.0) 0.2) 3.4e+4)",
			want: []interface{}{[]interface{}{[]interface{}{1.0}, 0.2}, 34000.0},
		},
		{s: "(1 . 2)", want: []interface{}{int64(1), int64(2)}},
		{s: "(1 2 . 3)", want: []interface{}{int64(1), int64(2), int64(3)}},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			n, err := ParseOne(tt.s)
			if err != nil {
				t.Fatal(err)
			}
			if got := n.Decode(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Decode() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNode_DecodeBigInt(t *testing.T) {
	n, err := ParseOne("123456789012345678901234567890")
	if err != nil {
		t.Fatal(err)
	}
	b, ok := n.Decode().(*big.Int)
	if !ok {
		t.Fatalf("Decode() = %T, want *big.Int", n.Decode())
	}
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	if b.Cmp(want) != 0 {
		t.Errorf("Decode() = %v, want %v", b, want)
	}

	if _, err := n.Int(); err == nil {
		t.Error("Int() error = nil for an overflowing integer")
	}
	if got, err := n.BigInt(); err != nil || got.Cmp(want) != 0 {
		t.Errorf("BigInt() = %v, %v", got, err)
	}
}

func TestNode_Numbers(t *testing.T) {
	i, err := MustNumber("1.9").Int()
	if err != nil || i != 1 {
		t.Errorf("Int() of 1.9 = %v, %v", i, err)
	}
	f, err := MustNumber("-3").Float()
	if err != nil || f != -3 {
		t.Errorf("Float() of -3 = %v, %v", f, err)
	}
	if _, err := Symbol("a").Int(); !errors.Is(err, ErrNotNumber) {
		t.Errorf("Int() of a symbol error = %v", err)
	}
	if _, err := String("1").Float(); !errors.Is(err, ErrNotNumber) {
		t.Errorf("Float() of a string error = %v", err)
	}
	if _, err := MustNumber("1.5").BigInt(); !errors.Is(err, ErrNotNumber) {
		t.Errorf("BigInt() of a float error = %v", err)
	}
}

func TestNode_ToObject(t *testing.T) {
	n, err := ParseOne("((a . 1) (b))")
	if err != nil {
		t.Fatal(err)
	}
	if !n.IsAlist() {
		t.Fatal("IsAlist() = false")
	}
	got, err := n.ToObject()
	if err != nil {
		t.Fatal(err)
	}
	if want := map[string]interface{}{"a": int64(1), "b": nil}; !reflect.DeepEqual(got, want) {
		t.Errorf("ToObject() = %#v, want %#v", got, want)
	}

	n, err = ParseOne(`( (a . 1) (b . "xxx") (c 3 4) ("d" . "e") (a . 2) (1 . x) ((k) . v))`)
	if err != nil {
		t.Fatal(err)
	}
	got, err = n.ToObject()
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{
		"a":   int64(2),
		"b":   "xxx",
		"c":   []interface{}{int64(3), int64(4)},
		"d":   "e",
		"1":   "x",
		"(k)": "v",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToObject() = %#v, want %#v", got, want)
	}

	if Nil().IsAlist() {
		t.Error("IsAlist() of nil = true")
	}
	got, err = Nil().ToObject()
	if err != nil || len(got) != 0 {
		t.Errorf("ToObject() of nil = %v, %v", got, err)
	}
}

func TestNode_ToObjectNotAlist(t *testing.T) {
	for _, s := range []string{"((a . 1) b)", "((a . 1) ())", "(a . 1)", "abc", "'((a . 1))"} {
		t.Run(s, func(t *testing.T) {
			n, err := ParseOne(s)
			if err != nil {
				t.Fatal(err)
			}
			if n.IsAlist() {
				t.Error("IsAlist() = true")
			}
			_, err = n.ToObject()
			if !errors.Is(err, ErrNotAlist) {
				t.Fatalf("ToObject() error = %v, want ErrNotAlist", err)
			}
			var ferr *FormatError
			if !errors.As(err, &ferr) {
				t.Fatalf("ToObject() error = %T, want *FormatError", err)
			}
			if !strings.Contains(err.Error(), "alist form") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}
