package sexp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNaN             = errors.New("NaN")
	ErrInfinite        = errors.New("Infinite")
	ErrUnknownType     = errors.New("Unknown object type")
	ErrUnsupportedType = errors.New("unsupported value type")
	ErrNotAlist        = errors.New("not alist form")
	ErrNotNumber       = errors.New("not a number")
	ErrInvalidSymbol   = errors.New("invalid symbol name")
	ErrCycle           = errors.New("value contains itself")
)

// SyntaxError describes input text that is not a sequence of
// S-expressions. Expected holds the sorted descriptions of every token
// that would have been accepted at Offset; Found is the character found
// there, or empty at end of input.
type SyntaxError struct {
	Message  string
	Expected []string
	Found    string
	Offset   int
	Line     int
	Column   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("sexp: line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// AtEOF reports whether the parse failed because the input ended early.
func (e *SyntaxError) AtEOF() bool {
	return e.Found == ""
}

// EncodeError reports a value that has no S-expression form in strict mode.
type EncodeError struct {
	Err   error
	Value interface{}
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("sexp: cannot encode %T: %v", e.Value, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// FormatError reports a well-formed node that does not have the shape a
// caller asked for.
type FormatError struct {
	Err    error
	Node   *Node
	Parent *Node
}

func (e *FormatError) Error() string {
	if e.Parent == nil {
		return fmt.Sprintf("sexp: %q is %v", e.Node.String(), e.Err)
	}
	return fmt.Sprintf("sexp: %q is %v in [%s]", e.Node.String(), e.Err, e.Parent.String())
}

func (e *FormatError) Unwrap() error { return e.Err }

func expectedMessage(expected []string, found string) string {
	var sb strings.Builder

	sb.WriteString("Expected ")
	switch len(expected) {
	case 0:
		sb.WriteString("nothing")
	case 1:
		sb.WriteString(expected[0])
	default:
		sb.WriteString(strings.Join(expected[:len(expected)-1], ", "))
		sb.WriteString(" or ")
		sb.WriteString(expected[len(expected)-1])
	}

	sb.WriteString(" but ")
	if found == "" {
		sb.WriteString("end of input")
	} else {
		sb.WriteString(strconv.Quote(found))
	}
	sb.WriteString(" found.")

	return sb.String()
}
