package sexp

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type Parser struct {
	// MaxDepth limits how deeply lists and quotes may nest. Zero means no
	// limit.
	MaxDepth int
}

var DefaultParser = Parser{}

// Parse reads every whitespace-separated S-expression in text.
func Parse(text string) ([]*Node, error) {
	return DefaultParser.Parse(text)
}

// ParseOne reads text and returns its first S-expression. The rest of text
// must still be well-formed.
func ParseOne(text string) (*Node, error) {
	return DefaultParser.ParseOne(text)
}

func (e Parser) ParseOne(text string) (n *Node, err error) {
	var nodes []*Node
	nodes, err = e.Parse(text)
	if err != nil {
		return
	}
	n = nodes[0]
	return
}

func (e Parser) Parse(text string) (nodes []*Node, err error) {
	p := newParseState(text, e.MaxDepth)

	p.skipSpace()
	var ok bool
	nodes, ok = p.parseExprs()
	if ok {
		p.skipSpace()
		if p.pos == len(p.input) {
			return nodes, nil
		}
		p.fail("end of input")
	}

	return nil, p.syntaxError()
}

type exprsResult struct {
	nodes []*Node
	end   int
	ok    bool
}

// parseState is the working state of one Parse call. Failed rules restore
// pos and record what they expected in the furthest-failure set.
type parseState struct {
	input    string
	pos      int
	depth    int
	maxDepth int

	maxFailPos  int
	maxExpected []string
	message     string

	// cons and list alternatives both read the elements after "(" from the
	// same position; remember the result instead of parsing twice.
	exprsMemo map[int]exprsResult
}

func newParseState(input string, maxDepth int) *parseState {
	return &parseState{
		input:     input,
		maxDepth:  maxDepth,
		exprsMemo: make(map[int]exprsResult),
	}
}

func (p *parseState) fail(expected string) {
	if p.message != "" || p.pos < p.maxFailPos {
		return
	}
	if p.pos > p.maxFailPos {
		p.maxFailPos = p.pos
		p.maxExpected = p.maxExpected[:0]
	}
	p.maxExpected = append(p.maxExpected, expected)
}

func (p *parseState) syntaxError() *SyntaxError {
	expected := append([]string(nil), p.maxExpected...)
	sort.Strings(expected)
	expected = dedup(expected)

	var found string
	if p.maxFailPos < len(p.input) {
		r, _ := utf8.DecodeRuneInString(p.input[p.maxFailPos:])
		found = string(r)
	}

	line, column := position(p.input, p.maxFailPos)

	message := p.message
	if message == "" {
		message = expectedMessage(expected, found)
	}

	return &SyntaxError{
		Message:  message,
		Expected: expected,
		Found:    found,
		Offset:   p.maxFailPos,
		Line:     line,
		Column:   column,
	}
}

func dedup(s []string) []string {
	if len(s) < 2 {
		return s
	}
	out := s[:1]
	for _, v := range s[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// position converts a byte offset to a 1-based line and column. "\r\n",
// "\n", "\r", U+2028 and U+2029 each end a line.
func position(input string, offset int) (line, column int) {
	line, column = 1, 1
	seenCR := false
	for _, r := range input[:offset] {
		switch r {
		case '\n':
			if !seenCR {
				line++
			}
			column = 1
			seenCR = false
		case '\r', '\u2028', '\u2029':
			line++
			column = 1
			seenCR = true
		default:
			column++
			seenCR = false
		}
	}
	return
}

func (p *parseState) peek() (c byte, ok bool) {
	if p.pos >= len(p.input) {
		return 0, false
	}
	return p.input[p.pos], true
}

func (p *parseState) literal(s string) bool {
	if strings.HasPrefix(p.input[p.pos:], s) {
		p.pos += len(s)
		return true
	}
	p.fail(strconv.Quote(s))
	return false
}

func (p *parseState) class(description string, match func(byte) bool) bool {
	if c, ok := p.peek(); ok && match(c) {
		p.pos++
		return true
	}
	p.fail(description)
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\n' || c == '\r' || c == '\f'
}

func (p *parseState) space() bool {
	return p.class("whitespace", isSpace)
}

// skipSpace consumes zero or more whitespace characters.
func (p *parseState) skipSpace() {
	for p.space() {
	}
}

// requireSpace consumes one or more whitespace characters.
func (p *parseState) requireSpace() bool {
	if !p.space() {
		return false
	}
	p.skipSpace()
	return true
}

// parseExprs reads Expr (Ws+ Expr)*.
func (p *parseState) parseExprs() (nodes []*Node, ok bool) {
	start := p.pos
	if m, hit := p.exprsMemo[start]; hit {
		p.pos = m.end
		return m.nodes, m.ok
	}

	var n *Node
	if n, ok = p.parseExpr(); ok {
		nodes = append(nodes, n)
		for {
			mark := p.pos
			if !p.requireSpace() {
				break
			}
			if n, ok = p.parseExpr(); !ok {
				p.pos = mark
				break
			}
			nodes = append(nodes, n)
		}
		ok = true
	} else {
		p.pos = start
	}

	p.exprsMemo[start] = exprsResult{nodes: nodes, end: p.pos, ok: ok}
	return
}

// parseExpr tries each alternative in order; the first to match wins.
func (p *parseState) parseExpr() (n *Node, ok bool) {
	if n, ok = p.parseNil(); ok {
		return
	}
	if n, ok = p.parseNumber(); ok {
		return
	}
	if n, ok = p.parseCons(); ok {
		return
	}
	if n, ok = p.parseSymbol(); ok {
		return
	}
	if n, ok = p.parseString(); ok {
		return
	}
	if n, ok = p.parseList(); ok {
		return
	}
	return p.parseQuoted()
}

// parseNil reads "nil" or "(" Ws* ")".
func (p *parseState) parseNil() (n *Node, ok bool) {
	if p.literal("nil") {
		return Nil(), true
	}

	start := p.pos
	if p.literal("(") {
		p.skipSpace()
		if p.literal(")") {
			return Nil(), true
		}
	}
	p.pos = start
	return nil, false
}

// enter descends one nesting level for the form starting at start.
func (p *parseState) enter(start int) bool {
	if p.maxDepth > 0 && p.depth >= p.maxDepth {
		if p.message == "" {
			p.message = "maximum nesting depth exceeded"
			p.maxFailPos = start
			p.maxExpected = nil
		}
		return false
	}
	p.depth++
	return true
}

func (p *parseState) leave() {
	p.depth--
}

// parseCons reads "(" Ws* Exprs Ws+ "." Ws+ Expr Ws* ")". A single head
// element makes a cons; more make a dotted list.
func (p *parseState) parseCons() (n *Node, ok bool) {
	start := p.pos
	if !p.literal("(") {
		return nil, false
	}
	if !p.enter(start) {
		p.pos = start
		return nil, false
	}
	defer p.leave()

	p.skipSpace()
	var head []*Node
	if head, ok = p.parseExprs(); !ok {
		p.pos = start
		return nil, false
	}
	if !p.requireSpace() || !p.literal(".") || !p.requireSpace() {
		p.pos = start
		return nil, false
	}

	var tail *Node
	if tail, ok = p.parseExpr(); !ok {
		p.pos = start
		return nil, false
	}
	p.skipSpace()
	if !p.literal(")") {
		p.pos = start
		return nil, false
	}

	return ListDot(copyNodes(head), tail), true
}

// parseList reads "(" Ws* Exprs Ws* ")".
func (p *parseState) parseList() (n *Node, ok bool) {
	start := p.pos
	if !p.literal("(") {
		return nil, false
	}
	if !p.enter(start) {
		p.pos = start
		return nil, false
	}
	defer p.leave()

	p.skipSpace()
	var elements []*Node
	if elements, ok = p.parseExprs(); !ok {
		p.pos = start
		return nil, false
	}
	p.skipSpace()
	if !p.literal(")") {
		p.pos = start
		return nil, false
	}

	return List(copyNodes(elements)...), true
}

// parseQuoted reads "'" Expr.
func (p *parseState) parseQuoted() (n *Node, ok bool) {
	start := p.pos
	if !p.literal("'") {
		return nil, false
	}
	if !p.enter(start) {
		p.pos = start
		return nil, false
	}
	defer p.leave()

	var inner *Node
	if inner, ok = p.parseExpr(); !ok {
		p.pos = start
		return nil, false
	}
	return Quote(inner), true
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNonZeroDigit(c byte) bool {
	return c >= '1' && c <= '9'
}

func isGraphic(c byte) bool {
	return c == '-' ||
		c == '.' ||
		c == '/' ||
		c == '_' ||
		c == ':' ||
		c == '*' ||
		c == '+' ||
		c == '='
}

func isSymbolStart(c byte) bool {
	return isAlpha(c) || isGraphic(c)
}

func isSymbolPart(c byte) bool {
	return isSymbolStart(c) || isDigit(c)
}

func isSign(c byte) bool {
	return c == '+' || c == '-'
}

func isExponentIndicator(c byte) bool {
	return c == 'e' || c == 'E'
}

// parseSymbol reads !"." SymbolStart SymbolPart*.
func (p *parseState) parseSymbol() (n *Node, ok bool) {
	if c, ok := p.peek(); ok && c == '.' {
		return nil, false
	}

	start := p.pos
	if !p.class("[a-z\\-./_:*+=]i", isSymbolStart) {
		return nil, false
	}
	for p.class("[a-z\\-./_:*+=0-9]i", isSymbolPart) {
	}

	return &Node{Kind: KindSymbol, Atom: p.input[start:p.pos]}, true
}

// parseString reads '"' ([^"\\] | "\\" any)* '"'.
func (p *parseState) parseString() (n *Node, ok bool) {
	start := p.pos
	if !p.literal(`"`) {
		return nil, false
	}

	escaped := false
	for {
		c, more := p.peek()
		if !more {
			p.fail(`[^"\\]`)
			p.fail(`"\\"`)
			p.fail(`"\""`)
			p.pos = start
			return nil, false
		}
		if c == '"' {
			p.fail(`[^"\\]`)
			p.fail(`"\\"`)
			break
		}
		if c == '\\' {
			if p.pos+1 >= len(p.input) {
				p.pos++
				p.fail("any character")
				p.pos = start
				return nil, false
			}
			escaped = true
			_, size := utf8.DecodeRuneInString(p.input[p.pos+1:])
			p.pos += 1 + size
			continue
		}
		p.pos++
	}

	raw := p.input[start+1 : p.pos]
	p.pos++

	if escaped {
		raw = unescape(raw)
	}
	return &Node{Kind: KindString, Atom: raw}, true
}

func unescape(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}

		i++
		switch c = raw[i]; c {
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'u':
			r, size := unescapeUnicode(raw[i+1:])
			if size == 0 {
				sb.WriteByte('u')
				continue
			}
			sb.WriteRune(r)
			i += size
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// unescapeUnicode decodes the XXXX of a \uXXXX escape, joining a following
// \uXXXX low surrogate when present. size is the number of bytes consumed.
func unescapeUnicode(s string) (r rune, size int) {
	r, ok := hex4(s)
	if !ok {
		return 0, 0
	}
	size = 4
	if utf16.IsSurrogate(r) && len(s) >= 10 && s[4] == '\\' && s[5] == 'u' {
		if r2, ok := hex4(s[6:]); ok {
			if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
				return dec, 10
			}
		}
	}
	return r, size
}

func hex4(s string) (rune, bool) {
	if len(s) < 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// parseNumber reads
//
//	[+-]? IntLit "." Digits? Exp?   float
//	[+-]? "." Digits Exp?           float
//	[+-]? IntLit Exp?               int, or float with an exponent
func (p *parseState) parseNumber() (n *Node, ok bool) {
	start := p.pos

	p.optionalSign()
	if p.intLiteral() && p.literal(".") {
		p.digits()
		p.exponent()
		return p.number(start, KindFloat), true
	}

	p.pos = start
	p.optionalSign()
	if p.literal(".") && p.digits() {
		p.exponent()
		return p.number(start, KindFloat), true
	}

	p.pos = start
	p.optionalSign()
	if p.intLiteral() {
		if p.exponent() {
			return p.number(start, KindFloat), true
		}
		return p.number(start, KindInt), true
	}

	p.pos = start
	return nil, false
}

func (p *parseState) number(start int, kind Kind) *Node {
	return &Node{Kind: kind, Atom: p.input[start:p.pos]}
}

func (p *parseState) optionalSign() {
	p.class("[+\\-]", isSign)
}

// intLiteral reads "0" | [1-9][0-9]*.
func (p *parseState) intLiteral() bool {
	if p.literal("0") {
		return true
	}
	if !p.class("[1-9]", isNonZeroDigit) {
		return false
	}
	p.digits()
	return true
}

// digits reads [0-9]+.
func (p *parseState) digits() bool {
	if !p.class("[0-9]", isDigit) {
		return false
	}
	for p.class("[0-9]", isDigit) {
	}
	return true
}

// exponent reads [eE] [+-]? Digits, consuming nothing unless it all matches.
func (p *parseState) exponent() bool {
	start := p.pos
	if !p.class("[eE]", isExponentIndicator) {
		return false
	}
	p.optionalSign()
	if !p.digits() {
		p.pos = start
		return false
	}
	return true
}
