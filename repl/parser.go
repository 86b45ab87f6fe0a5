package skink

import (
	"fmt"
	"io"
	"strconv"
)

// The grammar runs in two modes. Code mode recognizes special forms
// and tracks tail positions; data mode (everything from `quote`
// inward) parses pure structure and never re-enters code mode. Tail
// positions are threaded through the recursive parse functions as a
// bool: a form's body-final slot is the only place the bool is set,
// so `recur` and the tail-flagged shapes can only ever be produced
// there.
type Parser struct {
	lexer *Lexer
	env   *Skink
}

func (env *Skink) NewParser() *Parser {
	return &Parser{
		lexer: NewLexer(),
		env:   env,
	}
}

const SliceDefaultCap = 10

// SyntaxError is the only recoverable parse failure: no grammar
// production matched at the reported line. A parse either yields a
// complete AST or one of these; there is no partial success.
type SyntaxError struct {
	Line int
	What string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error on line %d: %s", e.Line, e.What)
}

// ContractViolation is a programmer error, not a user input error:
// the parser was invoked before its required setup was complete.
// It is delivered by panic and must not be caught and retried.
type ContractViolation struct {
	What string
}

func (c ContractViolation) Error() string {
	return "contract violation: " + c.What
}

func (parser *Parser) Errorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Line: parser.lexer.Linenum(),
		What: fmt.Sprintf(format, args...),
	}
}

func (parser *Parser) checkInterner() {
	if parser.env == nil || !parser.env.InternerValid() {
		panic(ContractViolation{
			What: "parse attempted before the symbol interner was initialized",
		})
	}
}

// Parse is the top-level driver: it reads one or more top-level
// forms from the stream in code mode and returns them in order. At
// least one form is required.
func (parser *Parser) Parse(stream io.RuneScanner) ([]Sexp, error) {
	parser.checkInterner()
	parser.lexer.Reset(stream)

	expressions := make([]Sexp, 0, SliceDefaultCap)
	for {
		expr, err := parser.ParseExpression(0, false)
		if err != nil {
			return nil, err
		}
		if expr == SexpEnd {
			break
		}
		expressions = append(expressions, expr)
	}

	if len(expressions) == 0 {
		return nil, parser.Errorf("no expressions found")
	}
	return expressions, nil
}

// ParseDatum reads exactly one datum in data mode.
func (parser *Parser) ParseDatum(stream io.RuneScanner) (Sexp, error) {
	parser.checkInterner()
	parser.lexer.Reset(stream)
	return parser.ParseData(0)
}

func (parser *Parser) nextToken() (Token, error) {
	tok, err := parser.lexer.GetNextToken()
	if err != nil {
		return EndTk, parser.Errorf("%s", err)
	}
	return tok, nil
}

func (parser *Parser) peekToken() (Token, error) {
	tok, err := parser.lexer.PeekNextToken()
	if err != nil {
		return EndTk, parser.Errorf("%s", err)
	}
	return tok, nil
}

// ParseExpression parses one code-mode item. tail reports whether
// this item sits in the body-final slot of an enclosing form, i.e.
// whether the tail-position rule applies here.
func (parser *Parser) ParseExpression(depth int, tail bool) (Sexp, error) {
	env := parser.env

	tok, err := parser.nextToken()
	if err != nil {
		return SexpEnd, err
	}

	switch tok.typ {
	case TokenLParen:
		return parser.ParseForm(depth+1, tail)
	case TokenQuote:
		inner, err := parser.ParseData(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		return &SexpQuote{Inner: inner}, nil
	case TokenSymbol:
		return env.MakeSymbol(tok.str), nil
	case TokenTrue:
		return SexpBool(true), nil
	case TokenFalse:
		return SexpBool(false), nil
	case TokenDecimal:
		i, err := strconv.ParseInt(tok.str, 10, SexpIntSize)
		if err != nil {
			return SexpNull, parser.Errorf("%s", err)
		}
		return SexpInt(i), nil
	case TokenChar:
		return SexpChar(StringToRunes(tok.str)[0]), nil
	case TokenString:
		decoded, err := UnescapeString(tok.str)
		if err != nil {
			return SexpNull, parser.Errorf("%s", err)
		}
		return SexpStr(decoded), nil
	case TokenRParen:
		return SexpNull, parser.Errorf("unexpected )")
	case TokenDot:
		return SexpNull, parser.Errorf("unexpected .")
	case TokenEnd:
		if depth == 0 {
			return SexpEnd, nil
		}
		return SexpNull, parser.Errorf("unexpected end of input")
	}

	if tok.IsKeyword() {
		// a keyword is reserved only as the head of a form;
		// standalone it denotes the symbol itself
		return env.MakeSymbol(tok.str), nil
	}

	return SexpNull, parser.Errorf("didn't know what to do with %v", tok)
}

// ParseForm runs right after an opening paren in code mode. One
// token of lookahead decides between a special form and a generic
// list.
func (parser *Parser) ParseForm(depth int, tail bool) (Sexp, error) {
	tok, err := parser.peekToken()
	if err != nil {
		return SexpNull, err
	}

	if tok.IsKeyword() {
		_, _ = parser.lexer.GetNextToken()
		switch tok.typ {
		case TokenBegin:
			return parser.ParseBegin(depth, tail)
		case TokenDefine:
			return parser.ParseDefine(depth)
		case TokenIf:
			return parser.ParseIf(depth, tail)
		case TokenLet:
			return parser.ParseLet(depth, tail)
		case TokenLoop:
			return parser.ParseLoop(depth)
		case TokenLambda:
			return parser.ParseLambda(depth)
		case TokenRecur:
			return parser.ParseRecur(depth, tail)
		case TokenQuoteKeyword:
			return parser.ParseQuoteForm(depth)
		}
	}

	return parser.ParseList(depth)
}

// ParseList parses the remainder of a generic (non-special-form)
// list or dotted pair, elements in code mode, none of them in tail
// position. The opening paren has already been consumed.
func (parser *Parser) ParseList(depth int) (Sexp, error) {
	tok, err := parser.peekToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ == TokenEnd {
		return SexpNull, parser.Errorf("unexpected end of input")
	}

	if tok.typ == TokenRParen {
		_, _ = parser.lexer.GetNextToken()
		return SexpNull, nil
	}

	var start SexpPair

	expr, err := parser.ParseExpression(depth+1, false)
	if err != nil {
		return SexpNull, err
	}
	start.Head = expr

	tok, err = parser.peekToken()
	if err != nil {
		return SexpNull, err
	}

	if tok.typ == TokenDot {
		// eat up the dot
		_, _ = parser.lexer.GetNextToken()
		expr, err = parser.ParseExpression(depth+1, false)
		if err != nil {
			return SexpNull, err
		}

		// make sure the pair actually ends here
		tok, err = parser.nextToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ != TokenRParen {
			return SexpNull, parser.Errorf("extra value in dotted pair")
		}
		start.Tail = expr
		return start, nil
	}

	expr, err = parser.ParseList(depth + 1)
	if err != nil {
		return start, err
	}
	start.Tail = expr

	return start, nil
}

// ParseData parses one datum. Everything is inert structure here:
// special form keywords are ordinary symbols, quoting builds a
// plain two-element list, and there is no way back to code mode.
func (parser *Parser) ParseData(depth int) (Sexp, error) {
	env := parser.env

	tok, err := parser.nextToken()
	if err != nil {
		return SexpEnd, err
	}

	switch tok.typ {
	case TokenLParen:
		return parser.ParseDataList(depth + 1)
	case TokenQuote:
		inner, err := parser.ParseData(depth + 1)
		if err != nil {
			return SexpNull, err
		}
		return MakeList([]Sexp{env.MakeSymbol("quote"), inner}), nil
	case TokenSymbol:
		return env.MakeSymbol(tok.str), nil
	case TokenTrue:
		return SexpBool(true), nil
	case TokenFalse:
		return SexpBool(false), nil
	case TokenDecimal:
		i, err := strconv.ParseInt(tok.str, 10, SexpIntSize)
		if err != nil {
			return SexpNull, parser.Errorf("%s", err)
		}
		return SexpInt(i), nil
	case TokenChar:
		return SexpChar(StringToRunes(tok.str)[0]), nil
	case TokenString:
		decoded, err := UnescapeString(tok.str)
		if err != nil {
			return SexpNull, parser.Errorf("%s", err)
		}
		return SexpStr(decoded), nil
	case TokenRParen:
		return SexpNull, parser.Errorf("unexpected )")
	case TokenDot:
		return SexpNull, parser.Errorf("unexpected .")
	case TokenEnd:
		return SexpNull, parser.Errorf("unexpected end of input")
	}

	if tok.IsKeyword() {
		return env.MakeSymbol(tok.str), nil
	}

	return SexpNull, parser.Errorf("didn't know what to do with %v", tok)
}

// ParseDataList mirrors ParseList in data mode.
func (parser *Parser) ParseDataList(depth int) (Sexp, error) {
	tok, err := parser.peekToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ == TokenEnd {
		return SexpNull, parser.Errorf("unexpected end of input")
	}

	if tok.typ == TokenRParen {
		_, _ = parser.lexer.GetNextToken()
		return SexpNull, nil
	}

	var start SexpPair

	expr, err := parser.ParseData(depth + 1)
	if err != nil {
		return SexpNull, err
	}
	start.Head = expr

	tok, err = parser.peekToken()
	if err != nil {
		return SexpNull, err
	}

	if tok.typ == TokenDot {
		_, _ = parser.lexer.GetNextToken()
		expr, err = parser.ParseData(depth + 1)
		if err != nil {
			return SexpNull, err
		}

		tok, err = parser.nextToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ != TokenRParen {
			return SexpNull, parser.Errorf("extra value in dotted pair")
		}
		start.Tail = expr
		return start, nil
	}

	expr, err = parser.ParseDataList(depth + 1)
	if err != nil {
		return start, err
	}
	start.Tail = expr

	return start, nil
}

// tailRecurs reports whether expr holds a recur reachable through
// tail slots only: recur itself, either arm of an if, the last
// element of a re-listed tail begin, or the last body expression of
// a let. lambda and loop bind their own recur target, so the walk
// never descends into them.
func tailRecurs(env *Skink, expr Sexp) bool {
	switch e := expr.(type) {
	case *SexpRecur:
		return true
	case *SexpIf:
		return tailRecurs(env, e.Then) || tailRecurs(env, e.Else)
	case *SexpLet:
		if n := len(e.Body); n > 0 {
			return tailRecurs(env, e.Body[n-1])
		}
	case SexpPair:
		head, isSym := e.Head.(SexpSymbol)
		if isSym && head.number == env.MakeSymbol("begin").number {
			arr, err := ListToArray(e)
			if err == nil && len(arr) > 1 {
				return tailRecurs(env, arr[len(arr)-1])
			}
		}
	}
	return false
}

// ParseCodeSequence parses expressions up to and including the
// closing paren. Every element is offered the sequence's tail flag,
// since the final element is only known once the paren shows up; an
// element that spent its tail privilege (produced a tail recur) and
// then turns out not to be last fails the parse, which is exactly
// the positional restriction the grammar demands.
func (parser *Parser) ParseCodeSequence(depth int, tail bool) ([]Sexp, error) {
	body := make([]Sexp, 0, SliceDefaultCap)

	for {
		tok, err := parser.peekToken()
		if err != nil {
			return nil, err
		}
		if tok.typ == TokenEnd {
			return nil, parser.Errorf("unexpected end of input")
		}
		if tok.typ == TokenRParen {
			_, _ = parser.lexer.GetNextToken()
			return body, nil
		}

		if n := len(body); n > 0 && tailRecurs(parser.env, body[n-1]) {
			return nil, parser.Errorf("recur is only legal in tail position")
		}

		expr, err := parser.ParseExpression(depth, tail)
		if err != nil {
			return nil, err
		}
		body = append(body, expr)
	}
}

// ParseBegin handles (begin e1 ... en), empty sequence permitted.
// In tail position the whole form is re-synthesized as a plain list
// headed by the interned begin symbol, with en parsed by the tail
// rule; the evaluator treats the two shapes identically.
func (parser *Parser) ParseBegin(depth int, tail bool) (Sexp, error) {
	exprs, err := parser.ParseCodeSequence(depth+1, tail)
	if err != nil {
		return SexpNull, err
	}

	if !tail {
		return &SexpBegin{Exprs: exprs}, nil
	}

	relist := make([]Sexp, 0, len(exprs)+1)
	relist = append(relist, parser.env.MakeSymbol("begin"))
	relist = append(relist, exprs...)
	return MakeList(relist), nil
}

// ParseDefine handles (define name expr). Keyword-shaped names are
// fine; keywords are only reserved as form heads.
func (parser *Parser) ParseDefine(depth int) (Sexp, error) {
	tok, err := parser.nextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ != TokenSymbol && !tok.IsKeyword() {
		return SexpNull, parser.Errorf("define name must be a symbol")
	}
	name := parser.env.MakeSymbol(tok.str)

	expr, err := parser.ParseExpression(depth+1, false)
	if err != nil {
		return SexpNull, err
	}

	tok, err = parser.nextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ != TokenRParen {
		return SexpNull, parser.Errorf("define takes exactly two arguments")
	}

	return &SexpDefine{Name: name, Expr: expr}, nil
}

// ParseIf handles (if cond then else): exactly three sub-items, no
// one- or two-armed form. Both arms inherit the form's tail flag;
// only recur legality differs between the variants, never the
// semantics.
func (parser *Parser) ParseIf(depth int, tail bool) (Sexp, error) {
	parts := make([]Sexp, 3)
	flags := [3]bool{false, tail, tail}

	for i := 0; i < 3; i++ {
		tok, err := parser.peekToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ == TokenRParen {
			return SexpNull, parser.Errorf("if takes exactly three arguments")
		}
		parts[i], err = parser.ParseExpression(depth+1, flags[i])
		if err != nil {
			return SexpNull, err
		}
	}

	tok, err := parser.nextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ != TokenRParen {
		return SexpNull, parser.Errorf("if takes exactly three arguments")
	}

	return &SexpIf{Cond: parts[0], Then: parts[1], Else: parts[2]}, nil
}

// ParseBindings parses the ((name expr) ...) binding list shared by
// let and loop. Zero bindings is fine.
func (parser *Parser) ParseBindings(depth int) ([]Binding, error) {
	tok, err := parser.nextToken()
	if err != nil {
		return nil, err
	}
	if tok.typ != TokenLParen {
		return nil, parser.Errorf("bindings must be a list")
	}

	bindings := make([]Binding, 0, SliceDefaultCap)
	for {
		tok, err = parser.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ == TokenRParen {
			return bindings, nil
		}
		if tok.typ != TokenLParen {
			return nil, parser.Errorf("malformed binding")
		}

		tok, err = parser.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ != TokenSymbol && !tok.IsKeyword() {
			return nil, parser.Errorf("cannot bind to non-symbol")
		}
		sym := parser.env.MakeSymbol(tok.str)

		expr, err := parser.ParseExpression(depth+1, false)
		if err != nil {
			return nil, err
		}

		tok, err = parser.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ != TokenRParen {
			return nil, parser.Errorf("malformed binding")
		}

		bindings = append(bindings, Binding{Sym: sym, Expr: expr})
	}
}

// ParseLet binds zero or more (name expr) pairs in one flat scope;
// the exprs see the outer scope only. The body-final slot inherits
// the let's own tail flag.
func (parser *Parser) ParseLet(depth int, tail bool) (Sexp, error) {
	bindings, err := parser.ParseBindings(depth + 1)
	if err != nil {
		return SexpNull, err
	}

	body, err := parser.ParseCodeSequence(depth+1, tail)
	if err != nil {
		return SexpNull, err
	}
	if len(body) == 0 {
		return SexpNull, parser.Errorf("let requires a body")
	}

	return &SexpLet{Bindings: bindings, Body: body}, nil
}

// ParseLoop has the same surface syntax as let, and its body-final
// slot is always a tail position since it is this loop's recur
// target. A loop whose body holds no tail recur degrades to an
// ordinary let: there is nothing left to loop back to.
func (parser *Parser) ParseLoop(depth int) (Sexp, error) {
	bindings, err := parser.ParseBindings(depth + 1)
	if err != nil {
		return SexpNull, err
	}

	body, err := parser.ParseCodeSequence(depth+1, true)
	if err != nil {
		return SexpNull, err
	}
	if len(body) == 0 {
		return SexpNull, parser.Errorf("loop requires a body")
	}

	if !tailRecurs(parser.env, body[len(body)-1]) {
		return &SexpLet{Bindings: bindings, Body: body}, nil
	}
	return &SexpLoop{Bindings: bindings, Body: body}, nil
}

// ParseLambda handles (lambda [name] (params...) body...), the name
// purely cosmetic, params distinct, body one or more expressions
// with the last in tail position.
func (parser *Parser) ParseLambda(depth int) (Sexp, error) {
	name := ""

	tok, err := parser.nextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ == TokenSymbol {
		name = tok.str
		tok, err = parser.nextToken()
		if err != nil {
			return SexpNull, err
		}
	}
	if tok.typ != TokenLParen {
		return SexpNull, parser.Errorf("lambda parameters must be a list")
	}

	params := make([]SexpSymbol, 0, SliceDefaultCap)
	seen := make(map[int]bool)
	for {
		tok, err = parser.nextToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ == TokenRParen {
			break
		}
		if tok.typ != TokenSymbol && !tok.IsKeyword() {
			return SexpNull, parser.Errorf("lambda parameter must be a symbol")
		}
		sym := parser.env.MakeSymbol(tok.str)
		if seen[sym.number] {
			return SexpNull, parser.Errorf("duplicate lambda parameter '%s'", sym.name)
		}
		seen[sym.number] = true
		params = append(params, sym)
	}

	body, err := parser.ParseCodeSequence(depth+1, true)
	if err != nil {
		return SexpNull, err
	}
	if len(body) == 0 {
		return SexpNull, parser.Errorf("lambda requires a body")
	}

	return &SexpLambda{Name: name, Params: params, Body: body}, nil
}

// ParseRecur handles (recur arg...). The grammar only offers recur
// in tail slots, so seeing one anywhere else is a parse error, not
// a runtime check.
func (parser *Parser) ParseRecur(depth int, tail bool) (Sexp, error) {
	if !tail {
		return SexpNull, parser.Errorf("recur is only legal in tail position")
	}

	args := make([]Sexp, 0, SliceDefaultCap)
	for {
		tok, err := parser.peekToken()
		if err != nil {
			return SexpNull, err
		}
		if tok.typ == TokenEnd {
			return SexpNull, parser.Errorf("unexpected end of input")
		}
		if tok.typ == TokenRParen {
			_, _ = parser.lexer.GetNextToken()
			return &SexpRecur{Args: args}, nil
		}

		arg, err := parser.ParseExpression(depth+1, false)
		if err != nil {
			return SexpNull, err
		}
		args = append(args, arg)
	}
}

// ParseQuoteForm handles the spelled-out (quote x). The moment we
// cross into the quote, special form interpretation stops for
// everything inside.
func (parser *Parser) ParseQuoteForm(depth int) (Sexp, error) {
	inner, err := parser.ParseData(depth + 1)
	if err != nil {
		return SexpNull, err
	}

	tok, err := parser.nextToken()
	if err != nil {
		return SexpNull, err
	}
	if tok.typ != TokenRParen {
		return SexpNull, parser.Errorf("quote takes exactly one argument")
	}

	return &SexpQuote{Inner: inner}, nil
}
