package skink

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

type TokenType int

const (
	TokenLParen TokenType = iota
	TokenRParen
	TokenDot
	TokenQuote // the ' tick
	TokenTrue
	TokenFalse
	TokenBegin
	TokenDefine
	TokenIf
	TokenLet
	TokenLoop
	TokenLambda
	TokenRecur
	TokenQuoteKeyword // the spelled-out `quote`
	TokenSymbol
	TokenDecimal
	TokenChar
	TokenString // raw text, escapes still undecoded
	TokenEnd
)

type Token struct {
	typ TokenType
	str string
}

var EndTk = Token{typ: TokenEnd}

func (t Token) String() string {
	switch t.typ {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenDot:
		return "."
	case TokenQuote:
		return "'"
	case TokenChar:
		quoted := strconv.Quote(t.str)
		return "#" + quoted[1:len(quoted)-1]
	case TokenString:
		return `"` + t.str + `"`
	case TokenEnd:
		return "End"
	}
	return t.str
}

// the special form keywords. A keyword token is still reclassified
// as a plain symbol whenever it shows up anywhere but the head of a
// parenthesized form, so these are only reserved in that one spot.
var KeywordToken = map[string]TokenType{
	"true":   TokenTrue,
	"false":  TokenFalse,
	"begin":  TokenBegin,
	"define": TokenDefine,
	"if":     TokenIf,
	"let":    TokenLet,
	"loop":   TokenLoop,
	"lambda": TokenLambda,
	"recur":  TokenRecur,
	"quote":  TokenQuoteKeyword,
}

func (t Token) IsKeyword() bool {
	switch t.typ {
	case TokenBegin, TokenDefine, TokenIf, TokenLet,
		TokenLoop, TokenLambda, TokenRecur, TokenQuoteKeyword:
		return true
	}
	return false
}

type LexerState int

const (
	LexerNormal LexerState = iota
	LexerComment
	LexerStrLit
	LexerStrEscaped
)

type Lexer struct {
	state   LexerState
	tokens  []Token
	buffer  *bytes.Buffer
	stream  io.RuneScanner
	linenum int
}

func NewLexer() *Lexer {
	return &Lexer{
		tokens:  make([]Token, 0, 10),
		buffer:  new(bytes.Buffer),
		state:   LexerNormal,
		linenum: 1,
	}
}

func NewLexerFromStream(stream io.RuneScanner) *Lexer {
	lex := NewLexer()
	lex.stream = stream
	return lex
}

func (lex *Lexer) Linenum() int {
	return lex.linenum
}

func (lex *Lexer) Reset(stream io.RuneScanner) {
	lex.stream = stream
	lex.tokens = lex.tokens[:0]
	lex.state = LexerNormal
	lex.linenum = 1
	lex.buffer.Reset()
}

func (lex *Lexer) EmptyToken() Token {
	return Token{}
}

func (lex *Lexer) Token(typ TokenType, str string) Token {
	return Token{typ: typ, str: str}
}

var (
	DecimalRegex = regexp.MustCompile("^-?[0-9]+$")
	CharRegex    = regexp.MustCompile("^#\\\\?.$")

	// Symbols cannot contain whitespace nor `(`, `)`, `'`, `#`,
	// `"`, `;`. Dots are fine inside a symbol; a lone `.` is the
	// pair separator and gets its own token.
	SymbolRegex = regexp.MustCompile(`^[^'#;"()]+$`)
)

func DecodeChar(atom string) (string, error) {
	runes := StringToRunes(atom)
	if len(runes) == 3 {
		char, err := EscapeChar(runes[2])
		return string(char), err
	}

	if len(runes) == 2 {
		return string(runes[1:2]), nil
	}
	return "", errors.New("not a char literal")
}

func (x *Lexer) DecodeAtom(atom string) (Token, error) {
	if atom == "." {
		return x.Token(TokenDot, "."), nil
	}
	if typ, isKeyword := KeywordToken[atom]; isKeyword {
		return x.Token(typ, atom), nil
	}
	if DecimalRegex.MatchString(atom) {
		return x.Token(TokenDecimal, atom), nil
	}
	if CharRegex.MatchString(atom) {
		char, err := DecodeChar(atom)
		if err != nil {
			return x.EmptyToken(), err
		}
		return x.Token(TokenChar, char), nil
	}
	if SymbolRegex.MatchString(atom) {
		return x.Token(TokenSymbol, atom), nil
	}

	return x.EmptyToken(), fmt.Errorf("Unrecognized atom: '%s'", atom)
}

func (lex *Lexer) dumpBuffer() error {
	n := lex.buffer.Len()
	if n <= 0 {
		return nil
	}

	tok, err := lex.DecodeAtom(lex.buffer.String())
	if err != nil {
		return err
	}

	lex.buffer.Reset()
	lex.tokens = append(lex.tokens, tok)
	return nil
}

// dump the buffer as a raw string literal; escape decoding is the
// parser's business, via UnescapeString.
func (lex *Lexer) dumpString() {
	str := lex.buffer.String()
	lex.buffer.Reset()
	lex.tokens = append(lex.tokens, lex.Token(TokenString, str))
}

func (lex *Lexer) LexNextRune(r rune) error {
	if lex.state == LexerComment {
		if r == '\n' {
			lex.linenum++
			lex.state = LexerNormal
		}
		return nil
	}
	if lex.state == LexerStrLit {
		if r == '\\' {
			lex.buffer.WriteRune(r)
			lex.state = LexerStrEscaped
			return nil
		}
		if r == '"' {
			lex.dumpString()
			lex.state = LexerNormal
			return nil
		}
		if r == '\n' {
			lex.linenum++
		}
		lex.buffer.WriteRune(r)
		return nil
	}
	if lex.state == LexerStrEscaped {
		lex.buffer.WriteRune(r)
		lex.state = LexerStrLit
		return nil
	}

	if r == '"' {
		if lex.buffer.Len() > 0 {
			return errors.New("Unexpected quote")
		}
		lex.state = LexerStrLit
		return nil
	}

	if r == ';' {
		err := lex.dumpBuffer()
		if err != nil {
			return err
		}
		lex.state = LexerComment
		return nil
	}

	if r == '\'' {
		if lex.buffer.Len() > 0 {
			return errors.New("Unexpected quote tick")
		}
		lex.tokens = append(lex.tokens, lex.Token(TokenQuote, ""))
		return nil
	}

	if r == '(' || r == ')' {
		err := lex.dumpBuffer()
		if err != nil {
			return err
		}
		if r == '(' {
			lex.tokens = append(lex.tokens, lex.Token(TokenLParen, ""))
		} else {
			lex.tokens = append(lex.tokens, lex.Token(TokenRParen, ""))
		}
		return nil
	}

	if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
		if r == '\n' {
			lex.linenum++
		}
		return lex.dumpBuffer()
	}

	_, err := lex.buffer.WriteRune(r)
	return err
}

func (lex *Lexer) PeekNextToken() (tok Token, err error) {
	if lex.stream == nil {
		return EndTk, nil
	}

	for len(lex.tokens) == 0 {
		r, _, err := lex.stream.ReadRune()
		if err != nil {
			// out of input: flush whatever atom is pending
			if lex.state == LexerStrLit || lex.state == LexerStrEscaped {
				return EndTk, errors.New("unterminated string literal")
			}
			err = lex.dumpBuffer()
			if err != nil {
				return EndTk, err
			}
			if len(lex.tokens) == 0 {
				return EndTk, nil
			}
			break
		}

		err = lex.LexNextRune(r)
		if err != nil {
			return EndTk, err
		}
	}

	return lex.tokens[0], nil
}

func (lex *Lexer) GetNextToken() (tok Token, err error) {
	tok, err = lex.PeekNextToken()
	if err != nil || tok.typ == TokenEnd {
		return EndTk, err
	}
	lex.tokens = lex.tokens[1:]
	return tok, nil
}
