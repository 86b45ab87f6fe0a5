package skink

import (
	"bytes"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func tokenize(str string) ([]Token, error) {
	lex := NewLexerFromStream(bytes.NewBuffer([]byte(str)))
	toks := make([]Token, 0)
	for {
		tok, err := lex.GetNextToken()
		if err != nil {
			return nil, err
		}
		if tok.typ == TokenEnd {
			return toks, nil
		}
		toks = append(toks, tok)
	}
}

func Test001LexerTokenizesDefine(t *testing.T) {

	cv.Convey(`Given the source "(define x 10)", the lexer should produce lparen, the define keyword, a symbol, a decimal, and rparen`, t, func() {

		toks, err := tokenize(`(define x 10)`)
		panicOn(err)

		cv.So(len(toks), cv.ShouldEqual, 5)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenLParen)
		cv.So(toks[1].typ, cv.ShouldEqual, TokenDefine)
		cv.So(toks[2].typ, cv.ShouldEqual, TokenSymbol)
		cv.So(toks[2].str, cv.ShouldEqual, "x")
		cv.So(toks[3].typ, cv.ShouldEqual, TokenDecimal)
		cv.So(toks[3].str, cv.ShouldEqual, "10")
		cv.So(toks[4].typ, cv.ShouldEqual, TokenRParen)
	})
}

func Test002LexerKeywordsAndSymbols(t *testing.T) {

	cv.Convey(`every special form word should lex as its own keyword token, while near-misses stay symbols`, t, func() {

		for word, typ := range KeywordToken {
			toks, err := tokenize(word)
			panicOn(err)
			cv.So(len(toks), cv.ShouldEqual, 1)
			cv.So(toks[0].typ, cv.ShouldEqual, typ)
		}

		for _, word := range []string{"defined", "iffy", "looped", "lambda*", "my-let"} {
			toks, err := tokenize(word)
			panicOn(err)
			cv.So(len(toks), cv.ShouldEqual, 1)
			cv.So(toks[0].typ, cv.ShouldEqual, TokenSymbol)
		}
	})
}

func Test003LexerStringsStayRaw(t *testing.T) {

	cv.Convey(`string literals should come out of the lexer with their escape sequences still undecoded; decoding is UnescapeString's job`, t, func() {

		toks, err := tokenize(`"a\nb"`)
		panicOn(err)
		cv.So(len(toks), cv.ShouldEqual, 1)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenString)
		cv.So(toks[0].str, cv.ShouldEqual, `a\nb`)

		decoded, err := UnescapeString(toks[0].str)
		panicOn(err)
		cv.So(decoded, cv.ShouldEqual, "a\nb")
	})

	cv.Convey(`an unterminated string literal should be a lex error`, t, func() {

		_, err := tokenize(`"no closing quote`)
		cv.So(err, cv.ShouldNotBeNil)
	})
}

func Test004LexerCharsDotsAndComments(t *testing.T) {

	cv.Convey(`char literals, the lone pair dot, and semicolon comments should all lex per the surface syntax`, t, func() {

		toks, err := tokenize(`#a #\n`)
		panicOn(err)
		cv.So(len(toks), cv.ShouldEqual, 2)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenChar)
		cv.So(toks[0].str, cv.ShouldEqual, "a")
		cv.So(toks[1].typ, cv.ShouldEqual, TokenChar)
		cv.So(toks[1].str, cv.ShouldEqual, "\n")

		toks, err = tokenize(`(1 . 2)`)
		panicOn(err)
		cv.So(len(toks), cv.ShouldEqual, 5)
		cv.So(toks[2].typ, cv.ShouldEqual, TokenDot)

		// dots inside a symbol are just symbol text
		toks, err = tokenize(`a.b`)
		panicOn(err)
		cv.So(len(toks), cv.ShouldEqual, 1)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenSymbol)
		cv.So(toks[0].str, cv.ShouldEqual, "a.b")

		toks, err = tokenize("; a comment\n42")
		panicOn(err)
		cv.So(len(toks), cv.ShouldEqual, 1)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenDecimal)
		cv.So(toks[0].str, cv.ShouldEqual, "42")
	})
}

func Test005LexerTracksLineNumbers(t *testing.T) {

	cv.Convey(`the lexer's line count should advance on newlines so syntax errors can point at the right line`, t, func() {

		lex := NewLexerFromStream(bytes.NewBuffer([]byte("1\n2\n3")))
		for {
			tok, err := lex.GetNextToken()
			panicOn(err)
			if tok.typ == TokenEnd {
				break
			}
		}
		cv.So(lex.Linenum(), cv.ShouldEqual, 3)
	})
}

func Test006LexerNegativeNumbersAndOperators(t *testing.T) {

	cv.Convey(`"-7" should lex as a decimal, while "-" and "->" stay symbols`, t, func() {

		toks, err := tokenize(`-7`)
		panicOn(err)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenDecimal)

		toks, err = tokenize(`- ->`)
		panicOn(err)
		cv.So(toks[0].typ, cv.ShouldEqual, TokenSymbol)
		cv.So(toks[1].typ, cv.ShouldEqual, TokenSymbol)
	})
}
