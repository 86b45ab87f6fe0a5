package skink

import (
	"fmt"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func parseOne(env *Skink, str string) (Sexp, error) {
	exprs, err := env.ParseString(str)
	if err != nil {
		return SexpNull, err
	}
	return exprs[0], nil
}

func Test010ParserAtomsAndLists(t *testing.T) {

	cv.Convey(`atoms, the empty list, proper lists, and dotted pairs should all parse and print back as themselves`, t, func() {

		env := NewSkink()

		for _, src := range []string{
			`42`, `-7`, `true`, `false`, `#a`, `"hello"`, `foo`,
			`()`, `(f 1 2)`, `(1 . 2)`, `(1 2 . 3)`, `(f (g 1) "x")`,
		} {
			expr, err := parseOne(env, src)
			panicOn(err)
			cv.So(expr.SexpString(), cv.ShouldEqual, src)
		}
	})

	cv.Convey(`a dotted pair must end right after the tail value`, t, func() {

		env := NewSkink()
		_, err := env.ParseString(`(1 . 2 3)`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "extra value in dotted pair")
	})
}

func Test011ParserRequiresAtLeastOneForm(t *testing.T) {

	cv.Convey(`an empty source text, or one holding only comments, should fail to parse rather than yield an empty program`, t, func() {

		env := NewSkink()

		_, err := env.ParseString("")
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "no expressions found")

		_, err = env.ParseString("; nothing here\n")
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "no expressions found")
	})
}

func Test012ParserIfTakesExactlyThree(t *testing.T) {

	cv.Convey(`there is no one- or two-armed if: fewer or more than three sub-expressions should be a syntax error`, t, func() {

		env := NewSkink()

		_, err := env.ParseString(`(if true 1 2)`)
		cv.So(err, cv.ShouldBeNil)

		for _, src := range []string{`(if)`, `(if true)`, `(if true 1)`, `(if true 1 2 3)`} {
			_, err := env.ParseString(src)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(err.Error(), cv.ShouldContainSubstring, "if takes exactly three arguments")
		}
	})
}

func Test013ParserRecurOnlyInTailPosition(t *testing.T) {

	cv.Convey(`recur should parse in the body-final slot of loop and lambda and in the arms of a tail if, and nowhere else`, t, func() {

		env := NewSkink()

		_, err := env.ParseString(`(loop ((i 0)) (if (< i 10) (recur (+ i 1)) i))`)
		cv.So(err, cv.ShouldBeNil)

		_, err = env.ParseString(`(lambda (x) (recur x))`)
		cv.So(err, cv.ShouldBeNil)

		_, err = env.ParseString(`(lambda (n) (if (= n 0) 0 (recur (- n 1))))`)
		cv.So(err, cv.ShouldBeNil)

		bad := []string{
			`(recur 1)`,
			`(+ 1 (recur 2))`,
			`(lambda (x) (recur x) x)`,
			`(loop ((i 0)) (recur i) i)`,
			`(loop ((i 0)) (if (recur i) 1 2))`,
			`(loop ((i 0)) (recur (recur i)))`,
			`(define f (recur 1))`,
		}
		for _, src := range bad {
			_, err := env.ParseString(src)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(err.Error(), cv.ShouldContainSubstring, "recur is only legal in tail position")
		}
	})
}

func Test014ParserLoopDegradesToLet(t *testing.T) {

	cv.Convey(`a loop whose body-final expression holds no tail recur is just a let wearing a different hat, and should parse to one`, t, func() {

		env := NewSkink()

		expr, err := parseOne(env, `(loop ((x 1)) (+ x 1))`)
		panicOn(err)
		_, isLet := expr.(*SexpLet)
		cv.So(isLet, cv.ShouldBeTrue)

		// an earlier body expression never rescues loop-hood
		expr, err = parseOne(env, `(loop ((x 1) (y 2)) x (+ x y))`)
		panicOn(err)
		_, isLet = expr.(*SexpLet)
		cv.So(isLet, cv.ShouldBeTrue)

		expr, err = parseOne(env, `(loop ((i 0)) (if (< i 3) (recur (+ i 1)) i))`)
		panicOn(err)
		_, isLoop := expr.(*SexpLoop)
		cv.So(isLoop, cv.ShouldBeTrue)

		// recur buried under let's body-final slot still counts
		expr, err = parseOne(env, `(loop ((i 0)) (let ((j i)) (recur j)))`)
		panicOn(err)
		_, isLoop = expr.(*SexpLoop)
		cv.So(isLoop, cv.ShouldBeTrue)
	})
}

func Test015ParserQuoteIsInert(t *testing.T) {

	cv.Convey(`everything inside a quote is data: special form words become plain symbols and arity rules vanish`, t, func() {

		env := NewSkink()

		// (if 1) is a syntax error in code mode...
		_, err := env.ParseString(`(if 1)`)
		cv.So(err, cv.ShouldNotBeNil)

		// ...but as quoted data it is just a two-element list
		expr, err := parseOne(env, `'(if 1)`)
		panicOn(err)
		q, isQuote := expr.(*SexpQuote)
		cv.So(isQuote, cv.ShouldBeTrue)
		arr, err := ListToArray(q.Inner)
		panicOn(err)
		cv.So(len(arr), cv.ShouldEqual, 2)
		sym, isSym := arr[0].(SexpSymbol)
		cv.So(isSym, cv.ShouldBeTrue)
		cv.So(sym.Name(), cv.ShouldEqual, "if")

		// a tick inside data builds a (quote x) list, not a code-mode quote
		expr, err = parseOne(env, `''a`)
		panicOn(err)
		cv.So(expr.SexpString(), cv.ShouldEqual, `'(quote a)`)

		// the spelled-out form takes exactly one datum
		_, err = env.ParseString(`(quote a b)`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "quote takes exactly one argument")

		expr, err = parseOne(env, `(quote (1 2))`)
		panicOn(err)
		cv.So(expr.SexpString(), cv.ShouldEqual, `'(1 2)`)
	})
}

func Test016ParserKeywordsReclassifyOutsideHeadPosition(t *testing.T) {

	cv.Convey(`special form words are only reserved as form heads; anywhere else they denote ordinary symbols`, t, func() {

		env := NewSkink()

		expr, err := parseOne(env, `(list if loop)`)
		panicOn(err)
		cv.So(expr.SexpString(), cv.ShouldEqual, `(list if loop)`)

		expr, err = parseOne(env, `(define if 3)`)
		panicOn(err)
		def, isDef := expr.(*SexpDefine)
		cv.So(isDef, cv.ShouldBeTrue)
		cv.So(def.Name.Name(), cv.ShouldEqual, "if")

		expr, err = parseOne(env, `'begin`)
		panicOn(err)
		q := expr.(*SexpQuote)
		_, isSym := q.Inner.(SexpSymbol)
		cv.So(isSym, cv.ShouldBeTrue)
	})
}

func Test017ParserBeginShapes(t *testing.T) {

	cv.Convey(`a begin outside tail position parses to its own node, while a tail-position begin is re-listed as a plain pair chain headed by the begin symbol`, t, func() {

		env := NewSkink()

		expr, err := parseOne(env, `(begin 1 2)`)
		panicOn(err)
		_, isBegin := expr.(*SexpBegin)
		cv.So(isBegin, cv.ShouldBeTrue)

		expr, err = parseOne(env, `(lambda (x) (begin 1 x))`)
		panicOn(err)
		lam := expr.(*SexpLambda)
		pair, isPair := lam.Body[0].(SexpPair)
		cv.So(isPair, cv.ShouldBeTrue)
		head, isSym := pair.Head.(SexpSymbol)
		cv.So(isSym, cv.ShouldBeTrue)
		cv.So(head.Name(), cv.ShouldEqual, "begin")

		// empty sequence is fine either way
		expr, err = parseOne(env, `(begin)`)
		panicOn(err)
		cv.So(expr.SexpString(), cv.ShouldEqual, `(begin)`)

		// a recur inside a tail begin must still be final
		_, err = env.ParseString(`(lambda (x) (begin (recur x) 1))`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "recur is only legal in tail position")
	})
}

func Test018ParserLambdaShapes(t *testing.T) {

	cv.Convey(`lambda takes an optional cosmetic name, a list of distinct parameters, and a non-empty body`, t, func() {

		env := NewSkink()

		expr, err := parseOne(env, `(lambda add1 (x) (+ x 1))`)
		panicOn(err)
		lam := expr.(*SexpLambda)
		cv.So(lam.Name, cv.ShouldEqual, "add1")
		cv.So(len(lam.Params), cv.ShouldEqual, 1)

		expr, err = parseOne(env, `(lambda (x y) y)`)
		panicOn(err)
		lam = expr.(*SexpLambda)
		cv.So(lam.Name, cv.ShouldEqual, "")
		cv.So(len(lam.Params), cv.ShouldEqual, 2)

		_, err = env.ParseString(`(lambda (x x) x)`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "duplicate lambda parameter")

		_, err = env.ParseString(`(lambda (x))`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "lambda requires a body")
	})
}

func Test019ParserSymbolInterning(t *testing.T) {

	cv.Convey(`two occurrences of the same symbol text through one environment should carry the same interned number`, t, func() {

		env := NewSkink()

		a, err := parseOne(env, `foo`)
		panicOn(err)
		b, err := parseOne(env, `foo`)
		panicOn(err)
		cv.So(a.(SexpSymbol).Number(), cv.ShouldEqual, b.(SexpSymbol).Number())
		cv.So(a.(SexpSymbol).Number(), cv.ShouldEqual, env.MakeSymbol("foo").Number())

		c := env.MakeSymbol("bar")
		cv.So(c.Number(), cv.ShouldNotEqual, a.(SexpSymbol).Number())
	})
}

func Test020ParserPanicsWithoutInterner(t *testing.T) {

	cv.Convey(`invoking a parser before its environment's interner exists is a programmer error and should panic, not limp along`, t, func() {

		env := new(Skink)
		parser := env.NewParser()

		var caught interface{}
		func() {
			defer func() {
				caught = recover()
			}()
			_, _ = parser.Parse(nil)
		}()

		cv.So(caught, cv.ShouldNotBeNil)
		_, isViolation := caught.(ContractViolation)
		cv.So(isViolation, cv.ShouldBeTrue)
	})
}

func Test021ParserRoundTrip(t *testing.T) {

	cv.Convey(`printing a parsed tree and re-parsing the text should reproduce the same tree, as judged by its printed form`, t, func() {

		env := NewSkink()

		sources := []string{
			`(define fact (lambda fact (n) (if (= n 0) 1 (* n (fact (- n 1))))))`,
			`(let ((x 1) (y 2)) (+ x y))`,
			`(loop ((i 0) (acc 0)) (if (> i 10) acc (recur (+ i 1) (+ acc i))))`,
			`'(a (b . c) "s" #x true)`,
			`(begin (define a 1) (define b 2) (cons a b))`,
			`(f '(1 2) (g . h))`,
		}
		for _, src := range sources {
			first, err := parseOne(env, src)
			panicOn(err)
			second, err := parseOne(env, first.SexpString())
			panicOn(err)
			cv.So(second.SexpString(), cv.ShouldEqual, first.SexpString())
		}
	})
}

func Test022ParserSyntaxErrorsCarryLineNumbers(t *testing.T) {

	cv.Convey(`a syntax error should report the line the lexer had reached`, t, func() {

		env := NewSkink()

		_, err := env.ParseString("(define a 1)\n(define b 2)\n(if true 1)")
		cv.So(err, cv.ShouldNotBeNil)
		se, isSyntax := err.(*SyntaxError)
		cv.So(isSyntax, cv.ShouldBeTrue)
		cv.So(se.Line, cv.ShouldEqual, 3)
		cv.So(err.Error(), cv.ShouldContainSubstring, fmt.Sprintf("line %d", 3))
	})

	cv.Convey(`running off the end of the input mid-form should error rather than return a partial tree`, t, func() {

		env := NewSkink()
		for _, src := range []string{`(define a`, `(1 2`, `'(1 2`, `(let ((x 1))`} {
			_, err := env.ParseString(src)
			cv.So(err, cv.ShouldNotBeNil)
		}
	})
}
