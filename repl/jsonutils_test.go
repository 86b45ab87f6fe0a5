package skink

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test040JsonRoundTrip(t *testing.T) {

	cv.Convey(`the json builtin should render lists as arrays and the unjson builtin should bring them back`, t, func() {

		env := NewSkink()

		res, err := env.EvalString(`(json '(1 2 3))`)
		panicOn(err)
		cv.So(string(res.(SexpStr)), cv.ShouldEqual, `[1, 2, 3]`)

		res, err = env.EvalString(`(json '())`)
		panicOn(err)
		cv.So(string(res.(SexpStr)), cv.ShouldEqual, `[]`)

		res, err = env.EvalString(`(unjson "[1, [2, 3], true, \"hi\"]")`)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual, `(1 (2 3) true "hi")`)

		res, err = env.EvalString(`(unjson (json '(1 (2 3) "x")))`)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual, `(1 (2 3) "x")`)
	})
}

func Test041JsonObjectsBecomeSortedAlists(t *testing.T) {

	cv.Convey(`a json object should decode to an association list of (key . value) pairs in key order`, t, func() {

		env := NewSkink()

		res, err := env.EvalString(`(unjson "{\"b\": 2, \"a\": 1}")`)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual, `(("a" . 1) ("b" . 2))`)
	})

	cv.Convey(`fractional json numbers have no home in an integer-only language and should be refused`, t, func() {

		env := NewSkink()

		_, err := env.EvalString(`(unjson "[1.5]")`)
		cv.So(err, cv.ShouldNotBeNil)
		cv.So(err.Error(), cv.ShouldContainSubstring, "no fractional numbers")
	})
}

func Test042MsgpackRoundTrip(t *testing.T) {

	cv.Convey(`a tree should survive the trip through msgpack bytes and back, as judged by its printed form`, t, func() {

		env := NewSkink()

		sources := []string{
			`(1 2 3)`,
			`(1 (2 3) "x" true)`,
			`()`,
		}
		for _, src := range sources {
			expr, err := env.ParseDatumString(src)
			panicOn(err)
			by, err := SexpToMsgpack(expr)
			panicOn(err)
			back, err := MsgpackToSexp(by, env)
			panicOn(err)
			cv.So(back.SexpString(), cv.ShouldEqual, expr.SexpString())
		}

		res, err := env.EvalString(`(unmsgpack (msgpack '(7 8 9)))`)
		panicOn(err)
		cv.So(res.SexpString(), cv.ShouldEqual, `(7 8 9)`)
	})
}

func Test043SexpToJsonScalars(t *testing.T) {

	cv.Convey(`scalars should render to their natural json forms, symbols as strings, dotted tails as final array elements`, t, func() {

		env := NewSkink()

		expectations := map[string]string{
			`7`:        `7`,
			`true`:     `true`,
			`"hi"`:     `"hi"`,
			`sym`:      `"sym"`,
			`(1 . 2)`:  `[1, 2]`,
		}
		for src, expected := range expectations {
			expr, err := env.ParseDatumString(src)
			panicOn(err)
			cv.So(SexpToJson(expr), cv.ShouldEqual, expected)
		}
	})
}
