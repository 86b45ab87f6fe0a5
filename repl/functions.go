package skink

import (
	"errors"
	"fmt"
	"strconv"
)

var WrongNargs error = errors.New("wrong number of arguments")
var NotAList error = errors.New("not a list")

type SkinkUserFunction func(*Skink, string, []Sexp) (Sexp, error)

// SexpFunction is either a builtin (user == true, backed by a Go
// function) or a closure built from a lambda.
type SexpFunction struct {
	name    string
	user    bool
	userfun SkinkUserFunction

	params  []SexpSymbol
	body    []Sexp
	closure *Scope
	orig    Sexp
}

func (sf *SexpFunction) SexpString() string {
	if sf.orig == nil {
		return "fn [" + sf.name + "]"
	}
	return sf.orig.SexpString()
}

func (sf *SexpFunction) Name() string {
	return sf.name
}

func MakeUserFunction(name string, ufun SkinkUserFunction) *SexpFunction {
	return &SexpFunction{
		name:    name,
		user:    true,
		userfun: ufun,
	}
}

// MakeClosure captures the defining scope. The lambda's cosmetic
// name, when present, only shows up in diagnostics.
func (env *Skink) MakeClosure(lam *SexpLambda, scope *Scope) *SexpFunction {
	name := lam.Name
	if name == "" {
		name = env.GenSymbol("__anon").name
	}
	return &SexpFunction{
		name:    name,
		params:  lam.Params,
		body:    lam.Body,
		closure: scope,
		orig:    lam,
	}
}

func PolyEqFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, WrongNargs
	}

	res, err := Compare(args[0], args[1])
	if err != nil {
		return SexpBool(false), nil
	}
	return SexpBool(res == 0), nil
}

func CompareFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, WrongNargs
	}

	res, err := Compare(args[0], args[1])
	if err != nil {
		return SexpNull, err
	}

	cond := false
	switch name {
	case "<":
		cond = res < 0
	case ">":
		cond = res > 0
	case "<=":
		cond = res <= 0
	case ">=":
		cond = res >= 0
	case "=":
		cond = res == 0
	}

	return SexpBool(cond), nil
}

func NumericFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) < 1 {
		return SexpNull, WrongNargs
	}

	accum, err := toInt(args[0])
	if err != nil {
		return SexpNull, err
	}

	if name == "-" && len(args) == 1 {
		return SexpInt(-accum), nil
	}

	for _, expr := range args[1:] {
		i, err := toInt(expr)
		if err != nil {
			return SexpNull, err
		}
		switch name {
		case "+":
			accum += i
		case "-":
			accum -= i
		case "*":
			accum *= i
		}
	}
	return SexpInt(accum), nil
}

func BinaryIntFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, WrongNargs
	}

	a, err := toInt(args[0])
	if err != nil {
		return SexpNull, err
	}
	b, err := toInt(args[1])
	if err != nil {
		return SexpNull, err
	}

	if b == 0 {
		return SexpNull, errors.New("division by zero")
	}

	switch name {
	case "quotient":
		return SexpInt(a / b), nil
	case "remainder":
		return SexpInt(a % b), nil
	}
	return SexpNull, fmt.Errorf("unknown integer op %s", name)
}

func toInt(expr Sexp) (int64, error) {
	switch e := expr.(type) {
	case SexpInt:
		return int64(e), nil
	}
	return 0, fmt.Errorf("%s is not an integer", expr.SexpString())
}

func TypeQueryFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}

	cond := false
	switch name {
	case "null?":
		cond = args[0] == SexpNull
	case "boolean?":
		_, cond = args[0].(SexpBool)
	case "symbol?":
		_, cond = args[0].(SexpSymbol)
	case "integer?":
		_, cond = args[0].(SexpInt)
	case "char?":
		_, cond = args[0].(SexpChar)
	case "string?":
		_, cond = args[0].(SexpStr)
	case "procedure?":
		_, cond = args[0].(*SexpFunction)
	case "list?":
		cond = IsList(args[0])
	}

	return SexpBool(cond), nil
}

func ConversionFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}

	switch name {
	case "char->integer":
		c, ok := args[0].(SexpChar)
		if !ok {
			return SexpNull, fmt.Errorf("char->integer wants a char")
		}
		return SexpInt(c), nil
	case "integer->char":
		i, ok := args[0].(SexpInt)
		if !ok {
			return SexpNull, fmt.Errorf("integer->char wants an integer")
		}
		return SexpChar(i), nil
	case "number->string":
		i, ok := args[0].(SexpInt)
		if !ok {
			return SexpNull, fmt.Errorf("number->string wants an integer")
		}
		return SexpStr(strconv.FormatInt(int64(i), 10)), nil
	case "string->number":
		s, ok := args[0].(SexpStr)
		if !ok {
			return SexpNull, fmt.Errorf("string->number wants a string")
		}
		i, err := strconv.ParseInt(string(s), 10, SexpIntSize)
		if err != nil {
			return SexpNull, err
		}
		return SexpInt(i), nil
	case "symbol->string":
		sym, ok := args[0].(SexpSymbol)
		if !ok {
			return SexpNull, fmt.Errorf("symbol->string wants a symbol")
		}
		return SexpStr(sym.name), nil
	case "string->symbol":
		s, ok := args[0].(SexpStr)
		if !ok {
			return SexpNull, fmt.Errorf("string->symbol wants a string")
		}
		return env.MakeSymbol(string(s)), nil
	}
	return SexpNull, fmt.Errorf("unknown conversion %s", name)
}

func ConsFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 2 {
		return SexpNull, WrongNargs
	}
	return Cons(args[0], args[1]), nil
}

func FirstFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	switch expr := args[0].(type) {
	case SexpPair:
		return expr.Head, nil
	}
	return SexpNull, NotAList
}

func RestFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	switch expr := args[0].(type) {
	case SexpPair:
		return expr.Tail, nil
	case SexpSentinel:
		if expr == SexpNull {
			return SexpNull, nil
		}
	}
	return SexpNull, NotAList
}

func SecondFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	switch expr := args[0].(type) {
	case SexpPair:
		tail, ok := expr.Tail.(SexpPair)
		if ok {
			return tail.Head, nil
		}
	}
	return SexpNull, errors.New("list too small for second")
}

func ListFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	return MakeList(args), nil
}

// SymbolSpaceFunction dumps the interner: every symbol seen so far,
// in interning order.
func SymbolSpaceFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 0 {
		return SexpNull, WrongNargs
	}
	syms := env.SymbolSpace()
	arr := make([]Sexp, len(syms))
	for i, s := range syms {
		arr[i] = s
	}
	return MakeList(arr), nil
}

// ReadFunction parses a string of source and hands back the first
// form unevaluated.
func ReadFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	str, ok := args[0].(SexpStr)
	if !ok {
		return SexpNull, errors.New("read requires a string")
	}
	exprs, err := env.ParseString(string(str))
	if err != nil {
		return SexpNull, err
	}
	return exprs[0], nil
}

func PrintFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}

	var str string
	switch expr := args[0].(type) {
	case SexpStr:
		str = string(expr)
	default:
		str = expr.SexpString()
	}

	switch name {
	case "println":
		fmt.Println(str)
	case "print":
		fmt.Print(str)
	}

	return SexpNull, nil
}

func StrFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	str := ""
	for _, arg := range args {
		switch expr := arg.(type) {
		case SexpStr:
			str += string(expr)
		default:
			str += arg.SexpString()
		}
	}
	return SexpStr(str), nil
}

var BuiltinFunctions = map[string]SkinkUserFunction{
	"eq?":            PolyEqFunction,
	"null?":          TypeQueryFunction,
	"boolean?":       TypeQueryFunction,
	"symbol?":        TypeQueryFunction,
	"integer?":       TypeQueryFunction,
	"char?":          TypeQueryFunction,
	"string?":        TypeQueryFunction,
	"procedure?":     TypeQueryFunction,
	"list?":          TypeQueryFunction,
	"char->integer":  ConversionFunction,
	"integer->char":  ConversionFunction,
	"number->string": ConversionFunction,
	"string->number": ConversionFunction,
	"symbol->string": ConversionFunction,
	"string->symbol": ConversionFunction,
	"+":              NumericFunction,
	"-":              NumericFunction,
	"*":              NumericFunction,
	"quotient":       BinaryIntFunction,
	"remainder":      BinaryIntFunction,
	"=":              CompareFunction,
	"<":              CompareFunction,
	"<=":             CompareFunction,
	">":              CompareFunction,
	">=":             CompareFunction,
	"cons":           ConsFunction,
	"list":           ListFunction,
	"first":          FirstFunction,
	"rest":           RestFunction,
	"second":         SecondFunction,
	"car":            FirstFunction,
	"cdr":            RestFunction,
	"symbol-space":   SymbolSpaceFunction,
	"read":           ReadFunction,
	"print":          PrintFunction,
	"println":        PrintFunction,
	"str":            StrFunction,
}

func AllBuiltinFunctions() map[string]SkinkUserFunction {
	funcs := make(map[string]SkinkUserFunction)
	for name, fun := range BuiltinFunctions {
		funcs[name] = fun
	}
	for name, fun := range EncodingFunctions {
		funcs[name] = fun
	}
	return funcs
}
