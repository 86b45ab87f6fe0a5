package skink

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sort"
	"strconv"
)

// Skink is one interpreter instance: the symbol interner, the global
// scope, and a parser bound to the interner. The interner is the only
// shared mutable state; it is not safe for concurrent use, so callers
// must serialize parse/eval calls (one env per goroutine, or an
// external mutex).
type Skink struct {
	parser      *Parser
	globalScope *Scope

	symtable    map[string]int
	revsymtable map[int]string
	nextsymbol  int

	builtins map[int]*SexpFunction
	beginSym SexpSymbol
}

const VersionString = "0.3.1"

func Version() string {
	return VersionString
}

func NewSkink() *Skink {
	return NewSkinkWithFuncs(AllBuiltinFunctions())
}

// NewSkinkWithFuncs returns a new *Skink instance with access to only
// the given builtin functions.
func NewSkinkWithFuncs(funcs map[string]SkinkUserFunction) *Skink {
	env := new(Skink)
	env.symtable = make(map[string]int)
	env.revsymtable = make(map[int]string)
	env.nextsymbol = 1
	env.builtins = make(map[int]*SexpFunction)

	env.globalScope = env.NewNamedScope("global")
	env.globalScope.IsGlobal = true

	env.parser = env.NewParser()
	env.beginSym = env.MakeSymbol("begin")

	for key, function := range funcs {
		sym := env.MakeSymbol(key)
		sf := MakeUserFunction(key, function)
		env.builtins[sym.number] = sf
		env.AddGlobal(key, sf)
	}

	return env
}

// InternerValid reports whether the symbol table is usable; the
// parser checks it once at top-level entry.
func (env *Skink) InternerValid() bool {
	return env.symtable != nil && env.revsymtable != nil
}

// MakeSymbol interns name: the same text always yields the same
// number for the lifetime of this env.
func (env *Skink) MakeSymbol(name string) SexpSymbol {
	symnum, ok := env.symtable[name]
	if ok {
		return SexpSymbol{name: name, number: symnum}
	}
	symbol := SexpSymbol{name: name, number: env.nextsymbol}
	env.symtable[name] = symbol.number
	env.revsymtable[symbol.number] = name
	env.nextsymbol++
	return symbol
}

func (env *Skink) GenSymbol(prefix string) SexpSymbol {
	symname := prefix + strconv.Itoa(env.nextsymbol)
	return env.MakeSymbol(symname)
}

func (env *Skink) SymbolName(number int) (string, bool) {
	name, ok := env.revsymtable[number]
	return name, ok
}

// SymbolSpace returns every interned symbol in interning order.
func (env *Skink) SymbolSpace() []SexpSymbol {
	numbers := make([]int, 0, len(env.revsymtable))
	for num := range env.revsymtable {
		numbers = append(numbers, num)
	}
	sort.Ints(numbers)

	syms := make([]SexpSymbol, len(numbers))
	for i, num := range numbers {
		syms[i] = SexpSymbol{name: env.revsymtable[num], number: num}
	}
	return syms
}

func (env *Skink) AddFunction(name string, function SkinkUserFunction) {
	env.AddGlobal(name, MakeUserFunction(name, function))
}

func (env *Skink) AddGlobal(name string, obj Sexp) {
	sym := env.MakeSymbol(name)
	env.globalScope.Map[sym.number] = obj
}

func (env *Skink) FindObject(name string) (Sexp, bool) {
	sym := env.MakeSymbol(name)
	obj, err := env.globalScope.LookupSymbol(sym)
	if err != nil {
		return SexpNull, false
	}
	return obj, true
}

func (env *Skink) IsBuiltinSym(sym SexpSymbol) bool {
	_, found := env.builtins[sym.number]
	return found
}

func (env *Skink) ParseStream(stream io.RuneScanner) ([]Sexp, error) {
	return env.parser.Parse(stream)
}

func (env *Skink) ParseString(str string) ([]Sexp, error) {
	return env.parser.Parse(bytes.NewBuffer([]byte(str)))
}

// ParseDatumString reads one datum in data mode.
func (env *Skink) ParseDatumString(str string) (Sexp, error) {
	return env.parser.ParseDatum(bytes.NewBuffer([]byte(str)))
}

func (env *Skink) EvalExpressions(xs []Sexp) (Sexp, error) {
	var res Sexp = SexpNull
	var err error
	for _, x := range xs {
		res, err = env.EvalExpr(x, env.globalScope)
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

func (env *Skink) EvalString(str string) (Sexp, error) {
	exprs, err := env.ParseString(str)
	if err != nil {
		return SexpNull, err
	}
	return env.EvalExpressions(exprs)
}

func (env *Skink) EvalFile(file *os.File) (Sexp, error) {
	exprs, err := env.ParseStream(bufio.NewReader(file))
	if err != nil {
		return SexpNull, err
	}
	return env.EvalExpressions(exprs)
}

func (env *Skink) DumpEnvironment() {
	P("symbols interned: %d", len(env.symtable))
	P("%s", env.globalScope.Show(0))
}
