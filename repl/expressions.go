package skink

import (
	"reflect"
	"strconv"
	"strings"
)

// Sexp is the tagged-union value type for every node the parser
// produces. Nodes are immutable once constructed; every node
// exclusively owns its children, so dropping a root releases the
// whole tree.
type Sexp interface {
	SexpString() string
}

type SexpInt int64
type SexpBool bool
type SexpChar rune
type SexpStr string

type SexpSentinel int

const (
	SexpNull SexpSentinel = iota
	SexpEnd
)

func (sent SexpSentinel) SexpString() string {
	if sent == SexpNull {
		return "()"
	}
	if sent == SexpEnd {
		return "End"
	}
	return ""
}

// SexpPair is the list-construction primitive: proper lists are
// right-nested pairs ending in SexpNull.
type SexpPair struct {
	Head Sexp
	Tail Sexp
}

func Cons(a Sexp, b Sexp) SexpPair {
	return SexpPair{a, b}
}

func (pair SexpPair) SexpString() string {
	str := "("

	for {
		switch pair.Tail.(type) {
		case SexpPair:
			str += pair.Head.SexpString() + " "
			pair = pair.Tail.(SexpPair)
			continue
		}
		break
	}

	str += pair.Head.SexpString()

	if pair.Tail == SexpNull {
		str += ")"
	} else {
		str += " . " + pair.Tail.SexpString() + ")"
	}

	return str
}

// MakeList flattens a parsed element sequence into the canonical
// right-nested pair chain. An empty slice gives the canonical
// empty list.
func MakeList(expressions []Sexp) Sexp {
	if len(expressions) == 0 {
		return SexpNull
	}

	return Cons(expressions[0], MakeList(expressions[1:]))
}

func ListToArray(expr Sexp) ([]Sexp, error) {
	if !IsList(expr) {
		return nil, NotAList
	}
	arr := make([]Sexp, 0)

	for expr != SexpNull {
		list := expr.(SexpPair)
		arr = append(arr, list.Head)
		expr = list.Tail
	}

	return arr, nil
}

func IsList(expr Sexp) bool {
	if expr == SexpNull {
		return true
	}
	switch list := expr.(type) {
	case SexpPair:
		return IsList(list.Tail)
	}
	return false
}

// SexpSymbol instances compare and hash by interned number; two
// occurrences of the same text through one interner are identical.
type SexpSymbol struct {
	name   string
	number int
}

func (sym SexpSymbol) SexpString() string {
	return sym.name
}

func (sym SexpSymbol) Name() string {
	return sym.name
}

func (sym SexpSymbol) Number() int {
	return sym.number
}

// SexpQuote wraps a literal sub-tree. Its inner node was parsed by
// the data grammar, so special form keywords inside are inert
// symbols.
type SexpQuote struct {
	Inner Sexp
}

func (q *SexpQuote) SexpString() string {
	return "'" + q.Inner.SexpString()
}

type SexpBegin struct {
	Exprs []Sexp
}

func (b *SexpBegin) SexpString() string {
	str := "(begin"
	for _, x := range b.Exprs {
		str += " " + x.SexpString()
	}
	return str + ")"
}

type SexpDefine struct {
	Name SexpSymbol
	Expr Sexp
}

func (d *SexpDefine) SexpString() string {
	return "(define " + d.Name.name + " " + d.Expr.SexpString() + ")"
}

type SexpIf struct {
	Cond Sexp
	Then Sexp
	Else Sexp
}

func (f *SexpIf) SexpString() string {
	return "(if " + f.Cond.SexpString() + " " +
		f.Then.SexpString() + " " + f.Else.SexpString() + ")"
}

// Binding is one (name expr) pair from a let/loop binding list.
type Binding struct {
	Sym  SexpSymbol
	Expr Sexp
}

func bindingsString(bindings []Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = "(" + b.Sym.name + " " + b.Expr.SexpString() + ")"
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func bodyString(body []Sexp) string {
	str := ""
	for _, x := range body {
		str += " " + x.SexpString()
	}
	return str
}

// SexpLet binds in one flat scope; bindings see the outer scope
// only, never each other.
type SexpLet struct {
	Bindings []Binding
	Body     []Sexp
}

func (l *SexpLet) SexpString() string {
	return "(let " + bindingsString(l.Bindings) + bodyString(l.Body) + ")"
}

// SexpLoop is shaped exactly like SexpLet, but its body ends in a
// tail recur and may be re-entered. A loop form without a tail
// recur never produces one of these; it degrades to SexpLet.
type SexpLoop struct {
	Bindings []Binding
	Body     []Sexp
}

func (l *SexpLoop) SexpString() string {
	return "(loop " + bindingsString(l.Bindings) + bodyString(l.Body) + ")"
}

// SexpLambda's Name is advisory only (diagnostics/self-reference);
// it binds nothing.
type SexpLambda struct {
	Name   string
	Params []SexpSymbol
	Body   []Sexp
}

func (lam *SexpLambda) SexpString() string {
	str := "(lambda "
	if lam.Name != "" {
		str += lam.Name + " "
	}
	parts := make([]string, len(lam.Params))
	for i, p := range lam.Params {
		parts[i] = p.name
	}
	return str + "(" + strings.Join(parts, " ") + ")" +
		bodyString(lam.Body) + ")"
}

type SexpRecur struct {
	Args []Sexp
}

func (r *SexpRecur) SexpString() string {
	str := "(recur"
	for _, a := range r.Args {
		str += " " + a.SexpString()
	}
	return str + ")"
}

var SexpIntSize = reflect.TypeOf(SexpInt(0)).Bits()

func (b SexpBool) SexpString() string {
	if b {
		return "true"
	}
	return "false"
}

func (i SexpInt) SexpString() string {
	return strconv.FormatInt(int64(i), 10)
}

func (c SexpChar) SexpString() string {
	return "#" + strings.Trim(strconv.QuoteRune(rune(c)), "'")
}

func (s SexpStr) SexpString() string {
	return strconv.Quote(string(s))
}

func IsTruthy(expr Sexp) bool {
	switch e := expr.(type) {
	case SexpBool:
		return bool(e)
	case SexpInt:
		return e != 0
	case SexpChar:
		return e != 0
	case SexpSentinel:
		return e != SexpNull
	}
	return true
}
