package skink

import (
	"fmt"
)

// recurSignal carries the already-evaluated arguments of a recur up
// to the innermost loop body or lambda application, which rebinds
// and iterates. The grammar guarantees a recur can only ever sit in
// a tail slot, so a signal never escapes past its catcher.
type recurSignal struct {
	args []Sexp
}

func (r *recurSignal) SexpString() string {
	return "#<recur>"
}

// EvalExpr evaluates one expression. Tail slots (the arms of if, the
// final expression of begin/let bodies) re-enter the loop instead of
// recursing, so tail chains run in constant Go stack; recur-driven
// iteration adds no stack at all.
func (env *Skink) EvalExpr(expr Sexp, scope *Scope) (Sexp, error) {
	for {
		switch e := expr.(type) {
		case SexpSymbol:
			return scope.LookupSymbol(e)

		case *SexpQuote:
			return e.Inner, nil

		case *SexpDefine:
			val, err := env.EvalExpr(e.Expr, scope)
			if err != nil {
				return SexpNull, err
			}
			scope.BindSymbol(e.Name, val)
			return val, nil

		case *SexpBegin:
			n := len(e.Exprs)
			if n == 0 {
				return SexpNull, nil
			}
			for _, x := range e.Exprs[:n-1] {
				if _, err := env.EvalExpr(x, scope); err != nil {
					return SexpNull, err
				}
			}
			expr = e.Exprs[n-1]
			continue

		case *SexpIf:
			cond, err := env.EvalExpr(e.Cond, scope)
			if err != nil {
				return SexpNull, err
			}
			if IsTruthy(cond) {
				expr = e.Then
			} else {
				expr = e.Else
			}
			continue

		case *SexpLet:
			child, err := env.bindLet(e.Bindings, scope)
			if err != nil {
				return SexpNull, err
			}
			n := len(e.Body)
			for _, x := range e.Body[:n-1] {
				if _, err := env.EvalExpr(x, child); err != nil {
					return SexpNull, err
				}
			}
			expr = e.Body[n-1]
			scope = child
			continue

		case *SexpLoop:
			return env.evalLoop(e, scope)

		case *SexpRecur:
			args, err := env.evalArgs(e.Args, scope)
			if err != nil {
				return SexpNull, err
			}
			return &recurSignal{args: args}, nil

		case *SexpLambda:
			return env.MakeClosure(e, scope), nil

		case SexpPair:
			// a tail-position begin was re-listed by the parser;
			// treat it exactly like a SexpBegin
			head, isSym := e.Head.(SexpSymbol)
			if isSym && head.number == env.beginSym.number {
				arr, err := ListToArray(e.Tail)
				if err != nil {
					return SexpNull, err
				}
				if len(arr) == 0 {
					return SexpNull, nil
				}
				for _, x := range arr[:len(arr)-1] {
					if _, err := env.EvalExpr(x, scope); err != nil {
						return SexpNull, err
					}
				}
				expr = arr[len(arr)-1]
				continue
			}
			return env.evalCall(e, scope)

		case SexpSentinel:
			if e == SexpNull {
				return SexpNull, fmt.Errorf("tried to evaluate ()")
			}
			return e, nil

		default:
			// literals evaluate to themselves
			return expr, nil
		}
	}
}

func (env *Skink) evalArgs(args []Sexp, scope *Scope) ([]Sexp, error) {
	vals := make([]Sexp, len(args))
	for i, a := range args {
		v, err := env.EvalExpr(a, scope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

// bindLet evaluates every binding expression in the outer scope
// first, then binds all names in one flat child scope: bindings see
// the outer scope only, never each other.
func (env *Skink) bindLet(bindings []Binding, scope *Scope) (*Scope, error) {
	vals := make([]Sexp, len(bindings))
	for i, b := range bindings {
		v, err := env.EvalExpr(b.Expr, scope)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}

	child := env.NewChildScope("let", scope)
	for i, b := range bindings {
		child.Map[b.Sym.number] = vals[i]
	}
	return child, nil
}

func (env *Skink) evalBody(body []Sexp, scope *Scope) (Sexp, error) {
	var res Sexp = SexpNull
	var err error
	for _, x := range body {
		res, err = env.EvalExpr(x, scope)
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

func (env *Skink) evalLoop(loop *SexpLoop, scope *Scope) (Sexp, error) {
	child, err := env.bindLet(loop.Bindings, scope)
	if err != nil {
		return SexpNull, err
	}

	for {
		res, err := env.evalBody(loop.Body, child)
		if err != nil {
			return SexpNull, err
		}
		rs, isRecur := res.(*recurSignal)
		if !isRecur {
			return res, nil
		}
		if len(rs.args) != len(loop.Bindings) {
			return SexpNull, fmt.Errorf("recur expected %d arguments, got %d",
				len(loop.Bindings), len(rs.args))
		}
		for i, b := range loop.Bindings {
			child.Map[b.Sym.number] = rs.args[i]
		}
	}
}

func (env *Skink) evalCall(list SexpPair, scope *Scope) (Sexp, error) {
	f, err := env.EvalExpr(list.Head, scope)
	if err != nil {
		return SexpNull, err
	}

	rawArgs, err := ListToArray(list.Tail)
	if err != nil {
		return SexpNull, fmt.Errorf("cannot call with an improper argument list")
	}
	args, err := env.evalArgs(rawArgs, scope)
	if err != nil {
		return SexpNull, err
	}

	fun, isFun := f.(*SexpFunction)
	if !isFun {
		return SexpNull, fmt.Errorf("tried to call %s, which is not possible",
			f.SexpString())
	}
	return env.Apply(fun, args)
}

// Apply calls fun on already-evaluated args. A recur signal coming
// back from a script function's body rebinds the parameters and
// re-runs the body in place, which is what makes self tail calls run
// in constant stack.
func (env *Skink) Apply(fun *SexpFunction, args []Sexp) (Sexp, error) {
	if fun.user {
		return fun.userfun(env, fun.name, args)
	}

	for {
		if len(args) != len(fun.params) {
			return SexpNull, fmt.Errorf("%s expected %d arguments, got %d",
				fun.name, len(fun.params), len(args))
		}

		fscope := env.NewChildScope(fun.name, fun.closure)
		for i, p := range fun.params {
			fscope.Map[p.number] = args[i]
		}

		res, err := env.evalBody(fun.body, fscope)
		if err != nil {
			return SexpNull, err
		}
		rs, isRecur := res.(*recurSignal)
		if !isRecur {
			return res, nil
		}
		args = rs.args
	}
}
