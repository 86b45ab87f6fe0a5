package skink

import (
	"fmt"
	"sort"
)

type Scope struct {
	Map      map[int]Sexp
	IsGlobal bool
	Name     string
	Parent   *Scope
	env      *Skink
}

func (env *Skink) NewScope() *Scope {
	return &Scope{
		Map: make(map[int]Sexp),
		env: env,
	}
}

func (env *Skink) NewNamedScope(name string) *Scope {
	return &Scope{
		Map:  make(map[int]Sexp),
		Name: name,
		env:  env,
	}
}

func (env *Skink) NewChildScope(name string, parent *Scope) *Scope {
	s := env.NewNamedScope(name)
	s.Parent = parent
	return s
}

func (s *Scope) BindSymbol(sym SexpSymbol, expr Sexp) {
	s.Map[sym.number] = expr
}

func (s *Scope) LookupSymbol(sym SexpSymbol) (Sexp, error) {
	for scope := s; scope != nil; scope = scope.Parent {
		expr, ok := scope.Map[sym.number]
		if ok {
			return expr, nil
		}
	}
	return SexpNull, fmt.Errorf("symbol `%s` not found", sym.name)
}

// Show prints the scope chain, outermost last, for the repl's dump
// command.
func (s *Scope) Show(indent int) string {
	str := ""
	pad := ""
	for i := 0; i < indent; i++ {
		pad += " "
	}
	for scope := s; scope != nil; scope = scope.Parent {
		label := scope.Name
		if label == "" {
			label = "scope"
		}
		str += fmt.Sprintf("%s---- %s ----\n", pad, label)

		names := make([]string, 0, len(scope.Map))
		byName := make(map[string]Sexp)
		for num, val := range scope.Map {
			name, ok := scope.env.SymbolName(num)
			if !ok {
				name = fmt.Sprintf("#%d", num)
			}
			names = append(names, name)
			byName[name] = val
		}
		sort.Strings(names)
		for _, name := range names {
			str += fmt.Sprintf("%s%s -> %s\n", pad, name, byName[name].SexpString())
		}
	}
	return str
}
