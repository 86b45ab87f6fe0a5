package skink

import (
	"errors"
	"fmt"
)

func signumInt(i int64) int {
	if i > 0 {
		return 1
	}
	if i < 0 {
		return -1
	}
	return 0
}

func compareInt(a SexpInt, b Sexp) (int, error) {
	switch bt := b.(type) {
	case SexpInt:
		return signumInt(int64(a) - int64(bt)), nil
	case SexpChar:
		return signumInt(int64(a) - int64(bt)), nil
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}

func compareChar(a SexpChar, b Sexp) (int, error) {
	switch bt := b.(type) {
	case SexpInt:
		return signumInt(int64(a) - int64(bt)), nil
	case SexpChar:
		return signumInt(int64(a) - int64(bt)), nil
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}

func compareString(a SexpStr, b Sexp) (int, error) {
	switch bt := b.(type) {
	case SexpStr:
		if a == bt {
			return 0, nil
		}
		if a < bt {
			return -1, nil
		}
		return 1, nil
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}

func compareBool(a SexpBool, b Sexp) (int, error) {
	switch bt := b.(type) {
	case SexpBool:
		// false < true
		if a == bt {
			return 0, nil
		}
		if bt {
			return -1, nil
		}
		return 1, nil
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}

func compareSymbol(a SexpSymbol, b Sexp) (int, error) {
	switch bt := b.(type) {
	case SexpSymbol:
		// interned ids give symbol identity
		return signumInt(int64(a.number) - int64(bt.number)), nil
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}

func comparePair(a SexpPair, b Sexp) (int, error) {
	var bp SexpPair
	switch t := b.(type) {
	case SexpPair:
		bp = t
	default:
		errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
		return 0, errors.New(errmsg)
	}
	res, err := Compare(a.Head, bp.Head)
	if err != nil {
		return 0, err
	}
	if res != 0 {
		return res, nil
	}
	return Compare(a.Tail, bp.Tail)
}

// Compare gives a total order over comparable pairs of values:
// negative, zero, or positive. Structural over pairs, identity over
// symbols.
func Compare(a Sexp, b Sexp) (int, error) {
	switch at := a.(type) {
	case SexpInt:
		return compareInt(at, b)
	case SexpChar:
		return compareChar(at, b)
	case SexpBool:
		return compareBool(at, b)
	case SexpStr:
		return compareString(at, b)
	case SexpSymbol:
		return compareSymbol(at, b)
	case SexpPair:
		return comparePair(at, b)
	case SexpSentinel:
		if at == SexpNull && b == SexpNull {
			return 0, nil
		}
		return -1, nil
	case *SexpQuote:
		bq, ok := b.(*SexpQuote)
		if ok {
			return Compare(at.Inner, bq.Inner)
		}
	}
	errmsg := fmt.Sprintf("cannot compare %T to %T", a, b)
	return 0, errors.New(errmsg)
}
