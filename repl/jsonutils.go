package skink

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/shurcooL/go-goon"
	"github.com/ugorji/go/codec"
)

// SexpRaw is a runtime-only byte-buffer value; the parser never
// produces one. It exists so msgpack output has somewhere to live.
type SexpRaw []byte

func (r SexpRaw) SexpString() string {
	return fmt.Sprintf("%#v", []byte(r))
}

type msgpackHelper struct {
	initialized bool
	mh          codec.MsgpackHandle
	jh          codec.JsonHandle
}

func (m *msgpackHelper) init() {
	if m.initialized {
		return
	}
	m.mh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.mh.RawToString = true
	m.mh.WriteExt = true
	m.mh.SignedInteger = true
	m.jh.MapType = reflect.TypeOf(map[string]interface{}(nil))
	m.jh.SignedInteger = true
	m.initialized = true
}

var msgpHelper msgpackHelper

func init() {
	msgpHelper.init()
}

// SexpToJson renders exp as JSON text: proper lists become arrays,
// the empty list [], atoms their obvious scalar. A dotted tail is
// appended as the final array element, since JSON has no pair type.
func SexpToJson(exp Sexp) string {
	switch e := exp.(type) {
	case SexpInt:
		return strconv.FormatInt(int64(e), 10)
	case SexpBool:
		if e {
			return "true"
		}
		return "false"
	case SexpChar:
		return strconv.Quote(string(rune(e)))
	case SexpStr:
		return strconv.Quote(string(e))
	case SexpSymbol:
		return strconv.Quote(e.name)
	case SexpSentinel:
		if e == SexpNull {
			return "[]"
		}
	case SexpPair:
		return pairJsonHelper(e)
	case *SexpQuote:
		return SexpToJson(e.Inner)
	}
	return strconv.Quote(exp.SexpString())
}

func pairJsonHelper(pair SexpPair) string {
	str := "[" + SexpToJson(pair.Head)
	rest := pair.Tail
	for {
		switch t := rest.(type) {
		case SexpPair:
			str += ", " + SexpToJson(t.Head)
			rest = t.Tail
			continue
		case SexpSentinel:
			if t == SexpNull {
				return str + "]"
			}
		}
		break
	}
	return str + ", " + SexpToJson(rest) + "]"
}

// json -> go
func JsonToGo(json []byte) (interface{}, error) {
	var iface interface{}
	decoder := codec.NewDecoderBytes(json, &msgpHelper.jh)
	err := decoder.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

// go -> json
func GoToJson(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	encoder := codec.NewEncoder(&w, &msgpHelper.jh)
	err := encoder.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// go -> msgpack
func GoToMsgpack(iface interface{}) ([]byte, error) {
	var w bytes.Buffer
	enc := codec.NewEncoder(&w, &msgpHelper.mh)
	err := enc.Encode(&iface)
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// msgpack -> go
func MsgpackToGo(msgp []byte) (interface{}, error) {
	var iface interface{}
	dec := codec.NewDecoderBytes(msgp, &msgpHelper.mh)
	err := dec.Decode(&iface)
	if err != nil {
		return nil, err
	}
	return iface, nil
}

func JsonToSexp(json []byte, env *Skink) (Sexp, error) {
	iface, err := JsonToGo(json)
	if err != nil {
		return SexpNull, err
	}
	return GoToSexp(iface, env)
}

// translate sexp -> json -> go -> msgpack
func SexpToMsgpack(exp Sexp) ([]byte, error) {
	json := []byte(SexpToJson(exp))
	iface, err := JsonToGo(json)
	if err != nil {
		return nil, err
	}
	return GoToMsgpack(iface)
}

func MsgpackToSexp(msgp []byte, env *Skink) (Sexp, error) {
	iface, err := MsgpackToGo(msgp)
	if err != nil {
		return SexpNull, fmt.Errorf("MsgpackToSexp failed at MsgpackToGo step: '%s'", err)
	}
	sexp, err := GoToSexp(iface, env)
	if err != nil {
		return SexpNull, fmt.Errorf("MsgpackToSexp failed at GoToSexp step: '%s'", err)
	}
	return sexp, nil
}

// GoToSexp maps decoded interface{} trees onto the AST: arrays to
// proper lists, objects to association lists of (key . value) pairs
// sorted by key. The language is integer-only, so fractional numbers
// are refused rather than rounded.
func GoToSexp(iface interface{}, env *Skink) (Sexp, error) {
	switch it := iface.(type) {
	case nil:
		return SexpNull, nil
	case bool:
		return SexpBool(it), nil
	case string:
		return SexpStr(it), nil
	case int64:
		return SexpInt(it), nil
	case uint64:
		return SexpInt(int64(it)), nil
	case float64:
		i := int64(it)
		if float64(i) != it {
			return SexpNull, fmt.Errorf("no fractional numbers here: %v", it)
		}
		return SexpInt(i), nil
	case []interface{}:
		arr := make([]Sexp, len(it))
		for i, elem := range it {
			s, err := GoToSexp(elem, env)
			if err != nil {
				return SexpNull, err
			}
			arr[i] = s
		}
		return MakeList(arr), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(it))
		for k := range it {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		arr := make([]Sexp, len(keys))
		for i, k := range keys {
			v, err := GoToSexp(it[k], env)
			if err != nil {
				return SexpNull, err
			}
			arr[i] = Cons(SexpStr(k), v)
		}
		return MakeList(arr), nil
	}
	return SexpNull, fmt.Errorf("unhandled type %T in GoToSexp", iface)
}

func JsonFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}

	switch name {
	case "json":
		return SexpStr(SexpToJson(args[0])), nil
	case "unjson":
		str, ok := args[0].(SexpStr)
		if !ok {
			return SexpNull, errors.New("unjson requires a string")
		}
		return JsonToSexp([]byte(str), env)
	case "msgpack":
		by, err := SexpToMsgpack(args[0])
		if err != nil {
			return SexpNull, err
		}
		return SexpRaw(by), nil
	case "unmsgpack":
		raw, ok := args[0].(SexpRaw)
		if !ok {
			return SexpNull, errors.New("unmsgpack requires raw bytes")
		}
		return MsgpackToSexp([]byte(raw), env)
	}
	return SexpNull, fmt.Errorf("unknown encoding op %s", name)
}

func GoonDumpFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	fmt.Printf("\n")
	goon.Dump(args[0])
	return SexpNull, nil
}

var EncodingFunctions = map[string]SkinkUserFunction{
	"json":      JsonFunction,
	"unjson":    JsonFunction,
	"msgpack":   JsonFunction,
	"unmsgpack": JsonFunction,
	"dump":      GoonDumpFunction,
	"hash64":    HashFunction,
}
