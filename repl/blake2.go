package skink

import (
	"encoding/binary"

	"github.com/glycerine/blake2b"
)

// Blake2bUint64 returns the first 8 bytes of the blake2b hash of raw
// as a little-endian uint64.
func Blake2bUint64(raw []byte) uint64 {
	hasher, err := blake2b.New(&blake2b.Config{Size: 8})
	panicOn(err)
	hasher.Write(raw)
	return binary.LittleEndian.Uint64(hasher.Sum(nil))
}

func HashFunction(env *Skink, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	var raw []byte
	switch t := args[0].(type) {
	case SexpStr:
		raw = []byte(t)
	case SexpRaw:
		raw = []byte(t)
	case SexpSymbol:
		raw = []byte(t.name)
	default:
		raw = []byte(t.SexpString())
	}
	return SexpInt(int64(Blake2bUint64(raw))), nil
}
