package markov

import (
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"iter"
	"math"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// symbolSeed seeds the fallback hash for symbol types without a fixed byte
// encoding. It is shared by the whole process so equal symbols always hash
// equal, regardless of which model hashed them.
var symbolSeed = maphash.MakeSeed()

// emptyKeyHash is the hash of every key with no symbols, including the zero
// ContextKey.
var emptyKeyHash = hashSymbols[struct{}](nil)

// ContextKey is an immutable snapshot of the most recent symbols of a
// sequence, used as the lookup key for transition and terminus weights.
//
// Two keys are equal when they have the same length and equal symbols at
// every position. The hash is derived from the length and every symbol's hash
// in order, and is computed once when the key is built.
type ContextKey[T comparable] struct {
	symbols []T
	hash    uint64
}

// NewContextKey copies symbols into a new key. Later changes to the passed
// slice do not affect the key.
func NewContextKey[T comparable](symbols []T) ContextKey[T] {
	k := ContextKey[T]{}
	if len(symbols) > 0 {
		k.symbols = make([]T, len(symbols))
		copy(k.symbols, symbols)
	}
	k.hash = hashSymbols(k.symbols)
	return k
}

// Len returns the number of symbols in the key.
func (k ContextKey[T]) Len() int {
	return len(k.symbols)
}

// At returns the symbol at position i, oldest first.
func (k ContextKey[T]) At(i int) T {
	return k.symbols[i]
}

// Symbols returns a copy of the key's symbols, oldest first.
func (k ContextKey[T]) Symbols() []T {
	out := make([]T, len(k.symbols))
	copy(out, k.symbols)
	return out
}

// All iterates over the positions and symbols of the key, oldest first.
func (k ContextKey[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, s := range k.symbols {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Equal reports whether k and other hold the same symbols in the same order.
func (k ContextKey[T]) Equal(other ContextKey[T]) bool {
	if len(k.symbols) != len(other.symbols) || k.Hash() != other.Hash() {
		return false
	}
	for i := range k.symbols {
		if k.symbols[i] != other.symbols[i] {
			return false
		}
	}
	return true
}

// Hash returns the key's hash. Equal keys always have equal hashes.
func (k ContextKey[T]) Hash() uint64 {
	if len(k.symbols) == 0 {
		return emptyKeyHash
	}
	return k.hash
}

// String renders the key for logs and test failures, e.g. "[a b]".
func (k ContextKey[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, s := range k.symbols {
		if i > 0 {
			sb.WriteByte(' ')
		}
		_, _ = fmt.Fprint(&sb, s)
	}
	sb.WriteByte(']')
	return sb.String()
}

// hashSymbols digests the length followed by each symbol hash, so that the
// result depends on position and not only on the multiset of symbols.
func hashSymbols[T comparable](symbols []T) uint64 {
	var buf [8]byte
	digest := xxhash.New()
	binary.LittleEndian.PutUint64(buf[:], uint64(len(symbols)))
	_, _ = digest.Write(buf[:])
	for _, s := range symbols {
		binary.LittleEndian.PutUint64(buf[:], hashSymbol(s))
		_, _ = digest.Write(buf[:])
	}
	return digest.Sum64()
}

// hashSymbol hashes a single symbol. Common scalar types go through xxhash
// over a fixed encoding and are stable across processes; anything else uses
// maphash, which honours == for every comparable type.
func hashSymbol[T comparable](s T) uint64 {
	var buf [8]byte
	switch v := any(s).(type) {
	case string:
		return xxhash.Sum64String(v)
	case int32: // rune
		binary.LittleEndian.PutUint32(buf[:4], uint32(v))
		return xxhash.Sum64(buf[:4])
	case uint8: // byte
		return xxhash.Sum64([]byte{v})
	case int:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case int16:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case int8:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case uint:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case uint64:
		binary.LittleEndian.PutUint64(buf[:], v)
	case uint32:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case uint16:
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
	case bool:
		if v {
			buf[0] = 1
		}
		return xxhash.Sum64(buf[:1])
	case float64:
		if v == 0 { // +0 == -0
			v = 0
		}
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	default:
		return maphash.Comparable(symbolSeed, s)
	}
	return xxhash.Sum64(buf[:])
}
