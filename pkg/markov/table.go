package markov

import "iter"

// contextTable maps context keys to values. Keys are bucketed by their hash
// and matched with Equal, so colliding keys never share a value.
type contextTable[T comparable, V any] struct {
	buckets map[uint64][]int
	keys    []ContextKey[T]
	values  []V
}

func newContextTable[T comparable, V any]() *contextTable[T, V] {
	return &contextTable[T, V]{buckets: make(map[uint64][]int)}
}

func (t *contextTable[T, V]) find(key ContextKey[T]) (int, bool) {
	for _, i := range t.buckets[key.Hash()] {
		if t.keys[i].Equal(key) {
			return i, true
		}
	}
	return 0, false
}

// get returns the value stored under key.
func (t *contextTable[T, V]) get(key ContextKey[T]) (V, bool) {
	if i, ok := t.find(key); ok {
		return t.values[i], true
	}
	var zero V
	return zero, false
}

// ref returns a pointer to the value stored under key, inserting init() first
// if the key is absent. The pointer is valid until the next insert.
func (t *contextTable[T, V]) ref(key ContextKey[T], init func() V) *V {
	i, ok := t.find(key)
	if !ok {
		i = len(t.keys)
		t.keys = append(t.keys, key)
		t.values = append(t.values, init())
		t.buckets[key.Hash()] = append(t.buckets[key.Hash()], i)
	}
	return &t.values[i]
}

func (t *contextTable[T, V]) len() int {
	return len(t.keys)
}

// all iterates over keys and values in insertion order.
func (t *contextTable[T, V]) all() iter.Seq2[ContextKey[T], V] {
	return func(yield func(ContextKey[T], V) bool) {
		for i, k := range t.keys {
			if !yield(k, t.values[i]) {
				return
			}
		}
	}
}
