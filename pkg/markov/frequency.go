package markov

import "iter"

// SymbolCount represents a potential next symbol after a context, together
// with how often it followed that context during training.
type SymbolCount[T comparable] struct {
	Symbol T
	Freq   int
}

// FrequencyTable counts how often each symbol followed one context. Entries
// keep the order in which their symbols were first added, so weighted
// selection walks them in the same order every time.
type FrequencyTable[T comparable] struct {
	entries []SymbolCount[T]
	index   map[T]int
	total   int
}

func newFrequencyTable[T comparable]() *FrequencyTable[T] {
	return &FrequencyTable[T]{index: make(map[T]int)}
}

// Add increments the count for s by one.
func (f *FrequencyTable[T]) Add(s T) {
	f.AddN(s, 1)
}

// AddN increments the count for s by n. Non-positive n is ignored so that
// counts stay positive.
func (f *FrequencyTable[T]) AddN(s T, n int) {
	if n <= 0 {
		return
	}
	if i, ok := f.index[s]; ok {
		f.entries[i].Freq += n
	} else {
		f.index[s] = len(f.entries)
		f.entries = append(f.entries, SymbolCount[T]{Symbol: s, Freq: n})
	}
	f.total += n
}

// Count returns the count recorded for s, or 0.
func (f *FrequencyTable[T]) Count(s T) int {
	if i, ok := f.index[s]; ok {
		return f.entries[i].Freq
	}
	return 0
}

// Total returns the sum of all counts.
func (f *FrequencyTable[T]) Total() int {
	return f.total
}

// Len returns the number of distinct symbols.
func (f *FrequencyTable[T]) Len() int {
	return len(f.entries)
}

// All iterates over symbols and counts in insertion order.
func (f *FrequencyTable[T]) All() iter.Seq2[T, int] {
	return func(yield func(T, int) bool) {
		for _, e := range f.entries {
			if !yield(e.Symbol, e.Freq) {
				return
			}
		}
	}
}

// choose maps a draw r in [1, Total()] to the first symbol whose cumulative
// count reaches r.
func (f *FrequencyTable[T]) choose(r int) (T, bool) {
	cumulative := 0
	for _, e := range f.entries {
		cumulative += e.Freq
		if r <= cumulative {
			return e.Symbol, true
		}
	}
	var zero T
	return zero, false
}

func (f *FrequencyTable[T]) clone() *FrequencyTable[T] {
	c := &FrequencyTable[T]{
		entries: make([]SymbolCount[T], len(f.entries)),
		index:   make(map[T]int, len(f.index)),
		total:   f.total,
	}
	copy(c.entries, f.entries)
	for s, i := range f.index {
		c.index[s] = i
	}
	return c
}
