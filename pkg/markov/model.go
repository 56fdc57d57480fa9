package markov

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
)

// Model is a variable-order Markov chain over symbols of type T. It records,
// for every context of at most Order preceding symbols, how often each symbol
// followed it and how often a training sequence ended there.
//
// A Model is not safe for concurrent use. Callers that need to generate from
// several goroutines should synchronize externally or give each goroutine its
// own Clone.
type Model[T comparable] struct {
	order       int
	transitions *contextTable[T, *FrequencyTable[T]]
	termini     *contextTable[T, int]
	logger      *slog.Logger
}

// NewModel creates an empty model of the given order. Order 0 is a unigram
// model where every symbol is drawn from the same, empty, context. A negative
// order returns an error wrapping ErrInvalidArgument.
func NewModel[T comparable](order int) (*Model[T], error) {
	if order < 0 {
		return nil, fmt.Errorf("%w: order must not be negative, got %d", ErrInvalidArgument, order)
	}
	return &Model[T]{
		order:       order,
		transitions: newContextTable[T, *FrequencyTable[T]](),
		termini:     newContextTable[T, int](),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// Order returns the maximum number of preceding symbols used as context.
func (m *Model[T]) Order() int {
	return m.order
}

// keyFor builds the context key for the current window. The window is
// maintained by this package and must never exceed the order.
func (m *Model[T]) keyFor(window []T) ContextKey[T] {
	if len(window) > m.order {
		panic(fmt.Errorf("%w: window of %d symbols exceeds order %d", ErrInvariantViolation, len(window), m.order))
	}
	return NewContextKey(window)
}

// NextSymbols returns every symbol observed after the given context together
// with the sum of their counts. Only the last Order symbols of context are
// used. If the context was never followed by a symbol, it returns a nil slice
// and a total of 0.
func (m *Model[T]) NextSymbols(context []T) ([]SymbolCount[T], int) {
	freq, ok := m.transitions.get(m.keyFor(m.trim(context)))
	if !ok {
		return nil, 0
	}
	symbols := make([]SymbolCount[T], 0, freq.Len())
	for s, n := range freq.All() {
		symbols = append(symbols, SymbolCount[T]{Symbol: s, Freq: n})
	}
	return symbols, freq.Total()
}

// TerminusWeight returns how many training sequences ended with the given
// context. Only the last Order symbols of context are used.
func (m *Model[T]) TerminusWeight(context []T) int {
	n, _ := m.termini.get(m.keyFor(m.trim(context)))
	return n
}

// Contexts iterates over every context that has at least one recorded
// transition, in the order they were first seen.
func (m *Model[T]) Contexts() iter.Seq[ContextKey[T]] {
	return func(yield func(ContextKey[T]) bool) {
		for k := range m.transitions.all() {
			if !yield(k) {
				return
			}
		}
	}
}

// Transitions iterates over every context with its frequency table. The
// tables must not be modified.
func (m *Model[T]) Transitions() iter.Seq2[ContextKey[T], *FrequencyTable[T]] {
	return m.transitions.all()
}

// Termini iterates over every context at which a training sequence ended,
// with the number of sequences that ended there.
func (m *Model[T]) Termini() iter.Seq2[ContextKey[T], int] {
	return m.termini.all()
}

// Merge adds the counts of other into m, as if m had also been trained on
// everything other was trained on. Both models must have the same order.
func (m *Model[T]) Merge(other *Model[T]) error {
	if other.order != m.order {
		return fmt.Errorf("%w: cannot merge model of order %d into model of order %d", ErrInvalidArgument, other.order, m.order)
	}

	for key, freq := range other.transitions.all() {
		dst := *m.transitions.ref(key, newFrequencyTable[T])
		for s, n := range freq.All() {
			dst.AddN(s, n)
		}
	}
	for key, n := range other.termini.all() {
		*m.termini.ref(key, zeroCount) += n
	}

	m.logger.Info("Model merged",
		slog.Int("order", m.order),
		slog.Int("contexts_merged", other.transitions.len()),
		slog.Int("termini_merged", other.termini.len()),
	)
	return nil
}

// Clone returns a copy of m whose tables share nothing with m. The logger is
// shared.
func (m *Model[T]) Clone() *Model[T] {
	c := &Model[T]{
		order:       m.order,
		transitions: newContextTable[T, *FrequencyTable[T]](),
		termini:     newContextTable[T, int](),
		logger:      m.logger,
	}
	for key, freq := range m.transitions.all() {
		*c.transitions.ref(key, newFrequencyTable[T]) = freq.clone()
	}
	for key, n := range m.termini.all() {
		*c.termini.ref(key, zeroCount) = n
	}
	return c
}

// trim returns the last Order symbols of context.
func (m *Model[T]) trim(context []T) []T {
	if len(context) > m.order {
		return context[len(context)-m.order:]
	}
	return context
}

func zeroCount() int { return 0 }
