package markov

import (
	"iter"
	"log/slog"
	"math/rand/v2"
	"slices"
)

// Rand is the source of randomness used for generation. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a uniformly distributed integer in [0, n). n is always
	// positive.
	IntN(n int) int
}

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	rand      Rand
	maxLength int
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in generation functions like Generate and GenerateStream.
type GenerateOption func(*generateOptions)

// WithRand sets the source of randomness. Generation with the same model and
// a source in the same state produces the same sequence. The source is used
// without locking, so it must not be shared with concurrent generations.
//
// Without this option, every generated sequence gets a fresh source seeded
// from the runtime's global generator.
func WithRand(r Rand) GenerateOption {
	return func(o *generateOptions) { o.rand = r }
}

// WithMaxLength caps the number of symbols generated. The sequence may end
// earlier when the terminus is drawn. A value of 0 or less disables the cap,
// which is the default.
func WithMaxLength(n int) GenerateOption {
	return func(o *generateOptions) { o.maxLength = n }
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Generate returns a lazily generated sequence of symbols. Generation starts
// from the empty context, and at each step draws either a symbol that
// followed the current context in training or the terminus, weighted by their
// counts. The sequence ends when the terminus is drawn or the current context
// was never followed by a symbol in training.
//
// Each iteration over the returned sequence generates a new, independent
// sequence. Breaking out of the iteration early is always safe.
func (m *Model[T]) Generate(opts ...GenerateOption) iter.Seq[T] {
	return m.generateFrom(nil, newGenerateOptions(opts))
}

// GenerateFrom is like Generate, but starts from the context formed by the
// last Order symbols of seed instead of the empty context. The seed itself is
// not part of the returned sequence.
func (m *Model[T]) GenerateFrom(seed []T, opts ...GenerateOption) iter.Seq[T] {
	return m.generateFrom(slices.Clone(m.trim(seed)), newGenerateOptions(opts))
}

// GenerateSlice generates one sequence and returns it as a slice.
func (m *Model[T]) GenerateSlice(opts ...GenerateOption) []T {
	return slices.Collect(m.Generate(opts...))
}

// generateFrom contains the main loop for generating a sequence.
func (m *Model[T]) generateFrom(seed []T, options *generateOptions) iter.Seq[T] {
	return func(yield func(T) bool) {
		rng := options.rand
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}

		window := make([]T, len(seed), m.order+1)
		copy(window, seed)
		generatedCount := 0

		for {
			key := m.keyFor(window)

			freq, ok := m.transitions.get(key)
			if !ok { // Dead end in chain
				m.logger.Debug("Generation terminated due to dead-end",
					slog.String("last_context", key.String()),
					slog.Int("generated_length", generatedCount),
				)
				return
			}

			terminusWeight, _ := m.termini.get(key)
			next, ok := chooseNext(freq, terminusWeight, rng)
			if !ok {
				m.logger.Debug("Generation terminated by terminus",
					slog.String("last_context", key.String()),
					slog.Int("generated_length", generatedCount),
				)
				return
			}

			if !yield(next) {
				return
			}
			generatedCount++
			if options.maxLength > 0 && generatedCount >= options.maxLength {
				m.logger.Debug("Generation stopped at max length",
					slog.Int("max_length", options.maxLength),
				)
				return
			}

			window = append(window, next)
			if len(window) > m.order {
				// Shift in place so the window never reallocates.
				copy(window, window[1:])
				window = window[:m.order]
			}
		}
	}
}

// chooseNext draws r uniformly from [1, total+terminusWeight]. Draws past the
// symbol total select the terminus and return false; any other draw selects a
// symbol from freq in proportion to its count.
func chooseNext[T comparable](freq *FrequencyTable[T], terminusWeight int, rng Rand) (T, bool) {
	var zero T
	sumWeights := freq.Total()
	if sumWeights+terminusWeight <= 0 {
		return zero, false
	}

	r := rng.IntN(sumWeights+terminusWeight) + 1
	if r > sumWeights {
		return zero, false
	}
	return freq.choose(r)
}
