package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
)

// AddSequence trains the model on one complete sequence. Each symbol is
// recorded as a transition from the window of up to Order symbols before it,
// and the window left after the last symbol records one terminus. An empty
// sequence only records a terminus for the empty context.
//
// Sequences are independent: no window carries over between calls.
func (m *Model[T]) AddSequence(items []T) {
	m.AddSeq(slices.Values(items))
}

// AddSeq is AddSequence for a lazily produced sequence. The sequence must be
// finite.
func (m *Model[T]) AddSeq(items iter.Seq[T]) {
	window := make([]T, 0, m.order+1)

	for s := range items {
		m.addTransition(window, s)

		window = append(window, s)
		if len(window) > m.order {
			window = window[1:]
		}
	}

	*m.termini.ref(m.keyFor(window), zeroCount)++
}

func (m *Model[T]) addTransition(window []T, s T) {
	freq := *m.transitions.ref(m.keyFor(window), newFrequencyTable[T])
	freq.Add(s)
}

// Train reads sequences from r using the tokenizer and adds each of them to
// the model. The context is checked between sequences; if it is cancelled,
// training stops and the context's error is returned along with the number of
// sequences already added. Sequences added before an error remain in the
// model.
func (m *Model[T]) Train(ctx context.Context, r io.Reader, tokenizer Tokenizer[T]) (int, error) {
	stream := tokenizer.NewStream(r)

	var sequenceCount int
	for {
		if err := ctx.Err(); err != nil {
			return sequenceCount, err
		}

		seq, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return sequenceCount, fmt.Errorf("tokenizer error: %w", err)
		}

		m.AddSequence(seq)
		sequenceCount++
	}

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("order", m.order),
		slog.Int("sequences_processed", sequenceCount),
		slog.Int("contexts", m.transitions.len()),
	)

	return sequenceCount, nil
}
