package markov

import (
	"context"
)

// GenerateStream generates one sequence and returns a read-only channel of its
// symbols. This allows consuming the sequence from another goroutine. The
// channel is closed once generation is complete or the context is cancelled.
// To stop reading before the channel is closed, cancel ctx; otherwise the
// generating goroutine stays blocked on its next send.
//
// The model must not be trained while the stream is open.
func (m *Model[T]) GenerateStream(ctx context.Context, opts ...GenerateOption) <-chan T {
	return m.generateStream(ctx, nil, opts...)
}

// GenerateStreamFrom is the streaming form of GenerateFrom.
func (m *Model[T]) GenerateStreamFrom(ctx context.Context, seed []T, opts ...GenerateOption) <-chan T {
	return m.generateStream(ctx, seed, opts...)
}

// generateStream contains the core logic for streaming generation.
func (m *Model[T]) generateStream(ctx context.Context, seed []T, opts ...GenerateOption) <-chan T {
	symbols := m.GenerateFrom(seed, opts...)
	symbolChan := make(chan T)

	go func() {
		defer close(symbolChan)

		for s := range symbols {
			select {
			case <-ctx.Done():
				m.logger.DebugContext(ctx, "Generation stream cancelled by context")
				return
			case symbolChan <- s:
			}
		}
	}()

	return symbolChan
}
