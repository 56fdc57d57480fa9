package markov

import (
	"io"
)

// Tokenizer is an interface that defines the contract for splitting input text
// into training sequences and turning generated sequences back into text.
// This allows the model to stay independent of the symbol type and the
// tokenization strategy.
type Tokenizer[T comparable] interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer[T]
	// Render joins a generated sequence into its final string form.
	Render(symbols []T) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one training sequence at a time.
type StreamTokenizer[T comparable] interface {
	// Next returns the next sequence from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() ([]T, error)
}
