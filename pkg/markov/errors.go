package markov

import "errors"

var (
	// ErrInvalidArgument is returned when a model is constructed or combined
	// with parameters it cannot accept, such as a negative order.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvariantViolation is the panic value used when the model's internal
	// sliding window grows past the model order. It indicates a bug in this
	// package, not bad input.
	ErrInvariantViolation = errors.New("internal invariant violation")
)
