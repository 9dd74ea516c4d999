package shapley

import (
	"errors"
	"fmt"
)

// ErrProtocolViolation is the umbrella for every ordering or lineage failure
// in a scored stream. Every error below is reported wrapped in it.
var ErrProtocolViolation = errors.New("shapley: protocol violation")

var (
	// ErrMissingPair indicates a prediction without its partner, a truncated
	// stream, or a pair count different from the configured iterations.
	ErrMissingPair = errors.New("missing pair")

	// ErrOutOfSequence indicates a feature, iteration or intact/replaced
	// marker arriving out of the emitted order.
	ErrOutOfSequence = errors.New("out of sequence")

	// ErrUnexpectedKey indicates a row id that is not the generated key
	// expected at that position.
	ErrUnexpectedKey = errors.New("unexpected key")

	// ErrWidth indicates a prediction vector whose width differs from the others.
	ErrWidth = errors.New("prediction width mismatch")

	// ErrNoPredictions indicates an empty scored stream where rows were expected.
	ErrNoPredictions = errors.New("no predictions")
)

// violation wraps kind in ErrProtocolViolation with a formatted diagnostic.
func violation(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrProtocolViolation, kind, fmt.Sprintf(format, args...))
}
