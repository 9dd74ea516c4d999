package shapley

import (
	"context"
	"io"
)

// Prediction is one scored row: the row id the scorer received and the
// fixed-width prediction vector it produced (one entry per target).
type Prediction struct {
	RowID  string
	Values []float64
}

// PredictionSource is the ordered stream of predictions for one round-trip.
// Next returns io.EOF at the end. Close releases underlying resources.
type PredictionSource interface {
	Next(ctx context.Context) (Prediction, error)
	Close() error
}

// SlicePredictions serves predictions from memory.
type SlicePredictions struct {
	preds []Prediction
	pos   int
}

// NewSlicePredictions returns a PredictionSource over preds.
func NewSlicePredictions(preds []Prediction) *SlicePredictions {
	return &SlicePredictions{preds: preds}
}

// Next returns the next prediction or io.EOF.
func (s *SlicePredictions) Next(ctx context.Context) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if s.pos >= len(s.preds) {
		return Prediction{}, io.EOF
	}
	p := s.preds[s.pos]
	s.pos++

	return p, nil
}

// Close is a no-op.
func (s *SlicePredictions) Close() error { return nil }
