package shapley

import (
	"context"
	"io"

	"gonum.org/v1/gonum/floats"
)

// Baseline returns the per-target mean (nullFx) of every prediction in src.
// If want > 0 the stream must hold exactly want predictions.
// Complexity: O(m·t) for m predictions of width t.
func Baseline(ctx context.Context, src PredictionSource, want int) ([]float64, error) {
	var (
		sum []float64
		m   int
	)
	for {
		p, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(p.Values) == 0 {
			return nil, violation(ErrWidth, "background row %q has an empty prediction vector", p.RowID)
		}
		if sum == nil {
			sum = make([]float64, len(p.Values))
		}
		if len(p.Values) != len(sum) {
			return nil, violation(ErrWidth, "background row %q has %d targets, want %d", p.RowID, len(p.Values), len(sum))
		}
		floats.Add(sum, p.Values)
		m++
	}
	if m == 0 {
		return nil, violation(ErrNoPredictions, "baseline round returned no rows")
	}
	if want > 0 && m != want {
		return nil, violation(ErrMissingPair, "baseline round returned %d rows, want %d", m, want)
	}
	floats.Scale(1/float64(m), sum)

	return sum, nil
}
