package explain

import (
	"context"
	"fmt"

	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/shapley"
)

// Predictor scores a batch of rows, returning one fixed-width prediction
// vector per row in the same order.
type Predictor interface {
	Predict(ctx context.Context, rows []dataset.Row) ([][]float64, error)
}

// PredictorFunc adapts a per-row scoring function to Predictor.
type PredictorFunc func(v dataset.Vector) []float64

// Predict scores each row with f.
func (f PredictorFunc) Predict(ctx context.Context, rows []dataset.Row) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = f(r.Values)
	}

	return out, nil
}

// Run drives every round-trip of e against an in-process predictor and
// streams explanations to yield. It returns the baseline (nullFx). e is
// closed when Run returns; a Close failure is reported when nothing else failed.
func Run(ctx context.Context, e *Explainer, p Predictor, yield func(shapley.Explanation) error) (baseline []float64, err error) {
	defer func() {
		if cerr := e.Close(); cerr != nil && err == nil {
			baseline, err = nil, cerr
		}
	}()

	for e.HasNextChunk() {
		c, err := e.GenerateNextChunk(ctx)
		if err != nil {
			return nil, err
		}
		values, err := p.Predict(ctx, c.Rows)
		if err != nil {
			return nil, e.fail(fmt.Errorf("explain: predict chunk %d: %w", c.Index, err))
		}
		if len(values) != len(c.Rows) {
			return nil, e.fail(fmt.Errorf("%w: %w: predictor returned %d rows for chunk %d of %d rows",
				shapley.ErrProtocolViolation, shapley.ErrMissingPair, len(values), c.Index, len(c.Rows)))
		}
		preds := make([]shapley.Prediction, len(values))
		for i := range values {
			preds[i] = shapley.Prediction{RowID: c.Rows[i].ID, Values: values[i]}
		}
		if err = e.ConsumePredictions(ctx, shapley.NewSlicePredictions(preds), yield); err != nil {
			return nil, err
		}
	}

	return e.Baseline()
}
