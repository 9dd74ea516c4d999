package shapley

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Explanation holds the contributions for one explained row.
type Explanation struct {
	// RowID is the original row id.
	RowID string
	// Prediction is the model output for the unperturbed row.
	Prediction []float64
	// Values is a features × targets matrix of contributions.
	Values *mat.Dense
}

// Features returns the number of explained features.
func (e Explanation) Features() int {
	r, _ := e.Values.Dims()

	return r
}

// Targets returns the number of model outputs.
func (e Explanation) Targets() int {
	_, c := e.Values.Dims()

	return c
}

// Contribution returns the contribution of feature f to target t.
func (e Explanation) Contribution(f, t int) float64 {
	return e.Values.At(f, t)
}

// Feature returns the contributions of feature f to every target.
func (e Explanation) Feature(f int) []float64 {
	return mat.Row(nil, f, e.Values)
}

// Sum returns Σ_f contribution(f, t).
func (e Explanation) Sum(t int) float64 {
	return floats.Sum(mat.Col(nil, t, e.Values))
}
