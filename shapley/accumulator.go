// SPDX-License-Identifier: MIT

package shapley

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrBadIterations indicates a non-positive iteration count.
	ErrBadIterations = errors.New("shapley: iterations per feature must be > 0")

	// ErrBadFeatures indicates a non-positive feature count.
	ErrBadFeatures = errors.New("shapley: feature count must be > 0")
)

// Accumulator averages A−B differences over the pairs of one (row, foi).
//
// Predictions are added in emitted order A₁, B₁, A₂, B₂, …; Result divides
// the running sum by the configured iteration count k. An Accumulator is
// reused across features via Reset.
type Accumulator struct {
	k       int
	width   int
	sum     []float64
	pending []float64
	halfway bool
	pairs   int
}

// NewAccumulator returns an Accumulator for k pairs of width-wide
// predictions. width 0 means "take the width of the first prediction".
func NewAccumulator(k, width int) (*Accumulator, error) {
	if k <= 0 {
		return nil, ErrBadIterations
	}
	a := &Accumulator{k: k}
	if width > 0 {
		a.setWidth(width)
	}

	return a, nil
}

func (a *Accumulator) setWidth(w int) {
	a.width = w
	a.sum = make([]float64, w)
	a.pending = make([]float64, w)
}

// Width returns the prediction width, or 0 if not known yet.
func (a *Accumulator) Width() int { return a.width }

// Add feeds the next prediction of the alternating A/B sequence.
func (a *Accumulator) Add(values []float64) error {
	if len(values) == 0 {
		return violation(ErrWidth, "empty prediction vector")
	}
	if a.width == 0 {
		a.setWidth(len(values))
	}
	if len(values) != a.width {
		return violation(ErrWidth, "got %d targets, want %d", len(values), a.width)
	}
	if !a.halfway {
		copy(a.pending, values)
		a.halfway = true

		return nil
	}
	if a.pairs == a.k {
		return violation(ErrMissingPair, "more than %d pairs", a.k)
	}
	floats.Add(a.sum, a.pending)
	floats.Sub(a.sum, values)
	a.halfway = false
	a.pairs++

	return nil
}

// Pairs returns the number of complete pairs consumed so far.
func (a *Accumulator) Pairs() int { return a.pairs }

// Result returns (1/k)·Σ(Aᵢ−Bᵢ) per target.
// It fails if an A is still waiting for its B or if fewer than k pairs arrived.
func (a *Accumulator) Result() ([]float64, error) {
	if a.halfway {
		return nil, violation(ErrMissingPair, "odd number of predictions: pair %d has no replaced prediction", a.pairs)
	}
	if a.pairs != a.k {
		return nil, violation(ErrMissingPair, "got %d pairs, want %d", a.pairs, a.k)
	}
	out := make([]float64, a.width)
	copy(out, a.sum)
	floats.Scale(1/float64(a.k), out)

	return out, nil
}

// Reset clears the running state but keeps k and the learned width.
func (a *Accumulator) Reset() {
	for i := range a.sum {
		a.sum[i] = 0
	}
	a.halfway = false
	a.pairs = 0
}

// Contribution is a one-shot helper over an in-memory A₁,B₁,…,A_k,B_k sequence.
func Contribution(values [][]float64, k int) ([]float64, error) {
	a, err := NewAccumulator(k, 0)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if err = a.Add(v); err != nil {
			return nil, err
		}
	}

	return a.Result()
}
