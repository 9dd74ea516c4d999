// Package model provides small in-process predictors for running an
// explanation session without an external scorer: the CLI uses them, and so
// do tests that need a model with a known closed-form explanation.
package model

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/shapstream/dataset"
)

var (
	// ErrShape indicates weights or bias of inconsistent dimensions.
	ErrShape = errors.New("model: inconsistent shape")

	// ErrWidth indicates an input row whose width differs from the model.
	ErrWidth = errors.New("model: input width mismatch")
)

// Linear computes y = W·x + b for every row; W is targets × features.
type Linear struct {
	w *mat.Dense
	b *mat.VecDense
}

// NewLinear builds a Linear model. bias may be nil (all zeros).
func NewLinear(weights [][]float64, bias []float64) (*Linear, error) {
	if len(weights) == 0 || len(weights[0]) == 0 {
		return nil, fmt.Errorf("%w: empty weight matrix", ErrShape)
	}
	targets, features := len(weights), len(weights[0])
	w := mat.NewDense(targets, features, nil)
	for t, row := range weights {
		if len(row) != features {
			return nil, fmt.Errorf("%w: weight row %d has %d entries, want %d", ErrShape, t, len(row), features)
		}
		w.SetRow(t, row)
	}
	b := mat.NewVecDense(targets, nil)
	if bias != nil {
		if len(bias) != targets {
			return nil, fmt.Errorf("%w: bias has %d entries, want %d", ErrShape, len(bias), targets)
		}
		for t, v := range bias {
			b.SetVec(t, v)
		}
	}

	return &Linear{w: w, b: b}, nil
}

// Features returns the input width.
func (l *Linear) Features() int {
	_, c := l.w.Dims()

	return c
}

// Targets returns the output width.
func (l *Linear) Targets() int {
	r, _ := l.w.Dims()

	return r
}

// Predict scores every row in order.
func (l *Linear) Predict(ctx context.Context, rows []dataset.Row) ([][]float64, error) {
	out := make([][]float64, len(rows))
	y := mat.NewVecDense(l.Targets(), nil)
	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.Values.Len() != l.Features() {
			return nil, fmt.Errorf("%w: row %q has %d values, model has %d", ErrWidth, r.ID, r.Values.Len(), l.Features())
		}
		y.MulVec(l.w, mat.NewVecDense(r.Values.Len(), r.Values.Clone()))
		y.AddVec(y, l.b)
		out[i] = append([]float64(nil), y.RawVector().Data...)
	}

	return out, nil
}

// Sum returns a single-target model that adds up every feature.
// It panics if features <= 0.
func Sum(features int) *Linear {
	if features <= 0 {
		panic(fmt.Sprintf("model: Sum(%d): features must be > 0", features))
	}
	ones := make([]float64, features)
	for i := range ones {
		ones[i] = 1
	}
	l, err := NewLinear([][]float64{ones}, nil)
	if err != nil {
		panic(err)
	}

	return l
}
