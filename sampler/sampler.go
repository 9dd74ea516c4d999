// Package sampler supplies replacement values for perturbed feature slots.
//
// A Sampler is consulted once per perturbed slot. Implementations that draw
// randomly own their *rand.Rand; a Sampler is never shared between sessions
// so that a seed fully determines a run.
package sampler

import (
	"errors"
	"math/rand"

	"github.com/katalvlaran/shapstream/dataset"
)

// ErrEmptyBackground indicates a Uniform sampler over zero rows.
var ErrEmptyBackground = errors.New("sampler: background table is empty")

// ErrNilRand indicates a Uniform sampler without a random source.
var ErrNilRand = errors.New("sampler: rng is required")

// Sampler draws a replacement value for the given feature index.
type Sampler interface {
	Sample(feature int) float64
}

// Uniform draws each replacement from a uniformly chosen background row.
type Uniform struct {
	bg  *dataset.Table
	rng *rand.Rand
}

// NewUniform returns a Uniform sampler over bg using rng.
// Complexity: O(1); each Sample is O(1).
func NewUniform(bg *dataset.Table, rng *rand.Rand) (*Uniform, error) {
	if bg == nil || bg.Len() == 0 {
		return nil, ErrEmptyBackground
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	return &Uniform{bg: bg, rng: rng}, nil
}

// Sample returns feature's value from a random background row.
func (u *Uniform) Sample(feature int) float64 {
	return u.bg.Value(u.rng.Intn(u.bg.Len()), feature)
}

// Constant always returns the same value.
type Constant float64

// Sample returns c.
func (c Constant) Sample(int) float64 { return float64(c) }

// Func adapts a plain function to Sampler.
type Func func(feature int) float64

// Sample calls f.
func (f Func) Sample(feature int) float64 { return f(feature) }
