package perturb

import "errors"

var (
	// ErrBadIterations indicates a non-positive iterations-per-feature count.
	ErrBadIterations = errors.New("perturb: iterations per feature must be > 0")

	// ErrFeatureIndex indicates a feature index outside [0, n).
	ErrFeatureIndex = errors.New("perturb: feature index out of range")

	// ErrEmptyRow indicates a row with no features.
	ErrEmptyRow = errors.New("perturb: row has no features")

	// ErrNilSampler indicates a missing sampler.
	ErrNilSampler = errors.New("perturb: sampler is nil")
)
