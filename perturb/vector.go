package perturb

import (
	"fmt"

	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/lineage"
	"github.com/katalvlaran/shapstream/sampler"
)

// Vector is a feature vector that can be perturbed slot by slot.
//
// Perturb mutates the Vector's private working copy; rows handed out by Emit
// are snapshots and never change afterwards, so successive perturbations
// within one permutation pass accumulate on the working copy without
// touching anything already emitted.
type Vector struct {
	rowID   string
	work    dataset.Vector
	sampler sampler.Sampler
}

// NewVector copies row's values into a fresh working vector.
func NewVector(row dataset.Row, s sampler.Sampler) (*Vector, error) {
	if s == nil {
		return nil, ErrNilSampler
	}
	if row.Values.Len() == 0 {
		return nil, fmt.Errorf("%w: row %q", ErrEmptyRow, row.ID)
	}

	return &Vector{rowID: row.ID, work: row.Values.Clone(), sampler: s}, nil
}

// RowID returns the id of the source row.
func (v *Vector) RowID() string { return v.rowID }

// Len returns the number of feature slots.
func (v *Vector) Len() int { return len(v.work) }

// At returns the current value of slot i.
func (v *Vector) At(i int) float64 { return v.work[i] }

// Perturb replaces slot i with a value drawn from the sampler.
func (v *Vector) Perturb(i int) error {
	if i < 0 || i >= len(v.work) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrFeatureIndex, i, len(v.work))
	}
	v.work[i] = v.sampler.Sample(i)

	return nil
}

// Clone returns an independent Vector with the same working values.
func (v *Vector) Clone() *Vector {
	return &Vector{rowID: v.rowID, work: v.work.Clone(), sampler: v.sampler}
}

// Emit snapshots the working values into a row identified by key.
// key.OriginalRowID is forced to the vector's own row id.
func (v *Vector) Emit(key lineage.Key) dataset.Row {
	key.OriginalRowID = v.rowID

	return dataset.Row{ID: lineage.Encode(key), Values: v.work.Clone()}
}
