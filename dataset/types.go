package dataset

import (
	"context"
	"fmt"
	"strings"
)

// Vector is an ordered sequence of feature values over a single row.
// All vectors derived from one Schema have the same length.
type Vector []float64

// Len returns the number of feature slots.
func (v Vector) Len() int { return len(v) }

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	out := make(Vector, len(v))
	copy(out, v)

	return out
}

// Row is a feature vector with its row identifier.
type Row struct {
	ID     string
	Values Vector
}

// Schema names the feature slots, in order.
type Schema struct {
	Names []string
}

// NewSchema builds a Schema from names.
func NewSchema(names ...string) Schema {
	return Schema{Names: append([]string(nil), names...)}
}

// Len returns the number of features.
func (s Schema) Len() int { return len(s.Names) }

// Validate rejects empty schemas and blank or duplicate names.
func (s Schema) Validate() error {
	if len(s.Names) == 0 {
		return ErrEmptySchema
	}
	seen := make(map[string]struct{}, len(s.Names))
	for i, n := range s.Names {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: feature %d has a blank name", ErrBadSchema, i)
		}
		if _, dup := seen[n]; dup {
			return fmt.Errorf("%w: duplicate feature %q", ErrBadSchema, n)
		}
		seen[n] = struct{}{}
	}

	return nil
}

// CheckRow verifies that r has exactly one value per schema feature.
func (s Schema) CheckRow(r Row) error {
	if len(r.Values) != len(s.Names) {
		return fmt.Errorf("%w: row %q has %d values, schema has %d",
			ErrWidthMismatch, r.ID, len(r.Values), len(s.Names))
	}

	return nil
}

// Source is a lazy, finite, single-pass sequence of rows.
// Next returns io.EOF once exhausted. Close releases underlying resources
// and is safe to call more than once.
type Source interface {
	Next(ctx context.Context) (Row, error)
	Close() error
}

// Sized is implemented by sources that know their row count up front.
type Sized interface {
	Len() int
}
