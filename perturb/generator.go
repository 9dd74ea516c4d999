// SPDX-License-Identifier: MIT

package perturb

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/lineage"
	"github.com/katalvlaran/shapstream/sampler"
)

// Generator draws permutations and produces intact/replaced row pairs.
type Generator struct {
	rng        *rand.Rand
	iterations int
	perm       []int
}

// NewGenerator returns a Generator whose permutations come from seed.
func NewGenerator(seed int64, iterations int) (*Generator, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadIterations, iterations)
	}

	return &Generator{rng: DeriveRand(seed, StreamPermutation), iterations: iterations}, nil
}

// Iterations returns the number of permutations drawn per feature.
func (g *Generator) Iterations() int { return g.iterations }

// RowsPerSource returns how many rows Expand emits for a row of n features:
// one passthrough row plus one pair per (feature, iteration).
func (g *Generator) RowsPerSource(n int) int {
	return 1 + 2*n*g.iterations
}

// Pair draws one permutation and returns the intact (A) and replaced (B)
// rows for foi at the given iteration. x is not modified.
// Complexity: O(n) time, O(n) space.
func (g *Generator) Pair(x *Vector, foi, iteration int) (intact, replaced dataset.Row, err error) {
	n := x.Len()
	if foi < 0 || foi >= n {
		return dataset.Row{}, dataset.Row{}, fmt.Errorf("%w: foi %d not in [0,%d)", ErrFeatureIndex, foi, n)
	}
	if cap(g.perm) < n {
		g.perm = make([]int, n)
	}
	perm := g.perm[:n]
	permInto(perm, g.rng)

	// A: perturb everything the permutation places before foi.
	a := x.Clone()
	for _, f := range perm {
		if f == foi {
			break
		}
		if err = a.Perturb(f); err != nil {
			return dataset.Row{}, dataset.Row{}, err
		}
	}
	intact = a.Emit(lineage.Key{FOI: foi, Iteration: iteration, Intact: true})

	// B: A plus foi itself.
	if err = a.Perturb(foi); err != nil {
		return dataset.Row{}, dataset.Row{}, err
	}
	replaced = a.Emit(lineage.Key{FOI: foi, Iteration: iteration, Intact: false})

	return intact, replaced, nil
}

// Expand emits, in order, the unperturbed passthrough row (keeping row.ID),
// then for every foi in [0,n) and every iteration the A/B pair.
// Emission stops at the first error returned by emit.
func (g *Generator) Expand(row dataset.Row, s sampler.Sampler, emit func(dataset.Row) error) error {
	x, err := NewVector(row, s)
	if err != nil {
		return err
	}
	if err = emit(dataset.Row{ID: row.ID, Values: row.Values.Clone()}); err != nil {
		return err
	}

	var a, b dataset.Row
	for foi := 0; foi < x.Len(); foi++ {
		for it := 0; it < g.iterations; it++ {
			if a, b, err = g.Pair(x, foi, it); err != nil {
				return err
			}
			if err = emit(a); err != nil {
				return err
			}
			if err = emit(b); err != nil {
				return err
			}
		}
	}

	return nil
}
