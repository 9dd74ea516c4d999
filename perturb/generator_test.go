package perturb_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/lineage"
	"github.com/katalvlaran/shapstream/perturb"
	"github.com/katalvlaran/shapstream/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinel = -1.0

func expandAll(t *testing.T, g *perturb.Generator, row dataset.Row, s sampler.Sampler) []dataset.Row {
	t.Helper()
	var out []dataset.Row
	require.NoError(t, g.Expand(row, s, func(r dataset.Row) error {
		out = append(out, r)

		return nil
	}))

	return out
}

// TestNewGenerator_BadIterations rejects k ≤ 0.
func TestNewGenerator_BadIterations(t *testing.T) {
	_, err := perturb.NewGenerator(1, 0)
	assert.ErrorIs(t, err, perturb.ErrBadIterations)
	_, err = perturb.NewGenerator(1, -3)
	assert.ErrorIs(t, err, perturb.ErrBadIterations)
}

// TestPair_Invariants verifies A keeps foi, B replaces foi, and A/B agree elsewhere.
func TestPair_Invariants(t *testing.T) {
	g, err := perturb.NewGenerator(5, 1)
	require.NoError(t, err)
	row := dataset.Row{ID: "r_1", Values: dataset.Vector{10, 20, 30, 40, 50}}
	x, err := perturb.NewVector(row, sampler.Constant(sentinel))
	require.NoError(t, err)

	for trial := 0; trial < 100; trial++ {
		for foi := 0; foi < row.Values.Len(); foi++ {
			a, b, err := g.Pair(x, foi, trial)
			require.NoError(t, err)

			assert.Equal(t, row.Values[foi], a.Values[foi], "A must keep foi")
			assert.Equal(t, sentinel, b.Values[foi], "B must replace foi")
			for f := range row.Values {
				if f == foi {
					continue
				}
				assert.Equal(t, a.Values[f], b.Values[f], "A and B differ only in foi")
				assert.Contains(t, []float64{row.Values[f], sentinel}, a.Values[f])
			}

			ka, err := lineage.Decode(a.ID)
			require.NoError(t, err)
			kb, err := lineage.Decode(b.ID)
			require.NoError(t, err)
			assert.Equal(t, lineage.Key{OriginalRowID: "r_1", FOI: foi, Iteration: trial, Intact: true}, ka)
			assert.Equal(t, lineage.Key{OriginalRowID: "r_1", FOI: foi, Iteration: trial, Intact: false}, kb)
		}
	}
	for f := 0; f < x.Len(); f++ {
		assert.Equal(t, row.Values[f], x.At(f), "source vector must stay intact")
	}
}

// TestPair_CoalitionVaries checks that more than one coalition is drawn for a foi.
func TestPair_CoalitionVaries(t *testing.T) {
	g, err := perturb.NewGenerator(17, 1)
	require.NoError(t, err)
	x, err := perturb.NewVector(dataset.Row{ID: "r", Values: dataset.Vector{1, 2, 3, 4}}, sampler.Constant(sentinel))
	require.NoError(t, err)

	sizes := map[int]bool{}
	for trial := 0; trial < 200; trial++ {
		a, _, err := g.Pair(x, 0, 0)
		require.NoError(t, err)
		n := 0
		for _, v := range a.Values {
			if v == sentinel {
				n++
			}
		}
		sizes[n] = true
	}
	assert.Len(t, sizes, 4, "coalitions of every size 0..3 should occur")
}

// TestPair_BadFOI rejects out-of-range feature indices.
func TestPair_BadFOI(t *testing.T) {
	g, err := perturb.NewGenerator(1, 1)
	require.NoError(t, err)
	x, err := perturb.NewVector(dataset.Row{ID: "r", Values: dataset.Vector{1, 2}}, sampler.Constant(0))
	require.NoError(t, err)
	_, _, err = g.Pair(x, 2, 0)
	assert.ErrorIs(t, err, perturb.ErrFeatureIndex)
	_, _, err = g.Pair(x, -1, 0)
	assert.ErrorIs(t, err, perturb.ErrFeatureIndex)
}

// TestExpand_PairingLaw checks 1 passthrough + 2·k rows per foi, alternating
// intact/replaced in iteration order.
func TestExpand_PairingLaw(t *testing.T) {
	const k = 3
	g, err := perturb.NewGenerator(9, k)
	require.NoError(t, err)
	row := dataset.Row{ID: "id_with_delims_", Values: dataset.Vector{1, 2, 3}}
	rows := expandAll(t, g, row, sampler.Constant(0))

	require.Len(t, rows, g.RowsPerSource(3))
	assert.Equal(t, row, rows[0], "first row is the unperturbed passthrough")

	i := 1
	for foi := 0; foi < 3; foi++ {
		for it := 0; it < k; it++ {
			for _, intact := range []bool{true, false} {
				key, err := lineage.Decode(rows[i].ID)
				require.NoError(t, err)
				assert.Equal(t, lineage.Key{OriginalRowID: row.ID, FOI: foi, Iteration: it, Intact: intact}, key)
				i++
			}
		}
	}
}

// TestExpand_Determinism checks identical seeds reproduce identical rows.
func TestExpand_Determinism(t *testing.T) {
	bg := dataset.NewTable(
		dataset.Row{ID: "b0", Values: dataset.Vector{0, 0, 0, 0, 0, 0}},
		dataset.Row{ID: "b1", Values: dataset.Vector{5, 5, 5, 5, 5, 5}},
	)
	row := dataset.Row{ID: "x", Values: dataset.Vector{1, 2, 3, 4, 6, 7}}
	run := func(seed int64) []dataset.Row {
		g, err := perturb.NewGenerator(seed, 4)
		require.NoError(t, err)
		s, err := sampler.NewUniform(bg, perturb.DeriveRand(seed, perturb.StreamSampler))
		require.NoError(t, err)

		return expandAll(t, g, row, s)
	}

	first, second := run(2024), run(2024)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different rows (-first +second):\n%s", diff)
	}
	assert.NotEqual(t, first, run(2025), "different seeds should differ")
}

// TestNewVector_Errors covers nil sampler and empty rows.
func TestNewVector_Errors(t *testing.T) {
	_, err := perturb.NewVector(dataset.Row{ID: "r", Values: dataset.Vector{1}}, nil)
	assert.ErrorIs(t, err, perturb.ErrNilSampler)
	_, err = perturb.NewVector(dataset.Row{ID: "r"}, sampler.Constant(0))
	assert.ErrorIs(t, err, perturb.ErrEmptyRow)

	v, err := perturb.NewVector(dataset.Row{ID: "r", Values: dataset.Vector{1}}, sampler.Constant(0))
	require.NoError(t, err)
	assert.ErrorIs(t, v.Perturb(1), perturb.ErrFeatureIndex)
}

// TestVector_EmitSnapshot ensures emitted rows do not alias the working copy.
func TestVector_EmitSnapshot(t *testing.T) {
	v, err := perturb.NewVector(dataset.Row{ID: "r", Values: dataset.Vector{1, 2}}, sampler.Constant(9))
	require.NoError(t, err)
	before := v.Emit(lineage.Key{FOI: 0, Iteration: 0, Intact: true})
	require.NoError(t, v.Perturb(1))
	after := v.Emit(lineage.Key{FOI: 0, Iteration: 0, Intact: false})

	assert.Equal(t, dataset.Vector{1, 2}, before.Values)
	assert.Equal(t, dataset.Vector{1, 9}, after.Values)
	assert.Equal(t, "r_0_0_i", before.ID)
}
