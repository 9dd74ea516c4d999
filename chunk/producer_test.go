package chunk_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/katalvlaran/shapstream/chunk"
	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/lineage"
	"github.com/katalvlaran/shapstream/perturb"
	"github.com/katalvlaran/shapstream/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trackingSource records Close calls and can fail on a chosen row.
type trackingSource struct {
	rows   []dataset.Row
	pos    int
	failAt int
	closes int
}

func (s *trackingSource) Next(ctx context.Context) (dataset.Row, error) {
	if err := ctx.Err(); err != nil {
		return dataset.Row{}, err
	}
	if s.failAt > 0 && s.pos == s.failAt {
		return dataset.Row{}, errors.New("disk on fire")
	}
	if s.pos >= len(s.rows) {
		return dataset.Row{}, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++

	return r, nil
}

func (s *trackingSource) Close() error {
	s.closes++

	return nil
}

func rows(n, width int) []dataset.Row {
	out := make([]dataset.Row, n)
	for i := range out {
		v := make(dataset.Vector, width)
		for f := range v {
			v[f] = float64(i*10 + f)
		}
		out[i] = dataset.Row{ID: fmt.Sprintf("row_%d", i), Values: v}
	}

	return out
}

func newProducer(t *testing.T, src dataset.Source, width, k int) *chunk.Producer {
	t.Helper()
	g, err := perturb.NewGenerator(3, k)
	require.NoError(t, err)
	names := make([]string, width)
	for i := range names {
		names[i] = fmt.Sprintf("f%d", i)
	}

	return chunk.NewProducer(src, dataset.NewSchema(names...), g, sampler.Constant(0), 1)
}

// TestProducer_ChunksCoverAllRows checks chunk boundaries follow source rows
// and that ceil(rows/chunkSize) chunks are produced.
func TestProducer_ChunksCoverAllRows(t *testing.T) {
	ctx := context.Background()
	const width, k, total, size = 3, 2, 7, 3
	src := &trackingSource{rows: rows(total, width)}
	p := newProducer(t, src, width, k)
	perSource := 1 + 2*width*k

	var got []chunk.Chunk
	for {
		more, err := p.HasNext(ctx)
		require.NoError(t, err)
		if !more {
			break
		}
		c, err := p.Next(ctx, size)
		require.NoError(t, err)
		got = append(got, c)
	}
	require.Len(t, got, 3)
	assert.Equal(t, []int{3, 3, 1}, []int{got[0].SourceRows, got[1].SourceRows, got[2].SourceRows})
	for i, c := range got {
		assert.Equal(t, i+1, c.Index)
		assert.False(t, c.Baseline)
		assert.Equal(t, c.SourceRows*perSource, c.Len())
		require.Len(t, c.SourceIDs, c.SourceRows)
		for j, id := range c.SourceIDs {
			assert.Equal(t, src.rows[i*size+j].ID, id)
		}
		// each chunk starts with a passthrough row, never in the middle of a pair
		assert.Equal(t, src.rows[i*size].ID, c.Rows[0].ID)
		_, err := lineage.Decode(c.Rows[0].ID)
		assert.Error(t, err)
	}

	_, err := p.Next(ctx, size)
	assert.ErrorIs(t, err, chunk.ErrExhausted)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, src.closes, "upstream closed exactly once")
	_, err = p.Next(ctx, size)
	assert.ErrorIs(t, err, chunk.ErrClosed)
}

// TestProducer_BadChunkSize rejects non-positive sizes.
func TestProducer_BadChunkSize(t *testing.T) {
	p := newProducer(t, &trackingSource{rows: rows(1, 2)}, 2, 1)
	_, err := p.Next(context.Background(), 0)
	assert.ErrorIs(t, err, chunk.ErrBadChunkSize)
}

// TestProducer_PropagatesSourceErrors checks I/O failures surface unchanged.
func TestProducer_PropagatesSourceErrors(t *testing.T) {
	src := &trackingSource{rows: rows(5, 2), failAt: 2}
	p := newProducer(t, src, 2, 1)
	_, err := p.Next(context.Background(), 10)
	assert.EqualError(t, err, "disk on fire")
	require.NoError(t, p.Close())
	assert.Equal(t, 1, src.closes)
}

// TestProducer_WidthMismatch rejects rows that do not fit the schema.
func TestProducer_WidthMismatch(t *testing.T) {
	src := &trackingSource{rows: []dataset.Row{{ID: "short", Values: dataset.Vector{1}}}}
	p := newProducer(t, src, 2, 1)
	_, err := p.Next(context.Background(), 1)
	assert.ErrorIs(t, err, dataset.ErrWidthMismatch)
}

// TestProducer_Cancellation aborts on a cancelled context.
func TestProducer_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newProducer(t, &trackingSource{rows: rows(2, 2)}, 2, 1)
	_, err := p.Next(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestProducer_KeyCollision rejects a source id that decodes to a generated
// key of the row before it, also across a chunk boundary.
func TestProducer_KeyCollision(t *testing.T) {
	ctx := context.Background()
	colliding := lineage.Encode(lineage.Key{OriginalRowID: "x", FOI: 0, Iteration: 0, Intact: true})

	for _, size := range []int{1, 2} {
		t.Run(fmt.Sprintf("chunk_%d", size), func(t *testing.T) {
			src := &trackingSource{rows: []dataset.Row{
				{ID: "x", Values: dataset.Vector{1, 2}},
				{ID: colliding, Values: dataset.Vector{3, 4}},
			}}
			p := newProducer(t, src, 2, 1)
			var err error
			for err == nil {
				_, err = p.Next(ctx, size)
			}
			require.ErrorIs(t, err, chunk.ErrKeyCollision)
			assert.Contains(t, err.Error(), colliding)
		})
	}

	// a key-shaped id of an unrelated row is fine
	src := &trackingSource{rows: []dataset.Row{
		{ID: "x", Values: dataset.Vector{1, 2}},
		{ID: "y_0_0_i", Values: dataset.Vector{3, 4}},
	}}
	c, err := newProducer(t, src, 2, 1).Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y_0_0_i"}, c.SourceIDs)
}
