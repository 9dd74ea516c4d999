// SPDX-License-Identifier: MIT

package chunk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/lineage"
	"github.com/katalvlaran/shapstream/perturb"
	"github.com/katalvlaran/shapstream/sampler"
)

var (
	// ErrBadChunkSize indicates a non-positive chunk size.
	ErrBadChunkSize = errors.New("chunk: chunk size must be > 0")

	// ErrExhausted is returned by Next when no source rows remain.
	ErrExhausted = errors.New("chunk: no more chunks")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("chunk: producer closed")

	// ErrKeyCollision indicates a source row id that reads as a generated key
	// of the source row before it, so its row group could not be told apart.
	ErrKeyCollision = errors.New("chunk: row id collides with a lineage key")
)

// maxPrealloc caps the row capacity reserved up front for a chunk.
const maxPrealloc = 1 << 16

// Chunk is one ordered batch of rows sent to the scorer in one round-trip.
type Chunk struct {
	// Index is the round number; the baseline chunk, when present, is 0.
	Index int
	// Baseline marks the unperturbed background chunk, whose rows carry no lineage key.
	Baseline bool
	// SourceRows is the number of source rows expanded into Rows.
	SourceRows int
	// SourceIDs are the ids of the expanded source rows, in order.
	SourceIDs []string
	// Rows are the emitted rows, in emission order.
	Rows []dataset.Row
}

// Len returns the number of emitted rows.
func (c Chunk) Len() int { return len(c.Rows) }

// Producer drives a Generator over an upstream Source.
type Producer struct {
	src     *dataset.Peeker
	schema  dataset.Schema
	gen     *perturb.Generator
	sampler sampler.Sampler
	next    int
	prevID  string
	started bool
	closed  bool
}

// NewProducer wraps src. firstIndex is the Index given to the first chunk.
func NewProducer(src dataset.Source, schema dataset.Schema, gen *perturb.Generator, s sampler.Sampler, firstIndex int) *Producer {
	p, ok := src.(*dataset.Peeker)
	if !ok {
		p = dataset.NewPeeker(src)
	}

	return &Producer{src: p, schema: schema, gen: gen, sampler: s, next: firstIndex}
}

// HasNext reports whether at least one more source row is available.
// It may block on the upstream Source.
func (p *Producer) HasNext(ctx context.Context) (bool, error) {
	if p.closed {
		return false, nil
	}
	empty, err := p.src.Empty(ctx)
	if err != nil {
		return false, err
	}

	return !empty, nil
}

// Next expands up to chunkSize source rows into one Chunk.
// Complexity: O(chunkSize · n² · k) time, O(chunkSize · n² · k) space for the
// returned rows (n features, k iterations).
func (p *Producer) Next(ctx context.Context, chunkSize int) (Chunk, error) {
	if p.closed {
		return Chunk{}, ErrClosed
	}
	if chunkSize <= 0 {
		return Chunk{}, fmt.Errorf("%w: got %d", ErrBadChunkSize, chunkSize)
	}

	c := Chunk{Index: p.next}
	emit := func(r dataset.Row) error {
		c.Rows = append(c.Rows, r)

		return nil
	}
	for c.SourceRows < chunkSize {
		if err := ctx.Err(); err != nil {
			return Chunk{}, err
		}
		row, err := p.src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Chunk{}, err
		}
		if err = p.schema.CheckRow(row); err != nil {
			return Chunk{}, err
		}
		if p.started {
			if key, derr := lineage.Decode(row.ID); derr == nil && key.OriginalRowID == p.prevID {
				return Chunk{}, fmt.Errorf("%w: %q follows %q", ErrKeyCollision, row.ID, p.prevID)
			}
		}
		p.prevID, p.started = row.ID, true
		if c.Rows == nil {
			c.Rows = make([]dataset.Row, 0, min(chunkSize*p.gen.RowsPerSource(p.schema.Len()), maxPrealloc))
		}
		if err = p.gen.Expand(row, p.sampler, emit); err != nil {
			return Chunk{}, fmt.Errorf("chunk: expand row %q: %w", row.ID, err)
		}
		c.SourceRows++
		c.SourceIDs = append(c.SourceIDs, row.ID)
	}
	if c.SourceRows == 0 {
		return Chunk{}, ErrExhausted
	}
	p.next++

	return c, nil
}

// Close releases the upstream Source. It is safe to call more than once.
func (p *Producer) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	return p.src.Close()
}
