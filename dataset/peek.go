package dataset

import (
	"context"
	"io"
)

// Peeker wraps a Source with one row of lookahead so that emptiness can be
// detected before any generation begins.
type Peeker struct {
	src    Source
	head   Row
	err    error
	peeked bool
}

// NewPeeker wraps src. Closing the Peeker closes src.
func NewPeeker(src Source) *Peeker {
	return &Peeker{src: src}
}

// Peek returns the next row without consuming it.
func (p *Peeker) Peek(ctx context.Context) (Row, error) {
	if !p.peeked {
		p.head, p.err = p.src.Next(ctx)
		p.peeked = true
	}

	return p.head, p.err
}

// Empty reports whether the source has no more rows.
func (p *Peeker) Empty(ctx context.Context) (bool, error) {
	_, err := p.Peek(ctx)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return false, nil
}

// Next consumes and returns the next row.
func (p *Peeker) Next(ctx context.Context) (Row, error) {
	if p.peeked {
		p.peeked = false
		r, err := p.head, p.err
		p.head, p.err = Row{}, nil

		return r, err
	}

	return p.src.Next(ctx)
}

// Len forwards to the wrapped source when it is Sized.
func (p *Peeker) Len() (int, bool) {
	if s, ok := p.src.(Sized); ok {
		return s.Len(), true
	}

	return 0, false
}

// Close closes the wrapped source.
func (p *Peeker) Close() error {
	return p.src.Close()
}
