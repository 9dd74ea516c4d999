package dataset

import (
	"context"
	"io"
)

// Table is an in-memory, ordered set of rows. Background data used for
// sampling replacement values is held as a Table.
type Table struct {
	rows []Row
}

// NewTable copies rows into a new Table.
func NewTable(rows ...Row) *Table {
	t := &Table{rows: make([]Row, len(rows))}
	for i, r := range rows {
		t.rows[i] = Row{ID: r.ID, Values: r.Values.Clone()}
	}

	return t
}

// ReadTable drains src into a Table and closes it.
func ReadTable(ctx context.Context, src Source) (*Table, error) {
	defer src.Close()

	t := &Table{}
	for {
		r, err := src.Next(ctx)
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, err
		}
		t.rows = append(t.rows, r)
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns row i. The returned values must not be modified.
func (t *Table) Row(i int) Row { return t.rows[i] }

// Value returns the value of feature f in row i.
func (t *Table) Value(i, f int) float64 { return t.rows[i].Values[f] }

// Width returns the width of the first row, or 0 for an empty table.
func (t *Table) Width() int {
	if len(t.rows) == 0 {
		return 0
	}

	return len(t.rows[0].Values)
}

// Iter returns a fresh Source over the table's rows.
func (t *Table) Iter() Source {
	return &tableSource{rows: t.rows}
}

type tableSource struct {
	rows   []Row
	pos    int
	closed bool
}

func (s *tableSource) Next(ctx context.Context) (Row, error) {
	if s.closed {
		return Row{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	if s.pos >= len(s.rows) {
		return Row{}, io.EOF
	}
	r := s.rows[s.pos]
	s.pos++

	return Row{ID: r.ID, Values: r.Values.Clone()}, nil
}

func (s *tableSource) Len() int { return len(s.rows) }

func (s *tableSource) Close() error {
	s.closed = true

	return nil
}
