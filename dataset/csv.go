package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrCSVHeader indicates a CSV header that cannot describe a feature table.
var ErrCSVHeader = errors.New("dataset: invalid csv header")

// CSVSource streams rows from CSV text of the form
//
//	id,<feature 0>,<feature 1>,...
//	row-1,0.5,12,...
//
// The first column is the row id; the remaining columns are parsed as float64.
type CSVSource struct {
	rc     io.Closer
	r      *csv.Reader
	schema Schema
	line   int
	closed bool
}

// OpenCSV opens path and reads its header.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, err := NewCSVSource(f)
	if err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return src, nil
}

// NewCSVSource reads the header from rc. Closing the source closes rc.
func NewCSVSource(rc io.ReadCloser) (*CSVSource, error) {
	r := csv.NewReader(rc)
	r.ReuseRecord = false

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: missing header", ErrCSVHeader)
	}
	if err != nil {
		return nil, err
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: need an id column and at least one feature", ErrCSVHeader)
	}
	names := make([]string, len(header)-1)
	for i, h := range header[1:] {
		names[i] = strings.TrimSpace(h)
	}
	schema := Schema{Names: names}
	if err = schema.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCSVHeader, err)
	}
	r.FieldsPerRecord = len(header)

	return &CSVSource{rc: rc, r: r, schema: schema, line: 1}, nil
}

// Schema returns the feature names from the header.
func (s *CSVSource) Schema() Schema { return s.schema }

// Next parses the next record.
func (s *CSVSource) Next(ctx context.Context) (Row, error) {
	if s.closed {
		return Row{}, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return Row{}, err
	}
	rec, err := s.r.Read()
	if err != nil {
		return Row{}, err
	}
	s.line++

	values := make(Vector, len(rec)-1)
	for i, field := range rec[1:] {
		values[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Row{}, fmt.Errorf("dataset: line %d column %q: %w", s.line, s.schema.Names[i], err)
		}
	}

	return Row{ID: rec[0], Values: values}, nil
}

// Close closes the underlying reader once.
func (s *CSVSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	return s.rc.Close()
}
