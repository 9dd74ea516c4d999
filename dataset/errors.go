package dataset

import "errors"

var (
	// ErrEmptySchema indicates a schema with no feature names.
	ErrEmptySchema = errors.New("dataset: schema has no features")

	// ErrBadSchema indicates blank or duplicate feature names.
	ErrBadSchema = errors.New("dataset: invalid schema")

	// ErrWidthMismatch indicates a row whose width differs from the schema.
	ErrWidthMismatch = errors.New("dataset: row width does not match schema")

	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("dataset: source closed")
)
