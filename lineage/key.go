// SPDX-License-Identifier: MIT
// Package: shapstream/lineage
//
// key.go — the lineage Key and its string codec.
//
// Contract:
//   • Decode(Encode(k)) == k for every k with FOI ≥ 0 and Iteration ≥ 0,
//     including OriginalRowIDs that contain Delimiter.
//   • Decode never panics; malformed tokens yield ErrNotGeneratedKey.

package lineage

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the suffix segments of an encoded key.
const Delimiter = "_"

// Intact/replaced markers occupy the last segment of an encoded key.
const (
	MarkerIntact   = "i"
	MarkerReplaced = "r"
)

// suffixSegments is the number of fixed segments appended to OriginalRowID.
const suffixSegments = 3

// ErrNotGeneratedKey indicates that a token was not produced by Encode.
var ErrNotGeneratedKey = errors.New("lineage: not a generated key")

// Key identifies one emitted row.
type Key struct {
	// OriginalRowID is the identifier of the source row, kept verbatim.
	OriginalRowID string
	// FOI is the feature-of-interest index (≥ 0).
	FOI int
	// Iteration is the permutation draw index (≥ 0).
	Iteration int
	// Intact reports whether the FOI slot still holds the original value.
	Intact bool
}

// String returns the encoded token; it is identical to Encode(k).
func (k Key) String() string {
	return Encode(k)
}

// Encode renders k as a single token.
// Complexity: O(len(k.OriginalRowID)).
func Encode(k Key) string {
	marker := MarkerReplaced
	if k.Intact {
		marker = MarkerIntact
	}

	var b strings.Builder
	b.Grow(len(k.OriginalRowID) + 16)
	b.WriteString(k.OriginalRowID)
	b.WriteString(Delimiter)
	b.WriteString(strconv.Itoa(k.FOI))
	b.WriteString(Delimiter)
	b.WriteString(strconv.Itoa(k.Iteration))
	b.WriteString(Delimiter)
	b.WriteString(marker)

	return b.String()
}

// Decode parses a token produced by Encode.
// The three rightmost segments are read right-to-left as marker, iteration
// and FOI; everything before them is the original row id.
// Complexity: O(len(token)).
func Decode(token string) (Key, error) {
	parts := strings.Split(token, Delimiter)
	if len(parts) < suffixSegments+1 {
		return Key{}, fmt.Errorf("%w: %q has %d segments, need at least %d",
			ErrNotGeneratedKey, token, len(parts), suffixSegments+1)
	}

	last := len(parts) - 1
	var intact bool
	switch parts[last] {
	case MarkerIntact:
		intact = true
	case MarkerReplaced:
		intact = false
	default:
		return Key{}, fmt.Errorf("%w: %q has unknown marker %q", ErrNotGeneratedKey, token, parts[last])
	}

	iteration, err := parseIndex(parts[last-1])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q iteration: %v", ErrNotGeneratedKey, token, err)
	}
	foi, err := parseIndex(parts[last-2])
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q feature index: %v", ErrNotGeneratedKey, token, err)
	}

	return Key{
		OriginalRowID: strings.Join(parts[:last-2], Delimiter),
		FOI:           foi,
		Iteration:     iteration,
		Intact:        intact,
	}, nil
}

// parseIndex accepts only canonical non-negative decimal integers so that
// every accepted token re-encodes to itself.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || strconv.Itoa(n) != s {
		return 0, fmt.Errorf("non-canonical index %q", s)
	}

	return n, nil
}
