// SPDX-License-Identifier: MIT

package shapley

import (
	"context"
	"errors"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/shapstream/lineage"
)

// Consumer regroups a scored stream into Explanations, one per source row,
// validating the emitted order as it goes.
//
// A row group is its passthrough prediction (raw row id) followed by the
// generated predictions whose decoded OriginalRowID equals that id. The group
// ends when the next row id does not decode to the same OriginalRowID.
type Consumer struct {
	src      PredictionSource
	features int
	acc      *Accumulator

	head   Prediction
	err    error
	peeked bool
}

// NewConsumer returns a Consumer for rows of the given feature count, with k
// iterations per feature. width is the expected number of targets (0 = infer).
func NewConsumer(src PredictionSource, features, k, width int) (*Consumer, error) {
	if features <= 0 {
		return nil, ErrBadFeatures
	}
	acc, err := NewAccumulator(k, width)
	if err != nil {
		return nil, err
	}

	return &Consumer{src: src, features: features, acc: acc}, nil
}

func (c *Consumer) peek(ctx context.Context) (Prediction, error) {
	if !c.peeked {
		c.head, c.err = c.src.Next(ctx)
		c.peeked = true
	}

	return c.head, c.err
}

func (c *Consumer) next(ctx context.Context) (Prediction, error) {
	p, err := c.peek(ctx)
	c.peeked = false

	return p, err
}

// Next assembles and returns the next Explanation. It returns io.EOF when the
// stream ends cleanly on a row boundary.
// Complexity: O(n·k·t) per row for n features, k iterations, t targets.
func (c *Consumer) Next(ctx context.Context) (Explanation, error) {
	pass, err := c.next(ctx)
	if err != nil {
		return Explanation{}, err
	}
	if err = c.checkWidth(pass); err != nil {
		return Explanation{}, err
	}
	rowID := pass.RowID
	values := mat.NewDense(c.features, c.acc.Width(), nil)

	foi := 0
	for {
		p, err := c.peek(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Explanation{}, err
		}
		key, derr := lineage.Decode(p.RowID)
		if derr != nil || key.OriginalRowID != rowID {
			break
		}
		if key.FOI != foi || foi >= c.features {
			return Explanation{}, violation(ErrOutOfSequence,
				"row %q: expected feature %d, got %d (row has %d features)", rowID, foi, key.FOI, c.features)
		}
		contrib, err := c.consumeFeature(ctx, rowID, foi)
		if err != nil {
			return Explanation{}, err
		}
		values.SetRow(foi, contrib)
		foi++
	}
	if foi != c.features {
		return Explanation{}, violation(ErrMissingPair,
			"row %q ended after %d of %d features", rowID, foi, c.features)
	}

	return Explanation{
		RowID:      rowID,
		Prediction: append([]float64(nil), pass.Values...),
		Values:     values,
	}, nil
}

// consumeFeature reads exactly k intact/replaced pairs for (rowID, foi).
func (c *Consumer) consumeFeature(ctx context.Context, rowID string, foi int) ([]float64, error) {
	c.acc.Reset()
	for it := 0; it < c.acc.k; it++ {
		for _, intact := range [2]bool{true, false} {
			p, err := c.peek(ctx)
			if err == io.EOF {
				return nil, violation(ErrMissingPair,
					"row %q feature %d iteration %d: stream ended before the %s prediction",
					rowID, foi, it, marker(intact))
			}
			if err != nil {
				return nil, err
			}
			key, err := lineage.Decode(p.RowID)
			if err != nil {
				if errors.Is(err, lineage.ErrNotGeneratedKey) {
					return nil, violation(ErrUnexpectedKey,
						"row %q feature %d: expected iteration %d %s, got %q (%v)",
						rowID, foi, it, marker(intact), p.RowID, err)
				}

				return nil, err
			}
			if key.OriginalRowID != rowID || key.FOI != foi {
				return nil, violation(ErrMissingPair,
					"row %q feature %d has %d of %d pairs; next key is %q",
					rowID, foi, c.acc.Pairs(), c.acc.k, p.RowID)
			}
			if key.Iteration != it || key.Intact != intact {
				return nil, violation(ErrOutOfSequence,
					"row %q feature %d: expected iteration %d %s, got iteration %d %s",
					rowID, foi, it, marker(intact), key.Iteration, marker(key.Intact))
			}
			c.next(ctx)
			if err = c.acc.Add(p.Values); err != nil {
				return nil, err
			}
		}
	}

	return c.acc.Result()
}

func (c *Consumer) checkWidth(p Prediction) error {
	if len(p.Values) == 0 {
		return violation(ErrWidth, "row %q has an empty prediction vector", p.RowID)
	}
	if w := c.acc.Width(); w == 0 {
		c.acc.setWidth(len(p.Values))
	} else if len(p.Values) != w {
		return violation(ErrWidth, "row %q has %d targets, want %d", p.RowID, len(p.Values), w)
	}

	return nil
}

func marker(intact bool) string {
	if intact {
		return "intact"
	}

	return "replaced"
}

// ConsumeAll drains src, calling yield for every Explanation in stream order.
// yield errors abort the loop and are returned unchanged.
func ConsumeAll(ctx context.Context, c *Consumer, yield func(Explanation) error) (int, error) {
	n := 0
	for {
		e, err := c.Next(ctx)
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err = yield(e); err != nil {
			return n, err
		}
		n++
	}
}
