package explain

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/katalvlaran/shapstream/chunk"
	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/perturb"
	"github.com/katalvlaran/shapstream/sampler"
	"github.com/katalvlaran/shapstream/shapley"
)

// Plan describes the features a session perturbs, for downstream consumers
// that need to lay out the explanation columns.
type Plan struct {
	Features     int
	FeatureNames []string
}

// ConfigureFeatures validates schema and returns its perturbation plan.
func ConfigureFeatures(schema dataset.Schema) (Plan, error) {
	if err := schema.Validate(); err != nil {
		return Plan{}, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}

	return Plan{Features: schema.Len(), FeatureNames: append([]string(nil), schema.Names...)}, nil
}

// Explainer is one explanation session. It is not goroutine-safe.
type Explainer struct {
	id         string
	plan       Plan
	cfg        config
	log        *zap.Logger
	background *dataset.Table
	rows       *dataset.Peeker
	producer   *chunk.Producer

	phase    Phase
	baseline []float64
	pending  chunk.Chunk
	rounds   int
	consumed int
	closed   bool
}

// New validates the configuration and prepares a session over rows (the
// rows to explain) and background (the sampling set). The Explainer owns
// rows from here on and closes it on every exit path, including when New
// itself fails.
func New(ctx context.Context, schema dataset.Schema, rows dataset.Source, background *dataset.Table, opts ...Option) (*Explainer, error) {
	e, err := newExplainer(ctx, schema, rows, background, opts...)
	if err != nil {
		_ = rows.Close()

		return nil, err
	}

	return e, nil
}

func newExplainer(ctx context.Context, schema dataset.Schema, rows dataset.Source, background *dataset.Table, opts ...Option) (*Explainer, error) {
	plan, err := ConfigureFeatures(schema)
	if err != nil {
		return nil, err
	}
	cfg := newConfig(opts...)
	switch {
	case !cfg.seedSet:
		return nil, fmt.Errorf("%w: seed is required", ErrConfiguration)
	case cfg.iterations <= 0:
		return nil, fmt.Errorf("%w: iterations per feature must be > 0, got %d", ErrConfiguration, cfg.iterations)
	case cfg.chunkSize <= 0:
		return nil, fmt.Errorf("%w: chunk size must be > 0, got %d", ErrConfiguration, cfg.chunkSize)
	case background == nil || background.Len() == 0:
		return nil, fmt.Errorf("%w: sampling set is empty", ErrConfiguration)
	}
	for i := 0; i < background.Len(); i++ {
		if err = schema.CheckRow(background.Row(i)); err != nil {
			return nil, fmt.Errorf("%w: sampling set: %w", ErrConfiguration, err)
		}
	}

	peeker := dataset.NewPeeker(rows)
	empty, err := peeker.Empty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, fmt.Errorf("%w: no rows to explain", ErrConfiguration)
	}

	gen, err := perturb.NewGenerator(cfg.seed, cfg.iterations)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	smp := cfg.sampler
	if smp == nil {
		if smp, err = sampler.NewUniform(background, perturb.DeriveRand(cfg.seed, perturb.StreamSampler)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}

	id := uuid.NewString()
	e := &Explainer{
		id:         id,
		plan:       plan,
		cfg:        cfg,
		log:        cfg.logger.With(zap.String("session", id)),
		background: background,
		rows:       peeker,
		producer:   chunk.NewProducer(peeker, schema, gen, smp, 1),
		phase:      PhaseUninitialized,
	}
	e.log.Info("explain session created",
		zap.Int("features", plan.Features),
		zap.Int("iterations", cfg.iterations),
		zap.Int("chunk_size", cfg.chunkSize),
		zap.Int("background_rows", background.Len()),
		zap.Int64("seed", cfg.seed),
	)

	return e, nil
}

// SessionID returns the random identifier used to correlate log lines.
func (e *Explainer) SessionID() string { return e.id }

// Plan returns the perturbation plan.
func (e *Explainer) Plan() Plan { return e.plan }

// Phase returns the current protocol phase.
func (e *Explainer) Phase() Phase { return e.phase }

// IterationCount returns ceil(rows/chunkSize)+1 when the row source knows
// its size.
func (e *Explainer) IterationCount() (int, bool) {
	n, ok := e.rows.Len()
	if !ok {
		return 0, false
	}

	return (n+e.cfg.chunkSize-1)/e.cfg.chunkSize + 1, true
}

// Explained returns the number of rows explained so far.
func (e *Explainer) Explained() int { return e.consumed }

// Baseline returns nullFx, the mean prediction over the background rows.
func (e *Explainer) Baseline() ([]float64, error) {
	if e.baseline == nil {
		return nil, ErrBaselineUnavailable
	}

	return append([]float64(nil), e.baseline...), nil
}

// HasNextChunk reports whether GenerateNextChunk may be called.
func (e *Explainer) HasNextChunk() bool {
	return e.phase == PhaseUninitialized || e.phase == PhaseGenerating
}

// GenerateNextChunk emits the next chunk. The first call returns the
// background rows verbatim (Baseline set); later calls return perturbation
// chunks whose rows carry lineage keys.
func (e *Explainer) GenerateNextChunk(ctx context.Context) (chunk.Chunk, error) {
	switch e.phase {
	case PhaseUninitialized:
		rows := make([]dataset.Row, e.background.Len())
		for i := range rows {
			r := e.background.Row(i)
			rows[i] = dataset.Row{ID: r.ID, Values: r.Values.Clone()}
		}
		e.pending = chunk.Chunk{Index: 0, Baseline: true, SourceRows: len(rows), Rows: rows}
		e.transition(PhaseEstimatingBaseline)
	case PhaseGenerating:
		c, err := e.producer.Next(ctx, e.cfg.chunkSize)
		if err != nil {
			return chunk.Chunk{}, e.fail(err)
		}
		e.pending = c
		e.transition(PhaseConsuming)
	case PhaseFailed:
		return chunk.Chunk{}, ErrFailed
	default:
		return chunk.Chunk{}, fmt.Errorf("%w: GenerateNextChunk in phase %s", ErrPhase, e.phase)
	}
	e.rounds++
	e.log.Debug("chunk generated",
		zap.Int("chunk", e.pending.Index),
		zap.Bool("baseline", e.pending.Baseline),
		zap.Int("source_rows", e.pending.SourceRows),
		zap.Int("rows", e.pending.Len()),
	)

	return e.pending, nil
}

// ConsumePredictions reads the scorer's output for the last emitted chunk.
// For the baseline chunk it estimates nullFx; otherwise it streams one
// Explanation per source row to yield, in the chunk's source row order.
// src is closed before returning.
// Any error aborts the session.
func (e *Explainer) ConsumePredictions(ctx context.Context, src shapley.PredictionSource, yield func(shapley.Explanation) error) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = e.fail(cerr)
		}
	}()

	switch e.phase {
	case PhaseEstimatingBaseline:
		base, err := shapley.Baseline(ctx, src, e.pending.SourceRows)
		if err != nil {
			return e.fail(err)
		}
		e.baseline = base
		e.log.Debug("baseline estimated", zap.Float64s("null_fx", base))
		e.transition(PhaseGenerating)

		return nil
	case PhaseConsuming:
		return e.consumeChunk(ctx, src, yield)
	case PhaseFailed:
		return ErrFailed
	default:
		return fmt.Errorf("%w: ConsumePredictions in phase %s", ErrPhase, e.phase)
	}
}

func (e *Explainer) consumeChunk(ctx context.Context, src shapley.PredictionSource, yield func(shapley.Explanation) error) error {
	c, err := shapley.NewConsumer(src, e.plan.Features, e.cfg.iterations, len(e.baseline))
	if err != nil {
		return e.fail(err)
	}
	want, i := e.pending.SourceIDs, 0
	n, err := shapley.ConsumeAll(ctx, c, func(x shapley.Explanation) error {
		if i >= len(want) {
			return fmt.Errorf("%w: %w: chunk %d: unexpected row %q after %d rows",
				shapley.ErrProtocolViolation, shapley.ErrOutOfSequence, e.pending.Index, x.RowID, len(want))
		}
		if x.RowID != want[i] {
			return fmt.Errorf("%w: %w: chunk %d row %d: expected %q, got %q",
				shapley.ErrProtocolViolation, shapley.ErrOutOfSequence, e.pending.Index, i, want[i], x.RowID)
		}
		i++
		if yield == nil {
			return nil
		}

		return yield(x)
	})
	e.consumed += n
	if err != nil {
		return e.fail(err)
	}
	if n != e.pending.SourceRows {
		return e.fail(fmt.Errorf("%w: %w: chunk %d explained %d rows, emitted %d",
			shapley.ErrProtocolViolation, shapley.ErrMissingPair, e.pending.Index, n, e.pending.SourceRows))
	}
	e.log.Debug("chunk consumed", zap.Int("chunk", e.pending.Index), zap.Int("explained", n))

	more, err := e.producer.HasNext(ctx)
	if err != nil {
		return e.fail(err)
	}
	if more {
		e.transition(PhaseGenerating)

		return nil
	}
	e.transition(PhaseDone)
	e.log.Info("explain session done", zap.Int("rows", e.consumed), zap.Int("rounds", e.rounds))

	return e.release()
}

func (e *Explainer) transition(to Phase) {
	e.log.Debug("phase", zap.Stringer("from", e.phase), zap.Stringer("to", to))
	e.phase = to
}

// fail aborts the session, releases every iterator and returns err.
func (e *Explainer) fail(err error) error {
	e.log.Error("explain session aborted", zap.Stringer("phase", e.phase), zap.Error(err))
	e.phase = PhaseFailed
	if cerr := e.release(); cerr != nil {
		return errors.Join(err, cerr)
	}

	return err
}

func (e *Explainer) release() error {
	if e.closed {
		return nil
	}
	e.closed = true

	return e.producer.Close()
}

// Close releases the row source. It is safe to call more than once and
// after the session finished or failed.
func (e *Explainer) Close() error {
	return e.release()
}
