// SPDX-License-Identifier: MIT
// Package: shapstream/explain
//
// options.go — functional options for an explanation session.
//
// Contract:
//   • Options are functional (type Option func(*config)).
//   • Numeric knobs are validated by New and reported as ErrConfiguration.
//   • Nil collaborators (sampler, logger) are programmer errors and panic.
//   • The seed is required; there is no time-based default.

package explain

import (
	"go.uber.org/zap"

	"github.com/katalvlaran/shapstream/sampler"
)

// Defaults for an explanation session.
const (
	// DefaultIterationsPerFeature is the number of permutations drawn per feature.
	DefaultIterationsPerFeature = 1000
	// DefaultChunkSize is the number of source rows expanded per round-trip.
	DefaultChunkSize = 100
)

// Option customizes an Explainer.
type Option func(*config)

type config struct {
	seed       int64
	seedSet    bool
	iterations int
	chunkSize  int
	sampler    sampler.Sampler
	logger     *zap.Logger
}

func newConfig(opts ...Option) config {
	cfg := config{
		iterations: DefaultIterationsPerFeature,
		chunkSize:  DefaultChunkSize,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithSeed sets the seed of every random stream in the session.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seedSet = true
	}
}

// WithIterations sets the number of permutations drawn per feature.
func WithIterations(k int) Option {
	return func(c *config) {
		c.iterations = k
	}
}

// WithChunkSize sets the number of source rows per round-trip.
func WithChunkSize(n int) Option {
	return func(c *config) {
		c.chunkSize = n
	}
}

// WithSampler replaces the default uniform background sampler.
// The sampler must not be shared with another session.
func WithSampler(s sampler.Sampler) Option {
	if s == nil {
		panic("explain: WithSampler(nil)")
	}

	return func(c *config) {
		c.sampler = s
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("explain: WithLogger(nil)")
	}

	return func(c *config) {
		c.logger = l
	}
}
