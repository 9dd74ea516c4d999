// Package config loads the YAML run file of the shapstream CLI.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/shapstream/explain"
)

// ErrInvalid indicates a run file that cannot start a session.
var ErrInvalid = errors.New("config: invalid run configuration")

// Config is the root of a run file.
type Config struct {
	// Seed drives every random stream of the session.
	Seed int64 `yaml:"seed"`
	// Iterations is the number of permutations per feature.
	Iterations int `yaml:"iterations"`
	// ChunkSize is the number of source rows per round-trip.
	ChunkSize int `yaml:"chunk_size"`

	// Rows is the CSV file of rows to explain.
	Rows string `yaml:"rows"`
	// Background is the CSV file of sampling rows.
	Background string `yaml:"background"`
	// Output is the explanation sink (.csv or .db).
	Output string `yaml:"output"`

	Model   ModelConfig   `yaml:"model"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModelConfig describes the in-process linear model (targets × features).
type ModelConfig struct {
	Weights [][]float64 `yaml:"weights"`
	Bias    []float64   `yaml:"bias"`
}

// LoggingConfig controls the CLI logger.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns a configuration with engine defaults and no inputs.
func DefaultConfig() *Config {
	return &Config{
		Seed:       1,
		Iterations: explain.DefaultIterationsPerFeature,
		ChunkSize:  explain.DefaultChunkSize,
		Output:     "explanations.csv",
	}
}

// Load reads path on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the fields a run needs.
func (c *Config) Validate() error {
	switch {
	case c.Iterations <= 0:
		return fmt.Errorf("%w: iterations must be > 0", ErrInvalid)
	case c.ChunkSize <= 0:
		return fmt.Errorf("%w: chunk_size must be > 0", ErrInvalid)
	case c.Rows == "":
		return fmt.Errorf("%w: rows is required", ErrInvalid)
	case c.Background == "":
		return fmt.Errorf("%w: background is required", ErrInvalid)
	case c.Output == "":
		return fmt.Errorf("%w: output is required", ErrInvalid)
	case len(c.Model.Weights) == 0:
		return fmt.Errorf("%w: model.weights is required", ErrInvalid)
	}

	return nil
}

// Options converts the engine knobs into explain options.
func (c *Config) Options() []explain.Option {
	return []explain.Option{
		explain.WithSeed(c.Seed),
		explain.WithIterations(c.Iterations),
		explain.WithChunkSize(c.ChunkSize),
	}
}
