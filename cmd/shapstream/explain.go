package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/shapstream/dataset"
	"github.com/katalvlaran/shapstream/explain"
	"github.com/katalvlaran/shapstream/internal/config"
	"github.com/katalvlaran/shapstream/model"
	"github.com/katalvlaran/shapstream/shapley"
	"github.com/katalvlaran/shapstream/sink"
)

func newExplainCmd(c *cli) *cobra.Command {
	var (
		path string
		over config.Config
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Explain every row of a CSV file against the configured model",
		Long: `Reads the run file, then overrides it with any flag given on the
command line. Rows and background are CSV files with an id column
followed by the feature columns; both headers must match.

Output ending in .db, .sqlite or .sqlite3 is written to SQLite,
anything else to CSV in long format (row_id,feature,target,contribution).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.DefaultConfig()
			if path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			flags := cmd.Flags()
			if flags.Changed("seed") {
				cfg.Seed = over.Seed
			}
			if flags.Changed("iterations") {
				cfg.Iterations = over.Iterations
			}
			if flags.Changed("chunk-size") {
				cfg.ChunkSize = over.ChunkSize
			}
			if flags.Changed("rows") {
				cfg.Rows = over.Rows
			}
			if flags.Changed("background") {
				cfg.Background = over.Background
			}
			if flags.Changed("output") {
				cfg.Output = over.Output
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := c.initLogger(cfg.Logging.Verbose); err != nil {
				return err
			}

			return runExplain(cmd.Context(), c.logger, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&path, "config", "c", "", "YAML run file")
	f.Int64Var(&over.Seed, "seed", 0, "session seed")
	f.IntVar(&over.Iterations, "iterations", 0, "permutations per feature")
	f.IntVar(&over.ChunkSize, "chunk-size", 0, "source rows per chunk")
	f.StringVar(&over.Rows, "rows", "", "CSV file of rows to explain")
	f.StringVar(&over.Background, "background", "", "CSV file of background rows")
	f.StringVarP(&over.Output, "output", "o", "", "output file (.csv or .db)")

	return cmd
}

func runExplain(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	predictor, err := model.NewLinear(cfg.Model.Weights, cfg.Model.Bias)
	if err != nil {
		return err
	}

	bgSrc, err := dataset.OpenCSV(cfg.Background)
	if err != nil {
		return err
	}
	bgSchema := bgSrc.Schema()
	background, err := dataset.ReadTable(ctx, bgSrc)
	_ = bgSrc.Close()
	if err != nil {
		return fmt.Errorf("read background: %w", err)
	}

	rows, err := dataset.OpenCSV(cfg.Rows)
	if err != nil {
		return err
	}
	schema := rows.Schema()
	if !slices.Equal(schema.Names, bgSchema.Names) {
		_ = rows.Close()

		return fmt.Errorf("%w: background header %v does not match rows header %v",
			explain.ErrConfiguration, bgSchema.Names, schema.Names)
	}
	if predictor.Features() != schema.Len() {
		_ = rows.Close()

		return fmt.Errorf("%w: model expects %d features, rows have %d",
			explain.ErrConfiguration, predictor.Features(), schema.Len())
	}

	opts := append(cfg.Options(), explain.WithLogger(logger))
	e, err := explain.New(ctx, schema, rows, background, opts...)
	if err != nil {
		return err
	}

	// results land in a sibling temp file and replace cfg.Output only on success;
	// the temp name keeps the extension sink.Open dispatches on
	ext := filepath.Ext(cfg.Output)
	if ext == "" {
		ext = ".csv"
	}
	tmp, err := os.CreateTemp(filepath.Dir(cfg.Output), "."+filepath.Base(cfg.Output)+".*"+ext)
	if err != nil {
		_ = e.Close()

		return err
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()

	out, err := sink.Open(tmpPath, schema.Names)
	if err != nil {
		_ = e.Close()
		_ = os.Remove(tmpPath)

		return err
	}

	baseline, err := explain.Run(ctx, e, predictor, func(x shapley.Explanation) error {
		return out.WriteExplanation(x)
	})
	if err == nil {
		err = out.WriteBaseline(baseline)
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, cfg.Output)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		logger.Debug("output discarded", zap.String("output", cfg.Output), zap.Error(err))

		return err
	}

	logger.Info("explained",
		zap.String("session", e.SessionID()),
		zap.Int("rows", e.Explained()),
		zap.String("output", cfg.Output))

	return nil
}
