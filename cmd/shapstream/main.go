// Command shapstream explains the predictions of an in-process linear model
// with permutation-sampled Shapley values.
//
//	shapstream explain --config run.yaml --output out.db
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// cli holds the state shared by every subcommand.
type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	return (&cli{logger: zap.NewNop()}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shapstream",
		Short:         "Streaming Shapley-value explanations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newExplainCmd(c))

	return root
}

// initLogger builds the production logger once the run file is known; debug
// is enabled by either --verbose or logging.verbose.
func (c *cli) initLogger(verbose bool) error {
	cfg := zap.NewProductionConfig()
	if c.verbose || verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.logger = logger

	return nil
}
