// Command ocr-bench scores OCR predictions for a dataset directory and
// reports per-document and corpus-level metrics.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/ocrbench/internal/config"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type app struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	logger  *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	root := &cobra.Command{
		Use:           "ocr-bench",
		Short:         "Benchmark OCR output against annotated ground truth",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "Config file (default ./ocrbench.yaml or ~/.config/ocrbench/ocrbench.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log per-document scores")
	root.PersistentFlags().String("store-dsn", "", "MySQL DSN for storing runs (e.g. user:pass@tcp(host:3306)/ocr)")
	_ = a.v.BindPFlag("store.dsn", root.PersistentFlags().Lookup("store-dsn"))

	root.AddCommand(a.newRunCmd(), a.newSummaryCmd(), a.newHistoryCmd())
	return root
}

func (a *app) load() (config.Config, error) {
	return config.Load(a.v, a.cfgFile)
}
