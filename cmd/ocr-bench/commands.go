package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/internal/bench"
	"github.com/jamesainslie/ocrbench/internal/config"
	"github.com/jamesainslie/ocrbench/internal/store"
)

func (a *app) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every sample of a dataset directory",
		Long: `Score every <id>_pred.json in the dataset directory against its
<id>_gt.json, <id>_gt.pb or <id>_gt.txt ground truth and write a report.`,
		Args: cobra.NoArgs,
		RunE: a.runBench,
	}

	flags := cmd.Flags()
	flags.StringP("dataset", "d", ".", "Dataset directory")
	flags.StringP("output", "o", "", "Report file (default stdout)")
	flags.StringP("format", "f", "json", "Report format: json, yaml or markdown")
	flags.IntP("workers", "w", 0, "Concurrent evaluations (default number of CPUs)")
	flags.Float64("pass-cer", 0.02, "CER at or below which a document passes")
	flags.String("structured-dir", "", "Write <id>_output.json structured documents here")
	flags.Bool("html-tables", false, "Parse HTML markup in ground-truth html values instead of pipe rows")

	for key, name := range map[string]string{
		"dataset":           "dataset",
		"output":            "output",
		"format":            "format",
		"workers":           "workers",
		"pass_cer":          "pass-cer",
		"structured_dir":    "structured-dir",
		"rules.html_tables": "html-tables",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}
	return cmd
}

func (a *app) runBench(cmd *cobra.Command, args []string) (err error) {
	cfg, err := a.load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	corpus, err := bench.LoadCorpus(cfg.Dataset)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	a.logger.Info("dataset loaded", "dir", cfg.Dataset, "samples", len(corpus.Samples))

	ev := ocrbench.New(cfg.EvaluatorOptions(a.logger)...)
	rep, err := bench.Run(ctx, corpus, ev, cfg.Bench(), a.logger)
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), cfg, rep); err != nil {
		return err
	}

	if cfg.Store.DSN == "" {
		return nil
	}
	return a.storeReport(ctx, cfg, rep)
}

// writeReport writes to cfg.Output, or w when no output file is set. An
// output file's extension overrides the configured format.
func writeReport(w io.Writer, cfg config.Config, rep *bench.Report) error {
	format, err := bench.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	if cfg.Output == "" {
		return bench.Write(w, rep, format)
	}
	if f, err := bench.ParseFormat(filepath.Ext(cfg.Output)); err == nil {
		format = f
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return errors.Join(bench.Write(out, rep, format), out.Close())
}

func (a *app) storeReport(ctx context.Context, cfg config.Config, rep *bench.Report) error {
	s, err := store.Open(ctx, cfg.Store.DSN, cfg.Store.Table, a.logger)
	if err != nil {
		return err
	}
	return errors.Join(s.SaveReport(ctx, rep), s.Close())
}

func (a *app) newSummaryCmd() *cobra.Command {
	var worst int

	cmd := &cobra.Command{
		Use:   "summary REPORT",
		Short: "Print a saved JSON or YAML report as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := bench.ReadReport(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := bench.WriteMarkdown(out, rep); err != nil {
				return err
			}
			if worst <= 0 || len(rep.Documents) == 0 {
				return nil
			}

			fmt.Fprintf(out, "\nWorst %d documents by CER\n", worst)
			fmt.Fprintf(out, "%-40s %8s %8s %10s\n", "PDF", "CER", "WER", "Financial")
			fmt.Fprintln(out, strings.Repeat("-", 70))
			for _, d := range bench.Worst(rep.Documents, worst) {
				fmt.Fprintf(out, "%-40s %8.4f %8.4f %10.4f\n", d.PDF, d.CER, d.WER, d.FinancialScore)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&worst, "worst", 0, "Also list the N documents with the highest CER")
	return cmd
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List runs stored in MySQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			if cfg.Store.DSN == "" {
				return errors.New("no store configured: set store.dsn or --store-dsn")
			}

			s, err := store.Open(cmd.Context(), cfg.Store.DSN, cfg.Store.Table, a.logger)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			runs, err := s.Runs(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s %-20s %6s %6s %8s %8s %10s %8s\n",
				"Run", "Started", "Docs", "Failed", "CER", "WER", "Financial", "F1")
			fmt.Fprintln(out, strings.Repeat("-", 110))
			for _, r := range runs {
				fmt.Fprintf(out, "%-36s %-20s %6d %6d %8.4f %8.4f %10.4f %8.4f\n",
					r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Documents, r.Failures,
					r.CER, r.WER, r.Financial, r.F1)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	return cmd
}
