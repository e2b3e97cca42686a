// Command ocr-score compares one OCR output with its ground truth and prints
// strict and normalized error rates.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/document"
	"github.com/jamesainslie/ocrbench/editdistance"
	"github.com/jamesainslie/ocrbench/textnorm"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Result is the JSON form of a comparison.
type Result struct {
	Strict     editdistance.Metrics `json:"strict"`
	Normalized editdistance.Metrics `json:"normalized"`
	PassCER    float64              `json:"pass_cer"`
	Passed     bool                 `json:"passed"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		groundTruth string
		prediction  string
		passCER     float64
		asJSON      bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:           "ocr-score --ground-truth FILE --prediction FILE",
		Short:         "Score a single OCR prediction",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			gt, err := readGroundTruth(groundTruth, ocrbench.New(ocrbench.WithLogger(logger)))
			if err != nil {
				return err
			}
			pred, err := readPrediction(prediction)
			if err != nil {
				return err
			}
			logger.Debug("inputs loaded", "ground_truth_chars", len(gt), "prediction_chars", len(pred))

			r := Compare(gt, pred, passCER)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printResult(cmd.OutOrStdout(), r)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&groundTruth, "ground-truth", "g", "", "Ground-truth file (.json or plain text)")
	flags.StringVarP(&prediction, "prediction", "p", "", "Prediction file (.json prediction, .md or plain text)")
	flags.Float64Var(&passCER, "pass-cer", 0.02, "Normalized CER at or below which the prediction passes")
	flags.BoolVar(&asJSON, "json", false, "Print the result as JSON")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	_ = cmd.MarkFlagRequired("ground-truth")
	_ = cmd.MarkFlagRequired("prediction")

	return cmd
}

// Compare scores pred against gt both as written and after document
// normalization. Pass/fail uses the normalized CER.
func Compare(gt, pred string, passCER float64) Result {
	normalized := editdistance.ScoreRaw(textnorm.NormalizeDocument(gt), textnorm.NormalizeDocument(pred))
	return Result{
		Strict:     editdistance.ScoreRaw(gt, pred),
		Normalized: normalized,
		PassCER:    passCER,
		Passed:     normalized.CER <= passCER,
	}
}

// readGroundTruth returns the text of a ground-truth file. JSON annotations
// are flattened to their text content.
func readGroundTruth(path string, ev *ocrbench.Evaluator) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read ground truth: %w", err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return string(data), nil
	}
	doc, err := document.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse ground truth: %w", err)
	}
	return ev.GroundTruthText(doc), nil
}

// readPrediction returns the text of a prediction file: the text of a JSON
// prediction result, the rendered text of markdown, or the file as is.
func readPrediction(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prediction: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		p, err := ocrbench.ParsePrediction(data)
		if err != nil {
			return "", err
		}
		if !p.Success {
			return "", fmt.Errorf("%w: %s", ocrbench.ErrPredictionFailed, p.Error)
		}
		return p.PlainText(), nil
	case ".md", ".markdown":
		return textnorm.MarkdownText(string(data)), nil
	}
	return string(data), nil
}

func printResult(w io.Writer, r Result) {
	fmt.Fprintf(w, "%-12s %8s %8s %10s %8s %8s\n", "", "CER", "WER", "Accuracy", "Chars", "Words")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, row := range []struct {
		name string
		m    editdistance.Metrics
	}{
		{"strict", r.Strict},
		{"normalized", r.Normalized},
	} {
		fmt.Fprintf(w, "%-12s %8.4f %8.4f %10.4f %8d %8d\n",
			row.name, row.m.CER, row.m.WER, row.m.CharAccuracy, row.m.RefChars, row.m.RefWords)
	}

	ops := r.Normalized.WordOps
	fmt.Fprintf(w, "\nWord edits: %d substitutions, %d deletions, %d insertions\n",
		ops.Substitutions, ops.Deletions, ops.Insertions)

	status := "FAIL"
	if r.Passed {
		status = "PASS"
	}
	fmt.Fprintf(w, "Result: %s (normalized CER %.4f, threshold %.4f)\n", status, r.Normalized.CER, r.PassCER)
}
