package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a report encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned for report formats other than json, yaml and
// markdown.
var ErrUnknownFormat = errors.New("bench: unknown report format")

// DefaultSweep is the CER threshold set shown in markdown reports.
var DefaultSweep = SweepThresholds(0.01, 0.11, 0.01)

// ParseFormat maps a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Write encodes r to w.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatMarkdown:
		return WriteMarkdown(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteYAML writes r as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// WriteMarkdown writes a human readable summary of r.
func WriteMarkdown(w io.Writer, r *Report) error {
	var b strings.Builder
	s := r.Summary

	fmt.Fprintf(&b, "# OCR Benchmark Report\n\n")
	fmt.Fprintf(&b, "Run `%s` over `%s`\n\n", r.RunID, r.Dataset)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Documents | %d |\n", s.DocumentsProcessed)
	fmt.Fprintf(&b, "| Pages | %d |\n", s.TotalPages)
	fmt.Fprintf(&b, "| Average CER | %.4f |\n", s.AverageCER)
	fmt.Fprintf(&b, "| Average WER | %.4f |\n", s.AverageWER)
	fmt.Fprintf(&b, "| Character accuracy | %.4f |\n", s.AverageCharAccuracy)
	fmt.Fprintf(&b, "| Financial score | %.4f |\n", s.AverageFinancialScore)
	fmt.Fprintf(&b, "| F1 | %.4f |\n", s.AverageF1Score)
	fmt.Fprintf(&b, "| Extraction accuracy | %.4f |\n", s.AverageExtractionAccuracy)
	fmt.Fprintf(&b, "| Seconds per page | %.4f |\n", s.AverageTimePerPageSec)

	if len(r.Documents) > 0 {
		b.WriteString("\n## Documents\n\n")
		b.WriteString("| PDF | Pages | CER | WER | Financial | Mode | F1 | Extraction | Pass |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, d := range r.Documents {
			pass := "FAIL"
			if d.Passed {
				pass = "PASS"
			}
			fmt.Fprintf(&b, "| %s | %d | %.4f | %.4f | %.4f | %s | %.4f | %.4f | %s |\n",
				d.PDF, d.Pages, d.CER, d.WER, d.FinancialScore, d.FinancialMode, d.F1, d.ExtractionAccuracy, pass)
		}

		b.WriteString("\n## CER Pass Rate\n\n")
		b.WriteString("| Threshold | Passed | Rate |\n|---|---|---|\n")
		for _, sr := range Sweep(r.Documents, DefaultSweep) {
			fmt.Fprintf(&b, "| %.2f | %d | %.1f%% |\n", sr.Threshold, sr.Passed, sr.PassRate*100)
		}
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- %s: %s\n", f.PDF, f.Reason)
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// WriteFile writes r to path, choosing the format from its extension.
func WriteFile(path string, r *Report) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(out, r, f); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// ReadReport loads a JSON or YAML report written by WriteFile.
func ReadReport(path string) (*Report, error) {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var r Report
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &r)
	case FormatYAML:
		err = yaml.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("%w: cannot read %s reports", ErrUnknownFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &r, nil
}
