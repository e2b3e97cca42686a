package bench

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/document"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCorpus(t *testing.T) *Corpus {
	t.Helper()
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"doc1_gt.json":     `{"text": "hello world"}`,
		"doc1_pred.json":   `{"success": true, "text": "Hello world", "time_sec": 4}`,
		"doc2_gt.json":     `{"text": "abcd"}`,
		"doc2_pred.json":   `{"success": true, "text": "abce", "pages": 1, "time_sec": 1}`,
		"doc3_gt.json":     `{"text": "never scored"}`,
		"doc3_pred.json":   `{"success": false, "error": "timeout"}`,
		"doc4_gt.json":     `{"text": "no prediction"}`,
		"page_limits.json": `{"doc1.pdf": {"start_page": 1, "end_page": 3}, "doc2.pdf": {"start_page": 1, "end_page": 9}}`,
	})

	c, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}
	return c
}

func TestRun(t *testing.T) {
	c := newTestCorpus(t)
	ev := ocrbench.New(ocrbench.WithLogger(discardLogger()))

	cfg := DefaultConfig()
	cfg.Workers = 2

	rep, err := Run(context.Background(), c, ev, cfg, discardLogger())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.RunID == "" {
		t.Error("RunID is empty")
	}

	if len(rep.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(rep.Documents))
	}
	first, second := rep.Documents[0], rep.Documents[1]
	if first.PDF != "doc1.pdf" || second.PDF != "doc2.pdf" {
		t.Errorf("document order = %s, %s, want doc1.pdf, doc2.pdf", first.PDF, second.PDF)
	}
	if first.Pages != 3 {
		t.Errorf("doc1 pages = %d, want 3 from page limits", first.Pages)
	}
	if first.CER != 0 || !first.Passed {
		t.Errorf("doc1 CER = %v passed = %v, want 0 / true", first.CER, first.Passed)
	}
	if second.CER != 0.25 || second.WER != 1 || second.Passed {
		t.Errorf("doc2 CER = %v WER = %v passed = %v, want 0.25 / 1 / false", second.CER, second.WER, second.Passed)
	}

	if len(rep.Failures) != 2 {
		t.Fatalf("got %d failures, want 2: %+v", len(rep.Failures), rep.Failures)
	}
	if rep.Failures[0].PDF != "doc3.pdf" || rep.Failures[1].PDF != "doc4.pdf" {
		t.Errorf("failures = %+v", rep.Failures)
	}

	s := rep.Summary
	if s.DocumentsProcessed != 2 || s.TotalPages != 4 {
		t.Errorf("counts = %d docs / %d pages, want 2 / 4", s.DocumentsProcessed, s.TotalPages)
	}
	if math.Abs(s.AverageCER-0.0625) > 1e-9 {
		t.Errorf("AverageCER = %v, want 0.0625", s.AverageCER)
	}
	if math.Abs(s.AverageTimePerPageSec-1.25) > 1e-9 {
		t.Errorf("AverageTimePerPageSec = %v, want 1.25", s.AverageTimePerPageSec)
	}
}

func TestRun_StructuredOutput(t *testing.T) {
	c := newTestCorpus(t)
	ev := ocrbench.New(ocrbench.WithLogger(discardLogger()))

	cfg := DefaultConfig()
	cfg.StructuredDir = filepath.Join(t.TempDir(), "structured")

	if _, err := Run(context.Background(), c, ev, cfg, discardLogger()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.StructuredDir, "doc1_output.json"))
	if err != nil {
		t.Fatalf("reading structured output: %v", err)
	}
	doc, err := document.Parse(data)
	if err != nil {
		t.Fatalf("document.Parse() error = %v", err)
	}
	for _, key := range []string{"cin", "company_name", "year", "tables"} {
		if !doc.Has(key) {
			t.Errorf("structured output missing %q: %s", key, data)
		}
	}

	if _, err := os.Stat(filepath.Join(cfg.StructuredDir, "doc3_output.json")); !os.IsNotExist(err) {
		t.Errorf("failed prediction should not produce structured output, stat error = %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	c := newTestCorpus(t)
	ev := ocrbench.New(ocrbench.WithLogger(discardLogger()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, c, ev, DefaultConfig(), discardLogger())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRun_Empty(t *testing.T) {
	c, err := LoadCorpus(t.TempDir())
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	rep, err := Run(context.Background(), c, ocrbench.New(), DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(rep.Documents) != 0 || rep.Summary != (ocrbench.Summary{}) {
		t.Errorf("Run() on empty corpus = %+v", rep)
	}
}
