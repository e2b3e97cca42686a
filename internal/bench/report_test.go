package bench

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/compliance"
)

func testReport() *Report {
	return &Report{
		RunID:   "0b6c6f4e-7c51-4c39-9d59-2f0d6f3a8d11",
		Dataset: "data/annual",
		Documents: []DocumentResult{
			{
				PDF: "a.pdf", Pages: 2, CER: 0.01, WER: 0.05, FinancialScore: 0.9,
				FinancialMode: "generic", F1: 0.8, ExtractionAccuracy: 0.7, Passed: true,
				Compliance: []compliance.Record{{Rule: "Balance Sheet Present", Status: compliance.Pass}},
			},
			{PDF: "b.pdf", Pages: 1, CER: 0.3, WER: 0.6, FinancialMode: "word_level"},
		},
		Failures: []Failure{{PDF: "c.pdf", Reason: "ocrbench: prediction failed: timeout"}},
		Summary: ocrbench.Summary{
			DocumentsProcessed: 2,
			TotalPages:         3,
			AverageCER:         0.1067,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{".json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{".yml", FormatYAML, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"csv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("ParseFormat() error = %v, want ErrUnknownFormat", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteJSON_Keys(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, testReport()); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	out := buf.String()
	for _, key := range []string{
		`"run_id"`, `"per_document_results"`, `"final_summary"`,
		`"CER"`, `"Char_Accuracy"`, `"Financial_Score"`, `"Extraction_Accuracy"`,
		`"average_CER"`, `"average_time_per_page_sec"`,
	} {
		if !strings.Contains(out, key) {
			t.Errorf("JSON report missing %s", key)
		}
	}
}

func TestWriteFile_ReadReport(t *testing.T) {
	for _, ext := range []string{".json", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report"+ext)
			want := testReport()

			if err := WriteFile(path, want); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			got, err := ReadReport(path)
			if err != nil {
				t.Fatalf("ReadReport() error = %v", err)
			}

			if got.RunID != want.RunID || got.Summary != want.Summary {
				t.Errorf("ReadReport() = %+v, want %+v", got, want)
			}
			if len(got.Documents) != 2 || len(got.Documents[0].Compliance) != 1 {
				t.Errorf("Documents = %+v", got.Documents)
			}
			if len(got.Failures) != 1 || got.Failures[0] != want.Failures[0] {
				t.Errorf("Failures = %+v", got.Failures)
			}
		})
	}
}

func TestReadReport_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := WriteFile(path, testReport()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := ReadReport(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ReadReport(.md) error = %v, want ErrUnknownFormat", err)
	}
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, testReport()); err != nil {
		t.Fatalf("WriteMarkdown() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# OCR Benchmark Report",
		"| Average CER | 0.1067 |",
		"| a.pdf | 2 | 0.0100 | 0.0500 | 0.9000 | generic | 0.8000 | 0.7000 | PASS |",
		"| b.pdf | 1 | 0.3000 |",
		"| 0.01 | 1 | 50.0% |",
		"- c.pdf: ocrbench: prediction failed: timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}
