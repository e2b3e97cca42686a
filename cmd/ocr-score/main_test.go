package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/ocrbench"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompare(t *testing.T) {
	r := Compare("“Quoted” text", `"Quoted" text`, 0.02)

	if math.Abs(r.Strict.CER-2.0/13) > 1e-9 {
		t.Errorf("strict CER = %v, want 2/13", r.Strict.CER)
	}
	if r.Normalized.CER != 0 {
		t.Errorf("normalized CER = %v, want 0", r.Normalized.CER)
	}
	if !r.Passed {
		t.Error("Passed = false, want true")
	}

	if r := Compare("abcd", "abce", 0.2); r.Passed {
		t.Errorf("Compare() CER %v passed at threshold 0.2", r.Normalized.CER)
	}
}

func TestReadInputs(t *testing.T) {
	dir := t.TempDir()
	ev := ocrbench.New()

	gt, err := readGroundTruth(writeFile(t, dir, "gt.json", `{"page": 1, "text": "Revenue 100"}`), ev)
	if err != nil {
		t.Fatalf("readGroundTruth() error = %v", err)
	}
	if gt != "Revenue 100" {
		t.Errorf("readGroundTruth(json) = %q, want %q", gt, "Revenue 100")
	}

	gt, err = readGroundTruth(writeFile(t, dir, "gt.txt", "plain\ntext"), ev)
	if err != nil || gt != "plain\ntext" {
		t.Errorf("readGroundTruth(txt) = %q, %v", gt, err)
	}

	tests := []struct {
		name    string
		file    string
		content string
		want    string
		wantErr error
	}{
		{name: "markdown", file: "p.md", content: "# Title\n\n**bold** text", want: "Title\nbold text"},
		{name: "prediction json", file: "p.json", content: `{"success": true, "text": "hello"}`, want: "hello"},
		{name: "failed prediction", file: "f.json", content: `{"success": false, "error": "oom"}`, wantErr: ocrbench.ErrPredictionFailed},
		{name: "plain", file: "p.txt", content: "as is ", want: "as is "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readPrediction(writeFile(t, dir, tt.file, tt.content))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("readPrediction() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readPrediction() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("readPrediction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	gt := writeFile(t, dir, "gt.txt", "Cash and cash equivalents 1,250")
	pred := writeFile(t, dir, "pred.txt", "Cash and cash equivalents 1,25O")

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-g", gt, "-p", pred, "--json"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var r Result
	if err := json.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, buf.String())
	}
	if r.Normalized.CharDistance != 1 || r.Passed {
		t.Errorf("result = %+v, want one char edit and FAIL", r)
	}

	buf.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"-g", gt, "-p", pred, "--pass-cer", "0.05"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Result: PASS") {
		t.Errorf("output missing PASS:\n%s", buf.String())
	}
}

func TestCommand_MissingFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error without --ground-truth and --prediction")
	}
}
