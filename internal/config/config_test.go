package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/jamesainslie/ocrbench/financial"
)

func newIsolated(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ocrbench.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	newIsolated(t)

	cfg, err := Load(New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dataset != "." || cfg.Format != "json" {
		t.Errorf("dataset/format = %q/%q, want ./json", cfg.Dataset, cfg.Format)
	}
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("Workers = %d, want %d", cfg.Workers, runtime.NumCPU())
	}
	if cfg.PassCER != 0.02 {
		t.Errorf("PassCER = %v, want 0.02", cfg.PassCER)
	}
	if !reflect.DeepEqual(cfg.Rules.Sections, financial.DefaultKeywords().Sections) {
		t.Errorf("Sections = %v, want defaults", cfg.Rules.Sections)
	}
	if cfg.Rules.MinFragmentLen != financial.DefaultMinFragmentLen {
		t.Errorf("MinFragmentLen = %d, want %d", cfg.Rules.MinFragmentLen, financial.DefaultMinFragmentLen)
	}
	if cfg.Rules.IoUThreshold != 0.5 {
		t.Errorf("IoUThreshold = %v, want 0.5", cfg.Rules.IoUThreshold)
	}
	if cfg.Rules.HTMLTables {
		t.Error("HTMLTables = true, want false by default")
	}
	if cfg.Store.DSN != "" || cfg.Store.Table != "document_results" {
		t.Errorf("Store = %+v", cfg.Store)
	}
}

func TestLoad_File(t *testing.T) {
	newIsolated(t)
	path := writeConfig(t, `
dataset: data/annual
format: yaml
workers: 3
pass_cer: 0.05
rules:
  sections:
    - balance sheet
    - notes to accounts
  min_fragment_len: 6
  html_tables: true
store:
  dsn: "bench:secret@tcp(db:3306)/ocr"
`)

	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Dataset != "data/annual" || cfg.Format != "yaml" || cfg.Workers != 3 || cfg.PassCER != 0.05 {
		t.Errorf("Load() = %+v", cfg)
	}
	if want := []string{"balance sheet", "notes to accounts"}; !reflect.DeepEqual(cfg.Rules.Sections, want) {
		t.Errorf("Sections = %v, want %v", cfg.Rules.Sections, want)
	}
	if cfg.Rules.MinFragmentLen != 6 {
		t.Errorf("MinFragmentLen = %d, want 6", cfg.Rules.MinFragmentLen)
	}
	if !cfg.Rules.HTMLTables {
		t.Error("HTMLTables = false, want true")
	}
	if !reflect.DeepEqual(cfg.Rules.Disclosures, financial.DefaultKeywords().Disclosures) {
		t.Errorf("Disclosures = %v, want defaults", cfg.Rules.Disclosures)
	}
	if cfg.Store.DSN != "bench:secret@tcp(db:3306)/ocr" {
		t.Errorf("Store.DSN = %q", cfg.Store.DSN)
	}

	b := cfg.Bench()
	if b.Workers != 3 || b.PassCER != 0.05 {
		t.Errorf("Bench() = %+v", b)
	}
}

func TestLoad_Env(t *testing.T) {
	newIsolated(t)
	t.Setenv("OCRBENCH_PASS_CER", "0.1")
	t.Setenv("OCRBENCH_STORE_TABLE", "results_v2")
	t.Setenv("OCRBENCH_FORMAT", "markdown")

	path := writeConfig(t, "pass_cer: 0.05\n")
	cfg, err := Load(New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.PassCER != 0.1 {
		t.Errorf("PassCER = %v, want env value 0.1", cfg.PassCER)
	}
	if cfg.Store.Table != "results_v2" {
		t.Errorf("Store.Table = %q, want results_v2", cfg.Store.Table)
	}
	if cfg.Format != "markdown" {
		t.Errorf("Format = %q, want markdown", cfg.Format)
	}
}

func TestLoad_Errors(t *testing.T) {
	newIsolated(t)

	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{name: "negative workers", content: "workers: -1\n", invalid: true},
		{name: "negative pass_cer", content: "pass_cer: -0.5\n", invalid: true},
		{name: "unknown format", content: "format: csv\n", invalid: true},
		{name: "iou above one", content: "rules:\n  iou_threshold: 1.5\n", invalid: true},
		{name: "malformed yaml", content: "workers: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(), writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if tt.invalid && !errors.Is(err, ErrInvalid) {
				t.Errorf("Load() error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	newIsolated(t)

	if _, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}
