package ocrbench

import (
	"testing"

	"github.com/jamesainslie/ocrbench/document"
)

func TestBuildDocument(t *testing.T) {
	pred := Prediction{
		Success: true,
		Text:    "Acme Steel Limited\nCIN: L27100MH1907PLC000260\nAnnual Report 2024-25",
		Markdown: "# Standalone Balance Sheet\n\n| Particulars | Note No. | As at 31 Mar 2025 | As at 31 Mar 2024 |\n|---|---|---|---|\n" +
			"| Cash | 5 | 100 | 90 |\n| | | | |\n\nStatement of Profit and Loss\n\n| Particulars | FY 2025 |\n|---|---|\n| Revenue | 900 |\n",
	}

	doc := BuildDocument(pred)

	tests := []struct {
		key  string
		want string
	}{
		{"cin", "L27100MH1907PLC000260"},
		{"company_name", "Acme Steel Limited"},
		{"year", "2024-25"},
	}
	for _, tt := range tests {
		if got, _ := doc.GetString(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}

	tables, _ := doc.Get("tables")
	if tables.Len() != 2 {
		t.Fatalf("len(tables) = %d, want 2: %s", tables.Len(), document.Dump(tables))
	}

	first := tables.Items()[0]
	if title, _ := first.GetString("title"); title != "Standalone Balance Sheet" {
		t.Errorf("title = %q, want Standalone Balance Sheet", title)
	}
	if typ, _ := first.GetString("type"); typ != "balance_sheet" {
		t.Errorf("type = %q, want balance_sheet", typ)
	}
	rows, _ := first.Get("rows")
	if rows.Len() != 1 {
		t.Fatalf("len(rows) = %d, want 1: %s", rows.Len(), document.Dump(rows))
	}
	want := `{"particular": "Cash", "note": "5", "2024_25": "100", "2023_24": "90"}`
	if got := document.Dump(rows.Items()[0]); got != want {
		t.Errorf("row = %s, want %s", got, want)
	}

	second := tables.Items()[1]
	if typ, _ := second.GetString("type"); typ != "profit_loss" {
		t.Errorf("type = %q, want profit_loss", typ)
	}
}

func TestBuildDocument_Empty(t *testing.T) {
	doc := BuildDocument(Prediction{Success: true})

	for _, key := range []string{"cin", "company_name", "year"} {
		v, ok := doc.Get(key)
		if !ok || !v.IsNull() {
			t.Errorf("%s = %s, want null", key, document.Dump(v))
		}
	}
	tables, _ := doc.Get("tables")
	if tables.Kind() != document.KindSequence || tables.Len() != 0 {
		t.Errorf("tables = %s, want []", document.Dump(tables))
	}
}

func TestBuildDocument_ExtractedTables(t *testing.T) {
	pred := Prediction{
		Success: true,
		Tables: []Table{
			{{"Particulars", "2024"}, {"Cash", "10"}},
			{{"only header"}},
		},
	}

	doc := BuildDocument(pred)
	tables, _ := doc.Get("tables")
	if tables.Len() != 1 {
		t.Fatalf("len(tables) = %d, want 1", tables.Len())
	}
	if title, _ := tables.Items()[0].GetString("title"); title != "table_0" {
		t.Errorf("title = %q, want table_0", title)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := map[string]string{
		"Particulars":       "particular",
		"Note No.":          "note",
		"As at 31 Mar 2025": "2024_25",
		"31 March 2024":     "2023_24",
		"FY 2023":           "fy 2023",
		" Amount ":          "amount",
	}
	for in, want := range tests {
		if got := normalizeHeader(in); got != want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}
