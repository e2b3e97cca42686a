package compliance

import (
	"reflect"
	"testing"

	"github.com/jamesainslie/ocrbench/document"
	"github.com/jamesainslie/ocrbench/financial"
)

func TestValidate_Sections(t *testing.T) {
	gt := document.NewMap(document.Field{Key: "company", Value: document.NewString("Acme")})
	pred := "Standalone BALANCE SHEET and cash flow statement"

	got := Validate(gt, pred, financial.DefaultKeywords().Sections)
	want := []Record{
		{"Balance Sheet Present", Pass},
		{"Statement Of Profit And Loss Present", Fail},
		{"Cash Flow Present", Pass},
		{"Auditor Present", Fail},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %v, want %v", got, want)
	}
	if n := Passed(got); n != 2 {
		t.Errorf("Passed() = %d, want 2", n)
	}
}

func TestValidate_Tables(t *testing.T) {
	gt, err := document.Parse([]byte(`{"tables":[{"title":"Balance Sheet"},{"title":""},{"rows":[]},{"title":"Notes To Accounts"},{"title":null}]}`))
	if err != nil {
		t.Fatalf("document.Parse() error = %v", err)
	}

	got := Validate(gt, "balance sheet as at march", []string{"auditor"})
	want := []Record{
		{"Auditor Present", Fail},
		{"Table Detected: balance sheet", Pass},
		{"Table Detected: notes to accounts", Fail},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Validate() = %v, want %v", got, want)
	}
}

func TestValidate_NonMapGroundTruth(t *testing.T) {
	got := Validate(document.NewSequence(), "", []string{"cash flow"})
	if len(got) != 1 || got[0].Status != Fail {
		t.Errorf("Validate() = %v, want one FAIL record", got)
	}
}

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"balance sheet":    "Balance Sheet",
		"AUDITOR":          "Auditor",
		"profit-and-loss":  "Profit-And-Loss",
		"":                 "",
		"year 2024 report": "Year 2024 Report",
		"2024abc":          "2024Abc",
	}
	for in, want := range tests {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q) = %q, want %q", in, got, want)
		}
	}
}
