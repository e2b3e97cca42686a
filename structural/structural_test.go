package structural

import (
	"math"
	"testing"

	"github.com/jamesainslie/ocrbench/document"
)

func mustParse(t *testing.T, s string) document.Value {
	t.Helper()
	v, err := document.Parse([]byte(s))
	if err != nil {
		t.Fatalf("document.Parse(%q) error = %v", s, err)
	}
	return v
}

func TestEntities(t *testing.T) {
	doc := mustParse(t, `{"Name":"ACME","meta":{"Year":2024,"audited":true,"note":null},"rows":[{"Cash":"100"},"loose",5],"empty":{}}`)

	got := Entities(doc)
	want := []Entity{
		{"name", "acme"},
		{"year", "2024"},
		{"audited", "true"},
		{"cash", "100"},
	}
	if len(got) != len(want) {
		t.Fatalf("len(Entities()) = %d, want %d: %v", len(got), len(want), got)
	}
	for _, e := range want {
		if _, ok := got[e]; !ok {
			t.Errorf("missing entity %v", e)
		}
	}
}

func TestEntities_ScalarRoot(t *testing.T) {
	if got := Entities(document.NewString("text")); len(got) != 0 {
		t.Errorf("Entities(string) = %v, want empty", got)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name          string
		gt, pred      string
		wantPrecision float64
		wantRecall    float64
		wantF1        float64
	}{
		{
			name:          "identical",
			gt:            `{"a":"1","b":{"c":"x"}}`,
			pred:          `{"a":"1","b":{"c":"x"}}`,
			wantPrecision: 1, wantRecall: 1, wantF1: 1,
		},
		{
			name:          "case insensitive",
			gt:            `{"Total":"Cash"}`,
			pred:          `{"total":"CASH"}`,
			wantPrecision: 1, wantRecall: 1, wantF1: 1,
		},
		{
			name:          "partial",
			gt:            `{"a":"1","b":"2"}`,
			pred:          `{"a":"1","c":"3","d":"4","e":"5"}`,
			wantPrecision: 0.25, wantRecall: 0.5, wantF1: 2 * 0.25 * 0.5 / 0.75,
		},
		{
			name: "disjoint",
			gt:   `{"a":"1"}`,
			pred: `{"a":"2"}`,
		},
		{
			name: "both empty",
			gt:   `{}`,
			pred: `[]`,
		},
		{
			name: "empty prediction",
			gt:   `{"a":"1"}`,
			pred: `{}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Score(mustParse(t, tt.gt), mustParse(t, tt.pred))
			if math.Abs(m.Precision-tt.wantPrecision) > 1e-9 {
				t.Errorf("Precision = %v, want %v", m.Precision, tt.wantPrecision)
			}
			if math.Abs(m.Recall-tt.wantRecall) > 1e-9 {
				t.Errorf("Recall = %v, want %v", m.Recall, tt.wantRecall)
			}
			if math.Abs(m.F1-tt.wantF1) > 1e-9 {
				t.Errorf("F1 = %v, want %v", m.F1, tt.wantF1)
			}
		})
	}
}

func TestScore_SelfIsPerfect(t *testing.T) {
	docs := []string{
		`{"x":1}`,
		`[{"k":"v"},{"k":"w"}]`,
		`{"tables":[{"title":"Balance Sheet","rows":[{"particular":"Cash","2024_25":"100"}]}]}`,
	}
	for _, s := range docs {
		d := mustParse(t, s)
		m := Score(d, d)
		if m.F1 != 1 || m.Precision != 1 || m.Recall != 1 {
			t.Errorf("Score(%s, self) = %+v, want all 1", s, m)
		}
	}
}
