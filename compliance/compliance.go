// Package compliance checks that a prediction mentions the sections and
// tables a statement is required to carry.
package compliance

import (
	"strings"
	"unicode"

	"github.com/jamesainslie/ocrbench/document"
)

// Status is the outcome of a rule.
type Status string

// Rule outcomes.
const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

// Record is one evaluated rule.
type Record struct {
	Rule   string `json:"rule" yaml:"rule"`
	Status Status `json:"status" yaml:"status"`
}

// Validate emits one record per required section, in order, followed by one
// record per ground-truth table with a non-empty title, in table order. A
// rule passes when its phrase occurs in the lowercased prediction.
func Validate(groundTruth document.Value, predicted string, sections []string) []Record {
	text := strings.ToLower(predicted)

	records := make([]Record, 0, len(sections))
	for _, section := range sections {
		records = append(records, Record{
			Rule:   titleCase(section) + " Present",
			Status: check(text, strings.ToLower(section)),
		})
	}

	tables, _ := groundTruth.Get("tables")
	for _, table := range tables.Items() {
		t, _ := table.Get("title")
		title := strings.ToLower(t.Text())
		if title == "" {
			continue
		}
		records = append(records, Record{
			Rule:   "Table Detected: " + title,
			Status: check(text, title),
		})
	}

	return records
}

// Passed counts the passing records.
func Passed(records []Record) int {
	n := 0
	for _, r := range records {
		if r.Status == Pass {
			n++
		}
	}
	return n
}

func check(text, phrase string) Status {
	if strings.Contains(text, phrase) {
		return Pass
	}
	return Fail
}

// titleCase upper-cases the first letter of every word and lower-cases the
// rest: "statement of profit and loss" -> "Statement Of Profit And Loss".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	start := true
	for _, r := range s {
		if unicode.IsLetter(r) {
			if start {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(unicode.ToLower(r))
			}
			start = false
			continue
		}
		b.WriteRune(r)
		start = true
	}
	return b.String()
}
