package ocrbench

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/jamesainslie/ocrbench/document"
	"github.com/jamesainslie/ocrbench/textnorm"
)

var (
	cinPattern     = regexp.MustCompile(`[A-Z]\d{5}[A-Z]{2}\d{4}[A-Z]{3}\d{6}`)
	companyPattern = regexp.MustCompile(`[A-Z][A-Za-z\s]+Limited`)
	yearPattern    = regexp.MustCompile(`20\d{2}[-–]?\d{2}`)
)

// BuildDocument arranges a prediction into the shape of annual-report ground
// truth:
//
//	{"cin", "company_name", "year", "tables": [{"title", "type", "rows": [{header: cell}]}]}
//
// so it can be compared entity by entity with structural.Score. Metadata not
// found in the text is null. When the prediction carries no tables they are
// recovered from its markdown.
func BuildDocument(p Prediction) document.Value {
	tables := p.Tables
	if len(tables) == 0 && p.Markdown != "" {
		for _, t := range textnorm.Tables(p.Markdown) {
			tables = append(tables, Table(t))
		}
	}

	titles := tableTitles(p.Markdown)

	structured := make([]document.Value, 0, len(tables))
	for i, t := range tables {
		rows, ok := tableRows(t)
		if !ok {
			continue
		}
		title := "table_" + strconv.Itoa(i)
		if i < len(titles) && titles[i] != "" {
			title = titles[i]
		}
		structured = append(structured, document.NewMap(
			document.Field{Key: "title", Value: document.NewString(title)},
			document.Field{Key: "type", Value: document.NewString(classifyTable(title))},
			document.Field{Key: "rows", Value: document.NewSequence(rows...)},
		))
	}

	return document.NewMap(
		document.Field{Key: "cin", Value: match(cinPattern, p.Text)},
		document.Field{Key: "company_name", Value: match(companyPattern, p.Text)},
		document.Field{Key: "year", Value: match(yearPattern, p.Text)},
		document.Field{Key: "tables", Value: document.NewSequence(structured...)},
	)
}

func match(re *regexp.Regexp, text string) document.Value {
	m := re.FindString(text)
	if m == "" {
		return document.Null()
	}
	return document.NewString(strings.TrimSpace(m))
}

// tableTitles returns, for each run of pipe lines in markdown, the nearest
// non-blank line above it with heading and emphasis markers removed. Runs
// with nothing above them get "".
func tableTitles(markdown string) []string {
	if markdown == "" {
		return nil
	}

	var (
		titles  []string
		prev    string
		inTable bool
	)
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, "|") {
			if !inTable {
				titles = append(titles, strings.TrimSpace(strings.Trim(prev, "#*_ ")))
				inTable = true
			}
			continue
		}
		inTable = false
		if trimmed != "" {
			prev = trimmed
		}
	}
	return titles
}

// tableRows maps each body row onto the normalized header, skipping blank
// cells. Rows with fewer than two mapped cells are dropped; a table with no
// body rows left is rejected.
func tableRows(t Table) ([]document.Value, bool) {
	if len(t) < 2 {
		return nil, false
	}

	header := make([]string, len(t[0]))
	for i, h := range t[0] {
		header[i] = normalizeHeader(h)
	}

	var rows []document.Value
	for _, row := range t[1:] {
		var fields []document.Field
		for i := 0; i < min(len(row), len(header)); i++ {
			cell := strings.TrimSpace(row[i])
			if header[i] == "" || cell == "" {
				continue
			}
			fields = append(fields, document.Field{Key: header[i], Value: document.NewString(cell)})
		}
		entry := document.NewMap(fields...)
		if entry.Len() > 1 {
			rows = append(rows, entry)
		}
	}
	if len(rows) == 0 {
		return nil, false
	}
	return rows, true
}

// normalizeHeader maps column headers onto the keys used by the ground truth:
// "particular", "note" and fiscal-year columns "2024_25" / "2023_24".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	switch {
	case strings.Contains(h, "particular"):
		return "particular"
	case strings.Contains(h, "note"):
		return "note"
	case strings.Contains(h, "mar") || strings.Contains(h, "202"):
		if strings.Contains(h, "25") {
			return "2024_25"
		}
		if strings.Contains(h, "24") {
			return "2023_24"
		}
	}
	return h
}

func classifyTable(title string) string {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "balance sheet"):
		return "balance_sheet"
	case strings.Contains(t, "profit") || strings.Contains(t, "loss"):
		return "profit_loss"
	case strings.Contains(t, "cash flow"):
		return "cash_flow"
	default:
		return "other"
	}
}
