package financial

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jamesainslie/ocrbench/document"
)

// Row is one table row as trimmed, non-empty cell texts.
type Row []string

// PipeRows parses pipe-delimited rows out of markdown-ish text. Every line
// containing '|' is a row; its cells are the '|'-separated fields, trimmed,
// with empty fields dropped. Lines that leave no cells are skipped; a
// separator line such as "|---|---|" is kept as a row of dashes.
func PipeRows(s string) []Row {
	var rows []Row
	for _, line := range strings.Split(s, "\n") {
		if !strings.Contains(line, "|") {
			continue
		}
		var row Row
		for _, cell := range strings.Split(line, "|") {
			if c := strings.TrimSpace(cell); c != "" {
				row = append(row, c)
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

// CellRows reassembles rows from a flat cell list, closing a row after each
// cell whose end_row is true. Cells left open after the last end_row form a
// final row.
func CellRows(cells document.Value) []Row {
	var (
		rows    []Row
		current Row
	)
	for _, cell := range cells.Items() {
		value, _ := cell.Get("value")
		current = append(current, value.Text())
		if end, _ := cell.Get("end_row"); isTrue(end) {
			rows = append(rows, current)
			current = nil
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}
	return rows
}

func isTrue(v document.Value) bool {
	if b, ok := v.Bool(); ok {
		return b
	}
	if f, ok := v.Float(); ok {
		return f != 0
	}
	s, _ := v.Str()
	return strings.EqualFold(s, "true")
}

// IsHTMLTable reports whether s carries HTML table markup rather than pipe
// rows.
func IsHTMLTable(s string) bool {
	return strings.Contains(strings.ToLower(s), "<tr")
}

// HTMLRows returns the <tr> rows of an HTML fragment, with the text of each
// <td>/<th> trimmed. Empty cells and rows are dropped, matching PipeRows.
func HTMLRows(s string) []Row {
	// Bare <tr> fragments are dropped by the HTML5 parser outside a table.
	if !strings.Contains(strings.ToLower(s), "<table") {
		s = "<table>" + s + "</table>"
	}
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var rows []Row
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			if row := parseRow(n); len(row) > 0 {
				rows = append(rows, row)
			}
			continue
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return rows
}

func parseRow(tr *html.Node) Row {
	var row Row
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
			continue
		}
		if text := strings.Join(strings.Fields(nodeText(c)), " "); text != "" {
			row = append(row, text)
		}
	}
	return row
}

// HTMLText returns the text content of an HTML fragment with each element's
// text separated by a space.
func HTMLText(s string) string {
	root, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(nodeText(root)), " ")
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	stack := []*html.Node{n}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
			continue
		}
		for k := c.LastChild; k != nil; k = k.PrevSibling {
			stack = append(stack, k)
		}
	}
	return sb.String()
}

func flatten(rows []Row) string {
	var parts []string
	for _, r := range rows {
		parts = append(parts, r...)
	}
	return strings.Join(parts, " ")
}
