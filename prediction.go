package ocrbench

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jamesainslie/ocrbench/layout"
	"github.com/jamesainslie/ocrbench/textnorm"
)

// Table is an extracted table as rows of cell strings.
type Table [][]string

// UnmarshalJSON accepts either a bare row list or an object carrying one
// under "rows".
func (t *Table) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var wrapped struct {
			Rows [][]string `json:"rows"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return fmt.Errorf("decoding table: %w", err)
		}
		*t = wrapped.Rows
		return nil
	}

	var rows [][]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decoding table: %w", err)
	}
	*t = rows
	return nil
}

// Markdown renders t as pipe rows, one per line.
func (t Table) Markdown() string {
	var sb strings.Builder
	for _, row := range t {
		sb.WriteString("|")
		for _, cell := range row {
			sb.WriteString(" ")
			sb.WriteString(strings.ReplaceAll(cell, "|", "/"))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Prediction is what an OCR engine produced for one document.
type Prediction struct {
	Success  bool           `json:"success" yaml:"success"`
	Text     string         `json:"text" yaml:"text"`
	Markdown string         `json:"markdown,omitempty" yaml:"markdown,omitempty"`
	Tables   []Table        `json:"tables,omitempty" yaml:"tables,omitempty"`
	Pages    int            `json:"pages" yaml:"pages"`
	TimeSec  float64        `json:"time_sec" yaml:"time_sec"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Blocks   []layout.Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// ParsePrediction decodes a prediction from JSON.
func ParsePrediction(data []byte) (Prediction, error) {
	var p Prediction
	if err := json.Unmarshal(data, &p); err != nil {
		return Prediction{}, fmt.Errorf("decoding prediction: %w", err)
	}
	return p, nil
}

// PlainText returns the prediction's text, falling back to its markdown
// rendered as plain text when no text was produced.
func (p Prediction) PlainText() string {
	if strings.TrimSpace(p.Text) != "" || p.Markdown == "" {
		return p.Text
	}
	return textnorm.MarkdownText(p.Markdown)
}

// TableText returns the text table scoring reads pipe rows from: the
// markdown when present, else the extracted tables rendered as pipe rows,
// else the plain text.
func (p Prediction) TableText() string {
	if p.Markdown != "" {
		return p.Markdown
	}
	if len(p.Tables) > 0 {
		parts := make([]string, len(p.Tables))
		for i, t := range p.Tables {
			parts[i] = t.Markdown()
		}
		return strings.Join(parts, "\n")
	}
	return p.Text
}
