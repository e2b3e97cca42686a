// Package financial scores how well a prediction preserves the figures,
// line items and statutory sections of a financial statement.
//
// Score dispatches on the shape of the ground truth:
//
//	sequence            word_level: numeric overlap only
//	map with "tables"   table_evaluation: numeric, structure, row and column scores
//	map with "html"     root_html: numeric overlap only
//	other map, string   generic: numeric, line item, section and disclosure accuracy
//	anything else       unsupported_format, score 0
//
// Composite scores weight the numeric component 0.4 and the other three 0.2.
// Scoring never fails; a shape it cannot read yields a zero result whose
// Mode says why.
package financial

import (
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/jamesainslie/ocrbench/document"
	"github.com/jamesainslie/ocrbench/extract"
	"github.com/jamesainslie/ocrbench/textnorm"
)

// Mode names the scoring branch a ground truth was routed to.
type Mode string

// Scoring modes.
const (
	ModeWordLevel    Mode = "word_level"
	ModeTable        Mode = "table_evaluation"
	ModeRootHTML     Mode = "root_html"
	ModeGeneric      Mode = "generic"
	ModeUnsupported  Mode = "unsupported_format"
	ModeUnknownTable Mode = "unknown_table_format"
)

// Component weights of the composite score.
const (
	NumericWeight = 0.4
	OtherWeight   = 0.2
)

// DefaultMinFragmentLen is the shortest ground-truth text fragment, in runes,
// that counts as a line item.
const DefaultMinFragmentLen = 4

// Keywords are the phrases a complete statement is expected to contain.
type Keywords struct {
	Sections    []string `json:"sections" yaml:"sections"`
	Disclosures []string `json:"disclosures" yaml:"disclosures"`
}

// DefaultKeywords returns the section and disclosure phrases of an Indian
// annual report (Schedule III layout).
func DefaultKeywords() Keywords {
	return Keywords{
		Sections: []string{
			"balance sheet",
			"statement of profit and loss",
			"cash flow",
			"auditor",
		},
		Disclosures: []string{
			"true and fair",
			"for the year ended",
			"earnings per equity share",
			"as at march",
		},
	}
}

// Result is a financial accuracy report. Only the fields belonging to Mode
// are meaningful; Bundle returns exactly those.
type Result struct {
	Mode    Mode
	Overall float64

	Numeric float64

	// table_evaluation
	Structure float64
	Row       float64
	Column    float64
	GTRows    int
	PredRows  int

	// generic
	LineItem   float64
	Section    float64
	Disclosure float64
}

// Bundle returns the metrics of r's mode keyed by their report names.
func (r Result) Bundle() map[string]float64 {
	b := map[string]float64{"financial_overall_score": r.Overall}
	switch r.Mode {
	case ModeWordLevel, ModeRootHTML:
		b["numeric_score"] = r.Numeric
	case ModeTable:
		b["numeric_score"] = r.Numeric
		b["structure_score"] = r.Structure
		b["row_score"] = r.Row
		b["column_score"] = r.Column
	case ModeGeneric:
		b["numeric_accuracy"] = r.Numeric
		b["line_item_accuracy"] = r.LineItem
		b["section_accuracy"] = r.Section
		b["disclosure_accuracy"] = r.Disclosure
	}
	return b
}

// MarshalJSON writes the bundle together with the mode.
func (r Result) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8)
	for k, v := range r.Bundle() {
		out[k] = v
	}
	out["mode"] = r.Mode
	return json.Marshal(out)
}

// Scorer computes financial accuracy against a fixed keyword set.
type Scorer struct {
	keywords       Keywords
	minFragmentLen int
	htmlTables     bool
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithHTMLTables parses table and root "html" values that carry <tr> markup
// as HTML, scoring against their cell text. Without it every "html" value is
// read as pipe rows and its numbers are taken from the raw string.
func WithHTMLTables() ScorerOption {
	return func(s *Scorer) {
		s.htmlTables = true
	}
}

// NewScorer returns a Scorer. A minFragmentLen below 1 selects
// DefaultMinFragmentLen.
func NewScorer(kw Keywords, minFragmentLen int, opts ...ScorerOption) *Scorer {
	if minFragmentLen < 1 {
		minFragmentLen = DefaultMinFragmentLen
	}
	s := &Scorer{
		keywords:       normalizeKeywords(kw),
		minFragmentLen: minFragmentLen,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func normalizeKeywords(kw Keywords) Keywords {
	clean := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, k := range in {
			if k = textnorm.CollapseSpaces(k); k != "" {
				out = append(out, k)
			}
		}
		return out
	}
	return Keywords{Sections: clean(kw.Sections), Disclosures: clean(kw.Disclosures)}
}

// Keywords returns the normalized keyword set in use.
func (s *Scorer) Keywords() Keywords {
	return s.keywords
}

// Score evaluates predicted against groundTruth.
func (s *Scorer) Score(groundTruth document.Value, predicted string) Result {
	switch groundTruth.Kind() {
	case document.KindSequence:
		return scoreWordLevel(groundTruth, predicted)
	case document.KindMap:
		if tables, ok := groundTruth.Get("tables"); ok {
			return s.scoreTable(tables, predicted)
		}
		if h, ok := groundTruth.Get("html"); ok {
			return s.scoreRootHTML(h, predicted)
		}
		return s.scoreGeneric(groundTruth, predicted)
	case document.KindString:
		return s.scoreGeneric(groundTruth, predicted)
	default:
		return Result{Mode: ModeUnsupported}
	}
}

func scoreWordLevel(gt document.Value, predicted string) Result {
	text := strings.Join(extract.WordTexts(gt), " ")
	num := NumericOverlap(text, predicted)
	return Result{Mode: ModeWordLevel, Numeric: num, Overall: num}
}

func (s *Scorer) scoreTable(tables document.Value, predicted string) Result {
	items := tables.Items()
	if len(items) == 0 || items[0].Kind() != document.KindMap {
		return Result{Mode: ModeUnknownTable}
	}
	table := items[0]

	var (
		gtRows []Row
		gtText string
	)
	if h, ok := table.GetString("html"); ok {
		if s.htmlTables && IsHTMLTable(h) {
			gtRows = HTMLRows(h)
			gtText = flatten(gtRows)
		} else {
			gtRows = PipeRows(h)
			gtText = h
		}
	} else if cells, ok := table.Get("cells"); ok && cells.Kind() == document.KindSequence {
		gtRows = CellRows(cells)
		gtText = flatten(gtRows)
	} else {
		return Result{Mode: ModeUnknownTable}
	}

	predRows := PipeRows(predicted)
	r := Result{
		Mode:      ModeTable,
		Numeric:   NumericOverlap(gtText, predicted),
		Structure: StructureScore(gtRows, predRows),
		Row:       RowScore(gtRows, predRows),
		Column:    ColumnScore(gtRows, predRows),
		GTRows:    len(gtRows),
		PredRows:  len(predRows),
	}
	r.Overall = NumericWeight*r.Numeric + OtherWeight*r.Structure + OtherWeight*r.Row + OtherWeight*r.Column
	return r
}

func (s *Scorer) scoreRootHTML(h document.Value, predicted string) Result {
	text, ok := h.Str()
	if !ok {
		return Result{Mode: ModeUnsupported}
	}
	if s.htmlTables && strings.Contains(text, "<") {
		text = HTMLText(text)
	}
	num := NumericOverlap(text, predicted)
	return Result{Mode: ModeRootHTML, Numeric: num, Overall: num}
}

func (s *Scorer) scoreGeneric(gt document.Value, predicted string) Result {
	normalized := textnorm.CollapseSpaces(predicted)

	r := Result{Mode: ModeGeneric}
	r.Numeric = fraction(extract.CanonicalNumbers(extract.Numbers(gt)), extract.NumericForm(predicted))

	var items []string
	for _, frag := range extract.Fragments(gt) {
		if utf8.RuneCountInString(frag) >= s.minFragmentLen {
			items = append(items, textnorm.CollapseSpaces(frag))
		}
	}
	r.LineItem = fraction(items, normalized)
	r.Section = fraction(s.keywords.Sections, normalized)
	r.Disclosure = fraction(s.keywords.Disclosures, normalized)

	r.Overall = NumericWeight*r.Numeric + OtherWeight*r.LineItem + OtherWeight*r.Section + OtherWeight*r.Disclosure
	return r
}

// NumericOverlap returns the fraction of canonical numeric tokens in
// groundTruth found inside the numeric blob of predicted, 0 when the ground
// truth has none.
func NumericOverlap(groundTruth, predicted string) float64 {
	return fraction(extract.CanonicalNumbers(extract.NumbersInText(groundTruth)), extract.NumericBlob(predicted))
}

// fraction returns the share of needles that occur in haystack.
func fraction(needles []string, haystack string) float64 {
	if len(needles) == 0 {
		return 0
	}
	matched := 0
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			matched++
		}
	}
	return float64(matched) / float64(len(needles))
}
