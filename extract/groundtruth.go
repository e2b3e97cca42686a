package extract

import (
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

// DefaultSkipKeys lists keys that hold layout or bookkeeping metadata rather
// than page content.
func DefaultSkipKeys() []string {
	return []string{
		"bbox", "box", "id", "id_box", "id_box_line",
		"page_no", "page", "page_start", "page_end",
		"original_width", "original_height",
		"coco_width", "coco_height",
		"metadata", "font", "flags",
		"span_num", "line_num", "block_num",
	}
}

// KeySet turns a key list into a lookup set.
func KeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// blockKeys are the sequences of text-bearing blocks found in form, line and
// paragraph oriented datasets (FUNSD, DocLayNet exports).
var blockKeys = []string{"form", "lines", "paragraphs"}

// WordTexts returns the "text" field of every map item in a word-level
// sequence. Items without a scalar "text" are skipped.
func WordTexts(doc document.Value) []string {
	var out []string
	for _, item := range doc.Items() {
		if v, ok := item.Get("text"); ok && v.IsScalar() {
			out = append(out, v.Text())
		}
	}
	return out
}

// BlockTexts returns the texts of the first form/lines/paragraphs sequence in
// doc that yields any, and whether one was found.
func BlockTexts(doc document.Value) ([]string, bool) {
	for _, key := range blockKeys {
		blocks, ok := doc.Get(key)
		if !ok || blocks.Kind() != document.KindSequence {
			continue
		}
		texts := WordTexts(blocks)
		if len(texts) > 0 {
			return texts, true
		}
	}
	return nil, false
}

// GroundTruthText reconstructs the plain text of a ground-truth document.
//
//   - a string is returned as is
//   - a word-level sequence yields its "text" fields joined by a space
//   - a map with form, lines or paragraphs blocks yields their texts, one per line
//   - a map with a string "text" yields it
//   - anything else yields its unique text fragments, one per line, ignoring
//     values under the skip keys
func GroundTruthText(doc document.Value, skip map[string]bool) string {
	switch doc.Kind() {
	case document.KindString:
		s, _ := doc.Str()
		return s
	case document.KindSequence:
		if words := WordTexts(doc); len(words) > 0 {
			return strings.Join(words, " ")
		}
	case document.KindMap:
		if texts, ok := BlockTexts(doc); ok {
			return strings.Join(texts, "\n")
		}
		if s, ok := doc.GetString("text"); ok {
			return s
		}
	}
	return strings.Join(UniqueFragments(doc, skip), "\n")
}
