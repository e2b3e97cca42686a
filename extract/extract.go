// Package extract flattens schema-free documents into the numeric tokens and
// text fragments the scorers compare.
//
// All traversals are pre-order and depth first, visiting map values in
// stored order and sequence items in index order. They run on an explicit
// stack (document.Walk), so ground truth of any depth is safe to process.
package extract

import (
	"regexp"
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

var numberToken = regexp.MustCompile(`-?\d(?:[\d,.]*\d)?`)

// NumbersInText returns the raw numeric tokens in s: a digit run with an
// optional leading minus and interior ',' or '.' separators. A token always
// ends on a digit, so "100." at the end of a sentence yields "100".
func NumbersInText(s string) []string {
	return numberToken.FindAllString(s, -1)
}

// Numbers returns every numeric token found in the string leaves of doc, plus
// the literal of every number leaf, in traversal order.
func Numbers(doc document.Value) []string {
	var out []string
	document.Walk(doc, func(e document.Entry) bool {
		switch e.Value.Kind() {
		case document.KindString:
			s, _ := e.Value.Str()
			out = append(out, NumbersInText(s)...)
		case document.KindNumber:
			out = append(out, e.Value.Text())
		}
		return true
	})
	return out
}

// CanonicalNumber strips a numeric token down to its digits and '.', keeping
// a '-' only when it leads the token. "(1,234.50)" becomes "1234.50" and
// "-12,000" becomes "-12000".
func CanonicalNumber(tok string) string {
	var b strings.Builder
	b.Grow(len(tok))
	for i, r := range tok {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalNumbers canonicalizes toks, dropping tokens that end up empty.
func CanonicalNumbers(toks []string) []string {
	out := make([]string, 0, len(toks))
	for _, tok := range toks {
		if c := CanonicalNumber(tok); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// NumericBlob canonicalizes the numeric tokens of s and joins them with a
// space, so a ground-truth token can only match within a single predicted
// number.
func NumericBlob(s string) string {
	return strings.Join(CanonicalNumbers(NumbersInText(s)), " ")
}

// NumericForm reduces the whole of s to its digits, '.' and '-'.
func NumericForm(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fragments returns every non-empty string leaf of doc, trimmed, in
// traversal order. Duplicates are kept.
func Fragments(doc document.Value) []string {
	var out []string
	document.Walk(doc, func(e document.Entry) bool {
		if s, ok := e.Value.Str(); ok {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return true
	})
	return out
}

// UniqueFragments is Fragments with repeats dropped after their first
// occurrence. Values stored under a key in skip, and everything beneath
// them, are ignored.
func UniqueFragments(doc document.Value, skip map[string]bool) []string {
	var out []string
	seen := make(map[string]bool)
	document.Walk(doc, func(e document.Entry) bool {
		if e.InMap && skip[e.Key] {
			return false
		}
		if s, ok := e.Value.Str(); ok {
			t := strings.TrimSpace(s)
			if t != "" && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
		return true
	})
	return out
}
