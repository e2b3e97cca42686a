// Package textnorm canonicalizes text before it is scored.
//
// Normalize is the strict form used for CER/WER: lowercase, punctuation free,
// single-spaced. NormalizeDocument is lighter and keeps case and punctuation;
// it only removes the artifacts that differ between a markdown rendering and
// a plain-text transcription of the same page.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	hyphenBreak = regexp.MustCompile(`-\r?\n`)
	newlineRuns = regexp.MustCompile(`(\r?\n)+`)

	headingMarker    = regexp.MustCompile(`#+\s+`)
	emphasisMarker   = regexp.MustCompile(`\*\*|__`)
	imagePlaceholder = regexp.MustCompile(`<!-- image -->`)
	ordinalSuffix    = regexp.MustCompile(`(?i)(\d+)\s+(st|nd|rd|th)\b`)

	quotes = strings.NewReplacer(
		"“", `"`, "”", `"`,
		"‘", `"`, "’", `"`,
		"'", `"`,
	)
)

// Normalize lowercases s, rejoins words split by a hyphenated line break,
// drops everything but letters, digits and whitespace, and collapses
// whitespace to single spaces. It is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = hyphenBreak.ReplaceAllString(s, "")
	s = newlineRuns.ReplaceAllString(s, "\n")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return CollapseWhitespace(b.String())
}

// NormalizeDocument prepares text for comparison across output formats.
// It applies NFKC folding, strips markdown heading and bold markers and
// image placeholders, straightens typographic quotes (single quotes become
// double quotes), joins detached ordinal suffixes ("31 st" -> "31st") and
// collapses whitespace. Case is preserved.
func NormalizeDocument(s string) string {
	if s == "" {
		return ""
	}

	s = norm.NFKC.String(s)

	// Removing one marker can expose another ("#**# x"), so strip until stable.
	for {
		next := headingMarker.ReplaceAllString(s, "")
		next = emphasisMarker.ReplaceAllString(next, "")
		next = imagePlaceholder.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}

	s = quotes.Replace(s)
	s = ordinalSuffix.ReplaceAllString(s, "${1}${2}")

	return CollapseWhitespace(s)
}

// CollapseWhitespace replaces every whitespace run with a single space and
// trims both ends.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CollapseSpaces lowercases s and collapses its whitespace. Keyword and
// line-item matching is done against this form.
func CollapseSpaces(s string) string {
	return CollapseWhitespace(strings.ToLower(s))
}
