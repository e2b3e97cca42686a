// Package editdistance scores recognized text against ground truth with
// character and word level Levenshtein distance.
//
// Distances are computed with the classic dynamic program, which costs
// O(n·m) time in the lengths of the two sequences (runes for CER, words for
// WER). Distance keeps two rows, so memory is O(min(n, m)); Align keeps the
// full matrix for its backtrace and costs O(n·m) memory. Callers scoring
// very large pages should bound input size accordingly.
package editdistance

import (
	"strings"

	"github.com/jamesainslie/ocrbench/textnorm"
)

// Ops is the operation breakdown of an optimal alignment.
type Ops struct {
	Substitutions int `json:"substitutions"`
	Deletions     int `json:"deletions"`
	Insertions    int `json:"insertions"`
}

// Total returns the edit distance the breakdown adds up to.
func (o Ops) Total() int {
	return o.Substitutions + o.Deletions + o.Insertions
}

// Distance returns the Levenshtein distance between ref and hyp.
func Distance[T comparable](ref, hyp []T) int {
	if len(ref) == 0 {
		return len(hyp)
	}
	if len(hyp) == 0 {
		return len(ref)
	}
	// Keep the shorter sequence on the row axis.
	if len(hyp) > len(ref) {
		ref, hyp = hyp, ref
	}

	prev := make([]int, len(hyp)+1)
	curr := make([]int, len(hyp)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ref); i++ {
		curr[0] = i
		for j := 1; j <= len(hyp); j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(hyp)]
}

// Align returns the substitutions, deletions and insertions turning ref into
// hyp along one optimal path. Ties prefer a diagonal move, then deletion.
func Align[T comparable](ref, hyp []T) Ops {
	n, m := len(ref), len(hyp)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
		dp[i][0] = i
	}
	for j := 0; j <= m; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			cost := 1
			if ref[i-1] == hyp[j-1] {
				cost = 0
			}
			dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
		}
	}

	var ops Ops
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && dp[i][j] == dp[i-1][j-1]:
			i--
			j--
		case i > 0 && j > 0 && dp[i][j] == dp[i-1][j-1]+1:
			ops.Substitutions++
			i--
			j--
		case i > 0 && dp[i][j] == dp[i-1][j]+1:
			ops.Deletions++
			i--
		default:
			ops.Insertions++
			j--
		}
	}

	return ops
}

// Metrics is the text accuracy of one prediction.
type Metrics struct {
	CER          float64 `json:"CER"`
	WER          float64 `json:"WER"`
	CharAccuracy float64 `json:"Char_Accuracy"`

	CharDistance int `json:"char_distance"`
	WordDistance int `json:"word_distance"`
	RefChars     int `json:"gt_chars"`
	RefWords     int `json:"gt_words"`

	// WordOps breaks WordDistance down by operation.
	WordOps Ops `json:"word_ops"`
}

// Score compares ground truth and prediction after textnorm.Normalize.
//
// CER is the rune distance over max(1, ground-truth runes), WER the word
// distance over max(1, ground-truth words). CharAccuracy is 1 - CER computed
// with the same denominator and is not clamped, so it goes negative when the
// prediction is much longer than the ground truth. When the ground truth
// normalizes to nothing, CER and WER are 0.
func Score(groundTruth, predicted string) Metrics {
	return ScoreRaw(textnorm.Normalize(groundTruth), textnorm.Normalize(predicted))
}

// ScoreRaw is Score without normalization. Words are whitespace separated.
func ScoreRaw(groundTruth, predicted string) Metrics {
	refRunes, hypRunes := []rune(groundTruth), []rune(predicted)
	refWords, hypWords := strings.Fields(groundTruth), strings.Fields(predicted)

	m := Metrics{
		CharDistance: Distance(refRunes, hypRunes),
		RefChars:     len(refRunes),
		RefWords:     len(refWords),
		WordOps:      Align(refWords, hypWords),
	}
	m.WordDistance = m.WordOps.Total()

	charDenom := float64(max(1, m.RefChars))
	m.CharAccuracy = 1 - float64(m.CharDistance)/charDenom

	if m.RefChars == 0 {
		return m
	}
	m.CER = float64(m.CharDistance) / charDenom
	m.WER = float64(m.WordDistance) / float64(max(1, m.RefWords))
	return m
}
