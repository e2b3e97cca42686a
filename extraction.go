package ocrbench

import (
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

// ExtractionAccuracy serializes the ground truth to JSON, lowercases it and
// splits it on whitespace, then returns the share of those tokens that occur
// in the lowercased prediction. Ground truth with no tokens scores 0.
func ExtractionAccuracy(groundTruth document.Value, predicted string) float64 {
	tokens := strings.Fields(strings.ToLower(document.Dump(groundTruth)))
	if len(tokens) == 0 {
		return 0
	}

	text := strings.ToLower(predicted)
	matched := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
