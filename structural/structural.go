// Package structural compares two documents as sets of flattened
// (key, value) entities and reports precision, recall and F1.
package structural

import (
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

// Entity is a lowercased key paired with the lowercased text of the scalar
// stored under it.
type Entity struct {
	Key   string
	Value string
}

// Metrics holds entity matching results.
type Metrics struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// Entities returns the entity set of doc. Only map entries holding a string,
// number or bool contribute; containers are descended into without adding a
// pair for their own key, and sequence items and null values add nothing.
func Entities(doc document.Value) map[Entity]struct{} {
	set := make(map[Entity]struct{})
	document.Walk(doc, func(e document.Entry) bool {
		if e.InMap && e.Value.IsScalar() {
			set[Entity{
				Key:   strings.ToLower(e.Key),
				Value: strings.ToLower(e.Value.Text()),
			}] = struct{}{}
		}
		return true
	})
	return set
}

// Score compares predicted against groundTruth. Precision is measured over
// the predicted entities and recall over the ground-truth ones. When
// precision and recall are both 0 every rate is reported as 0.
func Score(groundTruth, predicted document.Value) Metrics {
	gt := Entities(groundTruth)
	pred := Entities(predicted)

	tp := 0
	for e := range pred {
		if _, ok := gt[e]; ok {
			tp++
		}
	}

	m := Metrics{
		TruePositives:  tp,
		FalsePositives: len(pred) - tp,
		FalseNegatives: len(gt) - tp,
	}

	if len(pred) > 0 {
		m.Precision = float64(tp) / float64(len(pred))
	}
	if len(gt) > 0 {
		m.Recall = float64(tp) / float64(len(gt))
	}
	if m.Precision+m.Recall == 0 {
		m.Precision, m.Recall = 0, 0
		return m
	}
	m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)

	return m
}
