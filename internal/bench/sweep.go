package bench

import (
	"math"
	"sort"
)

// SweepResult holds the pass rate at one CER threshold.
type SweepResult struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Passed    int     `json:"passed" yaml:"passed"`
	PassRate  float64 `json:"pass_rate" yaml:"pass_rate"`
}

// SweepThresholds generates threshold values from min up to, but excluding,
// max with the given step.
func SweepThresholds(min, max, step float64) []float64 {
	if step <= 0 || max <= min {
		return nil
	}
	n := int(math.Ceil((max-min)/step - 1e-9))
	thresholds := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		thresholds = append(thresholds, min+float64(i)*step)
	}
	return thresholds
}

// Sweep computes, for each threshold, how many documents have a CER at or
// below it. Results are sorted by threshold.
func Sweep(results []DocumentResult, thresholds []float64) []SweepResult {
	out := make([]SweepResult, 0, len(thresholds))
	for _, threshold := range thresholds {
		r := SweepResult{Threshold: threshold}
		for _, d := range results {
			if d.CER <= threshold {
				r.Passed++
			}
		}
		if len(results) > 0 {
			r.PassRate = float64(r.Passed) / float64(len(results))
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Threshold < out[j].Threshold
	})
	return out
}

// Worst returns up to n documents ordered by CER descending. Ties keep
// report order.
func Worst(results []DocumentResult, n int) []DocumentResult {
	sorted := make([]DocumentResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CER > sorted[j].CER
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
