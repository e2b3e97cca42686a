package financial

import (
	"strings"

	"github.com/jamesainslie/ocrbench/textnorm"
)

// StructureScore compares row counts: min/max of the two, 0 when either side
// has no rows.
func StructureScore(gt, pred []Row) float64 {
	if len(gt) == 0 || len(pred) == 0 {
		return 0
	}
	return float64(min(len(gt), len(pred))) / float64(max(len(gt), len(pred)))
}

// RowScore returns the fraction of ground-truth rows whose space-joined,
// normalized text occurs inside some predicted row. A predicted row may
// satisfy any number of ground-truth rows.
func RowScore(gt, pred []Row) float64 {
	if len(gt) == 0 {
		return 0
	}

	predLines := make([]string, len(pred))
	for i, r := range pred {
		predLines[i] = rowLine(r)
	}

	matched := 0
	for _, r := range gt {
		line := rowLine(r)
		for _, p := range predLines {
			if strings.Contains(p, line) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(gt))
}

// ColumnScore compares the widest row on each side: min/max, 0 when either
// side has no rows.
func ColumnScore(gt, pred []Row) float64 {
	if len(gt) == 0 || len(pred) == 0 {
		return 0
	}
	g, p := maxWidth(gt), maxWidth(pred)
	if g == 0 || p == 0 {
		return 0
	}
	return float64(min(g, p)) / float64(max(g, p))
}

func rowLine(r Row) string {
	return textnorm.CollapseSpaces(strings.Join(r, " "))
}

func maxWidth(rows []Row) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return w
}
