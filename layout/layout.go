// Package layout matches predicted layout blocks to ground-truth blocks by
// bounding-box overlap and scores their categories.
package layout

import (
	"github.com/jamesainslie/ocrbench/document"
)

// DefaultIoUThreshold is the overlap a block pair needs to count as matched.
const DefaultIoUThreshold = 0.5

// BBox is an axis aligned box as [x, y, width, height].
type BBox [4]float64

// Block is a region of a page and its category, e.g. "Table" or "Text".
type Block struct {
	BBox     BBox   `json:"bbox"`
	Category string `json:"category"`
}

// Metrics is the result of Evaluate.
type Metrics struct {
	TotalBlocks            int     `json:"layout_total_blocks"`
	MatchedBlocks          int     `json:"layout_matched_blocks"`
	ClassificationAccuracy float64 `json:"layout_classification_accuracy"`
}

// IoU returns the intersection over union of a and b, 0 when the union is
// empty.
func IoU(a, b BBox) float64 {
	ax2, ay2 := a[0]+a[2], a[1]+a[3]
	bx2, by2 := b[0]+b[2], b[1]+b[3]

	w := max(0, min(ax2, bx2)-max(a[0], b[0]))
	h := max(0, min(ay2, by2)-max(a[1], b[1]))
	inter := w * h

	union := a[2]*a[3] + b[2]*b[3] - inter
	if union == 0 {
		return 0
	}
	return inter / union
}

// Evaluate pairs every ground-truth block with the predicted block of highest
// IoU. The pair is matched when that IoU reaches threshold, and classified
// correctly when the categories are equal as well. A predicted block may be
// the best match of several ground-truth blocks.
func Evaluate(gt, pred []Block, threshold float64) Metrics {
	m := Metrics{TotalBlocks: len(gt)}
	correct := 0

	for _, g := range gt {
		best := -1
		bestIoU := 0.0
		for i, p := range pred {
			if iou := IoU(g.BBox, p.BBox); iou > bestIoU {
				bestIoU = iou
				best = i
			}
		}
		if best < 0 || bestIoU < threshold {
			continue
		}
		m.MatchedBlocks++
		if pred[best].Category == g.Category {
			correct++
		}
	}

	if m.TotalBlocks > 0 {
		m.ClassificationAccuracy = float64(correct) / float64(m.TotalBlocks)
	}
	return m
}

// BlocksFromDocument reads blocks from the first "layout" or "blocks"
// sequence of doc. Items need a four-number bbox; the category may be a
// string or a numeric class id. Malformed items are skipped.
func BlocksFromDocument(doc document.Value) []Block {
	var items []document.Value
	for _, key := range []string{"layout", "blocks"} {
		if v, ok := doc.Get(key); ok && v.Kind() == document.KindSequence {
			items = v.Items()
			break
		}
	}

	blocks := make([]Block, 0, len(items))
	for _, item := range items {
		box, ok := item.Get("bbox")
		if !ok || box.Len() != 4 {
			continue
		}
		var b Block
		valid := true
		for i, c := range box.Items() {
			f, ok := c.Float()
			if !ok {
				valid = false
				break
			}
			b.BBox[i] = f
		}
		if !valid {
			continue
		}
		if c, ok := item.Get("category"); ok {
			b.Category = c.Text()
		} else if c, ok := item.Get("category_id"); ok {
			b.Category = c.Text()
		}
		blocks = append(blocks, b)
	}
	return blocks
}
