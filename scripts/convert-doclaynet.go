//go:build ignore

// Convert DocLayNet COCO annotations into layout ground truth for ocr-bench.
// Each page image becomes <stem>_gt.json holding
// {"page", "text", "layout": [{"bbox": [x, y, w, h], "category": name}]}.
// Usage: go run ./scripts/convert-doclaynet.go -in COCO/test.json -out testdata/doclaynet
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

type coco struct {
	Images []struct {
		ID       int    `json:"id"`
		FileName string `json:"file_name"`
		PageNo   int    `json:"page_no"`
	} `json:"images"`
	Annotations []struct {
		ImageID    int       `json:"image_id"`
		CategoryID int       `json:"category_id"`
		BBox       []float64 `json:"bbox"`
	} `json:"annotations"`
	Categories []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"categories"`
}

func main() {
	var (
		in  = flag.String("in", "", "DocLayNet COCO JSON file (required)")
		out = flag.String("out", "testdata/doclaynet", "Output directory")
	)
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "error: -in required")
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *in, err)
		os.Exit(1)
	}
	var c coco
	if err := json.Unmarshal(data, &c); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing %s: %v\n", *in, err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *out, err)
		os.Exit(1)
	}

	categories := make(map[int]string, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat.ID] = cat.Name
	}

	blocks := make(map[int][]document.Value)
	for _, a := range c.Annotations {
		if len(a.BBox) != 4 {
			continue
		}
		bbox := make([]document.Value, 4)
		for i, v := range a.BBox {
			bbox[i] = document.NewFloat(v)
		}
		blocks[a.ImageID] = append(blocks[a.ImageID], document.NewMap(
			document.Field{Key: "bbox", Value: document.NewSequence(bbox...)},
			document.Field{Key: "category", Value: document.NewString(categories[a.CategoryID])},
		))
	}

	sort.Slice(c.Images, func(i, j int) bool { return c.Images[i].FileName < c.Images[j].FileName })

	written := 0
	for _, img := range c.Images {
		stem := strings.TrimSuffix(filepath.Base(img.FileName), filepath.Ext(img.FileName))
		gt := document.NewMap(
			document.Field{Key: "page", Value: document.NewInt(int64(img.PageNo))},
			document.Field{Key: "text", Value: document.NewString("")},
			document.Field{Key: "layout", Value: document.NewSequence(blocks[img.ID]...)},
		)

		encoded, err := gt.MarshalJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding %s: %v\n", stem, err)
			continue
		}
		if err := os.WriteFile(filepath.Join(*out, stem+"_gt.json"), encoded, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", stem, err)
			continue
		}
		written++
	}

	fmt.Printf("\nDone! %d layout ground-truth files created in %s/\n", written, *out)
}
