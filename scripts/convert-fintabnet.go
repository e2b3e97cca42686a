//go:build ignore

// Convert FinTabNet JSONL annotations into ground-truth files for ocr-bench.
// Each table becomes <id>_gt.json (or <id>_gt.pb with -pb) holding
// {"filename", "tables": [{"html": "<table>...</table>"}]}.
// Usage: go run ./scripts/convert-fintabnet.go -in FinTabNet_1.0.0_table_test.jsonl -out testdata/fintabnet
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/ocrbench/document"
)

// record is one line of a FinTabNet JSONL file.
type record struct {
	Filename string `json:"filename"`
	Split    string `json:"split"`
	TableID  int    `json:"table_id"`
	HTML     struct {
		Structure struct {
			Tokens []string `json:"tokens"`
		} `json:"structure"`
		Cells []struct {
			Tokens []string `json:"tokens"`
		} `json:"cells"`
	} `json:"html"`
}

func main() {
	var (
		in    = flag.String("in", "", "FinTabNet JSONL file (required)")
		out   = flag.String("out", "testdata/fintabnet", "Output directory")
		split = flag.String("split", "", "Only convert this split (train, val, test)")
		limit = flag.Int("limit", 0, "Stop after this many tables (0 for all)")
		pb    = flag.Bool("pb", false, "Write binary protobuf ground truth instead of JSON")
	)
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "error: -in required")
		flag.Usage()
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", *out, err)
		os.Exit(1)
	}

	n, err := convert(*in, *out, *split, *limit, *pb)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting %s: %v\n", *in, err)
		os.Exit(1)
	}
	fmt.Printf("\nDone! %d ground-truth files created in %s/\n", n, *out)
}

func convert(inPath, outDir, split string, limit int, pb bool) (int, error) {
	file, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1<<20), 64<<20)

	written := 0
	for line := 1; scanner.Scan(); line++ {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return written, fmt.Errorf("line %d: %w", line, err)
		}
		if split != "" && rec.Split != split {
			continue
		}

		id := sampleID(rec.Filename, rec.TableID)
		gt := document.NewMap(
			document.Field{Key: "filename", Value: document.NewString(rec.Filename)},
			document.Field{Key: "tables", Value: document.NewSequence(document.NewMap(
				document.Field{Key: "html", Value: document.NewString(tableHTML(rec))},
			))},
		)

		if err := writeGroundTruth(outDir, id, gt, pb); err != nil {
			return written, fmt.Errorf("line %d: %w", line, err)
		}
		written++
		if limit > 0 && written >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return written, fmt.Errorf("reading file: %w", err)
	}
	return written, nil
}

// tableHTML interleaves the structure tokens with cell contents. A cell's
// content follows "<td>" or the ">" closing a "<td" tag with attributes.
func tableHTML(rec record) string {
	var b strings.Builder
	b.WriteString("<table>")

	cell := 0
	inTD := false
	for _, tok := range rec.HTML.Structure.Tokens {
		b.WriteString(tok)
		switch {
		case tok == "<td":
			inTD = true
			continue
		case tok == "<td>", tok == ">" && inTD:
			if cell < len(rec.HTML.Cells) {
				b.WriteString(strings.Join(rec.HTML.Cells[cell].Tokens, ""))
			}
			cell++
		}
		inTD = false
	}

	b.WriteString("</table>")
	return b.String()
}

func sampleID(filename string, tableID int) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	stem = strings.NewReplacer("/", "_", " ", "_").Replace(stem)
	return fmt.Sprintf("%s_t%d", stem, tableID)
}

func writeGroundTruth(dir, id string, gt document.Value, pb bool) error {
	var (
		data []byte
		err  error
		ext  = ".json"
	)
	if pb {
		data, err = document.MarshalProto(gt)
		ext = ".pb"
	} else {
		data, err = gt.MarshalJSON()
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}
	return os.WriteFile(filepath.Join(dir, id+"_gt"+ext), data, 0644)
}
