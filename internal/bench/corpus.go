// Package bench runs OCR benchmarks over a dataset directory.
package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/document"
)

// File name conventions inside a dataset directory.
const (
	predictionSuffix = "_pred.json"
	groundTruthStem  = "_gt"
	pageLimitsFile   = "page_limits.json"
)

// groundTruthExts are tried in order for each sample.
var groundTruthExts = []string{".json", ".pb", ".txt"}

// PageRange is an inclusive, 1-based page span.
type PageRange struct {
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`
}

// Pages returns the number of pages in r, 0 when the range is incomplete.
func (r PageRange) Pages() int {
	if r.StartPage <= 0 || r.EndPage < r.StartPage {
		return 0
	}
	return r.EndPage - r.StartPage + 1
}

// Sample is one document of a corpus. A path is empty when that side is
// missing from the dataset.
type Sample struct {
	ID              string
	GroundTruthPath string
	PredictionPath  string
}

// Corpus is a dataset directory.
type Corpus struct {
	Dir        string
	Samples    []Sample
	PageLimits map[string]PageRange
}

// LoadCorpus indexes dir. Samples are discovered from both ground-truth and
// prediction files and sorted by ID.
func LoadCorpus(dir string) (*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	byID := make(map[string]*Sample)
	get := func(id string) *Sample {
		s, ok := byID[id]
		if !ok {
			s = &Sample{ID: id}
			byID[id] = s
		}
		return s
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		path := filepath.Join(dir, name)

		if id, ok := strings.CutSuffix(name, predictionSuffix); ok {
			get(id).PredictionPath = path
			continue
		}

		ext := filepath.Ext(name)
		id, ok := strings.CutSuffix(strings.TrimSuffix(name, ext), groundTruthStem)
		if !ok || groundTruthRank(ext) < 0 {
			continue
		}
		s := get(id)
		if preferGroundTruth(ext, s.GroundTruthPath) {
			s.GroundTruthPath = path
		}
	}

	c := &Corpus{Dir: dir, Samples: make([]Sample, 0, len(byID))}
	for _, s := range byID {
		c.Samples = append(c.Samples, *s)
	}
	sort.Slice(c.Samples, func(i, j int) bool {
		return c.Samples[i].ID < c.Samples[j].ID
	})

	limits, err := LoadPageLimits(filepath.Join(dir, pageLimitsFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	c.PageLimits = limits

	return c, nil
}

// groundTruthRank returns the priority of a ground-truth extension, lowest
// first, or -1 for extensions that are not ground truth.
func groundTruthRank(ext string) int {
	for i, known := range groundTruthExts {
		if ext == known {
			return i
		}
	}
	return -1
}

// preferGroundTruth reports whether a ground-truth file with extension ext
// should replace current.
func preferGroundTruth(ext, current string) bool {
	r := groundTruthRank(ext)
	if r < 0 {
		return false
	}
	return current == "" || r < groundTruthRank(filepath.Ext(current))
}

// PagesFor returns the page count page_limits.json records for a sample,
// looked up as "<id>.pdf" and then "<id>".
func (c *Corpus) PagesFor(id string) int {
	if r, ok := c.PageLimits[id+".pdf"]; ok {
		return r.Pages()
	}
	return c.PageLimits[id].Pages()
}

// LoadPageLimits reads a page_limits.json file.
func LoadPageLimits(path string) (map[string]PageRange, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page limits: %w", err)
	}
	var limits map[string]PageRange
	if err := json.Unmarshal(data, &limits); err != nil {
		return nil, fmt.Errorf("parse page limits: %w", err)
	}
	return limits, nil
}

// LoadGroundTruth reads a ground-truth file. JSON files are decoded in key
// order, .pb files hold a serialized google.protobuf.Value, and anything else
// is read as plain text.
func LoadGroundTruth(path string) (document.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.Value{}, fmt.Errorf("%w: %s", ocrbench.ErrGroundTruthNotFound, path)
		}
		return document.Value{}, fmt.Errorf("read ground truth: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		v, err := document.Parse(data)
		if err != nil {
			return document.Value{}, fmt.Errorf("parse ground truth %s: %w", filepath.Base(path), err)
		}
		return v, nil
	case ".pb":
		v, err := document.UnmarshalProto(data)
		if err != nil {
			return document.Value{}, fmt.Errorf("parse ground truth %s: %w", filepath.Base(path), err)
		}
		return v, nil
	default:
		return document.NewString(string(data)), nil
	}
}

// LoadPrediction reads a prediction file written by an OCR engine.
func LoadPrediction(path string) (ocrbench.Prediction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ocrbench.Prediction{}, fmt.Errorf("%w: %s", ocrbench.ErrPredictionNotFound, path)
		}
		return ocrbench.Prediction{}, fmt.Errorf("read prediction: %w", err)
	}
	p, err := ocrbench.ParsePrediction(data)
	if err != nil {
		return ocrbench.Prediction{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return p, nil
}
