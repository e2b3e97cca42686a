package bench

import (
	"math"
	"runtime"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/compliance"
)

// Config holds run parameters.
type Config struct {
	Workers int     // concurrent evaluations, <= 0 means runtime.NumCPU()
	PassCER float64 // a document passes when its CER is at or below this

	// StructuredDir, when set, receives <id>_output.json with the structured
	// document built from each prediction.
	StructuredDir string
}

// DefaultConfig returns default run configuration.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.NumCPU(),
		PassCER: 0.02,
	}
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return runtime.NumCPU()
	}
	return c.Workers
}

// DocumentResult is the per-document row of a report. Scores are rounded to
// four decimal places.
type DocumentResult struct {
	PDF                string              `json:"pdf" yaml:"pdf"`
	Pages              int                 `json:"pages" yaml:"pages"`
	TimeSec            float64             `json:"time_sec" yaml:"time_sec"`
	CER                float64             `json:"CER" yaml:"CER"`
	WER                float64             `json:"WER" yaml:"WER"`
	CharAccuracy       float64             `json:"Char_Accuracy" yaml:"Char_Accuracy"`
	FinancialScore     float64             `json:"Financial_Score" yaml:"Financial_Score"`
	FinancialMode      string              `json:"financial_mode" yaml:"financial_mode"`
	F1                 float64             `json:"F1" yaml:"F1"`
	ExtractionAccuracy float64             `json:"Extraction_Accuracy" yaml:"Extraction_Accuracy"`
	Passed             bool                `json:"passed" yaml:"passed"`
	Compliance         []compliance.Record `json:"compliance,omitempty" yaml:"compliance,omitempty"`
}

// Failure records a sample that could not be scored.
type Failure struct {
	PDF    string `json:"pdf" yaml:"pdf"`
	Reason string `json:"reason" yaml:"reason"`
}

func newDocumentResult(id string, pages int, timeSec float64, m ocrbench.Metrics, passCER float64) DocumentResult {
	return DocumentResult{
		PDF:                id + ".pdf",
		Pages:              pages,
		TimeSec:            round4(timeSec),
		CER:                round4(m.Text.CER),
		WER:                round4(m.Text.WER),
		CharAccuracy:       round4(m.Text.CharAccuracy),
		FinancialScore:     round4(m.Financial.Overall),
		FinancialMode:      string(m.Financial.Mode),
		F1:                 round4(m.Structural.F1),
		ExtractionAccuracy: round4(m.ExtractionAccuracy),
		Passed:             m.Text.CER <= passCER,
		Compliance:         m.Compliance,
	}
}

func roundSummary(s ocrbench.Summary) ocrbench.Summary {
	s.AverageCER = round4(s.AverageCER)
	s.AverageWER = round4(s.AverageWER)
	s.AverageCharAccuracy = round4(s.AverageCharAccuracy)
	s.AverageFinancialScore = round4(s.AverageFinancialScore)
	s.AverageF1Score = round4(s.AverageF1Score)
	s.AverageExtractionAccuracy = round4(s.AverageExtractionAccuracy)
	s.AverageTimePerPageSec = round4(s.AverageTimePerPageSec)
	return s
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
