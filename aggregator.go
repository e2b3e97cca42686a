package ocrbench

import "fmt"

// Summary holds corpus-level averages. CER, WER and character accuracy are
// per page; financial, F1 and extraction scores are per document. Averages
// whose denominator is zero are reported as 0.
type Summary struct {
	DocumentsProcessed        int     `json:"documents_processed" yaml:"documents_processed"`
	TotalPages                int     `json:"total_pages" yaml:"total_pages"`
	AverageCER                float64 `json:"average_CER" yaml:"average_CER"`
	AverageWER                float64 `json:"average_WER" yaml:"average_WER"`
	AverageCharAccuracy       float64 `json:"average_character_accuracy" yaml:"average_character_accuracy"`
	AverageFinancialScore     float64 `json:"average_financial_score" yaml:"average_financial_score"`
	AverageF1Score            float64 `json:"average_f1_score" yaml:"average_f1_score"`
	AverageExtractionAccuracy float64 `json:"average_extraction_accuracy" yaml:"average_extraction_accuracy"`
	AverageTimePerPageSec     float64 `json:"average_time_per_page_sec" yaml:"average_time_per_page_sec"`
}

// Aggregator accumulates per-document metrics. It is not safe for concurrent
// use. The zero value is ready to use.
type Aggregator struct {
	docs    int
	pages   int
	timeSec float64

	// page weighted
	cer, wer, charAcc float64

	// document weighted
	financial, f1, extraction float64
}

// Add records one document spanning pages pages that took timeSec to
// process.
func (a *Aggregator) Add(pages int, timeSec float64, m Metrics) error {
	if pages < 0 {
		return fmt.Errorf("%w: %d", ErrNegativePages, pages)
	}

	w := float64(pages)
	a.docs++
	a.pages += pages
	a.timeSec += timeSec

	a.cer += m.Text.CER * w
	a.wer += m.Text.WER * w
	a.charAcc += m.Text.CharAccuracy * w

	a.financial += m.Financial.Overall
	a.f1 += m.Structural.F1
	a.extraction += m.ExtractionAccuracy

	return nil
}

// Documents returns the number of documents added so far.
func (a *Aggregator) Documents() int {
	return a.docs
}

// Finalize returns the averages over everything added. It does not reset the
// Aggregator.
func (a *Aggregator) Finalize() Summary {
	s := Summary{
		DocumentsProcessed: a.docs,
		TotalPages:         a.pages,
	}

	if a.pages > 0 {
		p := float64(a.pages)
		s.AverageCER = a.cer / p
		s.AverageWER = a.wer / p
		s.AverageCharAccuracy = a.charAcc / p
		s.AverageTimePerPageSec = a.timeSec / p
	}
	if a.docs > 0 {
		d := float64(a.docs)
		s.AverageFinancialScore = a.financial / d
		s.AverageF1Score = a.f1 / d
		s.AverageExtractionAccuracy = a.extraction / d
	}

	return s
}
