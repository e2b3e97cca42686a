package ocrbench

import (
	"fmt"
	"log/slog"

	"github.com/jamesainslie/ocrbench/compliance"
	"github.com/jamesainslie/ocrbench/document"
	"github.com/jamesainslie/ocrbench/editdistance"
	"github.com/jamesainslie/ocrbench/extract"
	"github.com/jamesainslie/ocrbench/financial"
	"github.com/jamesainslie/ocrbench/layout"
	"github.com/jamesainslie/ocrbench/structural"
)

// Metrics is the score bundle of one document.
type Metrics struct {
	Text               editdistance.Metrics `json:"text"`
	Financial          financial.Result     `json:"financial"`
	Structural         structural.Metrics   `json:"structural"`
	Compliance         []compliance.Record  `json:"compliance"`
	ExtractionAccuracy float64              `json:"extraction_accuracy"`
	Layout             *layout.Metrics      `json:"layout,omitempty"`
}

// Evaluator scores predictions against ground truth.
// It is safe for concurrent use.
type Evaluator struct {
	financial    *financial.Scorer
	sections     []string
	skip         map[string]bool
	iouThreshold float64
	logger       *slog.Logger
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	var scoreOpts []financial.ScorerOption
	if cfg.htmlTables {
		scoreOpts = append(scoreOpts, financial.WithHTMLTables())
	}
	scorer := financial.NewScorer(cfg.keywords, cfg.minFragmentLen, scoreOpts...)
	return &Evaluator{
		financial:    scorer,
		sections:     scorer.Keywords().Sections,
		skip:         extract.KeySet(cfg.skipKeys),
		iouThreshold: cfg.iouThreshold,
		logger:       cfg.logger,
	}
}

// GroundTruthText reconstructs the plain text of gt, ignoring metadata keys.
func (e *Evaluator) GroundTruthText(gt document.Value) string {
	return extract.GroundTruthText(gt, e.skip)
}

// Evaluate scores pred against gt. A prediction that reports failure is not
// scored and yields ErrPredictionFailed.
func (e *Evaluator) Evaluate(gt document.Value, pred Prediction) (Metrics, error) {
	if !pred.Success {
		if pred.Error != "" {
			return Metrics{}, fmt.Errorf("%w: %s", ErrPredictionFailed, pred.Error)
		}
		return Metrics{}, ErrPredictionFailed
	}

	text := pred.PlainText()

	m := Metrics{
		Text:               editdistance.Score(e.GroundTruthText(gt), text),
		Financial:          e.financial.Score(gt, e.financialInput(gt, pred)),
		Structural:         structural.Score(gt, BuildDocument(pred)),
		Compliance:         compliance.Validate(gt, text, e.sections),
		ExtractionAccuracy: ExtractionAccuracy(gt, text),
	}

	if gtBlocks := layout.BlocksFromDocument(gt); len(gtBlocks) > 0 && len(pred.Blocks) > 0 {
		lm := layout.Evaluate(gtBlocks, pred.Blocks, e.iouThreshold)
		m.Layout = &lm
	}

	switch m.Financial.Mode {
	case financial.ModeUnsupported, financial.ModeUnknownTable:
		e.logger.Warn("ground truth format not scored for financial accuracy",
			"mode", m.Financial.Mode,
			"kind", gt.Kind().String())
	}

	e.logger.Debug("evaluated document",
		"cer", m.Text.CER,
		"wer", m.Text.WER,
		"financial_mode", m.Financial.Mode,
		"financial", m.Financial.Overall,
		"f1", m.Structural.F1,
		"extraction", m.ExtractionAccuracy,
		"compliance_passed", compliance.Passed(m.Compliance))

	return m, nil
}

// financialInput picks the prediction text the financial scorer reads. Table
// ground truth is compared against pipe rows, which live in the markdown or
// the extracted tables; everything else is compared against plain text.
func (e *Evaluator) financialInput(gt document.Value, pred Prediction) string {
	if gt.Has("tables") {
		return pred.TableText()
	}
	return pred.PlainText()
}
