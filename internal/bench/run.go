package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/ocrbench"
)

// Report is the result of one benchmark run.
type Report struct {
	RunID     string           `json:"run_id" yaml:"run_id"`
	Dataset   string           `json:"dataset" yaml:"dataset"`
	StartedAt time.Time        `json:"started_at" yaml:"started_at"`
	Documents []DocumentResult `json:"per_document_results" yaml:"per_document_results"`
	Failures  []Failure        `json:"failures,omitempty" yaml:"failures,omitempty"`
	Summary   ocrbench.Summary `json:"final_summary" yaml:"final_summary"`
}

type outcome struct {
	metrics ocrbench.Metrics
	pages   int
	timeSec float64
	err     error
}

// Run scores every sample of c. Samples are evaluated concurrently, but
// results are aggregated in corpus order so reports are reproducible.
// Samples that cannot be scored are logged, listed in Report.Failures and
// left out of the summary. Run only fails on I/O errors writing structured
// output or when ctx is cancelled.
func Run(ctx context.Context, c *Corpus, ev *ocrbench.Evaluator, cfg Config, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	started := time.Now().UTC()

	if cfg.StructuredDir != "" {
		if err := os.MkdirAll(cfg.StructuredDir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	outcomes := make([]outcome, len(c.Samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, s := range c.Samples {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := evaluateSample(c, s, ev, cfg)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &Report{
		RunID:     uuid.NewString(),
		Dataset:   c.Dir,
		StartedAt: started,
		Documents: make([]DocumentResult, 0, len(outcomes)),
	}

	var agg ocrbench.Aggregator
	for i, o := range outcomes {
		id := c.Samples[i].ID
		if o.err == nil {
			o.err = agg.Add(o.pages, o.timeSec, o.metrics)
		}
		if o.err != nil {
			logger.Warn("skipping document", "pdf", id, "error", o.err)
			rep.Failures = append(rep.Failures, Failure{PDF: id + ".pdf", Reason: o.err.Error()})
			continue
		}

		r := newDocumentResult(id, o.pages, o.timeSec, o.metrics, cfg.PassCER)
		logger.Debug("scored document",
			"pdf", r.PDF,
			"cer", r.CER,
			"wer", r.WER,
			"financial", r.FinancialScore,
			"f1", r.F1,
		)
		rep.Documents = append(rep.Documents, r)
	}
	rep.Summary = roundSummary(agg.Finalize())

	logger.Info("benchmark complete",
		"run_id", rep.RunID,
		"documents", rep.Summary.DocumentsProcessed,
		"failed", len(rep.Failures),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)
	return rep, nil
}

// evaluateSample scores one sample. Problems with the sample itself are
// carried in the outcome; the returned error is reserved for failures that
// should stop the run.
func evaluateSample(c *Corpus, s Sample, ev *ocrbench.Evaluator, cfg Config) (outcome, error) {
	if s.GroundTruthPath == "" {
		return outcome{err: fmt.Errorf("%w: %s", ocrbench.ErrGroundTruthNotFound, s.ID)}, nil
	}
	if s.PredictionPath == "" {
		return outcome{err: fmt.Errorf("%w: %s", ocrbench.ErrPredictionNotFound, s.ID)}, nil
	}

	gt, err := LoadGroundTruth(s.GroundTruthPath)
	if err != nil {
		return outcome{err: err}, nil
	}
	pred, err := LoadPrediction(s.PredictionPath)
	if err != nil {
		return outcome{err: err}, nil
	}

	m, err := ev.Evaluate(gt, pred)
	if err != nil {
		return outcome{err: err}, nil
	}

	pages := pred.Pages
	if pages == 0 {
		pages = c.PagesFor(s.ID)
	}

	if cfg.StructuredDir != "" {
		if err := writeStructured(cfg.StructuredDir, s.ID, pred); err != nil {
			return outcome{}, err
		}
	}

	return outcome{metrics: m, pages: pages, timeSec: pred.TimeSec}, nil
}

// writeStructured writes the structured form of pred to <dir>/<id>_output.json.
func writeStructured(dir, id string, pred ocrbench.Prediction) error {
	data, err := ocrbench.BuildDocument(pred).MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode structured output: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("encode structured output: %w", err)
	}
	buf.WriteByte('\n')

	path := filepath.Join(dir, id+"_output.json")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write structured output: %w", err)
	}
	return nil
}
