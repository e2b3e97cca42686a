// Package ocrbench scores OCR and document-extraction output against ground
// truth.
//
// # Quick Start
//
//	gt, err := document.Parse(groundTruthJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pred, err := ocrbench.ParsePrediction(predictionJSON)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ev := ocrbench.New()
//	m, err := ev.Evaluate(gt, pred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("CER: %.4f  financial: %.4f\n", m.Text.CER, m.Financial.Overall)
//
// # Metrics
//
// Evaluate produces a Metrics bundle per document: character and word error
// rates, the financial composite score, structural F1 over (key, value)
// entities, compliance rule outcomes, extraction accuracy and, when both
// sides carry layout blocks, layout matching. An Aggregator folds bundles into
// corpus averages; text metrics are weighted by page count, the others by
// document.
//
// # Thread Safety
//
// Evaluator is immutable after New and safe for concurrent use. Aggregator is
// not; feed it from a single goroutine.
package ocrbench
