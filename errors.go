package ocrbench

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrPredictionFailed indicates the OCR engine reported success=false.
	// Such predictions are never scored.
	ErrPredictionFailed = errors.New("ocrbench: prediction failed")

	// ErrNegativePages indicates a negative page count was given to an Aggregator.
	ErrNegativePages = errors.New("ocrbench: negative page count")

	// ErrGroundTruthNotFound indicates a sample has no ground-truth file.
	ErrGroundTruthNotFound = errors.New("ocrbench: ground truth not found")

	// ErrPredictionNotFound indicates a sample has no prediction file.
	ErrPredictionNotFound = errors.New("ocrbench: prediction not found")
)
