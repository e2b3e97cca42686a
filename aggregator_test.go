package ocrbench

import (
	"errors"
	"testing"

	"github.com/jamesainslie/ocrbench/editdistance"
	"github.com/jamesainslie/ocrbench/financial"
	"github.com/jamesainslie/ocrbench/structural"
)

func TestAggregator_Empty(t *testing.T) {
	var a Aggregator
	if got := a.Finalize(); got != (Summary{}) {
		t.Errorf("Finalize() = %+v, want zero summary", got)
	}
}

func TestAggregator_PageWeighted(t *testing.T) {
	var a Aggregator

	docs := []struct {
		pages int
		time  float64
		m     Metrics
	}{
		{2, 4, Metrics{
			Text:               editdistance.Metrics{CER: 0.1, WER: 0.2, CharAccuracy: 0.9},
			Financial:          financial.Result{Overall: 1},
			Structural:         structural.Metrics{F1: 0.5},
			ExtractionAccuracy: 0.6,
		}},
		{1, 2, Metrics{
			Text:               editdistance.Metrics{CER: 0.4, WER: 0.5, CharAccuracy: 0.6},
			Financial:          financial.Result{Overall: 0},
			Structural:         structural.Metrics{F1: 1},
			ExtractionAccuracy: 0.2,
		}},
	}
	for _, d := range docs {
		if err := a.Add(d.pages, d.time, d.m); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	s := a.Finalize()
	if s.DocumentsProcessed != 2 || s.TotalPages != 3 {
		t.Errorf("counts = %d docs / %d pages, want 2 / 3", s.DocumentsProcessed, s.TotalPages)
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"AverageCER", s.AverageCER, 0.2},
		{"AverageWER", s.AverageWER, 0.3},
		{"AverageCharAccuracy", s.AverageCharAccuracy, 0.8},
		{"AverageFinancialScore", s.AverageFinancialScore, 0.5},
		{"AverageF1Score", s.AverageF1Score, 0.75},
		{"AverageExtractionAccuracy", s.AverageExtractionAccuracy, 0.4},
		{"AverageTimePerPageSec", s.AverageTimePerPageSec, 2},
	}
	for _, tt := range tests {
		if !approxEqual(tt.got, tt.want) {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestAggregator_ZeroPages(t *testing.T) {
	var a Aggregator
	if err := a.Add(0, 1, Metrics{Financial: financial.Result{Overall: 0.8}}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s := a.Finalize()
	if s.DocumentsProcessed != 1 || s.TotalPages != 0 {
		t.Errorf("counts = %d / %d, want 1 / 0", s.DocumentsProcessed, s.TotalPages)
	}
	if s.AverageCER != 0 || s.AverageTimePerPageSec != 0 {
		t.Errorf("page averages = %v / %v, want 0", s.AverageCER, s.AverageTimePerPageSec)
	}
	if !approxEqual(s.AverageFinancialScore, 0.8) {
		t.Errorf("AverageFinancialScore = %v, want 0.8", s.AverageFinancialScore)
	}
}

func TestAggregator_NegativePages(t *testing.T) {
	var a Aggregator
	err := a.Add(-1, 0, Metrics{})
	if !errors.Is(err, ErrNegativePages) {
		t.Errorf("Add(-1) error = %v, want ErrNegativePages", err)
	}
	if a.Documents() != 0 {
		t.Errorf("Documents() = %d, want 0 after rejected add", a.Documents())
	}
}
