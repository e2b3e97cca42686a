package ocrbench

import (
	"log/slog"

	"github.com/jamesainslie/ocrbench/extract"
	"github.com/jamesainslie/ocrbench/financial"
	"github.com/jamesainslie/ocrbench/layout"
)

// Option configures an Evaluator.
type Option func(*config)

type config struct {
	keywords       financial.Keywords
	minFragmentLen int
	skipKeys       []string
	iouThreshold   float64
	htmlTables     bool
	logger         *slog.Logger
}

func defaultConfig() config {
	return config{
		keywords:       financial.DefaultKeywords(),
		minFragmentLen: financial.DefaultMinFragmentLen,
		skipKeys:       extract.DefaultSkipKeys(),
		iouThreshold:   layout.DefaultIoUThreshold,
		logger:         slog.Default(),
	}
}

// WithSections sets the required section phrases used by the financial and
// compliance scorers (default: financial.DefaultKeywords().Sections).
func WithSections(sections ...string) Option {
	return func(c *config) {
		c.keywords.Sections = sections
	}
}

// WithDisclosures sets the disclosure phrases of the financial scorer
// (default: financial.DefaultKeywords().Disclosures).
func WithDisclosures(disclosures ...string) Option {
	return func(c *config) {
		c.keywords.Disclosures = disclosures
	}
}

// WithMinFragmentLen sets the shortest ground-truth fragment, in runes, that
// counts as a line item (default: 4).
func WithMinFragmentLen(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minFragmentLen = n
		}
	}
}

// WithSkipKeys sets the metadata keys ignored when reconstructing
// ground-truth text (default: extract.DefaultSkipKeys()).
func WithSkipKeys(keys ...string) Option {
	return func(c *config) {
		c.skipKeys = keys
	}
}

// WithIoUThreshold sets the overlap needed to match layout blocks (default: 0.5).
func WithIoUThreshold(t float64) Option {
	return func(c *config) {
		if t > 0 && t <= 1 {
			c.iouThreshold = t
		}
	}
}

// WithHTMLTables parses ground-truth "html" values as HTML markup instead
// of pipe rows (default: off).
func WithHTMLTables() Option {
	return func(c *config) {
		c.htmlTables = true
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
