// Package config loads ocr-bench settings from ocrbench.yaml, OCRBENCH_*
// environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jamesainslie/ocrbench"
	"github.com/jamesainslie/ocrbench/extract"
	"github.com/jamesainslie/ocrbench/financial"
	"github.com/jamesainslie/ocrbench/internal/bench"
	"github.com/jamesainslie/ocrbench/layout"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: store.dsn is read from OCRBENCH_STORE_DSN.
const EnvPrefix = "OCRBENCH"

// ErrInvalid is returned when a loaded setting is out of range.
var ErrInvalid = errors.New("config: invalid setting")

// Rules configure the financial and compliance scorers.
type Rules struct {
	Sections       []string `mapstructure:"sections"`
	Disclosures    []string `mapstructure:"disclosures"`
	MinFragmentLen int      `mapstructure:"min_fragment_len"`
	SkipKeys       []string `mapstructure:"skip_keys"`
	IoUThreshold   float64  `mapstructure:"iou_threshold"`
	HTMLTables     bool     `mapstructure:"html_tables"`
}

// Store configures MySQL persistence. An empty DSN disables it.
type Store struct {
	DSN   string `mapstructure:"dsn"`
	Table string `mapstructure:"table"`
}

// Config is the full ocr-bench configuration.
type Config struct {
	Dataset       string  `mapstructure:"dataset"`
	Output        string  `mapstructure:"output"`
	Format        string  `mapstructure:"format"`
	Workers       int     `mapstructure:"workers"`
	PassCER       float64 `mapstructure:"pass_cer"`
	StructuredDir string  `mapstructure:"structured_dir"`
	Rules         Rules   `mapstructure:"rules"`
	Store         Store   `mapstructure:"store"`
}

// New returns a viper instance with ocr-bench defaults, search paths and
// environment binding. Flags may be bound to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetConfigName("ocrbench")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "ocrbench"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	kw := financial.DefaultKeywords()
	def := bench.DefaultConfig()
	v.SetDefault("dataset", ".")
	v.SetDefault("output", "")
	v.SetDefault("format", string(bench.FormatJSON))
	v.SetDefault("workers", def.Workers)
	v.SetDefault("pass_cer", def.PassCER)
	v.SetDefault("structured_dir", "")
	v.SetDefault("rules.sections", kw.Sections)
	v.SetDefault("rules.disclosures", kw.Disclosures)
	v.SetDefault("rules.min_fragment_len", financial.DefaultMinFragmentLen)
	v.SetDefault("rules.skip_keys", extract.DefaultSkipKeys())
	v.SetDefault("rules.iou_threshold", layout.DefaultIoUThreshold)
	v.SetDefault("rules.html_tables", false)
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", "document_results")

	return v
}

// Load reads the configuration. With an explicit path that file must exist;
// otherwise a missing ocrbench.yaml is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and the report format.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers = %d", ErrInvalid, c.Workers)
	}
	if c.PassCER < 0 {
		return fmt.Errorf("%w: pass_cer = %v", ErrInvalid, c.PassCER)
	}
	if c.Rules.MinFragmentLen < 0 {
		return fmt.Errorf("%w: rules.min_fragment_len = %d", ErrInvalid, c.Rules.MinFragmentLen)
	}
	if c.Rules.IoUThreshold < 0 || c.Rules.IoUThreshold > 1 {
		return fmt.Errorf("%w: rules.iou_threshold = %v", ErrInvalid, c.Rules.IoUThreshold)
	}
	if _, err := bench.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// EvaluatorOptions converts the rules into Evaluator options.
func (c Config) EvaluatorOptions(logger *slog.Logger) []ocrbench.Option {
	opts := []ocrbench.Option{
		ocrbench.WithSections(c.Rules.Sections...),
		ocrbench.WithDisclosures(c.Rules.Disclosures...),
		ocrbench.WithMinFragmentLen(c.Rules.MinFragmentLen),
		ocrbench.WithSkipKeys(c.Rules.SkipKeys...),
		ocrbench.WithIoUThreshold(c.Rules.IoUThreshold),
		ocrbench.WithLogger(logger),
	}
	if c.Rules.HTMLTables {
		opts = append(opts, ocrbench.WithHTMLTables())
	}
	return opts
}

// Bench returns the run configuration.
func (c Config) Bench() bench.Config {
	return bench.Config{
		Workers:       c.Workers,
		PassCER:       c.PassCER,
		StructuredDir: c.StructuredDir,
	}
}
