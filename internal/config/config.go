// Package config defines the configuration structures for LexiFuzz. No I/O or
// parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"strings"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
	"github.com/turtacn/LexiFuzz-NER/pkg/types/ner"
)

// -----------------------------------------------------------------------------
// Sub-configuration structs
// -----------------------------------------------------------------------------

// ExtractionConfig holds the extractor tunables.
type ExtractionConfig struct {
	MinRatio      int    `mapstructure:"min_ratio"`
	MatchPolicy   string `mapstructure:"match_policy"`   // "first_satisfying" | "best_overall"
	LocateMode    string `mapstructure:"locate_mode"`    // "token_offset" | "forward_cursor"
	AnnotateOrder string `mapstructure:"annotate_order"` // "text_order" | "resolver_order"
	Scorer        string `mapstructure:"scorer"`         // "ratio" | "levenshtein" | "jaro_winkler"
	Processor     string `mapstructure:"processor"`      // "default" | "nfkc" | "ascii_fold" | "none"
	IDGenerator   string `mapstructure:"id_generator"`   // "uuid" | "sequence"
	IDPrefix      string `mapstructure:"id_prefix"`
	StrictLocate  bool   `mapstructure:"strict_locate"`
}

// ExtractorConfig converts the section into the extractor's own config type.
func (c ExtractionConfig) ExtractorConfig() fuzzy_ner.ExtractorConfig {
	return fuzzy_ner.ExtractorConfig{
		MinRatio:      c.MinRatio,
		MatchPolicy:   fuzzy_ner.MatchPolicy(c.MatchPolicy),
		LocateMode:    fuzzy_ner.LocateMode(c.LocateMode),
		AnnotateOrder: fuzzy_ner.AnnotateOrder(c.AnnotateOrder),
		Scorer:        c.Scorer,
		Processor:     c.Processor,
		IDGenerator:   c.IDGenerator,
		IDPrefix:      c.IDPrefix,
		StrictLocate:  c.StrictLocate,
	}
}

// CategoryConfig is one inline dictionary category.
type CategoryConfig struct {
	Name    string   `mapstructure:"name"`
	Phrases []string `mapstructure:"phrases"`
}

// DictionaryConfig points at a dictionary file or carries the categories
// inline. The two are mutually exclusive.
type DictionaryConfig struct {
	Path       string           `mapstructure:"path"`
	Categories []CategoryConfig `mapstructure:"categories"`
}

// HasInline reports whether categories are configured inline.
func (d DictionaryConfig) HasInline() bool { return len(d.Categories) > 0 }

// ToDictionary returns the inline categories in configured order.
func (d DictionaryConfig) ToDictionary() ner.Dictionary {
	cats := make([]ner.Category, 0, len(d.Categories))
	for _, c := range d.Categories {
		cats = append(cats, ner.Category{Name: c.Name, Phrases: append([]string(nil), c.Phrases...)})
	}
	return ner.NewDictionary(cats...)
}

// MetricsConfig controls Prometheus metric collection. Metrics are exported
// by writing the registry to TextfilePath at the end of a run.
type MetricsConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Namespace    string `mapstructure:"namespace"`
	Subsystem    string `mapstructure:"subsystem"`
	TextfilePath string `mapstructure:"textfile_path"`
}

// -----------------------------------------------------------------------------
// Root Config
// -----------------------------------------------------------------------------

// Config is the root configuration structure.
type Config struct {
	Extraction ExtractionConfig  `mapstructure:"extraction"`
	Dictionary DictionaryConfig  `mapstructure:"dictionary"`
	Log        logging.LogConfig `mapstructure:"log"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found as an ErrCodeConfigInvalid AppError.
func (c *Config) Validate() error {
	// Extraction
	if err := c.Extraction.ExtractorConfig().Validate(); err != nil {
		return invalid("extraction", err)
	}

	// Dictionary
	if c.Dictionary.Path != "" && c.Dictionary.HasInline() {
		return errors.New(errors.ErrCodeConfigInvalid,
			"dictionary.path and dictionary.categories are mutually exclusive")
	}
	if c.Dictionary.HasInline() {
		if err := c.Dictionary.ToDictionary().Validate(); err != nil {
			return invalid("dictionary.categories", err)
		}
	}

	// Log
	if _, err := logging.ParseLevel(string(c.Log.Level)); err != nil {
		return invalid("log.level", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.New(errors.ErrCodeConfigInvalid, "log.format is invalid").
			WithDetail(fmt.Sprintf("format=%q expected json|console", c.Log.Format))
	}

	// Metrics
	if c.Metrics.Enabled && strings.TrimSpace(c.Metrics.Namespace) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "metrics.namespace is required when metrics are enabled")
	}

	return nil
}

func invalid(section string, err error) error {
	return errors.Wrap(err, errors.ErrCodeConfigInvalid, section+" is invalid")
}
