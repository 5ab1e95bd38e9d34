package config

import (
	"github.com/spf13/viper"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
)

// -----------------------------------------------------------------------------
// Default value constants
// -----------------------------------------------------------------------------

const (
	DefaultMinRatio      = fuzzy_ner.DefaultMinRatio
	DefaultMatchPolicy   = string(fuzzy_ner.MatchFirstSatisfying)
	DefaultLocateMode    = string(fuzzy_ner.LocateTokenOffset)
	DefaultAnnotateOrder = string(fuzzy_ner.AnnotateTextOrder)
	DefaultScorer        = fuzzy_ner.ScorerRatio
	DefaultProcessor     = fuzzy_ner.ProcessorDefault
	DefaultIDGenerator   = fuzzy_ner.IDGeneratorUUID

	DefaultLogLevel  = logging.LevelInfo
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "lexifuzz"
)

// NewDefaultConfig returns a Config with every default applied and no
// dictionary configured.
func NewDefaultConfig() *Config {
	cfg := &Config{Extraction: ExtractionConfig{MinRatio: DefaultMinRatio}}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-value fields in cfg with the defaults. Explicitly
// set fields are left unchanged.
//
// MinRatio is an int and 0 is a valid explicit threshold, so it is not
// touched here; file and env loading get its default from setViperDefaults.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// -- Extraction ------------------------------------------------------------
	if cfg.Extraction.MatchPolicy == "" {
		cfg.Extraction.MatchPolicy = DefaultMatchPolicy
	}
	if cfg.Extraction.LocateMode == "" {
		cfg.Extraction.LocateMode = DefaultLocateMode
	}
	if cfg.Extraction.AnnotateOrder == "" {
		cfg.Extraction.AnnotateOrder = DefaultAnnotateOrder
	}
	if cfg.Extraction.Scorer == "" {
		cfg.Extraction.Scorer = DefaultScorer
	}
	if cfg.Extraction.Processor == "" {
		cfg.Extraction.Processor = DefaultProcessor
	}
	if cfg.Extraction.IDGenerator == "" {
		cfg.Extraction.IDGenerator = DefaultIDGenerator
	}

	// -- Log -------------------------------------------------------------------
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// -- Metrics ---------------------------------------------------------------
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// setViperDefaults registers every scalar key with viper. Registered keys are
// what lets AutomaticEnv reach them during Unmarshal.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("extraction.min_ratio", DefaultMinRatio)
	v.SetDefault("extraction.match_policy", DefaultMatchPolicy)
	v.SetDefault("extraction.locate_mode", DefaultLocateMode)
	v.SetDefault("extraction.annotate_order", DefaultAnnotateOrder)
	v.SetDefault("extraction.scorer", DefaultScorer)
	v.SetDefault("extraction.processor", DefaultProcessor)
	v.SetDefault("extraction.id_generator", DefaultIDGenerator)
	v.SetDefault("extraction.id_prefix", "")
	v.SetDefault("extraction.strict_locate", false)

	v.SetDefault("dictionary.path", "")

	v.SetDefault("log.level", string(DefaultLogLevel))
	v.SetDefault("log.format", DefaultLogFormat)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.subsystem", "")
	v.SetDefault("metrics.textfile_path", "")
}
