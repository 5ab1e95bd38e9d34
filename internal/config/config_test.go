package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/internal/intelligence/fuzzy_ner"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 80, cfg.Extraction.MinRatio)
	assert.Equal(t, "first_satisfying", cfg.Extraction.MatchPolicy)
	assert.Equal(t, "token_offset", cfg.Extraction.LocateMode)
	assert.Equal(t, "text_order", cfg.Extraction.AnnotateOrder)
	assert.Equal(t, "ratio", cfg.Extraction.Scorer)
	assert.Equal(t, "default", cfg.Extraction.Processor)
	assert.Equal(t, "uuid", cfg.Extraction.IDGenerator)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "lexifuzz", cfg.Metrics.Namespace)
	assert.False(t, cfg.Dictionary.HasInline())
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{Extraction: ExtractionConfig{MinRatio: 0, Scorer: "levenshtein"}}
	ApplyDefaults(cfg)

	assert.Equal(t, 0, cfg.Extraction.MinRatio)
	assert.Equal(t, "levenshtein", cfg.Extraction.Scorer)
	assert.Equal(t, "default", cfg.Extraction.Processor)

	ApplyDefaults(nil)
}

func TestExtractionConfig_ExtractorConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Extraction.MatchPolicy = "best_overall"
	cfg.Extraction.IDPrefix = "doc"
	cfg.Extraction.StrictLocate = true

	ec := cfg.Extraction.ExtractorConfig()
	assert.Equal(t, fuzzy_ner.MatchBestOverall, ec.MatchPolicy)
	assert.Equal(t, fuzzy_ner.LocateTokenOffset, ec.LocateMode)
	assert.Equal(t, 80, ec.MinRatio)
	assert.Equal(t, "doc", ec.IDPrefix)
	assert.True(t, ec.StrictLocate)
}

func TestDictionaryConfig_ToDictionary(t *testing.T) {
	d := DictionaryConfig{Categories: []CategoryConfig{
		{Name: "PERSON", Phrases: []string{"Ada Lovelace"}},
		{Name: "ORG", Phrases: []string{"Acme"}},
	}}
	dict := d.ToDictionary()
	assert.Equal(t, []string{"PERSON", "ORG"}, dict.Names())
	assert.True(t, d.HasInline())
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"min ratio", func(c *Config) { c.Extraction.MinRatio = 150 }, "extraction"},
		{"policy", func(c *Config) { c.Extraction.MatchPolicy = "longest" }, "extraction"},
		{"scorer", func(c *Config) { c.Extraction.Scorer = "cosine" }, "extraction"},
		{"path and inline", func(c *Config) {
			c.Dictionary.Path = "dict.yaml"
			c.Dictionary.Categories = []CategoryConfig{{Name: "ORG", Phrases: []string{"Acme"}}}
		}, "mutually exclusive"},
		{"bad inline", func(c *Config) {
			c.Dictionary.Categories = []CategoryConfig{{Name: "ORG"}}
		}, "dictionary.categories"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"metrics namespace", func(c *Config) {
			c.Metrics.Enabled = true
			c.Metrics.Namespace = " "
		}, "metrics.namespace"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mut(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_ValidateKeepsInnerCode(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Extraction.MinRatio = -1
	err := cfg.Validate()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidThreshold))
}
