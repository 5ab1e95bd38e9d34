package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/LexiFuzz-NER/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/LexiFuzz-NER/internal/testutil"
	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

const validConfigYAML = `
extraction:
  min_ratio: 70
  match_policy: best_overall
  processor: ascii_fold
dictionary:
  categories:
    - name: ORG
      phrases: [Acme Corporation]
    - name: LOC
      phrases: [New York City]
log:
  level: debug
  format: console
metrics:
  enabled: true
  textfile_path: /tmp/lexifuzz.prom
`

func TestLoad_ValidFile(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 70, cfg.Extraction.MinRatio)
	assert.Equal(t, "best_overall", cfg.Extraction.MatchPolicy)
	assert.Equal(t, "ascii_fold", cfg.Extraction.Processor)
	assert.Equal(t, "ratio", cfg.Extraction.Scorer)
	assert.Equal(t, logging.LevelDebug, cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "lexifuzz", cfg.Metrics.Namespace)

	require.True(t, cfg.Dictionary.HasInline())
	assert.Equal(t, testutil.SampleDictionary(), cfg.Dictionary.ToDictionary())
}

func TestLoad_ExplicitZeroRatio(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", "extraction:\n  min_ratio: 0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Extraction.MinRatio)
}

func TestLoad_DefaultsWhenSectionMissing(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", "log:\n  level: warn\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Extraction.MinRatio)
	assert.Equal(t, "first_satisfying", cfg.Extraction.MatchPolicy)
}

func TestLoad_RelativeDictionaryPath(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", "dictionary:\n  path: dict.yaml\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "dict.yaml"), cfg.Dictionary.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("LEXIFUZZ_EXTRACTION_MIN_RATIO", "55")
	t.Setenv("LEXIFUZZ_EXTRACTION_SCORER", "jaro_winkler")
	path := testutil.WriteFile(t, "lexifuzz.yaml", validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 55, cfg.Extraction.MinRatio)
	assert.Equal(t, "jaro_winkler", cfg.Extraction.Scorer)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", "extraction: [unclosed\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
}

func TestLoad_InvalidValues(t *testing.T) {
	path := testutil.WriteFile(t, "lexifuzz.yaml", "extraction:\n  min_ratio: 120\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConfigInvalid))
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidThreshold))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEXIFUZZ_EXTRACTION_MIN_RATIO", "65")
	t.Setenv("LEXIFUZZ_EXTRACTION_LOCATE_MODE", "forward_cursor")
	t.Setenv("LEXIFUZZ_LOG_LEVEL", "error")
	t.Setenv("LEXIFUZZ_METRICS_ENABLED", "true")
	t.Setenv("LEXIFUZZ_EXTRACTION_STRICT_LOCATE", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 65, cfg.Extraction.MinRatio)
	assert.Equal(t, "forward_cursor", cfg.Extraction.LocateMode)
	assert.Equal(t, logging.LevelError, cfg.Log.Level)
	assert.True(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Extraction.ExtractorConfig().StrictLocate)
}

func TestDiscover(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	found := testutil.WriteFile(t, "lexifuzz.yaml", "extraction:\n  min_ratio: 90\n")

	cfg, used, err := Discover("", []string{missing, found})
	require.NoError(t, err)
	assert.Equal(t, found, used)
	assert.Equal(t, 90, cfg.Extraction.MinRatio)

	cfg, used, err = Discover("", []string{missing})
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, 80, cfg.Extraction.MinRatio)

	_, _, err = Discover(missing, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeNotFound))
}

func TestSearchPaths(t *testing.T) {
	paths := SearchPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "./lexifuzz.yaml", paths[0])
	assert.Equal(t, "/etc/lexifuzz/config.yaml", paths[len(paths)-1])
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })

	path := testutil.WriteFile(t, "lexifuzz.yaml", validConfigYAML)
	assert.NotPanics(t, func() { MustLoad(path) })
}
