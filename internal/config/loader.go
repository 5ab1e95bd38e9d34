package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/LexiFuzz-NER/pkg/errors"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "LEXIFUZZ"

// newViper builds a Viper instance with YAML file type, the LEXIFUZZ_ env
// prefix, automatic env binding and a "." → "_" key replacer, so that
// "extraction.min_ratio" resolves to LEXIFUZZ_EXTRACTION_MIN_RATIO.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setViperDefaults(v)
	return v
}

// Load reads the YAML file at configPath, merges LEXIFUZZ_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrCodeNotFound, "config file not found").
				WithDetail("path=" + configPath)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path=" + configPath)
	}

	cfg, err := unmarshalAndFinalize(v)
	if err != nil {
		return nil, err
	}
	// A relative dictionary path is resolved against the config file.
	if p := cfg.Dictionary.Path; p != "" && !filepath.IsAbs(p) {
		cfg.Dictionary.Path = filepath.Join(filepath.Dir(configPath), p)
	}
	return cfg, nil
}

// LoadFromEnv builds a Config from LEXIFUZZ_* environment variables and
// defaults alone.
//
//	LEXIFUZZ_<SECTION>_<FIELD>   e.g.  LEXIFUZZ_EXTRACTION_MIN_RATIO=70
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// SearchPaths returns the locations probed when no config path is given, in
// priority order.
func SearchPaths() []string {
	paths := []string{"./lexifuzz.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".lexifuzz", "config.yaml"))
	}
	return append(paths, "/etc/lexifuzz/config.yaml")
}

// Discover loads configPath when set. Otherwise it loads the first existing
// file from paths, falling back to LoadFromEnv. The returned string is the
// file that was used, or empty.
func Discover(configPath string, paths []string) (*Config, string, error) {
	if configPath != "" {
		cfg, err := Load(configPath)
		return cfg, configPath, err
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	cfg, err := LoadFromEnv()
	return cfg, "", err
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies defaults
// and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to unmarshal configuration")
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad wraps Load and panics on any error. Intended for tests and
// tooling where a config-load failure is always fatal.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
