package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: MATCHPREP_COLUMNS__PLAYER_1=winner_name.
const EnvPrefix = "MATCHPREP_"

// EnvConfigFile names the variable consulted when no file path is given.
const EnvConfigFile = EnvPrefix + "CONFIG"

// Load builds a Config by layering defaults, an optional YAML file and env
// vars. path wins over MATCHPREP_CONFIG; both may be empty.
func Load(path string) (*Config, error) {
	cfg := New()
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		if err := k.Load(file.Provider(ExpandHome(path)), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(ErrLoadConfig, "reading %s: %v", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrapf(ErrLoadConfig, "reading environment: %v", err)
	}
	// The config file path is not a config key.
	k.Delete("config")

	// Lists replace the defaults instead of overwriting them element-wise.
	if k.Exists("surfaces") {
		cfg.Surfaces = nil
	}
	if k.Exists("survey.extensions") {
		cfg.Survey.Extensions = nil
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrapf(ErrLoadConfig, "decoding: %v", err)
	}
	return cfg, nil
}

// Validate checks the configuration and expands "~/" in path fields.
func (c *Config) Validate() error {
	for _, p := range []*string{&c.Input, &c.OutputDir, &c.DataDir, &c.MetricsFile, &c.Survey.ProcessedDir} {
		*p = ExpandHome(*p)
	}
	for i, ext := range c.Survey.Extensions {
		c.Survey.Extensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
		}
		return errors.Wrap(ErrInvalidConfig, strings.Join(msgs, ", "))
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
