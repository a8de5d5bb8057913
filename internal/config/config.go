// Package config defines matchprep configuration and its layered loading.
//
// Values are resolved, lowest precedence first, from New defaults, an
// optional YAML file, MATCHPREP_ environment variables, and finally command
// line flags applied by the cli package.
package config

import (
	"time"

	"github.com/courtdata/matchprep/internal/match"
)

// Config is the explicit run configuration handed to every command.
type Config struct {
	// Input is the raw match file cleaned by `matchprep clean`.
	Input string `koanf:"input"`

	// OutputDir receives players.csv and matches.csv.
	OutputDir string `koanf:"output_dir" validate:"required"`

	// DataDir holds capture sessions.
	DataDir string `koanf:"data_dir" validate:"required"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// LogFormat selects json or text log lines.
	LogFormat string `koanf:"log_format" validate:"oneof=json text"`

	// MetricsFile, when set, receives a prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`

	Columns  match.Columns `koanf:"columns"`
	Surfaces []string      `koanf:"surfaces" validate:"min=1,dive,required"`
	Survey   Survey        `koanf:"survey"`
	HTTP     HTTP          `koanf:"http"`
}

// Survey configures the raw directory survey.
type Survey struct {
	Extensions   []string `koanf:"extensions" validate:"min=1,dive,startswith=."`
	ExportJSON   bool     `koanf:"export_json"`
	ProcessedDir string   `koanf:"processed_dir" validate:"required_if=ExportJSON true"`
}

// HTTP configures scraping and live capture requests.
type HTTP struct {
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	UserAgent string        `koanf:"user_agent" validate:"required"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		OutputDir: "data/cleaned",
		DataDir:   "~/.matchprep",
		LogLevel:  "info",
		LogFormat: "json",
		Columns:   match.DefaultColumns(),
		Surfaces:  append([]string(nil), match.DefaultSurfaces...),
		Survey: Survey{
			Extensions:   []string{".csv", ".tsv", ".xls", ".xlsx", ".json"},
			ProcessedDir: "data/processed",
		},
		HTTP: HTTP{
			Timeout:   30 * time.Second,
			UserAgent: "Mozilla/5.0 (compatible; matchprep/1.0)",
		},
	}
}
