package app

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/importer"
	"github.com/specialistvlad/shadermat/internal/naming"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Paths []string // hcl files or directories

	LogFormat   string
	LogLevel    string
	InspectPort int
	Workers     int

	TextureFormat        descriptor.Encoding
	TextureInterpolation string
	AllowCulling         bool
	MaxNameLength        int

	GLTFPath string
}

// DefaultConfig returns the configuration used for anything not set by flags
// or a settings file.
func DefaultConfig() Config {
	return Config{
		LogFormat:            "json",
		LogLevel:             "info",
		Workers:              4,
		TextureFormat:        descriptor.EncodingPng,
		TextureInterpolation: importer.DefaultInterpolation,
	}
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.Paths) == 0 {
		return nil, errors.New("at least one descriptor path is required")
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if err := checkLogFormat(cfg.LogFormat); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.MaxNameLength < 0 {
		return nil, fmt.Errorf("max name length must not be negative, got %d", cfg.MaxNameLength)
	}
	if cfg.MaxNameLength > 0 && cfg.MaxNameLength < naming.MinMaxLength {
		return nil, fmt.Errorf("max name length must be 0 or at least %d, got %d", naming.MinMaxLength, cfg.MaxNameLength)
	}
	if cfg.InspectPort < 0 {
		return nil, fmt.Errorf("inspect port must not be negative, got %d", cfg.InspectPort)
	}
	if err := cfg.importSettings().Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) importSettings() importer.Settings {
	return importer.Settings{
		Workers:              c.Workers,
		TextureInterpolation: c.TextureInterpolation,
		AllowCulling:         c.AllowCulling,
	}
}
