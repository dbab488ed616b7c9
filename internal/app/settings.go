package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"gopkg.in/yaml.v3"
)

// Settings is the optional YAML settings file. Unset fields keep the value
// already in the Config.
//
//	texture_format: tga
//	texture_interpolation: Closest
//	allow_culling: true
//	workers: 8
type Settings struct {
	TextureFormat        *descriptor.Encoding `yaml:"texture_format"`
	TextureInterpolation *string              `yaml:"texture_interpolation"`
	AllowCulling         *bool                `yaml:"allow_culling"`
	Workers              *int                 `yaml:"workers"`
	MaxNameLength        *int                 `yaml:"max_name_length"`
	LogLevel             *string              `yaml:"log_level"`
	LogFormat            *string              `yaml:"log_format"`
	GLTFPath             *string              `yaml:"gltf"`
}

// LoadSettings reads a settings file. Unknown keys are an error.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return &s, nil
}

// ApplyTo copies every field set in s into cfg.
func (s *Settings) ApplyTo(cfg *Config) {
	if s.TextureFormat != nil {
		cfg.TextureFormat = *s.TextureFormat
	}
	if s.TextureInterpolation != nil {
		cfg.TextureInterpolation = *s.TextureInterpolation
	}
	if s.AllowCulling != nil {
		cfg.AllowCulling = *s.AllowCulling
	}
	if s.Workers != nil {
		cfg.Workers = *s.Workers
	}
	if s.MaxNameLength != nil {
		cfg.MaxNameLength = *s.MaxNameLength
	}
	if s.LogLevel != nil {
		cfg.LogLevel = *s.LogLevel
	}
	if s.LogFormat != nil {
		cfg.LogFormat = *s.LogFormat
	}
	if s.GLTFPath != nil {
		cfg.GLTFPath = *s.GLTFPath
	}
}
