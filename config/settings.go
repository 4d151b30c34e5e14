// Package config loads the service settings (YAML) and the decision threshold (JSON).
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const DefaultSettingsPath = "config.yaml"

type Settings struct {
	Http struct {
		Port           int      `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Dev        bool   `yaml:"dev"`
	} `yaml:"log"`
	Model struct {
		Path       string `yaml:"path"`
		ConfigPath string `yaml:"config_path"`
		Watch      bool   `yaml:"watch"`
	} `yaml:"model"`
	Cache struct {
		// Size bounds the prediction cache; a negative size disables it.
		Size int `yaml:"size"`
	} `yaml:"cache"`
	Display struct {
		Locale string `yaml:"locale"`
	} `yaml:"display"`
}

func DefaultSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Http.Port == 0 {
		s.Http.Port = 8501
	}
	if len(s.Http.AllowedOrigins) == 0 {
		s.Http.AllowedOrigins = []string{"*"}
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
	if s.Log.MaxSizeMB == 0 {
		s.Log.MaxSizeMB = 50
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAgeDays == 0 {
		s.Log.MaxAgeDays = 28
	}
	if s.Model.Path == "" {
		s.Model.Path = filepath.Join("models", "model.json")
	}
	if s.Model.ConfigPath == "" {
		s.Model.ConfigPath = "config.json"
	}
	if s.Cache.Size == 0 {
		s.Cache.Size = 1024
	}
	if s.Display.Locale == "" {
		s.Display.Locale = "en"
	}
}

// LoadSettings decodes the YAML settings file. When the default file is
// absent the built-in defaults are used; an explicitly named file must exist.
func LoadSettings(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("open settings: %w", err)
	}
	defer file.Close()

	var settings Settings
	if err := yaml.NewDecoder(file).Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	settings.applyDefaults()
	return &settings, nil
}
