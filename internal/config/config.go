package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/ligustah/binfetch/pkg/extract"
)

// Config defines configuration for the binfetch CLI.
type Config struct {
	// InstallPath overrides install directory resolution.
	InstallPath string `yaml:"install_path"`

	// Format is the default package format token.
	Format string `yaml:"format"`

	// AssumeYes skips the confirmation prompt.
	AssumeYes bool `yaml:"assume_yes"`

	// HTTPTimeout bounds a whole download request. Zero disables the
	// client timeout.
	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{}
}

// Load reads the config file at path and validates it.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config from its conventional location, falling
// back to defaults when no file exists.
func LoadDefault() (Config, error) {
	path := filepath.Join(xdg.ConfigHome, "binfetch", "config.yaml")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Format != "" {
		if _, err := extract.ParseFormat(c.Format); err != nil {
			return fmt.Errorf("invalid format: %w", err)
		}
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative, got %s", c.HTTPTimeout)
	}
	return nil
}
