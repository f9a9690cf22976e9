// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Playback PlaybackConfig `yaml:"playback"`
	Metadata MetadataConfig `yaml:"metadata"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr           string   `yaml:"addr" default:":8080"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// StorageConfig represents persistent storage configuration.
type StorageConfig struct {
	Path string `yaml:"path" default:"tubebox.db"`
}

// PlaybackConfig represents playback behavior configuration.
type PlaybackConfig struct {
	RestartThresholdSec float64 `yaml:"restart_threshold_sec" default:"3" validate:"gte=0,lte=30"`
	ProgressDebounceMs  int     `yaml:"progress_debounce_ms" default:"250" validate:"gte=0,lte=5000"`
	UnmuteVolume        float64 `yaml:"unmute_volume" default:"0.1" validate:"gt=0,lte=1"`
}

// MetadataConfig represents metadata provider configuration.
type MetadataConfig struct {
	Provider ProviderConfig `yaml:"provider"`
}

// ProviderConfig represents a single metadata provider configuration.
type ProviderConfig struct {
	Type     string         `yaml:"type" default:"youtube" validate:"required"`
	Settings map[string]any `yaml:"settings"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		if c.Metadata.Provider.Settings == nil {
			c.Metadata.Provider.Settings = make(map[string]any)
		}
		c.Metadata.Provider.Settings["api_key"] = v
	}
	if v := os.Getenv("TUBEBOX_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("TUBEBOX_ADDR"); v != "" {
		c.Server.Addr = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	return nil
}
