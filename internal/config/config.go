// Package config is the generic YAML configuration loader (§ ambient
// stack): environment-variable expansion, a pluggable Validate hook, and
// an optional fsnotify-backed hot reload of the search defaults.
package config

import (
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Validator is implemented by any config type that can check itself
// after loading.
type Validator interface {
	Validate() error
}

// Load reads filename, expands ${VAR} references against the process
// environment, unmarshals into target, and calls target.Validate() if it
// implements Validator.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}

// Config is the top-level application configuration for both cmd/server
// and cmd/intermodal-cli.
type Config struct {
	LogLevel slog.Level        `yaml:"log_level"`
	HTTP     HTTPConfig        `yaml:"http"`
	Store    StoreConfig       `yaml:"store"`
	Search   models.SearchParams `yaml:"search"`
}

// Validate validates the HTTP and Store sections. The Search section is
// not checked here.
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	return c.Store.Validate()
}

// HTTPConfig holds the HTTP server's listen configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns the gin listen address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// StoreConfig holds the sqlite database path.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// Default returns a Config with log level Info, HTTP port 8080, store path
// ./intermodal.db, and models.DefaultSearchParams().
func Default() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		HTTP:     HTTPConfig{Port: 8080},
		Store:    StoreConfig{Path: "./intermodal.db"},
		Search:   models.DefaultSearchParams(),
	}
}
