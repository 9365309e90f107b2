// Package config provides configuration loading and structs for the Tenang server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Providers ProvidersConfig `yaml:"providers"`
	Booking   BookingConfig   `yaml:"booking"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// KnowledgeConfig describes where documents are discovered and how they are indexed.
type KnowledgeConfig struct {
	Dir          string   `yaml:"dir"`
	FallbackFile string   `yaml:"fallback_file"`
	Extensions   []string `yaml:"extensions"`
	MaxVocab     int      `yaml:"max_vocab"`
	TopK         int      `yaml:"top_k"`
	Watch        bool     `yaml:"watch"`
}

// ProviderConfig holds credentials and endpoint for one generation service.
// A provider with an empty APIKey is not configured.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// ProvidersConfig holds the generation services and routing settings.
type ProvidersConfig struct {
	Google      ProviderConfig `yaml:"google"`
	OpenAI      ProviderConfig `yaml:"openai"`
	HuggingFace ProviderConfig `yaml:"huggingface"`
	// Timeout bounds a single provider call.
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
	// RateLimitRetry is how long a provider keeps retrying HTTP 429 responses
	// before the router moves on. Zero disables retrying.
	RateLimitRetry time.Duration `yaml:"rate_limit_retry"`
}

// BookingConfig holds booking link and persistence settings.
type BookingConfig struct {
	URL     string `yaml:"url"`
	Backend string `yaml:"backend"` // file, sqlite or postgres
	Path    string `yaml:"path"`
	DSN     string `yaml:"dsn"`
	// ExposeList enables GET /api/bookings. It is off by default since the
	// records hold names and phone numbers.
	ExposeList bool `yaml:"expose_list"`
	// AdminToken, when set, is required as a bearer token on GET /api/bookings.
	AdminToken string `yaml:"admin_token"`
}

// Load reads and parses the config file at path, applies environment overrides and
// defaults, and resolves relative paths against the config file's directory.
// A missing file is not an error: the result is built from environment and defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)

	configDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config dir: %w", err)
	}
	cfg.Knowledge.Dir = expandPath(cfg.Knowledge.Dir, configDir)
	cfg.Knowledge.FallbackFile = expandPath(cfg.Knowledge.FallbackFile, configDir)
	cfg.Booking.Path = expandPath(cfg.Booking.Path, configDir)

	return &cfg, nil
}

// Save writes the config to path, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a relative path to an absolute one under baseDir.
func expandPath(path string, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}
