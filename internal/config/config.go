// Package config provides configuration loading for demoday.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the demoday service.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	GitHub  GitHubConfig  `koanf:"github"`
	OpenAI  OpenAIConfig  `koanf:"openai"`
	Search  SearchConfig  `koanf:"search"`
	Store   StoreConfig   `koanf:"store"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is "json" or "console".
	Format string `koanf:"format"`
}

// GitHubConfig holds GitHub API settings. Token is optional; unauthenticated
// clients work with tighter rate limits.
type GitHubConfig struct {
	Token          Secret   `koanf:"token"`
	RequestTimeout Duration `koanf:"request_timeout"`
}

// OpenAIConfig holds text-generation collaborator settings.
type OpenAIConfig struct {
	APIKey            Secret   `koanf:"api_key"`
	Model             string   `koanf:"model"`
	BaseURL           string   `koanf:"base_url"`
	RequestTimeout    Duration `koanf:"request_timeout"`
	RequestsPerSecond float64  `koanf:"requests_per_second"`
}

// SearchConfig holds web-search collaborator settings.
type SearchConfig struct {
	APIKey         Secret   `koanf:"api_key"`
	Endpoint       string   `koanf:"endpoint"`
	RequestTimeout Duration `koanf:"request_timeout"`
}

// StoreConfig holds submission store settings.
type StoreConfig struct {
	// Path is the SQLite database file path.
	Path string `koanf:"path"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = Duration(10 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.GitHub.RequestTimeout == 0 {
		cfg.GitHub.RequestTimeout = Duration(30 * time.Second)
	}

	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = "gpt-4"
	}
	if cfg.OpenAI.RequestTimeout == 0 {
		cfg.OpenAI.RequestTimeout = Duration(60 * time.Second)
	}
	if cfg.OpenAI.RequestsPerSecond == 0 {
		cfg.OpenAI.RequestsPerSecond = 2
	}

	if cfg.Search.Endpoint == "" {
		cfg.Search.Endpoint = "https://www.searchapi.io/api/v1/search"
	}
	if cfg.Search.RequestTimeout == 0 {
		cfg.Search.RequestTimeout = Duration(30 * time.Second)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "demoday.db"
	}
}

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", c.Server.Port)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if !c.OpenAI.APIKey.IsSet() {
		return fmt.Errorf("openai.api_key is required")
	}
	if !c.Search.APIKey.IsSet() {
		return fmt.Errorf("search.api_key is required")
	}
	if c.OpenAI.RequestsPerSecond <= 0 {
		return fmt.Errorf("openai.requests_per_second must be positive, got %v", c.OpenAI.RequestsPerSecond)
	}

	return nil
}
