// package config loads application configuration from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// hosted backend (query endpoint + access key); both must be present for
	// any data access to happen
	BackendURL string
	BackendKey string

	// optional direct postgres mode for self-hosted installs
	DatabaseURL string

	// backend paging and throttle
	PageSize    int
	BackendRPS  float64
	MaxPageRows int

	// openai summaries
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// server
	HTTPPort int

	// dashboard snapshot refresh interval in seconds (0 disables)
	RefreshSec int

	// logging
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		BackendURL:    getEnv("SUPABASE_URL", ""),
		BackendKey:    getEnv("SUPABASE_ANON_KEY", ""),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		PageSize:      getEnvInt("BACKEND_PAGE_SIZE", 1000),
		MaxPageRows:   getEnvInt("BACKEND_MAX_PAGE_ROWS", 1000),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		HTTPPort:      getEnvInt("HTTP_PORT", 3200),
		RefreshSec:    getEnvInt("DASHBOARD_REFRESH_SECONDS", 300),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFile:       getEnv("LOG_FILE", ""),
	}

	cfg.BackendRPS = getEnvFloat("BACKEND_RPS", 10.0)

	// the backend caps rows per request; clamp the page size to it
	if cfg.PageSize <= 0 || cfg.PageSize > cfg.MaxPageRows {
		cfg.PageSize = cfg.MaxPageRows
	}

	return cfg, nil
}

// BackendConfigured reports whether the hosted backend connection parameters
// are present. Every data-access entrypoint is gated on this; when false the
// caller returns its empty value without attempting network I/O.
func (c *Config) BackendConfigured() bool {
	return c.BackendURL != "" && c.BackendKey != ""
}

// DirectConfigured reports whether the direct postgres mode is available.
func (c *Config) DirectConfigured() bool {
	return c.DatabaseURL != ""
}

// SummariesConfigured reports whether the openai key is present.
func (c *Config) SummariesConfigured() bool {
	return c.OpenAIAPIKey != ""
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
