package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Logging configuration
	Log LogConfig

	// Health check prober configuration
	Probe ProbeConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port               int
	TimeoutSeconds     int
	CORSAllowedOrigins string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Production bool // JSON output when true
	Level      string
}

// ProbeConfig holds configuration for the API health check prober.
// An IntervalSeconds of 0 disables probing.
type ProbeConfig struct {
	IntervalSeconds int
	TimeoutSeconds  int
	MaxConcurrent   int
	MaxRetries      int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		HTTP: HTTPConfig{
			Port:               getEnvInt("HTTP_PORT", 8086),
			TimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 60),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
		},
		Log: LogConfig{
			Production: getEnvString("LOG_FORMAT", "text") == "json",
			Level:      getEnvString("LOG_LEVEL", "info"),
		},
		Probe: ProbeConfig{
			IntervalSeconds: getEnvIntAllowZero("PROBE_INTERVAL_SECONDS", 0),
			TimeoutSeconds:  getEnvInt("PROBE_TIMEOUT_SECONDS", 10),
			MaxConcurrent:   getEnvInt("PROBE_MAX_CONCURRENT", 5),
			MaxRetries:      getEnvIntAllowZero("PROBE_MAX_RETRIES", 2),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.Probe.IntervalSeconds < 0 {
		return fmt.Errorf("PROBE_INTERVAL_SECONDS must not be negative, got %d", c.Probe.IntervalSeconds)
	}
	if c.Probe.TimeoutSeconds <= 0 {
		return fmt.Errorf("PROBE_TIMEOUT_SECONDS must be positive, got %d", c.Probe.TimeoutSeconds)
	}
	if c.Probe.MaxConcurrent <= 0 {
		return fmt.Errorf("PROBE_MAX_CONCURRENT must be positive, got %d", c.Probe.MaxConcurrent)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// ProbingEnabled returns true if the health check prober should run
func (c *Config) ProbingEnabled() bool {
	return c.Probe.IntervalSeconds > 0
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvIntAllowZero(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "",
		},
		HTTP: HTTPConfig{
			Port:               8086,
			TimeoutSeconds:     60,
			CORSAllowedOrigins: "*",
		},
		Log: LogConfig{
			Production: false,
			Level:      "info",
		},
		Probe: ProbeConfig{
			IntervalSeconds: 0,
			TimeoutSeconds:  10,
			MaxConcurrent:   5,
			MaxRetries:      2,
		},
	}
}
