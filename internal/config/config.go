package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	API     APIConfig
	Server  ServerConfig
	Ops     OpsConfig
	Upload  UploadConfig
	Table   TableConfig
	Session SessionConfig
	Log     LogConfig
}

// APIConfig holds passenger API client settings
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OpsConfig holds the metrics/pprof listener settings
type OpsConfig struct {
	Port    string
	Enabled bool
}

// UploadConfig holds CSV upload limits
type UploadConfig struct {
	MaxBytes int64
}

// TableConfig holds passenger table defaults
type TableConfig struct {
	DefaultRowsPerPage int
}

// SessionConfig holds dashboard session settings
type SessionConfig struct {
	TTL time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		API:     *loadAPIConfig(),
		Server:  *loadServerConfig(),
		Ops:     *loadOpsConfig(),
		Upload:  *loadUploadConfig(),
		Table:   *loadTableConfig(),
		Session: *loadSessionConfig(),
		Log:     LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAPIConfig() *APIConfig {
	return &APIConfig{
		BaseURL: strings.TrimRight(getEnvOrDefault("API_BASE_URL", "http://localhost:8000"), "/"),
		Timeout: getEnvDurationOrDefault("API_TIMEOUT", 30*time.Second),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadOpsConfig() *OpsConfig {
	return &OpsConfig{
		Port:    getEnvOrDefault("OPS_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
	}
}

func loadUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxBytes: int64(getEnvIntOrDefault("UPLOAD_MAX_MB", 50)) * 1024 * 1024,
	}
}

func loadTableConfig() *TableConfig {
	return &TableConfig{
		DefaultRowsPerPage: getEnvIntOrDefault("DEFAULT_ROWS_PER_PAGE", 10),
	}
}

func loadSessionConfig() *SessionConfig {
	return &SessionConfig{
		TTL: getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
	}
}

func validateConfig(config *Config) error {
	u, err := url.Parse(config.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.ConfigInvalid("API_BASE_URL must be an absolute http(s) URL")
	}
	if config.API.Timeout <= 0 {
		return errors.ConfigInvalid("API_TIMEOUT must be positive")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if !slices.Contains([]string{"debug", "release", "test"}, config.Server.GinMode) {
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Upload.MaxBytes <= 0 {
		return errors.ConfigInvalid("UPLOAD_MAX_MB must be positive")
	}
	if !slices.Contains(dashboard.RowsPerPageOptions, config.Table.DefaultRowsPerPage) {
		return errors.ConfigInvalid(fmt.Sprintf("DEFAULT_ROWS_PER_PAGE must be one of %v", dashboard.RowsPerPageOptions))
	}
	if config.Session.TTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
