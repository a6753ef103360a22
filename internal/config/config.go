// Package config provides configuration for the assistant services.
// Settings come from environment variables with the ASSISTANT_ prefix, with
// sensible defaults for everything. An optional YAML file can be layered on
// top for deployments that prefer file-based configuration; file values win
// over environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the assistant.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Security SecurityConfig `yaml:"security"`
	Backup   BackupConfig   `yaml:"backup"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"` // Server host (default: 127.0.0.1)
	Port int    `yaml:"port"` // Server port (default: 6565)
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig contains database configuration.
type StorageConfig struct {
	// Engine selects the backend: sqlite or postgres (default: sqlite).
	Engine string `yaml:"engine"`
	// DSN is the connection string. For sqlite this is a file path
	// (default: ./data/assistant.db); for postgres a standard postgres URL.
	DSN string `yaml:"dsn"`
}

// SecurityConfig contains authentication settings.
type SecurityConfig struct {
	// Mode is development or production (default: development).
	// Development mode skips API token checks.
	Mode string `yaml:"mode"`
	// APIToken is the bearer token required in production mode.
	APIToken string `yaml:"api_token"`
}

// BackupConfig contains backup settings for the sqlite backend.
type BackupConfig struct {
	Enabled   bool   `yaml:"enabled"`   // Enable periodic backups (default: false)
	Interval  string `yaml:"interval"`  // Backup interval (default: 24h)
	Path      string `yaml:"path"`      // Backup directory (default: ./backups)
	Retention int    `yaml:"retention"` // Number of backups to keep (default: 14)
}

// Load builds a Config from environment variables and defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("ASSISTANT_HOST", "127.0.0.1"),
			Port: getEnvInt("ASSISTANT_PORT", 6565),
		},
		Storage: StorageConfig{
			Engine: getEnv("ASSISTANT_STORAGE_ENGINE", "sqlite"),
			DSN:    getEnv("ASSISTANT_DSN", "./data/assistant.db"),
		},
		Security: SecurityConfig{
			Mode:     getEnv("ASSISTANT_SECURITY_MODE", "development"),
			APIToken: getEnv("ASSISTANT_API_TOKEN", ""),
		},
		Backup: BackupConfig{
			Enabled:   getEnvBool("ASSISTANT_BACKUP_ENABLED", false),
			Interval:  getEnv("ASSISTANT_BACKUP_INTERVAL", "24h"),
			Path:      getEnv("ASSISTANT_BACKUP_PATH", "./backups"),
			Retention: getEnvInt("ASSISTANT_BACKUP_RETENTION", 14),
		},
	}
}

// LoadFile builds a Config from the environment and then overlays values
// from the YAML file at path. Only keys present in the file override the
// base config.
func LoadFile(path string) (*Config, error) {
	cfg := Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks for settings that cannot work at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Engine {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown storage engine %q", c.Storage.Engine)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid port %d", c.Server.Port)
	}
	if c.Security.Mode == "production" && c.Security.APIToken == "" {
		return fmt.Errorf("config: production mode requires ASSISTANT_API_TOKEN")
	}
	return nil
}

// getEnv retrieves a string environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default
// value. Unparseable values fall back to the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default
// value. It recognizes "true", "1", "yes" and "false", "0", "no".
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch value {
		case "true", "1", "yes", "True", "TRUE", "Yes", "YES":
			return true
		case "false", "0", "no", "False", "FALSE", "No", "NO":
			return false
		}
	}
	return defaultValue
}
