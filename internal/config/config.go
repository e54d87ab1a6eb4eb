// Package config resolves lending settings from flags, the environment, a
// .env file and defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"book-lending/internal/logger"
	"book-lending/library"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Storage StorageConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // json, pretty, or empty to pick by environment
}

// StorageConfig selects the blob store backing the library.
type StorageConfig struct {
	Backend string // sqlite, badger or memory
	Path    string // database file (sqlite) or directory (badger)
}

// Overrides carries values set explicitly on the command line. Empty fields
// fall through to the environment.
type Overrides struct {
	Environment string
	LogLevel    string
	LogFormat   string
	Backend     string
	DataPath    string
	EnvFile     string
}

const defaultEnvFile = ".env"

// Load builds a Config. A missing .env file is ignored; a malformed one is not.
func Load(o Overrides) (*Config, error) {
	envFile := o.EnvFile
	if envFile == "" {
		envFile = defaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(o.Environment, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(o.LogLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(o.LogFormat, "LOG_FORMAT", ""),
		},
		Storage: StorageConfig{
			Backend: getConfigValue(o.Backend, "LENDING_BACKEND", library.BackendSQLite),
			Path:    getConfigValue(o.DataPath, "LENDING_DATA", "library.db"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case library.BackendSQLite, library.BackendBadger, library.BackendMemory:
	default:
		return fmt.Errorf("invalid backend %q: %w", c.Storage.Backend, library.ErrUnknownBackend)
	}
	switch c.Logger.Format {
	case "", logger.FormatJSON, logger.FormatPretty:
	default:
		return fmt.Errorf("invalid log format %q", c.Logger.Format)
	}
	return nil
}

// getConfigValue returns the first non-empty of flag value, env var, default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return defaultValue
}
