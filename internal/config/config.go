// Package config resolves run settings from CLI flags and environment
// variables: env-var-with-defaults overrides plus required-flag
// validation for the indexer's compilation-database and output-store
// settings.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/cppgraph/indexer/internal/indexerr"
)

// Config holds one run's resolved settings, sourced from CLI flags and
// environment variables.
type Config struct {
	CompileDB  string
	OutputDB   string
	Overwrite  bool
	Threads    int
	TUTimeout  time.Duration
	FailFast   bool
	CGOSQLite  bool
	ReplicaDSN string
	Exclude    []string
	Include    []string
	LogLevel   string
	CreatedAt  string
}

// LoadEnvFile loads a .env file via godotenv before flags are parsed, so
// INDEXER_* variables it sets are visible to ApplyEnvOverrides. path
// overrides INDEXER_ENV_FILE when non-empty. A missing file is not an
// error: .env support is ambient convenience, never a required input.
func LoadEnvFile(path string) error {
	if path == "" {
		path = os.Getenv("INDEXER_ENV_FILE")
	}
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnvOverrides fills fields the caller left unset from their
// documented environment variables.
func ApplyEnvOverrides(cfg *Config) {
	if cfg.CompileDB == "" {
		cfg.CompileDB = os.Getenv("INDEXER_COMPILE_DB")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("INDEXER_LOG_LEVEL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.CreatedAt == "" {
		cfg.CreatedAt = os.Getenv("INDEXER_CREATED_AT")
	}
}

// Validate checks a resolved Config for the required fields.
func Validate(cfg *Config) error {
	if cfg.CompileDB == "" {
		return &indexerr.ArgumentError{Msg: "compilation database path is required (positional argument or INDEXER_COMPILE_DB)"}
	}
	if cfg.OutputDB == "" {
		return &indexerr.ArgumentError{Msg: "--output-db is required"}
	}
	if cfg.Threads < 0 {
		return &indexerr.ArgumentError{Msg: "--threads must not be negative"}
	}
	if cfg.TUTimeout <= 0 {
		return &indexerr.ArgumentError{Msg: "--tu-timeout must be positive"}
	}
	return nil
}
