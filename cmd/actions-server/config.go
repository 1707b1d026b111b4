package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"datastage"
)

// Config holds the server settings, read from the environment.
type Config struct {
	// Addr is the listen address
	Addr string
	// StorePath is the database file location
	StorePath string
	// BaseDir anchors relative fallback paths; empty means the working
	// directory at startup
	BaseDir string
	// ChatFilesURL is the attachment store endpoint; empty disables
	// attachment retrieval unless ChatFilesDir is set
	ChatFilesURL string
	// ChatFilesDir serves attachments from a local directory instead of
	// an HTTP store; useful for local runs and tests
	ChatFilesDir string
	// CategoricalThreshold is the distinct-value cutoff for enumerating
	// column values in load reports
	CategoricalThreshold int
	// SampleRows is the number of sample rows in load reports
	SampleRows int
	// LogLevel is the slog level name (debug, info, warn, error)
	LogLevel slog.Level
}

// LoadFromEnv reads configuration from environment variables, applying
// defaults for everything unset.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Addr:                 envOr("DATASTAGE_ADDR", ":8080"),
		StorePath:            envOr("DATASTAGE_STORE_PATH", datastage.DefaultStorePath),
		BaseDir:              os.Getenv("DATASTAGE_BASE_DIR"),
		ChatFilesURL:         os.Getenv("DATASTAGE_CHAT_FILES_URL"),
		ChatFilesDir:         os.Getenv("DATASTAGE_CHAT_FILES_DIR"),
		CategoricalThreshold: datastage.DefaultCategoricalThreshold,
		SampleRows:           datastage.DefaultSampleRows,
		LogLevel:             slog.LevelInfo,
	}

	if cfg.ChatFilesURL != "" && cfg.ChatFilesDir != "" {
		return nil, fmt.Errorf("DATASTAGE_CHAT_FILES_URL and DATASTAGE_CHAT_FILES_DIR are mutually exclusive")
	}

	if v := os.Getenv("DATASTAGE_CATEGORICAL_THRESHOLD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid DATASTAGE_CATEGORICAL_THRESHOLD: %q", v)
		}
		cfg.CategoricalThreshold = n
	}

	if v := os.Getenv("DATASTAGE_SAMPLE_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid DATASTAGE_SAMPLE_ROWS: %q", v)
		}
		cfg.SampleRows = n
	}

	if v := os.Getenv("DATASTAGE_LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid DATASTAGE_LOG_LEVEL: %q", v)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// envOr returns the environment variable's value, or def when unset.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
