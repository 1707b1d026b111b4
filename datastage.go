package datastage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"

	"datastage/chatfile"
)

// Default configuration values. The categorical threshold and sample size
// carry no deeper rationale than "worked well for agent consumption"; both
// are configurable rather than baked into the profiler.
const (
	// DefaultStorePath is the default location of the database file
	DefaultStorePath = "data/customer_data.duckdb"
	// DefaultCategoricalThreshold is the distinct-value count below which a
	// column's values are enumerated in the schema report
	DefaultCategoricalThreshold = 10
	// DefaultSampleRows is the default number of sample rows in a load report
	DefaultSampleRows = 5
)

// Config holds the settings shared by all store operations.
// Use NewConfig to create one with defaults, then chain With* methods:
//
//	cfg := datastage.NewConfig().
//		WithStorePath("/tmp/scratch.duckdb").
//		WithCategoricalThreshold(20)
type Config struct {
	// StorePath is the location of the database file. All operations
	// address this single file.
	StorePath string
	// BaseDir anchors relative fallback paths when attachment retrieval
	// fails. Empty means the process working directory, resolved once at
	// store construction so later directory changes cannot alter meaning.
	BaseDir string
	// CategoricalThreshold is the distinct-value count below which a
	// column is treated as categorical and its values are enumerated.
	CategoricalThreshold int
	// SampleRows is the number of sample rows included in a load report.
	SampleRows int
	// Fetcher retrieves chat attachments. Nil disables attachment
	// retrieval; filenames are then always treated as direct paths.
	Fetcher chatfile.Fetcher
	// Logger receives diagnostics such as fallback notices. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// NewConfig returns a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		StorePath:            DefaultStorePath,
		CategoricalThreshold: DefaultCategoricalThreshold,
		SampleRows:           DefaultSampleRows,
	}
}

// WithStorePath sets the database file location.
// Returns the config for method chaining.
func (c *Config) WithStorePath(path string) *Config {
	c.StorePath = path
	return c
}

// WithBaseDir sets the directory against which relative fallback paths
// resolve. Returns the config for method chaining.
func (c *Config) WithBaseDir(dir string) *Config {
	c.BaseDir = dir
	return c
}

// WithCategoricalThreshold sets the distinct-value count below which a
// column's values are enumerated. Returns the config for method chaining.
func (c *Config) WithCategoricalThreshold(n int) *Config {
	c.CategoricalThreshold = n
	return c
}

// WithSampleRows sets the number of sample rows in load reports.
// Returns the config for method chaining.
func (c *Config) WithSampleRows(n int) *Config {
	c.SampleRows = n
	return c
}

// WithFetcher sets the attachment fetcher.
// Returns the config for method chaining.
func (c *Config) WithFetcher(f chatfile.Fetcher) *Config {
	c.Fetcher = f
	return c
}

// WithLogger sets the logger.
// Returns the config for method chaining.
func (c *Config) WithLogger(log *slog.Logger) *Config {
	c.Logger = log
	return c
}

// Store exposes the four agent actions against a single DuckDB database
// file. Operations are synchronous and one-shot: each opens its own
// connection and closes it before returning, so no state is shared across
// calls beyond the file itself. Concurrent invocations against the same
// store file are unsupported.
type Store struct {
	path     string
	resolver *resolver
	log      *slog.Logger

	categoricalThreshold int
	sampleRows           int
}

// New creates a Store from cfg. The store file itself is created lazily on
// first load; New only fixes the configuration, resolving BaseDir to an
// absolute path.
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if cfg.StorePath == "" {
		return nil, fmt.Errorf("datastage: store path must not be empty")
	}
	if cfg.CategoricalThreshold < 0 {
		return nil, fmt.Errorf("datastage: categorical threshold must not be negative: %d", cfg.CategoricalThreshold)
	}
	if cfg.SampleRows < 0 {
		return nil, fmt.Errorf("datastage: sample rows must not be negative: %d", cfg.SampleRows)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("datastage: resolve working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("datastage: resolve base directory: %w", err)
	}

	return &Store{
		path: cfg.StorePath,
		resolver: &resolver{
			fetcher: cfg.Fetcher,
			baseDir: baseDir,
			log:     log,
		},
		log:                  log,
		categoricalThreshold: cfg.CategoricalThreshold,
		sampleRows:           cfg.SampleRows,
	}, nil
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

// open connects to the store file, creating its parent directory first so
// the first load does not depend on the directory already existing.
func (s *Store) open(ctx context.Context) (*sql.DB, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("datastage: create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", s.path)
	if err != nil {
		return nil, fmt.Errorf("datastage: open store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			return nil, fmt.Errorf("datastage: connect to store: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("datastage: connect to store: %w", err)
	}
	return db, nil
}
