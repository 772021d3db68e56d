package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBatchSize of 4 concurrent renders keeps file handles and
	// memory bounded while still overlapping ingest and output for
	// large snapshot sets. Can be raised via the --batch flag.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "streamreport"
)

// Config holds all configuration options for streamreport.
// This struct is populated from CLI flags and the optional config file
// and passed through the application via dependency injection rather
// than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., RenderConfig, StoreConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without benefit.
type Config struct {
	// InputFiles is the list of snapshot document paths to render.
	// Must contain at least one entry for the render command.
	InputFiles []string

	// JSONReport enables JSON report output instead of the fixed text
	// layout. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// fixed text layout. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// BatchSize is the number of files rendered concurrently.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .streamreport in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// UnitOverrides maps overall property names to units. An override
	// applies to plain measurements only; explicit units in the input
	// always win. Populated from the config file's units section.
	UnitOverrides map[string]string

	// SaveToDB indicates whether rendered snapshots are persisted to
	// the history database for later comparison.
	SaveToDB bool

	// DBDir is the directory path for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because some defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		BatchSize: DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for streamreport.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/streamreport
// On macOS: ~/Library/Application Support/streamreport
// On Windows: %LOCALAPPDATA%\streamreport
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for streamreport.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// The first error found is returned; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if len(c.InputFiles) == 0 {
		return ErrNoInput
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
