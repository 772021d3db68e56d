package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".streamreport"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration file layout.
type File struct {
	// Units maps overall property names to unit overrides.
	// Overrides apply to plain values only; explicit units in the
	// snapshot document always win.
	Units map[string]string `yaml:"units"`

	// Output is the default report format: "text", "json", or
	// "markdown". Flags override this setting.
	Output string `yaml:"output"`

	// Batch is the default number of concurrent renders.
	Batch int `yaml:"batch"`

	// Save persists rendered snapshots to the history database.
	Save bool `yaml:"save"`
}

// LoadConfigFile loads settings from a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	if cf.Units == nil {
		cf.Units = make(map[string]string)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .streamreport in the current directory
// 3. Look for .streamreport in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply merges file settings into the config. Flag-derived values take
// precedence, so Apply only fills fields still at their defaults.
func (c *Config) Apply(f *File) {
	if f == nil {
		return
	}

	if len(f.Units) > 0 {
		c.UnitOverrides = f.Units
	}

	if !c.JSONReport && !c.MarkdownReport {
		switch f.Output {
		case "json":
			c.JSONReport = true
		case "markdown":
			c.MarkdownReport = true
		}
	}

	if c.BatchSize == DefaultBatchSize && f.Batch > 0 {
		c.BatchSize = f.Batch
	}

	if f.Save {
		c.SaveToDB = true
	}
}
