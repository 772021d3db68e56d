package config

import (
	"errors"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BatchSize is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 4 {
			t.Errorf("expected BatchSize to be 4, got %d", cfg.BatchSize)
		}
	})

	t.Run("default formats are off", func(t *testing.T) {
		t.Parallel()
		if cfg.JSONReport || cfg.MarkdownReport {
			t.Error("expected text format by default")
		}
	})

	t.Run("default SaveToDB is false", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false")
		}
	})
}

// TestConfigValidate verifies validation sentinel errors.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid config passes", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.InputFiles = []string{"snapshot.yaml"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing input fails", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		if err := cfg.Validate(); !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("zero batch size fails", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.InputFiles = []string{"snapshot.yaml"}
		cfg.BatchSize = 0
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("conflicting formats fail", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.InputFiles = []string{"snapshot.yaml"}
		cfg.JSONReport = true
		cfg.MarkdownReport = true
		if err := cfg.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

// TestXDGDataDir verifies the directory carries the app name.
func TestXDGDataDir(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); !strings.Contains(dir, AppName) {
		t.Errorf("expected data dir to contain %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); !strings.Contains(dir, AppName) {
		t.Errorf("expected config dir to contain %q, got %q", AppName, dir)
	}
}
