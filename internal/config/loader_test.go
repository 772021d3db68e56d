package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigFile verifies config file loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `
units:
  mass: g
  speed: km/h
output: markdown
batch: 8
save: true
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Units["mass"] != "g" || cf.Units["speed"] != "km/h" {
			t.Errorf("unexpected units: %v", cf.Units)
		}
		if cf.Output != "markdown" || cf.Batch != 8 || !cf.Save {
			t.Errorf("unexpected settings: %+v", cf)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("units: [not a map"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("nil units map is initialized", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("output: json\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Units == nil {
			t.Error("expected initialized units map")
		}
	})
}

// TestFindConfigFile verifies the search order.
func TestFindConfigFile(t *testing.T) {
	// Not parallel: changes the working directory.

	t.Run("explicit existing path wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("output: text\n"), 0600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})

	t.Run("finds config in current directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, DefaultConfigFile)
		if err := os.WriteFile(path, []byte("output: text\n"), 0600); err != nil {
			t.Fatal(err)
		}
		oldwd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			if err := os.Chdir(oldwd); err != nil {
				t.Fatal(err)
			}
		})

		got := FindConfigFile("")
		// Resolve symlinks; macOS temp dirs are behind /private.
		wantReal, _ := filepath.EvalSymlinks(path)
		gotReal, _ := filepath.EvalSymlinks(got)
		if gotReal != wantReal {
			t.Errorf("expected %q, got %q", wantReal, gotReal)
		}
	})
}

// TestConfigApply verifies merge precedence between flags and file.
func TestConfigApply(t *testing.T) {
	t.Parallel()

	t.Run("file fills unset fields", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(&File{
			Units:  map[string]string{"mass": "g"},
			Output: "json",
			Batch:  16,
			Save:   true,
		})

		if cfg.UnitOverrides["mass"] != "g" {
			t.Error("expected unit overrides from file")
		}
		if !cfg.JSONReport {
			t.Error("expected json output from file")
		}
		if cfg.BatchSize != 16 {
			t.Errorf("expected batch 16, got %d", cfg.BatchSize)
		}
		if !cfg.SaveToDB {
			t.Error("expected save from file")
		}
	})

	t.Run("flags take precedence over file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.MarkdownReport = true
		cfg.BatchSize = 2

		cfg.Apply(&File{Output: "json", Batch: 16})

		if cfg.JSONReport {
			t.Error("expected file output to be ignored when a flag is set")
		}
		if cfg.BatchSize != 2 {
			t.Errorf("expected flag batch 2 to win, got %d", cfg.BatchSize)
		}
	})

	t.Run("nil file is a no-op", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Apply(nil)
		if cfg.BatchSize != DefaultBatchSize {
			t.Error("expected defaults unchanged")
		}
	})
}
