package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_GetTestPath(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{
			name: "default path",
			config: &Config{
				ProjectPath: ".",
				TestPath:    "koans",
				Flags:       Flags{},
			},
			expected: "koans",
		},
		{
			name: "with test path flag",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    "koans",
				Flags: Flags{
					TestPath: "mykoans",
				},
			},
			expected: "/project/mykoans",
		},
		{
			name: "absolute test path",
			config: &Config{
				ProjectPath: "/project",
				TestPath:    "koans",
				Flags: Flags{
					TestPath: "/absolute/path",
				},
			},
			expected: "/absolute/path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.GetTestPath()
			if result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestConfig_PackagePattern(t *testing.T) {
	cfg := &Config{ProjectPath: "/project", TestPath: "koans"}

	tests := []struct {
		name     string
		dir      string
		expected string
	}{
		{name: "koans below project", dir: "/project/koans", expected: "./koans"},
		{name: "koans at project root", dir: "/project", expected: "."},
		{name: "nested koans", dir: "/project/learn/koans", expected: "./learn/koans"},
		{name: "outside the project", dir: "/elsewhere/koans", expected: "/elsewhere/koans"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.PackagePattern(tt.dir); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestConfig_GetHistoryDSN(t *testing.T) {
	t.Run("defaults to sqlite in the output dir", func(t *testing.T) {
		cfg := New()
		cfg.ProjectPath = "/project"
		expected := "sqlite:" + filepath.Join("/project", DefaultOutputDir, DefaultHistoryFile)
		if got := cfg.GetHistoryDSN(); got != expected {
			t.Errorf("expected %s, got %s", expected, got)
		}
	})

	t.Run("configured dsn wins", func(t *testing.T) {
		cfg := New()
		cfg.HistoryDSN = "mysql://dojo:secret@db:3306/koans"
		if got := cfg.GetHistoryDSN(); got != cfg.HistoryDSN {
			t.Errorf("expected %s, got %s", cfg.HistoryDSN, got)
		}
	})
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.ProjectPath != DefaultProjectPath {
		t.Errorf("expected ProjectPath %s, got %s", DefaultProjectPath, cfg.ProjectPath)
	}

	if cfg.Processors != DefaultProcessors {
		t.Errorf("expected Processors %d, got %d", DefaultProcessors, cfg.Processors)
	}

	if len(cfg.PathsToIgnore) != len(DefaultPathsToIgnore) {
		t.Errorf("expected %d paths to ignore, got %d", len(DefaultPathsToIgnore), len(cfg.PathsToIgnore))
	}

	cfg.Path[0] = "about_everything"
	if DefaultPath[0] != "about_asserts" {
		t.Error("New must copy the default path, not share it")
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(dir, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ProjectPath != dir {
			t.Errorf("expected ProjectPath %s, got %s", dir, cfg.ProjectPath)
		}
		if cfg.TestPath != DefaultTestPath {
			t.Errorf("expected TestPath %s, got %s", DefaultTestPath, cfg.TestPath)
		}
		if len(cfg.Path) != len(DefaultPath) {
			t.Errorf("expected %d topics, got %d", len(DefaultPath), len(cfg.Path))
		}
	})

	t.Run("reads .gokoans.yaml", func(t *testing.T) {
		dir := t.TempDir()
		content := `test_path: dojo
path:
  - about_strings
  - about_asserts
processors: 2
go:
  timeout: 30s
watch:
  debounce: 1s
`
		if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := Load(dir, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.TestPath != "dojo" {
			t.Errorf("expected TestPath dojo, got %s", cfg.TestPath)
		}
		if len(cfg.Path) != 2 || cfg.Path[0] != "about_strings" {
			t.Errorf("unexpected path %v", cfg.Path)
		}
		if cfg.Processors != 2 {
			t.Errorf("expected 2 processors, got %d", cfg.Processors)
		}
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected 30s timeout, got %s", cfg.Timeout)
		}
		if cfg.WatchDebounce != time.Second {
			t.Errorf("expected 1s debounce, got %s", cfg.WatchDebounce)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GOKOANS_PROCESSORS", "7")

		cfg, err := Load(dir, "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Processors != 7 {
			t.Errorf("expected 7 processors, got %d", cfg.Processors)
		}
	})

	t.Run("rejects non-positive processors", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GOKOANS_PROCESSORS", "0")

		if _, err := Load(dir, ""); err == nil {
			t.Error("expected error for zero processors")
		}
	})

	t.Run("explicit config file must exist", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := Load(dir, filepath.Join(dir, "missing.yaml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})
}

func TestConfig_Marshal(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Processors = 3

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), data, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loaded, err := Load(dir, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Processors != 3 {
		t.Errorf("expected 3 processors after reload, got %d", loaded.Processors)
	}
	if loaded.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout after reload, got %s", loaded.Timeout)
	}
}
