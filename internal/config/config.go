package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Order in which topics are walked
	Path []string

	// Output settings
	OutputJSONFile string
	OutputDir      string
	HistoryDSN     string

	// Execution settings
	Processors int
	GoBinary   string
	GoFlags    []string
	Timeout    time.Duration

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Watch settings
	WatchDebounce time.Duration

	NoColor bool

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	Processors int
	TestPath   string
	NameFilter string
	TestCases  bool
	FailFast   bool
	Watch      bool
	Reflect    bool
	Verbose    bool
	Limit      int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputDir:      DefaultOutputDir,
		Processors:     DefaultProcessors,
		GoBinary:       DefaultGoBinary,
		Timeout:        DefaultTimeout,
		WatchDebounce:  DefaultWatchDebounce,
		Flags:          Flags{Processors: DefaultProcessors},
	}
	cfg.Path = make([]string, len(DefaultPath))
	copy(cfg.Path, DefaultPath)
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config for the project at projectPath. A .env file there is
// loaded into the environment first, then .gokoans.yaml (or configFile when
// set) and GOKOANS_* variables are laid over the defaults.
func Load(projectPath, configFile string) (*Config, error) {
	cfg := New()
	if projectPath != "" {
		cfg.ProjectPath = projectPath
	}

	if err := godotenv.Load(filepath.Join(cfg.ProjectPath, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, cfg)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(cfg.ProjectPath)
		v.SetConfigName(strings.TrimSuffix(ConfigFileName, ".yaml"))
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg.TestPath = v.GetString("test_path")
	cfg.Path = v.GetStringSlice("path")
	cfg.OutputDir = v.GetString("output.dir")
	cfg.OutputJSONFile = v.GetString("output.file")
	cfg.HistoryDSN = v.GetString("history.dsn")
	cfg.Processors = v.GetInt("processors")
	cfg.GoBinary = v.GetString("go.binary")
	cfg.GoFlags = v.GetStringSlice("go.flags")
	cfg.Timeout = v.GetDuration("go.timeout")
	cfg.PathsToIgnore = v.GetStringSlice("ignore")
	cfg.WatchDebounce = v.GetDuration("watch.debounce")
	cfg.NoColor = v.GetBool("no_color")

	if cfg.Processors <= 0 {
		return nil, fmt.Errorf("processors must be positive, got %d", cfg.Processors)
	}
	cfg.Flags.Processors = cfg.Processors

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("test_path", cfg.TestPath)
	v.SetDefault("path", cfg.Path)
	v.SetDefault("output.dir", cfg.OutputDir)
	v.SetDefault("output.file", cfg.OutputJSONFile)
	v.SetDefault("history.dsn", "")
	v.SetDefault("processors", cfg.Processors)
	v.SetDefault("go.binary", cfg.GoBinary)
	v.SetDefault("go.flags", []string{})
	v.SetDefault("go.timeout", cfg.Timeout)
	v.SetDefault("ignore", cfg.PathsToIgnore)
	v.SetDefault("watch.debounce", cfg.WatchDebounce)
	v.SetDefault("no_color", false)
}

// GetTestPath returns the koan directory, using the flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// A relative flag is taken relative to the project path
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetOutputPath returns the absolute path of the last-run JSON file, so that
// meditate and reflect always share it regardless of cwd.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetHistoryDSN returns the history connection string. Without one configured
// the journal lives in a sqlite file next to the last run.
func (c *Config) GetHistoryDSN() string {
	if c.HistoryDSN != "" {
		return c.HistoryDSN
	}
	return "sqlite:" + filepath.Join(c.ProjectPath, c.OutputDir, DefaultHistoryFile)
}

// PackagePattern returns the go test package argument for a koan directory,
// relative to the project path.
func (c *Config) PackagePattern(dir string) string {
	rel, err := filepath.Rel(c.ProjectPath, dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	if rel == "." {
		return "."
	}
	return "./" + filepath.ToSlash(rel)
}
