package config

import "time"

const (
	// DefaultProjectPath is the default project path
	DefaultProjectPath = "."
	// DefaultTestPath is the directory holding the koan files
	DefaultTestPath = "koans"
	// DefaultOutputJSONFile is the default file name of the last run
	DefaultOutputJSONFile = "last-run.json"
	// DefaultOutputDir is the default directory for run results and history
	DefaultOutputDir = ".gokoans"
	// DefaultHistoryFile is the default sqlite history file name
	DefaultHistoryFile = "history.db"
	// DefaultProcessors is the default number of topics run at once
	DefaultProcessors = 4
	// DefaultGoBinary is the go command used to run koans
	DefaultGoBinary = "go"
	// DefaultTimeout bounds a single go test invocation
	DefaultTimeout = 2 * time.Minute
	// DefaultWatchDebounce is the quiet period before a watch re-run
	DefaultWatchDebounce = 300 * time.Millisecond
	// ConfigFileName is the config file looked up in the project path
	ConfigFileName = ".gokoans.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GOKOANS_PROCESSORS
	EnvPrefix = "GOKOANS"
)

// DefaultPath is the order in which topics are walked
var DefaultPath = []string{
	"about_asserts",
	"about_nil",
	"about_objects",
	"about_strings",
	"about_inheritance",
}

// DefaultPathsToIgnore are the default directories to ignore when scanning for koans
var DefaultPathsToIgnore = []string{
	"vendor",
	"testdata",
	"node_modules",
}
