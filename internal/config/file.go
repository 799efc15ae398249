package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the on-disk form of .gokoans.yaml
type File struct {
	TestPath   string      `yaml:"test_path"`
	Path       []string    `yaml:"path"`
	Processors int         `yaml:"processors"`
	Output     FileOutput  `yaml:"output"`
	History    FileHistory `yaml:"history"`
	Go         FileGo      `yaml:"go"`
	Watch      FileWatch   `yaml:"watch"`
	Ignore     []string    `yaml:"ignore"`
}

type FileOutput struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

type FileHistory struct {
	DSN string `yaml:"dsn"`
}

type FileGo struct {
	Binary  string   `yaml:"binary"`
	Flags   []string `yaml:"flags"`
	Timeout string   `yaml:"timeout"`
}

type FileWatch struct {
	Debounce string `yaml:"debounce"`
}

// ToFile returns the config in its on-disk form
func (c *Config) ToFile() File {
	return File{
		TestPath:   c.TestPath,
		Path:       c.Path,
		Processors: c.Processors,
		Output:     FileOutput{Dir: c.OutputDir, File: c.OutputJSONFile},
		History:    FileHistory{DSN: c.HistoryDSN},
		Go: FileGo{
			Binary:  c.GoBinary,
			Flags:   c.GoFlags,
			Timeout: c.Timeout.String(),
		},
		Watch:  FileWatch{Debounce: c.WatchDebounce.String()},
		Ignore: c.PathsToIgnore,
	}
}

// Marshal renders the config as .gokoans.yaml content
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c.ToFile())
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}
