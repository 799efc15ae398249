package cli

import "gokoans/internal/config"

// Flags holds command-line flags
type Flags struct {
	ProjectPath string
	ConfigFile  string
	Processors  int
	TestPath    string
	NameFilter  string
	TestCases   bool
	FailFast    bool
	Watch       bool
	Reflect     bool
	Verbose     bool
	NoColor     bool
	Limit       int
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors: f.Processors,
		TestPath:   f.TestPath,
		NameFilter: f.NameFilter,
		TestCases:  f.TestCases,
		FailFast:   f.FailFast,
		Watch:      f.Watch,
		Reflect:    f.Reflect,
		Verbose:    f.Verbose,
		Limit:      f.Limit,
	}
}

// Apply lays the flags over a loaded config. Flags win over the config file
// and the environment.
func (f *Flags) Apply(cfg *config.Config) {
	cfg.Flags = f.ToConfigFlags()
	if f.Processors > 0 {
		cfg.Processors = f.Processors
	} else {
		cfg.Flags.Processors = cfg.Processors
	}
	if f.NoColor {
		cfg.NoColor = true
	}
}
