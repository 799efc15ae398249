package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gokoans/internal/cli"
	"gokoans/internal/config"
	"gokoans/internal/discovery"
	"gokoans/internal/domain"
	"gokoans/internal/logging"
)

// skipConfigAnnotation marks commands that run without loading .gokoans.yaml
const skipConfigAnnotation = "gokoans/skip-config"

// Env is what every command shares once the root command has loaded the
// configuration and built the logger.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

// Load builds the logger and loads the config for the project, then lays the
// command-line flags over it.
func (e *Env) Load(flags *cli.Flags) error {
	logger, err := logging.New(flags.Verbose)
	if err != nil {
		return cli.Exit(cli.ExitConfigError, err)
	}
	e.Logger = logger

	cfg, err := config.Load(flags.ProjectPath, flags.ConfigFile)
	if err != nil {
		return cli.Exit(cli.ExitConfigError, err)
	}
	flags.Apply(cfg)
	e.Config = cfg

	e.Logger.Debug("config loaded",
		zap.String("project", cfg.ProjectPath),
		zap.String("koans", cfg.GetTestPath()),
		zap.Int("processors", cfg.Processors),
	)
	return nil
}

// Sync flushes the logger
func (e *Env) Sync() {
	if e.Logger != nil {
		_ = e.Logger.Sync()
	}
}

// Commands holds all CLI commands
type Commands struct {
	Meditate *MeditateCommand
	List     *ListCommand
	Reflect  *ReflectCommand
	Init     *InitCommand
	History  *HistoryCommand
}

// NewCommands creates all commands over a shared environment
func NewCommands(env *Env) *Commands {
	return &Commands{
		Meditate: NewMeditateCommand(env),
		List:     NewListCommand(env),
		Reflect:  NewReflectCommand(env),
		Init:     NewInitCommand(env),
		History:  NewHistoryCommand(env),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, env *Env) {
	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project", "C", config.DefaultProjectPath, "Project directory holding the koans")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Config file (default is <project>/"+config.ConfigFileName+")")
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log what happens under the hood")
	rootCmd.PersistentFlags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] != "" {
			logger, err := logging.New(flags.Verbose)
			if err != nil {
				return err
			}
			env.Logger = logger
			env.Config = config.New()
			flags.Apply(env.Config)
			return nil
		}
		return env.Load(flags)
	}
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		env.Sync()
	}

	// Meditate command
	meditateCmd := &cobra.Command{
		Use:     "meditate",
		Aliases: []string{"run"},
		Short:   "Walk the path to enlightenment",
		Long:    "Run the koans in path order and show the next one to meditate on",
		Args:    cobra.NoArgs,
		RunE:    c.Meditate.Execute,
	}
	meditateCmd.Flags().IntVarP(&flags.Processors, "processors", "p", 0, fmt.Sprintf("Number of topics run in parallel (default %d)", config.DefaultProcessors))
	meditateCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Folder where koan discovery starts")
	meditateCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter topics or koans by name (supports wildcards, e.g. 'about_str*' or '*Nil*')")
	meditateCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop at the first topic that has not passed")
	meditateCmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false, "Meditate again whenever a koan file is saved")
	meditateCmd.Flags().BoolVar(&flags.Reflect, "reflect", false, "Open the reflection viewer when koans remain")
	rootCmd.AddCommand(meditateCmd)

	// List command
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the topics on the path",
		Long:  "Scan and list all koan topics without running them",
		Args:  cobra.NoArgs,
		RunE:  c.List.Execute,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter topics or koans by name (supports wildcards)")
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Folder where koan discovery starts")
	listCmd.Flags().BoolVarP(&flags.TestCases, "koans", "c", false, "List the koans of every topic")
	rootCmd.AddCommand(listCmd)

	// Reflect command
	reflectCmd := &cobra.Command{
		Use:   "reflect",
		Short: "Reflect on the koans that did not pass",
		Long:  "Display the koans of the last run that did not pass in an interactive viewer",
		Args:  cobra.NoArgs,
		RunE:  c.Reflect.Execute,
	}
	rootCmd.AddCommand(reflectCmd)

	// Init command
	initCmd := &cobra.Command{
		Use:         "init <dir>",
		Short:       "Create a workspace to walk the path in",
		Long:        "Write the koans with their answers blanked out, a go.mod and a default " + config.ConfigFileName,
		Args:        cobra.ExactArgs(1),
		RunE:        c.Init.Execute,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
	}
	initCmd.Flags().StringVar(&c.Init.modulePath, "module", "", "Module path of the workspace (default is the directory name)")
	initCmd.Flags().BoolVar(&c.Init.force, "force", false, "Overwrite the koans of an existing workspace")
	initCmd.Flags().BoolVar(&c.Init.noTidy, "no-tidy", false, "Do not run go mod tidy in the new workspace")
	rootCmd.AddCommand(initCmd)

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show past meditations",
		Long:  "Display past runs recorded in the history journal, newest first",
		Args:  cobra.NoArgs,
		RunE:  c.History.Execute,
	}
	historyCmd.Flags().IntVarP(&flags.Limit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(historyCmd)
}

// discover finds the topics on the path, filtered by the name filter
func discover(cfg *config.Config) ([]domain.Topic, error) {
	files, err := discovery.NewScanner(cfg.PathsToIgnore).Scan(cfg.GetTestPath())
	if err != nil {
		return nil, err
	}

	topics, err := discovery.NewPathBuilder(cfg.Path, discovery.NewParser()).Build(files)
	if err != nil {
		return nil, err
	}

	topics = discovery.NewFilter().FilterTopics(topics, cfg.Flags.NameFilter)
	if len(discovery.Koans(topics)) == 0 {
		return nil, discovery.ErrNoKoans
	}
	return topics, nil
}
