package main

import (
	"context"
	"fmt"
	"os"

	"gokoans/internal/cli"
	"gokoans/internal/cli/commands"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "gokoans",
		Short: "Walk the path to enlightenment in Go",
		Long: `gokoans runs the Go koans one failing test at a time. Each koan states a fact
about the language; fill in what it expects until the koan passes, then move on.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Shared config and logger, loaded before any command runs
	env := &commands.Env{}

	// Create and register all commands
	cmds := commands.NewCommands(env)
	cmds.Register(rootCmd, &flags, env)

	// Execute root command
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		env.Sync()
		if !cli.Silent(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.ExitCode(err))
	}
}
