package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gokoans/internal/blanker"
	"gokoans/internal/cli"
	"gokoans/internal/discovery"
	"gokoans/koans"
)

// InitCommand handles the init command
type InitCommand struct {
	env *Env

	modulePath string
	force      bool
	noTidy     bool
}

// NewInitCommand creates a new InitCommand
func NewInitCommand(env *Env) *InitCommand {
	return &InitCommand{env: env}
}

// Execute runs the command
func (ic *InitCommand) Execute(cmd *cobra.Command, args []string) error {
	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid workspace directory: %w", err)
	}

	generator := blanker.NewGenerator(koans.Sources, ic.env.Logger)
	ws, err := generator.Write(cmd.Context(), blanker.WorkspaceOptions{
		Dir:        dir,
		ModulePath: ic.modulePath,
		Force:      ic.force,
		Tidy:       !ic.noTidy,
		GoBinary:   ic.env.Config.GoBinary,
	})
	if err != nil {
		if errors.Is(err, blanker.ErrWorkspaceExists) {
			return cli.Exit(cli.ExitConfigError, fmt.Errorf("%w (use --force to start over)", err))
		}
		return err
	}

	color.Green("✓ Workspace written to %s", ws.Dir)
	topics := 0
	for _, f := range ws.Files {
		if discovery.IsKoanFile(f.Path) {
			topics++
		}
	}
	color.White("  %d topics, %d placeholders to fill in", topics, ws.Placeholders())
	if !ws.Tidy {
		color.Yellow("  Run 'go mod tidy' in the workspace to fetch testify.")
	}
	fmt.Println()
	color.Cyan("Begin with:")
	fmt.Printf("  cd %s && gokoans meditate\n", args[0])
	return nil
}
