package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gokoans/internal/storage"
	"gokoans/internal/ui"
)

// ReflectCommand handles the reflect command
type ReflectCommand struct {
	env    *Env
	viewer ui.Viewer
}

// NewReflectCommand creates a new ReflectCommand
func NewReflectCommand(env *Env) *ReflectCommand {
	return &ReflectCommand{env: env}
}

// Execute runs the command
func (rc *ReflectCommand) Execute(cmd *cobra.Command, args []string) error {
	st := storage.NewJSONStorage(rc.env.Config)
	run, err := st.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoRun) {
			color.Yellow("Nothing to reflect on yet. Meditate first.")
			return nil
		}
		return err
	}

	return reflectionViewer(rc.viewer, rc.env).View(run)
}

// reflectionViewer returns viewer, or the interactive viewer over the last
// run file when viewer is nil.
func reflectionViewer(viewer ui.Viewer, env *Env) ui.Viewer {
	if viewer != nil {
		return viewer
	}
	return ui.NewReflectionViewer(storage.NewJSONStorage(env.Config), env.Logger)
}
