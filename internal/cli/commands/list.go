package commands

import (
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gokoans/internal/discovery"
	"gokoans/internal/domain"
	"gokoans/internal/storage"
	"gokoans/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	env *Env
}

// NewListCommand creates a new ListCommand
func NewListCommand(env *Env) *ListCommand {
	return &ListCommand{env: env}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.env.Config

	topics, err := discover(cfg)
	if err != nil {
		if errors.Is(err, discovery.ErrNoKoans) {
			color.Yellow("No koans found")
			return nil
		}
		return err
	}

	ui.NewFormatter(cfg).PrintList(topics, cfg.Flags.TestCases, lc.lastStatuses())
	return nil
}

// lastStatuses returns the status of every koan in the last run, if any
func (lc *ListCommand) lastStatuses() map[string]domain.Status {
	run, err := storage.NewJSONStorage(lc.env.Config).Load()
	if err != nil {
		return nil
	}
	statuses := make(map[string]domain.Status, len(run.Results))
	for _, r := range run.Results {
		statuses[r.Koan.Name] = r.Status
	}
	for _, d := range run.Details {
		if d.Resolved {
			delete(statuses, d.KoanName)
		}
	}
	return statuses
}
