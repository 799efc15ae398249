package commands

import (
	"github.com/spf13/cobra"

	"gokoans/internal/history"
	"gokoans/internal/ui"
)

// HistoryCommand handles the history command
type HistoryCommand struct {
	env *Env
}

// NewHistoryCommand creates a new HistoryCommand
func NewHistoryCommand(env *Env) *HistoryCommand {
	return &HistoryCommand{env: env}
}

// Execute runs the command
func (hc *HistoryCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := hc.env.Config

	journal, err := history.Open(cmd.Context(), cfg.GetHistoryDSN(), hc.env.Logger)
	if err != nil {
		return err
	}
	defer journal.Close()

	entries, err := journal.List(cmd.Context(), cfg.Flags.Limit)
	if err != nil {
		return err
	}

	ui.NewFormatter(cfg).PrintHistory(entries)
	return nil
}
