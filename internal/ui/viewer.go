package ui

import "gokoans/internal/domain"

// Viewer displays the koans of the last run in an interactive TUI
type Viewer interface {
	View(run *domain.RunOutput) error
}
