package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"gokoans/internal/domain"
	"gokoans/internal/logging"
	"gokoans/internal/storage"
)

// maxOutputLines is how much raw koan output the details pane shows
const maxOutputLines = 15

// ReflectionViewer lets the learner reflect on the koans of the last run
// that did not pass, and mark them resolved.
type ReflectionViewer struct {
	storage storage.Storage
	logger  *zap.Logger
}

// NewReflectionViewer creates a new ReflectionViewer
func NewReflectionViewer(st storage.Storage, logger *zap.Logger) *ReflectionViewer {
	logger = logging.OrNop(logger)
	return &ReflectionViewer{
		storage: st,
		logger:  logger,
	}
}

// View displays the koans of a run in an interactive TUI
func (rv *ReflectionViewer) View(run *domain.RunOutput) error {
	if run.Compile != nil && len(run.Details) == 0 {
		color.Red("The koans do not compile. Meditate to see the compiler output.")
		return nil
	}
	if len(run.Details) == 0 {
		color.Green("✓ Nothing to reflect on. Every koan passed.")
		return nil
	}

	r := newReflection(run)
	r.onToggle = func() {
		if err := rv.storage.SaveOutput(run); err != nil {
			rv.logger.Warn("failed to save resolved koans", zap.Error(err))
		}
	}
	if err := r.app.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// reflection holds the panes of one viewing session. The koan list takes a
// third of the width, the selected koan's stats and details the rest.
type reflection struct {
	run      *domain.RunOutput
	app      *tview.Application
	header   *tview.TextView
	koans    *tview.List
	stats    *tview.TextView
	details  *tview.TextView
	onToggle func()
}

func newReflection(run *domain.RunOutput) *reflection {
	r := &reflection{
		run:     run,
		app:     tview.NewApplication(),
		header:  tview.NewTextView().SetTextAlign(tview.AlignCenter).SetDynamicColors(true),
		koans:   tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true),
		stats:   tview.NewTextView().SetDynamicColors(true).SetWrap(false),
		details: tview.NewTextView().SetDynamicColors(true).SetWrap(true).SetWordWrap(true),
	}

	for i := range run.Details {
		r.koans.AddItem(listItemText(run.Details[i], i), "", 0, nil)
	}
	r.koans.SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)
	r.koans.SetChangedFunc(func(int, string, string, rune) { r.refresh() })
	r.koans.SetInputCapture(r.listKeys)
	r.details.SetInputCapture(r.detailKeys)

	selected := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(r.stats, 3, 0, false).
		AddItem(tview.NewFlex().
			AddItem(r.details, 0, 1, false).
			AddItem(tview.NewBox(), 2, 0, false), 0, 1, false)
	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(r.header, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(tview.NewFlex().
			AddItem(r.koans, 0, 1, true).
			AddItem(selected, 0, 2, false), 0, 1, true)

	r.app.SetRoot(root, true).SetFocus(r.koans)
	r.refresh()
	return r
}

// refresh redraws the header and the panes of the selected koan
func (r *reflection) refresh() {
	r.header.SetText(headerText(r.run))
	index := r.koans.GetCurrentItem()
	if index < 0 || index >= len(r.run.Details) {
		return
	}
	koan := r.run.Details[index]
	r.koans.SetItemText(index, listItemText(koan, index), "")
	r.stats.SetText(formatKoanStats(koan))
	r.details.SetText(formatKoanDetails(koan)).ScrollToBeginning()
}

func (r *reflection) listKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEnter, tcell.KeyRight:
		r.app.SetFocus(r.details)
		return nil
	case tcell.KeyCtrlC:
		r.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'r', 'R':
			if toggleResolved(r.run, r.koans.GetCurrentItem()) {
				r.refresh()
				if r.onToggle != nil {
					r.onToggle()
				}
			}
			return nil
		case 'q':
			r.app.Stop()
			return nil
		}
	}
	return event
}

func (r *reflection) detailKeys(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyLeft, tcell.KeyEsc:
		r.app.SetFocus(r.koans)
		return nil
	case tcell.KeyCtrlC:
		r.app.Stop()
		return nil
	}
	return event
}

// toggleResolved flips the resolved mark of the koan at index. It reports
// false when index is not a koan of the run.
func toggleResolved(run *domain.RunOutput, index int) bool {
	if index < 0 || index >= len(run.Details) {
		return false
	}
	run.Details[index].Resolved = !run.Details[index].Resolved
	return true
}

func headerText(run *domain.RunOutput) string {
	unresolved := 0
	for _, koan := range run.Details {
		if !koan.Resolved {
			unresolved++
		}
	}
	return fmt.Sprintf(" Koans to reflect on (%d total, %d unresolved) | ↑↓ navigate, [yellow]R[white] mark resolved, → details, ← back, q quit ",
		len(run.Details), unresolved)
}

// listItemText renders a koan for the list using tview color tags
func listItemText(koan domain.KoanFailure, index int) string {
	name := koan.KoanName
	if name == "" {
		name = fmt.Sprintf("Koan %d", index+1)
	}
	if koan.Resolved {
		return fmt.Sprintf("[gray]✓ [yellow]%d.[gray] %s[white]", index+1, name)
	}
	marker := "[red]✗"
	if koan.Status == domain.StatusUnfilled {
		marker = "[yellow]?"
	}
	return fmt.Sprintf("%s [yellow]%d.[white] %s", marker, index+1, name)
}

// formatKoanDetails formats a koan for display using tview color tags
func formatKoanDetails(koan domain.KoanFailure) string {
	var builder strings.Builder

	if koan.Status == domain.StatusUnfilled {
		fmt.Fprintf(&builder, "[yellow]? Koan: %s[white]\n\n", koan.KoanName)
	} else {
		fmt.Fprintf(&builder, "[red]✗ Koan: %s[white]\n\n", koan.KoanName)
	}

	fmt.Fprintf(&builder, "[cyan]File: %s[white]\n", koan.FilePath)
	if koan.File != "" && koan.Line > 0 {
		fmt.Fprintf(&builder, "[yellow]Location: %s:%d[white]\n", koan.File, koan.Line)
	}
	builder.WriteString("\n")

	if koan.Message != "" {
		fmt.Fprintf(&builder, "[yellow]The Master says:[white]\n%s\n\n", tview.Escape(koan.Message))
	}

	if koan.Error != "" {
		fmt.Fprintf(&builder, "[yellow]Error:[white]\n%s\n\n", tview.Escape(koan.Error))
	}
	if koan.Expected != "" || koan.Actual != "" {
		fmt.Fprintf(&builder, "[green]expected:[white] %s\n", tview.Escape(koan.Expected))
		fmt.Fprintf(&builder, "[red]actual:  [white] %s\n\n", tview.Escape(koan.Actual))
	}

	if len(koan.Output) > 0 {
		builder.WriteString("[yellow]Output:[white]\n")
		for i, line := range koan.Output {
			if i == maxOutputLines {
				fmt.Fprintf(&builder, "  [gray]... and %d more lines[white]\n", len(koan.Output)-maxOutputLines)
				break
			}
			fmt.Fprintf(&builder, "  %s\n", tview.Escape(line))
		}
	}

	return builder.String()
}

// formatKoanStats formats the stats header for a koan
func formatKoanStats(koan domain.KoanFailure) string {
	topic := koan.Topic
	if topic == "" {
		topic = "unknown topic"
	}
	return fmt.Sprintf("[cyan]topic:[white] [yellow]%s[white] :: [yellow]%s[white] [gray](koan %d on the path)[white]\n",
		topic, koan.KoanName, koan.Order)
}
