package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"gokoans/internal/config"
	"gokoans/internal/domain"
	"gokoans/internal/history"
)

// progressWidth is the number of marks in the path progress line
const progressWidth = 50

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to stdout
func NewFormatter(cfg *config.Config) *Formatter {
	return NewFormatterTo(cfg, os.Stdout)
}

// NewFormatterTo creates a new Formatter writing to out
func NewFormatterTo(cfg *config.Config, out io.Writer) *Formatter {
	if cfg.NoColor {
		color.NoColor = true
	}
	return &Formatter{config: cfg, out: out}
}

// PrintPath reports where the learner stands: the koan to meditate on next,
// or enlightenment.
func (f *Formatter) PrintPath(run *domain.RunOutput) {
	meta := run.Meta
	fmt.Fprintln(f.out)

	switch {
	case run.Compile != nil:
		f.printCompileFailure(run.Compile)
	case meta.Enlightened():
		fmt.Fprintln(f.out, color.GreenString("Mountains are again merely mountains."))
		fmt.Fprintln(f.out, color.GreenString("You have walked all %d koans. The path is yours.", meta.TotalKoans))
	default:
		if next := run.NextKoan(); next != nil {
			f.printNextKoan(next)
		} else {
			fmt.Fprintln(f.out, color.YellowString("Every koan that did not pass was marked resolved. Meditate again to see where you stand."))
		}
	}

	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, f.ProgressLine(meta))
	fmt.Fprintln(f.out)
}

func (f *Formatter) printNextKoan(koan *domain.KoanFailure) {
	fmt.Fprintf(f.out, "%s %s\n", color.CyanString("Thinking"), color.CyanString(koan.Topic))
	if koan.Status == domain.StatusUnfilled {
		fmt.Fprintf(f.out, "  %s %s\n", color.YellowString(koan.KoanName), color.YellowString("is still waiting for you."))
	} else {
		fmt.Fprintf(f.out, "  %s %s\n", color.RedString(koan.KoanName), color.RedString("has damaged your karma."))
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "The Master says:")
	fmt.Fprintln(f.out, color.CyanString("  You have not yet reached enlightenment."))
	if koan.Message != "" {
		for _, line := range strings.Split(koan.Message, "\n") {
			fmt.Fprintf(f.out, "  %s\n", color.CyanString(line))
		}
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "The answers you seek...")
	fmt.Fprintf(f.out, "  %s\n", color.RedString(koan.Error))
	if koan.Expected != "" || koan.Actual != "" {
		fmt.Fprintf(f.out, "  %s %s\n", color.WhiteString("expected:"), koan.Expected)
		fmt.Fprintf(f.out, "  %s %s\n", color.WhiteString("actual:  "), koan.Actual)
	}
	fmt.Fprintln(f.out)

	fmt.Fprintln(f.out, "Please meditate on the following code:")
	fmt.Fprintf(f.out, "  %s\n", color.YellowString("%s:%d", f.relPath(koan.FilePath, koan.File), koan.Line))
}

func (f *Formatter) printCompileFailure(failure *domain.CompileFailure) {
	fmt.Fprintln(f.out, color.RedString("The koans do not compile. No koan can be judged until they do."))
	if failure.Package != "" {
		fmt.Fprintf(f.out, "%s %s\n", color.WhiteString("package:"), failure.Package)
	}
	fmt.Fprintln(f.out)
	for _, line := range failure.Output {
		fmt.Fprintf(f.out, "  %s\n", color.RedString(line))
	}
}

// ProgressLine renders the "your path thus far" line of a run
func (f *Formatter) ProgressLine(meta domain.RunMeta) string {
	done := 0
	if meta.TotalKoans > 0 {
		done = meta.PassedKoans * progressWidth / meta.TotalKoans
	}
	bar := color.GreenString(strings.Repeat(".", done)) + strings.Repeat("_", progressWidth-done)
	return fmt.Sprintf("your path thus far [%s] %d/%d", bar, meta.PassedKoans, meta.TotalKoans)
}

// PrintStats displays the statistics of a run
func (f *Formatter) PrintStats(run *domain.RunOutput) {
	meta := run.Meta

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬─────────────────────────────┐")
	f.printStatsRow("Total Koans", fmt.Sprintf("%d", meta.TotalKoans), color.WhiteString)
	f.printStatsRow("Passed Koans", fmt.Sprintf("%d", meta.PassedKoans), color.GreenString)
	f.printStatsRow("Failed Koans", fmt.Sprintf("%d", meta.FailedKoans), color.RedString)
	f.printStatsRow("Unfilled Koans", fmt.Sprintf("%d", meta.UnfilledKoans), color.YellowString)
	f.printStatsRow("Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds), color.WhiteString)
	f.printStatsRow("Workers", fmt.Sprintf("%d", meta.Workers), color.WhiteString)
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", "Timestamp", color.WhiteString("%-27s", meta.Timestamp))
	fmt.Fprintln(f.out, "└─────────────────────────────────┴─────────────────────────────┘")
}

func (f *Formatter) printStatsRow(label, value string, paint func(string, ...interface{}) string) {
	fmt.Fprintf(f.out, "│ %-31s │ %s │\n", label, paint("%-27s", value))
	fmt.Fprintln(f.out, "├─────────────────────────────────┼─────────────────────────────┤")
}

// PrintList prints the topics on the path, optionally with their koans.
// statuses is optional; koans found in it are marked [F] (failed) or [U]
// (unfilled) from the last run, and their topics likewise.
func (f *Formatter) PrintList(topics []domain.Topic, showKoans bool, statuses map[string]domain.Status) {
	total := 0
	for _, topic := range topics {
		total += len(topic.Koans)
	}
	if showKoans {
		fmt.Fprintln(f.out, color.GreenString("Found %d topic(s) with %d koan(s):", len(topics), total))
	} else {
		fmt.Fprintln(f.out, color.GreenString("Found %d topic(s):", len(topics)))
	}
	fmt.Fprintln(f.out)

	for i, topic := range topics {
		isLastTopic := i == len(topics)-1
		connector := "├── "
		if isLastTopic {
			connector = "└── "
		}
		fmt.Fprintf(f.out, "%s%s%s\n", connector, color.CyanString("%s (%d)", topic.Name, len(topic.Koans)), topicMarker(topic, statuses))

		if !showKoans {
			continue
		}

		if len(topic.Koans) == 0 {
			fmt.Fprintf(f.out, "%s%s\n", childPrefix(isLastTopic, true), color.RedString("(no koans found)"))
		}
		for j, koan := range topic.Koans {
			isLastKoan := j == len(topic.Koans)-1
			fmt.Fprintf(f.out, "%s%s%s\n", childPrefix(isLastTopic, isLastKoan), color.YellowString(koan.Name), statusMarker(statuses[koan.Name]))
		}

		// Add spacing between topics (except for the last one)
		if !isLastTopic {
			fmt.Fprintln(f.out)
		}
	}
}

func childPrefix(isLastParent, isLastChild bool) string {
	switch {
	case isLastParent && isLastChild:
		return "    └── "
	case isLastParent:
		return "    ├── "
	case isLastChild:
		return "│   └── "
	default:
		return "│   ├── "
	}
}

// topicMarker marks a topic with its worst koan status
func topicMarker(topic domain.Topic, statuses map[string]domain.Status) string {
	worst := domain.Status("")
	for _, koan := range topic.Koans {
		switch statuses[koan.Name] {
		case domain.StatusFailed:
			worst = domain.StatusFailed
		case domain.StatusUnfilled:
			if worst == "" {
				worst = domain.StatusUnfilled
			}
		}
	}
	return statusMarker(worst)
}

func statusMarker(status domain.Status) string {
	switch status {
	case domain.StatusFailed:
		return " " + color.RedString("[F]")
	case domain.StatusUnfilled:
		return " " + color.YellowString("[U]")
	}
	return ""
}

// PrintHistory prints past runs, newest first
func (f *Formatter) PrintHistory(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(f.out, color.YellowString("No runs recorded yet. Meditate first."))
		return
	}

	w := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPASSED\tFAILED\tUNFILLED\tDURATION\tNEXT KOAN")
	for _, e := range entries {
		next := e.NextKoan
		switch {
		case e.CompileFailed:
			next = "(does not compile)"
		case next == "" && e.PassedKoans == e.TotalKoans:
			next = "(enlightened)"
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%d\t%d\t%.2fs\t%s\n",
			e.RecordedAt.Local().Format("2006-01-02 15:04:05"),
			e.PassedKoans, e.TotalKoans, e.FailedKoans, e.UnfilledKoans, e.DurationSeconds, next)
	}
	w.Flush()
}

// relPath shows a koan file relative to the project when possible
func (f *Formatter) relPath(path, file string) string {
	if path == "" {
		return file
	}
	if rel, err := filepath.Rel(f.config.ProjectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		path = rel
	}
	// The reported line may sit in a helper file of the same package
	if file != "" && filepath.Base(path) != file {
		return filepath.Join(filepath.Dir(path), file)
	}
	return path
}
