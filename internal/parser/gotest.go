package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gokoans/internal/domain"
)

var (
	// about_strings_test.go:35: optional message
	locationPattern = regexp.MustCompile(`^\s*([\w.\-]+\.go):(\d+):\s?(.*)$`)
	// testify report fields: "\tError Trace:\t...", "\tMessages:   \t..."
	fieldPattern    = regexp.MustCompile(`^\s*(Error Trace|Error|Test|Messages):\s*(.*)$`)
	expectedPattern = regexp.MustCompile(`^expected\s*:\s?(.*)$`)
	actualPattern   = regexp.MustCompile(`^actual\s*:\s?(.*)$`)
	tracePattern    = regexp.MustCompile(`^(.+\.go):(\d+)$`)
	// goroutine dump frame: "\t/work/koans/about_nil_test.go:53 +0x2c"
	framePattern    = regexp.MustCompile(`^\s*(\S+\.go):(\d+)(?: \+0x[0-9a-f]+)?$`)
)

// GoTestParser parses go test -json output of koan runs
type GoTestParser struct{}

// NewGoTestParser creates a new GoTestParser
func NewGoTestParser() *GoTestParser {
	return &GoTestParser{}
}

// Collect matches the koans of a topic to what the run reported about them
func (p *GoTestParser) Collect(result domain.TopicResult) Collected {
	stream := Decode(result.Output)

	var collected Collected
	if stream.BuildFailed || (len(stream.Tests) == 0 && !result.Success && len(stream.BuildOutput) > 0) {
		output := stream.BuildOutput
		if len(output) == 0 {
			output = stream.PackageOutput
		}
		collected.Compile = &domain.CompileFailure{
			Package: stream.Package,
			Output:  output,
		}
		for _, koan := range result.Topic.Koans {
			collected.Results = append(collected.Results, domain.KoanResult{Koan: koan, Status: domain.StatusNotRun})
		}
		return collected
	}

	for _, koan := range result.Topic.Koans {
		outcome := stream.Tests[koan.Name]
		status := p.status(koan, outcome)

		elapsed := time.Duration(0)
		if outcome != nil {
			elapsed = time.Duration(outcome.Elapsed * float64(time.Second))
		}
		collected.Results = append(collected.Results, domain.KoanResult{
			Koan:    koan,
			Status:  status,
			Elapsed: elapsed,
		})

		switch status {
		case domain.StatusFailed:
			collected.Failures = append(collected.Failures, p.ParseFailure(koan, outcome, stream))
		case domain.StatusUnfilled:
			collected.Failures = append(collected.Failures, p.unfilled(koan))
		}
	}

	return collected
}

func (p *GoTestParser) status(koan domain.Koan, outcome *TestOutcome) domain.Status {
	if outcome == nil {
		return domain.StatusNotRun
	}
	switch outcome.Action {
	case actionPass:
		if koan.Unfilled() {
			return domain.StatusUnfilled
		}
		return domain.StatusPassed
	case actionSkip:
		return domain.StatusSkipped
	default:
		// fail, or a koan that started but never finished
		return domain.StatusFailed
	}
}

func (p *GoTestParser) unfilled(koan domain.Koan) domain.KoanFailure {
	noun := "placeholder"
	if koan.Placeholders != 1 {
		noun = "placeholders"
	}
	return domain.KoanFailure{
		KoanName: koan.Name,
		Topic:    koan.Topic,
		Order:    koan.Order,
		Status:   domain.StatusUnfilled,
		FilePath: koan.FilePath,
		File:     filepath.Base(koan.FilePath),
		Line:     koan.Line,
		Error:    fmt.Sprintf("%d %s left to fill in", koan.Placeholders, noun),
		Message:  "The koan passes, but only by accident. Replace every FillMeIn with the value you believe in.",
	}
}

// ParseFailure extracts the location, error, expected and actual values and
// message of a failed koan from its output.
func (p *GoTestParser) ParseFailure(koan domain.Koan, outcome *TestOutcome, stream *Stream) domain.KoanFailure {
	failure := domain.KoanFailure{
		KoanName: koan.Name,
		Topic:    koan.Topic,
		Order:    koan.Order,
		Status:   domain.StatusFailed,
		FilePath: koan.FilePath,
		File:     filepath.Base(koan.FilePath),
		Line:     koan.Line,
	}

	lines := splitLines(outcome.Output)
	failure.Output = lines

	var (
		field      string
		errorLines []string
		messages   []string
		located    bool
		traced     bool
		plainMsgs  []string
	)

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "=== "), strings.HasPrefix(trimmed, "--- "):
			field = ""
			continue
		case strings.HasPrefix(trimmed, "panic: "):
			field = ""
			if failure.Error == "" {
				failure.Error = trimmed
			}
			continue
		}

		if m := fieldPattern.FindStringSubmatch(line); m != nil && strings.HasPrefix(strings.TrimLeft(line, " "), "\t") {
			field = m[1]
			value := strings.TrimSpace(m[2])
			switch field {
			case "Error Trace":
				if !traced {
					traced = p.applyTrace(&failure, value)
				}
			case "Error":
				errorLines = append(errorLines, value)
			case "Messages":
				messages = append(messages, value)
			}
			continue
		}

		if m := locationPattern.FindStringSubmatch(line); m != nil && !located {
			located = true
			field = ""
			if !traced {
				failure.File = m[1]
				failure.Line, _ = strconv.Atoi(m[2])
			}
			if msg := strings.TrimSpace(m[3]); msg != "" {
				plainMsgs = append(plainMsgs, msg)
			}
			continue
		}

		switch field {
		case "Error":
			errorLines = append(errorLines, trimmed)
		case "Messages":
			messages = append(messages, trimmed)
		case "Error Trace", "Test":
			// stack frames of helpers and the test name add nothing
		default:
			if located && failure.Error == "" && len(errorLines) == 0 {
				plainMsgs = append(plainMsgs, trimmed)
			}
		}
	}

	for _, line := range errorLines {
		if m := expectedPattern.FindStringSubmatch(line); m != nil && failure.Expected == "" {
			failure.Expected = strings.TrimSpace(m[1])
			continue
		}
		if m := actualPattern.FindStringSubmatch(line); m != nil && failure.Actual == "" {
			failure.Actual = strings.TrimSpace(m[1])
		}
	}

	if len(errorLines) > 0 && failure.Error == "" {
		failure.Error = strings.TrimSpace(errorLines[0])
	}

	if !traced {
		dump := lines
		if outcome.Action == actionRun {
			dump = append(append([]string{}, lines...), splitLines(stream.PackageOutput)...)
		}
		if line, ok := panicFrame(dump, filepath.Base(koan.FilePath)); ok {
			failure.File = filepath.Base(koan.FilePath)
			failure.Line = line
		}
	}

	switch {
	case len(messages) > 0:
		failure.Message = strings.Join(messages, "\n")
	case len(plainMsgs) > 0:
		failure.Message = strings.Join(plainMsgs, "\n")
	}

	if failure.Error == "" && outcome.Action == actionRun {
		failure.Error = "the koan never finished"
		if len(stream.PackageOutput) > 0 {
			failure.Output = append(failure.Output, stream.PackageOutput...)
		}
	}
	if failure.Error == "" {
		failure.Error = "the koan failed"
	}

	return failure
}

// applyTrace takes the first frame of an Error Trace, which is where the
// failing assertion sits.
func (p *GoTestParser) applyTrace(failure *domain.KoanFailure, frame string) bool {
	m := tracePattern.FindStringSubmatch(frame)
	if m == nil {
		return false
	}
	line, err := strconv.Atoi(m[2])
	if err != nil {
		return false
	}
	failure.File = filepath.Base(m[1])
	failure.Line = line
	return true
}

// panicFrame returns the line of the innermost frame in file of the first
// goroutine dump that follows a panic.
func panicFrame(lines []string, file string) (int, bool) {
	panicked := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "panic: ") {
			panicked = true
			continue
		}
		if !panicked {
			continue
		}
		m := framePattern.FindStringSubmatch(line)
		if m == nil || filepath.Base(m[1]) != file {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil {
			return n, true
		}
	}
	return 0, false
}

func splitLines(output []string) []string {
	var lines []string
	for _, chunk := range output {
		lines = append(lines, strings.Split(chunk, "\n")...)
	}
	return lines
}
