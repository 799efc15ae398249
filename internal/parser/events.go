package parser

import (
	"bufio"
	"strings"

	"github.com/tidwall/gjson"
)

// test2json actions
const (
	actionRun         = "run"
	actionPass        = "pass"
	actionFail        = "fail"
	actionSkip        = "skip"
	actionOutput      = "output"
	actionBuildOutput = "build-output"
	actionBuildFail   = "build-fail"
)

// TestOutcome is what the event stream says about one top-level test
type TestOutcome struct {
	Name    string
	Action  string // last terminal action, or "run" when none arrived
	Elapsed float64
	Output  []string
}

// Stream is a decoded go test -json stream
type Stream struct {
	Tests       map[string]*TestOutcome
	Package     string
	BuildFailed bool
	// BuildOutput holds compiler output, whether it arrived as build-output
	// events or as plain lines mixed into the stream.
	BuildOutput []string
	// PackageOutput holds output not attributed to a test, e.g. a panic
	// that brought the whole binary down.
	PackageOutput []string
}

// Decode reads a go test -json stream. Lines that are not JSON events are
// kept as build output.
func Decode(raw string) *Stream {
	stream := &Stream{Tests: make(map[string]*TestOutcome)}

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, "{") || !gjson.Valid(line) {
			stream.BuildOutput = append(stream.BuildOutput, line)
			continue
		}
		stream.apply(gjson.Parse(line))
	}

	return stream
}

func (s *Stream) apply(event gjson.Result) {
	action := event.Get("Action").String()
	output := strings.TrimRight(event.Get("Output").String(), "\n")

	if pkg := event.Get("Package").String(); pkg != "" && s.Package == "" {
		s.Package = pkg
	}

	switch action {
	case actionBuildOutput:
		s.BuildOutput = append(s.BuildOutput, output)
		if s.Package == "" {
			// "example.com/koans [example.com/koans.test]"
			importPath, _, _ := strings.Cut(event.Get("ImportPath").String(), " ")
			s.Package = importPath
		}
		return
	case actionBuildFail:
		s.BuildFailed = true
		return
	}

	name := event.Get("Test").String()
	if name == "" {
		switch action {
		case actionOutput:
			s.PackageOutput = append(s.PackageOutput, output)
			if strings.Contains(output, "[build failed]") || strings.Contains(output, "[setup failed]") {
				s.BuildFailed = true
			}
		case actionFail:
			if event.Get("FailedBuild").Exists() {
				s.BuildFailed = true
			}
		}
		return
	}

	// Subtests belong to the koan that started them
	if idx := strings.Index(name, "/"); idx >= 0 {
		name = name[:idx]
		if action != actionOutput {
			return
		}
	}

	outcome, ok := s.Tests[name]
	if !ok {
		outcome = &TestOutcome{Name: name, Action: actionRun}
		s.Tests[name] = outcome
	}

	switch action {
	case actionOutput:
		outcome.Output = append(outcome.Output, output)
	case actionPass, actionFail, actionSkip:
		outcome.Action = action
		outcome.Elapsed = event.Get("Elapsed").Float()
	}
}
