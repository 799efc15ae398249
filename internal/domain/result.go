package domain

import "time"

// Status is the outcome of a single koan
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
	// StatusUnfilled marks a koan that passed with placeholders left in it.
	StatusUnfilled Status = "unfilled"
	StatusSkipped  Status = "skipped"
	// StatusNotRun marks koans of a package that did not build, or that a
	// fail-fast run never reached.
	StatusNotRun Status = "not_run"
)

// TopicResult represents the result of running the koans of one topic
type TopicResult struct {
	Topic    Topic         // Topic that was executed
	Success  bool          // Whether go test exited cleanly
	Output   string        // Raw test2json output
	Error    error         // Error if execution failed
	Duration time.Duration // Time taken to execute
}

// KoanResult is the outcome of one koan in a run
type KoanResult struct {
	Koan    Koan          `json:"koan"`
	Status  Status        `json:"status"`
	Elapsed time.Duration `json:"elapsed"`
}

// RunMeta contains metadata about a run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	TotalKoans      int     `json:"total_koans"`
	PassedKoans     int     `json:"passed_koans"`
	FailedKoans     int     `json:"failed_koans"`
	UnfilledKoans   int     `json:"unfilled_koans"`
	CompileFailed   bool    `json:"compile_failed"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	Workers         int     `json:"workers"`
	Timestamp       string  `json:"timestamp"`
}

// Enlightened reports whether every koan of the run passed
func (m RunMeta) Enlightened() bool {
	return !m.CompileFailed && m.TotalKoans > 0 && m.PassedKoans == m.TotalKoans
}

// RunOutput is the complete output structure for a run
type RunOutput struct {
	Meta    RunMeta         `json:"meta"`
	Results []KoanResult    `json:"results"`
	Details []KoanFailure   `json:"details"`
	Compile *CompileFailure `json:"compile,omitempty"`
}

// NextKoan returns the first unresolved koan on the path that has not
// passed, or nil when there is none. Details are kept in path order.
func (o *RunOutput) NextKoan() *KoanFailure {
	for i := range o.Details {
		if !o.Details[i].Resolved {
			return &o.Details[i]
		}
	}
	return nil
}
