package parser

import "gokoans/internal/domain"

// Parser turns the raw output of a topic run into koan outcomes
type Parser interface {
	Collect(result domain.TopicResult) Collected
}

// Collected holds everything one topic run revealed
type Collected struct {
	Results  []domain.KoanResult
	Failures []domain.KoanFailure
	Compile  *domain.CompileFailure
}

// Counts returns how many koans passed and how many did not
func (c Collected) Counts() (passed, failed int) {
	for _, r := range c.Results {
		switch r.Status {
		case domain.StatusPassed:
			passed++
		case domain.StatusFailed, domain.StatusUnfilled:
			failed++
		}
	}
	return passed, failed
}
