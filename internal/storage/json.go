package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"gokoans/internal/domain"
	"gokoans/internal/parser"
)

// ErrNoRun is returned by Load when no koans were run yet
var ErrNoRun = errors.New("no run recorded yet, meditate first")

// Build assembles the output of a run from what each topic revealed.
// Results and details are kept in path order.
func Build(collected []parser.Collected, duration time.Duration, workers int, now time.Time) *domain.RunOutput {
	output := &domain.RunOutput{
		Results: []domain.KoanResult{},
		Details: []domain.KoanFailure{},
	}

	for _, c := range collected {
		output.Results = append(output.Results, c.Results...)
		output.Details = append(output.Details, c.Failures...)
		if c.Compile != nil && output.Compile == nil {
			output.Compile = c.Compile
		}
	}

	sort.SliceStable(output.Results, func(i, j int) bool {
		return output.Results[i].Koan.Order < output.Results[j].Koan.Order
	})
	sort.SliceStable(output.Details, func(i, j int) bool {
		return output.Details[i].Order < output.Details[j].Order
	})

	meta := domain.RunMeta{
		RunID:           uuid.NewString(),
		TotalKoans:      len(output.Results),
		CompileFailed:   output.Compile != nil,
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		Workers:         workers,
		Timestamp:       now.Format(time.RFC3339),
	}
	for _, r := range output.Results {
		switch r.Status {
		case domain.StatusPassed:
			meta.PassedKoans++
		case domain.StatusFailed:
			meta.FailedKoans++
		case domain.StatusUnfilled:
			meta.UnfilledKoans++
		}
	}
	output.Meta = meta

	return output
}

// Save writes the run to the configured JSON output file and returns it.
func (s *JSONStorage) Save(collected []parser.Collected, duration time.Duration, workers int) (*domain.RunOutput, error) {
	output := Build(collected, duration, workers, s.now())
	if err := s.SaveOutput(output); err != nil {
		return nil, err
	}
	return output, nil
}

// Load reads the last run from the configured JSON output file.
func (s *JSONStorage) Load() (*domain.RunOutput, error) {
	path := s.cfg.GetOutputPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoRun
		}
		return nil, fmt.Errorf("read results file: %w", err)
	}
	var output domain.RunOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return &output, nil
}

// SaveOutput writes the full output to the configured JSON file (e.g. after
// koans were marked resolved in the viewer).
func (s *JSONStorage) SaveOutput(output *domain.RunOutput) error {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	path := s.cfg.GetOutputPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
