package storage

import (
	"time"

	"gokoans/internal/config"
	"gokoans/internal/domain"
	"gokoans/internal/parser"
)

// Storage persists and loads the last run (e.g. for the reflect viewer).
type Storage interface {
	Save(collected []parser.Collected, duration time.Duration, workers int) (*domain.RunOutput, error)
	Load() (*domain.RunOutput, error)
	// SaveOutput writes the full output (e.g. after koans were marked resolved).
	SaveOutput(output *domain.RunOutput) error
}

// JSONStorage stores the last run in a JSON file under the configured output path.
type JSONStorage struct {
	cfg *config.Config
	now func() time.Time
}

// NewJSONStorage returns a Storage that reads/writes the config's output JSON path.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg, now: time.Now}
}
