package execution

import (
	"context"
	"time"

	"gokoans/internal/domain"
)

// Executor executes koan topics and returns results
type Executor interface {
	Execute(ctx context.Context, topics []domain.Topic) ([]domain.TopicResult, time.Duration, error)
}

// TopicRunner runs the koans of a single topic
type TopicRunner interface {
	Run(ctx context.Context, topic domain.Topic, workerID int) domain.TopicResult
}

// Progress receives updates while koans complete
type Progress interface {
	Update(completed, passed, failed int)
	Finish()
}
