package execution

import (
	"sort"

	"gokoans/internal/domain"
)

// Scheduler distributes topics across workers
type Scheduler interface {
	Schedule(topics []domain.Topic, workerCount int) [][]domain.Topic
}

// RoundRobinScheduler distributes topics evenly across workers
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes topics evenly across workers using round-robin.
// Topics with the most koans are dealt first so that the buckets balance.
func (s *RoundRobinScheduler) Schedule(topics []domain.Topic, workerCount int) [][]domain.Topic {
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(topics) && len(topics) > 0 {
		workerCount = len(topics)
	}

	sorted := make([]domain.Topic, len(topics))
	copy(sorted, topics)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Koans) > len(sorted[j].Koans)
	})

	distribution := make([][]domain.Topic, workerCount)
	for i := range distribution {
		distribution[i] = make([]domain.Topic, 0)
	}

	for i, topic := range sorted {
		workerIndex := i % workerCount
		distribution[workerIndex] = append(distribution[workerIndex], topic)
	}

	return distribution
}
