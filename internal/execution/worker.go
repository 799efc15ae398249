package execution

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"gokoans/internal/config"
	"gokoans/internal/domain"
	"gokoans/internal/logging"
	"gokoans/internal/parser"
)

// WorkerPool manages a pool of workers for parallel topic execution
type WorkerPool struct {
	config    *config.Config
	runner    TopicRunner
	scheduler Scheduler
	progress  Progress
	parser    parser.Parser
	logger    *zap.Logger
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, runner TopicRunner, scheduler Scheduler, p parser.Parser, logger *zap.Logger) *WorkerPool {
	logger = logging.OrNop(logger)
	return &WorkerPool{
		config:    cfg,
		runner:    runner,
		scheduler: scheduler,
		parser:    p,
		logger:    logger,
	}
}

// SetProgress sets the progress reporter for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// Execute executes topics in parallel using the worker pool, failing fast
// when the --fail-fast flag is set.
func (wp *WorkerPool) Execute(ctx context.Context, topics []domain.Topic) ([]domain.TopicResult, time.Duration, error) {
	return wp.ExecuteWithOptions(ctx, topics, wp.config.Flags.FailFast)
}

// ExecuteWithOptions executes topics with optional fail-fast. With fail-fast
// no topic is started after one fails, and results end at the first topic on
// the path that did not pass. Results are returned in path order.
func (wp *WorkerPool) ExecuteWithOptions(ctx context.Context, topics []domain.Topic, failFast bool) ([]domain.TopicResult, time.Duration, error) {
	if len(topics) == 0 {
		return nil, 0, nil
	}

	var (
		results []domain.TopicResult
		elapsed time.Duration
	)
	if failFast {
		results, elapsed = wp.executeFailFast(ctx, topics)
	} else {
		results, elapsed = wp.executeAll(ctx, topics)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Topic.Order < results[j].Topic.Order
	})
	if failFast {
		results = wp.truncateAtFirstFailure(results)
	}

	var errs []error
	for _, result := range results {
		if result.Error != nil {
			errs = append(errs, result.Error)
		}
	}
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}

	return results, elapsed, errors.Join(errs...)
}

// executeAll deals the topics to workers and runs all of them.
func (wp *WorkerPool) executeAll(ctx context.Context, topics []domain.Topic) ([]domain.TopicResult, time.Duration) {
	buckets := wp.scheduler.Schedule(topics, wp.workerCount())
	results := make(chan domain.TopicResult, len(topics))
	tracker := &progressTracker{pool: wp}
	startTime := time.Now()

	var wg sync.WaitGroup
	for i, bucket := range buckets {
		wg.Add(1)
		go func(workerID int, bucket []domain.Topic) {
			defer wg.Done()
			for _, topic := range bucket {
				if ctx.Err() != nil {
					return
				}
				result := wp.runner.Run(ctx, topic, workerID)
				results <- result
				tracker.record(result)
			}
		}(i+1, bucket)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.TopicResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return allResults, time.Since(startTime)
}

// executeFailFast feeds topics in path order and stops feeding after the
// first failure. Topics already running are allowed to finish.
func (wp *WorkerPool) executeFailFast(ctx context.Context, topics []domain.Topic) ([]domain.TopicResult, time.Duration) {
	dispatch, stop := context.WithCancel(ctx)
	defer stop()

	topicQueue := make(chan domain.Topic)
	results := make(chan domain.TopicResult, len(topics))

	go func() {
		defer close(topicQueue)
		for _, topic := range topics {
			select {
			case <-dispatch.Done():
				return
			case topicQueue <- topic:
			}
		}
	}()

	tracker := &progressTracker{pool: wp}
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 1; i <= wp.workerCount(); i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for topic := range topicQueue {
				if dispatch.Err() != nil {
					continue
				}
				result := wp.runner.Run(ctx, topic, workerID)
				results <- result
				if !tracker.record(result) {
					wp.logger.Debug("stopping after failed topic", zap.String("topic", topic.Name))
					stop()
				}
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var allResults []domain.TopicResult
	for result := range results {
		allResults = append(allResults, result)
	}
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return allResults, time.Since(startTime)
}

func (wp *WorkerPool) truncateAtFirstFailure(results []domain.TopicResult) []domain.TopicResult {
	for i, result := range results {
		if !wp.passed(result) {
			return results[:i+1]
		}
	}
	return results
}

// passed reports whether every koan of the topic passed
func (wp *WorkerPool) passed(result domain.TopicResult) bool {
	if wp.parser == nil {
		return result.Success
	}
	collected := wp.parser.Collect(result)
	if collected.Compile != nil {
		return false
	}
	_, failed := collected.Counts()
	return failed == 0 && result.Success
}

func (wp *WorkerPool) workerCount() int {
	workerCount := wp.config.Processors
	if wp.config.Flags.Processors > 0 {
		workerCount = wp.config.Flags.Processors
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	return workerCount
}

// progressTracker accumulates koan counts across workers
type progressTracker struct {
	pool *WorkerPool

	mu        sync.Mutex
	completed int
	passed    int
	failed    int
}

// record adds the koans of a finished topic and reports whether it passed
func (t *progressTracker) record(result domain.TopicResult) bool {
	var passed, failed, completed int
	ok := result.Success
	if t.pool.parser != nil {
		collected := t.pool.parser.Collect(result)
		passed, failed = collected.Counts()
		completed = len(collected.Results)
		ok = ok && collected.Compile == nil && failed == 0
	} else {
		completed = len(result.Topic.Koans)
		if result.Success {
			passed = completed
		} else {
			failed = completed
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed += completed
	t.passed += passed
	t.failed += failed
	if t.pool.progress != nil {
		t.pool.progress.Update(t.completed, t.passed, t.failed)
	}
	return ok
}
