package execution

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gokoans/internal/config"
	"gokoans/internal/domain"
	"gokoans/internal/parser"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRunner answers every koan with a canned test2json stream
type fakeRunner struct {
	mu      sync.Mutex
	failing map[string]bool
	ran     []string
}

func (f *fakeRunner) Run(_ context.Context, topic domain.Topic, _ int) domain.TopicResult {
	f.mu.Lock()
	f.ran = append(f.ran, topic.Name)
	fail := f.failing[topic.Name]
	f.mu.Unlock()

	action := "pass"
	if fail {
		action = "fail"
	}
	var b strings.Builder
	for _, koan := range topic.Koans {
		fmt.Fprintf(&b, `{"Action":"run","Package":"k","Test":%q}`+"\n", koan.Name)
		fmt.Fprintf(&b, `{"Action":%q,"Package":"k","Test":%q,"Elapsed":0}`+"\n", action, koan.Name)
	}
	return domain.TopicResult{Topic: topic, Success: !fail, Output: b.String()}
}

func (f *fakeRunner) ranTopics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ran...)
}

type recordingProgress struct {
	mu       sync.Mutex
	last     [3]int
	finished bool
}

func (p *recordingProgress) Update(completed, passed, failed int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = [3]int{completed, passed, failed}
}

func (p *recordingProgress) Finish() {
	p.finished = true
}

func pathTopics() []domain.Topic {
	names := []string{"about_asserts", "about_nil", "about_objects", "about_strings"}
	topics := make([]domain.Topic, 0, len(names))
	for i, name := range names {
		topic := domain.Topic{Name: name, Order: i + 1, FilePath: "/work/koans/" + name + "_test.go"}
		topic.Koans = []domain.Koan{
			{Name: fmt.Sprintf("Test%dA", i), Topic: name},
			{Name: fmt.Sprintf("Test%dB", i), Topic: name},
		}
		topics = append(topics, topic)
	}
	return topics
}

func newPool(runner TopicRunner, processors int) *WorkerPool {
	cfg := config.New()
	cfg.Processors = processors
	cfg.Flags.Processors = processors
	return NewWorkerPool(cfg, runner, NewRoundRobinScheduler(), parser.NewGoTestParser(), nil)
}

func TestWorkerPool_ExecuteRunsEveryTopicInPathOrder(t *testing.T) {
	runner := &fakeRunner{failing: map[string]bool{"about_nil": true}}
	pool := newPool(runner, 3)
	progress := &recordingProgress{}
	pool.SetProgress(progress)

	results, _, err := pool.Execute(context.Background(), pathTopics())

	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, result := range results {
		assert.Equal(t, i+1, result.Topic.Order)
	}
	assert.Equal(t, [3]int{8, 6, 2}, progress.last)
	assert.True(t, progress.finished)
}

func TestWorkerPool_FailFastStopsAtFirstFailingTopic(t *testing.T) {
	runner := &fakeRunner{failing: map[string]bool{"about_nil": true}}
	pool := newPool(runner, 1)

	results, _, err := pool.ExecuteWithOptions(context.Background(), pathTopics(), true)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "about_asserts", results[0].Topic.Name)
	assert.Equal(t, "about_nil", results[1].Topic.Name)
	assert.NotContains(t, runner.ranTopics(), "about_strings")
}

func TestWorkerPool_ExecuteFollowsFailFastFlag(t *testing.T) {
	runner := &fakeRunner{failing: map[string]bool{"about_asserts": true}}
	pool := newPool(runner, 1)
	pool.config.Flags.FailFast = true

	var executor Executor = pool
	results, _, err := executor.Execute(context.Background(), pathTopics())

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "about_asserts", results[0].Topic.Name)
}

func TestWorkerPool_FailFastWithoutFailuresRunsEverything(t *testing.T) {
	runner := &fakeRunner{}
	pool := newPool(runner, 2)

	results, _, err := pool.ExecuteWithOptions(context.Background(), pathTopics(), true)

	require.NoError(t, err)
	assert.Len(t, results, 4)
}

func TestWorkerPool_EmptyPath(t *testing.T) {
	results, elapsed, err := newPool(&fakeRunner{}, 2).Execute(context.Background(), nil)

	assert.NoError(t, err)
	assert.Nil(t, results)
	assert.Zero(t, elapsed)
}

func TestWorkerPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newPool(&fakeRunner{}, 2).Execute(ctx, pathTopics())

	assert.ErrorIs(t, err, context.Canceled)
}
