package execution

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"gokoans/internal/config"
	"gokoans/internal/domain"
	"gokoans/internal/logging"
)

// Runner executes go test for the koans of a single topic
type Runner struct {
	config *config.Config
	logger *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, logger *zap.Logger) *Runner {
	logger = logging.OrNop(logger)
	return &Runner{config: cfg, logger: logger}
}

// Args returns the go test arguments that run exactly the koans of topic
func (r *Runner) Args(topic domain.Topic) []string {
	args := []string{"test", "-json", "-count=1"}
	if r.config.Timeout > 0 {
		args = append(args, "-timeout", r.config.Timeout.String())
	}
	args = append(args, r.config.GoFlags...)
	args = append(args, "-run", RunPattern(topic.KoanNames()))
	args = append(args, r.config.PackagePattern(filepath.Dir(topic.FilePath)))
	return args
}

// RunPattern builds a -run expression matching exactly the given test names
func RunPattern(names []string) string {
	quoted := make([]string, 0, len(names))
	for _, name := range names {
		quoted = append(quoted, regexp.QuoteMeta(name))
	}
	return "^(" + strings.Join(quoted, "|") + ")$"
}

// Run executes go test for the koans of one topic
func (r *Runner) Run(ctx context.Context, topic domain.Topic, workerID int) domain.TopicResult {
	if r.config.Timeout > 0 {
		// go test reports its own timeout first; this only catches a hung toolchain
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout+30*time.Second)
		defer cancel()
	}

	args := r.Args(topic)
	cmd := exec.CommandContext(ctx, r.config.GoBinary, args...)

	// Set environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("GOKOANS_WORKER=%d", workerID))

	// Set working directory
	cmd.Dir = r.config.ProjectPath

	r.logger.Debug("running topic",
		zap.String("topic", topic.Name),
		zap.Int("worker", workerID),
		zap.Strings("args", args),
	)

	start := time.Now()
	output, err := cmd.CombinedOutput()
	elapsed := time.Since(start)

	result := domain.TopicResult{
		Topic:    topic,
		Success:  err == nil,
		Output:   string(output),
		Duration: elapsed,
	}

	// A non-zero exit is how go test reports failing koans
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		result.Error = fmt.Errorf("running %s %s: %w", r.config.GoBinary, strings.Join(args, " "), err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.Error = fmt.Errorf("topic %s: %w", topic.Name, ctxErr)
	}

	r.logger.Debug("topic finished",
		zap.String("topic", topic.Name),
		zap.Bool("success", result.Success),
		zap.Duration("elapsed", elapsed),
		zap.Error(result.Error),
	)

	return result
}
