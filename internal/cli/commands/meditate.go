package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gokoans/internal/cli"
	"gokoans/internal/discovery"
	"gokoans/internal/domain"
	"gokoans/internal/execution"
	"gokoans/internal/history"
	"gokoans/internal/parser"
	"gokoans/internal/storage"
	"gokoans/internal/ui"
	"gokoans/internal/watch"
)

// MeditateCommand handles the meditate command
type MeditateCommand struct {
	env *Env
	// newExecutor builds the executor of one meditation over the given
	// number of koans. The worker pool is used when nil.
	newExecutor func(p parser.Parser, koans int) execution.Executor
	viewer      ui.Viewer
}

// NewMeditateCommand creates a new MeditateCommand
func NewMeditateCommand(env *Env) *MeditateCommand {
	return &MeditateCommand{env: env}
}

// Execute runs the command
func (mc *MeditateCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run, err := mc.Meditate(ctx)
	if err != nil {
		if errors.Is(err, discovery.ErrNoKoans) {
			color.Yellow("No koans to meditate on")
			return nil
		}
		return err
	}

	cfg := mc.env.Config
	if cfg.Flags.Watch {
		return mc.watch(ctx)
	}

	if cfg.Flags.Reflect && !run.Meta.Enlightened() && len(run.Details) > 0 {
		if err := reflectionViewer(mc.viewer, mc.env).View(run); err != nil {
			return err
		}
	}

	return exitFor(run)
}

// Meditate runs the koans once: discover, execute, save, record and report.
func (mc *MeditateCommand) Meditate(ctx context.Context) (*domain.RunOutput, error) {
	cfg := mc.env.Config

	topics, err := discover(cfg)
	if err != nil {
		return nil, err
	}

	goTestParser := parser.NewGoTestParser()
	executor := mc.executor(goTestParser, len(discovery.Koans(topics)))

	results, duration, err := executor.Execute(ctx, topics)
	if err != nil {
		return nil, fmt.Errorf("meditation interrupted: %w", err)
	}

	collected := collect(goTestParser, topics, results)

	run, err := storage.NewJSONStorage(cfg).Save(collected, duration, cfg.Processors)
	if err != nil {
		return nil, fmt.Errorf("failed to save run: %w", err)
	}

	mc.record(ctx, run)

	formatter := ui.NewFormatter(cfg)
	formatter.PrintPath(run)
	if cfg.Flags.Verbose {
		formatter.PrintStats(run)
	}

	return run, nil
}

func (mc *MeditateCommand) executor(p parser.Parser, koans int) execution.Executor {
	if mc.newExecutor != nil {
		return mc.newExecutor(p, koans)
	}
	cfg, logger := mc.env.Config, mc.env.Logger
	pool := execution.NewWorkerPool(cfg, execution.NewRunner(cfg, logger), execution.NewRoundRobinScheduler(), p, logger)
	pool.SetProgress(ui.NewProgressBar(koans))
	return pool
}

// collect parses every topic result. Topics a fail-fast run never reached
// are reported with their koans not run.
func collect(p parser.Parser, topics []domain.Topic, results []domain.TopicResult) []parser.Collected {
	ran := make(map[string]bool, len(results))
	collected := make([]parser.Collected, 0, len(topics))
	for _, result := range results {
		ran[result.Topic.FilePath] = true
		collected = append(collected, p.Collect(result))
	}

	for _, topic := range topics {
		if ran[topic.FilePath] {
			continue
		}
		var skipped parser.Collected
		for _, koan := range topic.Koans {
			skipped.Results = append(skipped.Results, domain.KoanResult{Koan: koan, Status: domain.StatusNotRun})
		}
		collected = append(collected, skipped)
	}
	return collected
}

// record adds the run to the history journal. A journal that cannot be
// reached never fails the meditation.
func (mc *MeditateCommand) record(ctx context.Context, run *domain.RunOutput) {
	logger := mc.env.Logger

	journal, err := history.Open(ctx, mc.env.Config.GetHistoryDSN(), logger)
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer journal.Close()

	if _, err := journal.Record(ctx, run); err != nil {
		logger.Warn("failed to record run", zap.Error(err))
	}
}

func (mc *MeditateCommand) watch(ctx context.Context) error {
	cfg := mc.env.Config
	color.Cyan("Watching %s. Save a koan to meditate again, Ctrl+C to stop.", cfg.GetTestPath())

	w := watch.New(cfg.GetTestPath(), cfg.WatchDebounce, mc.env.Logger)
	return w.Run(ctx, func(ctx context.Context, changed []string) error {
		mc.env.Logger.Debug("meditating again", zap.Strings("changed", changed))
		_, err := mc.Meditate(ctx)
		if errors.Is(err, discovery.ErrNoKoans) {
			color.Yellow("No koans to meditate on")
			return nil
		}
		return err
	})
}

// exitFor returns the exit status of a finished run
func exitFor(run *domain.RunOutput) error {
	switch {
	case run.Compile != nil:
		return cli.Exit(cli.ExitCompileError, nil)
	case !run.Meta.Enlightened():
		return cli.Exit(cli.ExitKoansRemain, nil)
	}
	return nil
}
