// Package history keeps a journal of meditation runs in a SQL database.
// sqlite, MySQL and PostgreSQL are supported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gokoans/internal/domain"
	"gokoans/internal/logging"
)

// DefaultLimit is the number of runs List returns when no limit is given
const DefaultLimit = 10

// Entry is one recorded run
type Entry struct {
	RunID           string
	RecordedAt      time.Time
	TotalKoans      int
	PassedKoans     int
	FailedKoans     int
	UnfilledKoans   int
	CompileFailed   bool
	DurationSeconds float64
	Workers         int
	NextKoan        string
}

// Journal records runs and lists them back
type Journal struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
	now    func() time.Time
}

// Open connects to the journal database and migrates its schema
func Open(ctx context.Context, connStr string, logger *zap.Logger) (*Journal, error) {
	logger = logging.OrNop(logger)

	db, driver, err := openDatabase(ctx, connStr)
	if err != nil {
		return nil, err
	}

	applied, err := NewMigrator(db, driver).Run(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if len(applied) > 0 {
		logger.Debug("history schema migrated", zap.String("driver", driver), zap.Strings("migrations", applied))
	}

	return &Journal{db: db, driver: driver, logger: logger, now: time.Now}, nil
}

// Close closes the database connection
func (j *Journal) Close() error {
	if j.db != nil {
		return j.db.Close()
	}
	return nil
}

// Record stores a run. The koan the run stopped at is taken from its details.
func (j *Journal) Record(ctx context.Context, run *domain.RunOutput) (Entry, error) {
	entry := Entry{
		RunID:           run.Meta.RunID,
		RecordedAt:      j.now().UTC(),
		TotalKoans:      run.Meta.TotalKoans,
		PassedKoans:     run.Meta.PassedKoans,
		FailedKoans:     run.Meta.FailedKoans,
		UnfilledKoans:   run.Meta.UnfilledKoans,
		CompileFailed:   run.Meta.CompileFailed,
		DurationSeconds: run.Meta.DurationSeconds,
		Workers:         run.Meta.Workers,
	}
	if next := run.NextKoan(); next != nil {
		entry.NextKoan = next.KoanName
	}

	compileFailed := 0
	if entry.CompileFailed {
		compileFailed = 1
	}

	query := rebind(j.driver, `
		INSERT INTO gokoans_runs (
			run_id, recorded_at, total_koans, passed_koans, failed_koans,
			unfilled_koans, compile_failed, duration_seconds, workers, next_koan
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if _, err := j.db.ExecContext(ctx, query,
		entry.RunID, entry.RecordedAt.UnixNano(), entry.TotalKoans, entry.PassedKoans, entry.FailedKoans,
		entry.UnfilledKoans, compileFailed, entry.DurationSeconds, entry.Workers, entry.NextKoan,
	); err != nil {
		return Entry{}, fmt.Errorf("record run %s: %w", entry.RunID, err)
	}

	j.logger.Debug("run recorded", zap.String("run_id", entry.RunID))
	return entry, nil
}

// List returns up to limit runs, newest first
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := rebind(j.driver, `
		SELECT run_id, recorded_at, total_koans, passed_koans, failed_koans,
			unfilled_koans, compile_failed, duration_seconds, workers, next_koan
		FROM gokoans_runs
		ORDER BY recorded_at DESC
		LIMIT ?
	`)
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e             Entry
			recordedAt    int64
			compileFailed int
		)
		if err := rows.Scan(&e.RunID, &recordedAt, &e.TotalKoans, &e.PassedKoans, &e.FailedKoans,
			&e.UnfilledKoans, &compileFailed, &e.DurationSeconds, &e.Workers, &e.NextKoan); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		e.RecordedAt = time.Unix(0, recordedAt).UTC()
		e.CompileFailed = compileFailed != 0
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}
