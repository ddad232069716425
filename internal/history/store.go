package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akarlsen/rollcall/internal/report"
)

// Run is one journaled pipeline run.
type Run struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	Status         string
	InputCount     int
	GeneratedCount int
	WrittenCount   int
	FailedCount    int
	IssueCount     int
	InputDir       string
	OutputDir      string
}

// RunStore records and lists pipeline runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore over db.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Record journals one finished run built from its report.
func (s *RunStore) Record(ctx context.Context, rep *report.Report, startedAt time.Time, inputDir, outputDir string) (*Run, error) {
	run := &Run{
		ID:             uuid.NewString(),
		StartedAt:      startedAt,
		FinishedAt:     rep.GeneratedAt,
		Status:         string(rep.Status),
		InputCount:     rep.Summary.InputCount,
		GeneratedCount: rep.Summary.GeneratedCount,
		WrittenCount:   rep.Summary.WrittenFileCount,
		FailedCount:    rep.Summary.FailedFileCount,
		IssueCount:     len(rep.Issues),
		InputDir:       inputDir,
		OutputDir:      outputDir,
	}

	query := `INSERT INTO runs
		(id, started_at, finished_at, status, input_count, generated_count, written_count, failed_count, issue_count, input_dir, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Status,
		run.InputCount,
		run.GeneratedCount,
		run.WrittenCount,
		run.FailedCount,
		run.IssueCount,
		run.InputDir,
		run.OutputDir,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first.
func (s *RunStore) List(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, started_at, finished_at, status, input_count, generated_count, written_count, failed_count, issue_count, input_dir, output_dir
		FROM runs ORDER BY started_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(
			&run.ID, &started, &finished, &run.Status,
			&run.InputCount, &run.GeneratedCount, &run.WrittenCount,
			&run.FailedCount, &run.IssueCount, &run.InputDir, &run.OutputDir,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
