package database

import (
	"database/sql"
	"fmt"
)

// RunRepo handles database operations for pipeline run history
type RunRepo struct {
	db *DB
}

func NewRunRepository(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) RecordRun(run CrawlRun) error {
	_, err := r.db.Exec(`
		INSERT INTO crawl_runs (category, started_at, finished_at, total, published, rejected, duplicates, failed, invalid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Category, run.StartedAt.UTC(), run.FinishedAt.UTC(),
		run.Total, run.Published, run.Rejected, run.Duplicates, run.Failed, run.Invalid)

	if err != nil {
		return fmt.Errorf("failed to record crawl run: %w", err)
	}

	return nil
}

// GetRecent returns the most recent runs, newest first.
func (r *RunRepo) GetRecent(limit int) ([]CrawlRun, error) {
	rows, err := r.db.Query(`
		SELECT id, category, started_at, finished_at, total, published, rejected, duplicates, failed, invalid
		FROM crawl_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	defer rows.Close()

	var runs []CrawlRun
	for rows.Next() {
		var run CrawlRun
		err := rows.Scan(&run.ID, &run.Category, &run.StartedAt, &run.FinishedAt,
			&run.Total, &run.Published, &run.Rejected, &run.Duplicates, &run.Failed, &run.Invalid)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating run rows: %w", err)
	}

	return runs, nil
}

// GetLastRun returns the most recent run for a category, or nil when the
// category has never run.
func (r *RunRepo) GetLastRun(category string) (*CrawlRun, error) {
	var run CrawlRun
	err := r.db.QueryRow(`
		SELECT id, category, started_at, finished_at, total, published, rejected, duplicates, failed, invalid
		FROM crawl_runs
		WHERE category = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`, category).Scan(&run.ID, &run.Category, &run.StartedAt, &run.FinishedAt,
		&run.Total, &run.Published, &run.Rejected, &run.Duplicates, &run.Failed, &run.Invalid)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	return &run, nil
}
