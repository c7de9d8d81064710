package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/pagecrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pagecrawl.VisitService = (*VisitService)(nil)

// VisitService implements pagecrawl.VisitService using SQLite.
type VisitService struct {
	db *DB
}

// NewVisitService creates a new VisitService.
func NewVisitService(db *DB) *VisitService {
	return &VisitService{db: db}
}

// CreateRun stores a new run and assigns its ID.
func (s *VisitService) CreateRun(ctx context.Context, run *pagecrawl.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, base_url, started_at, finished_at, saved, empty, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.BaseURL, run.StartedAt.UTC().Format(time.RFC3339), formatOptionalTime(run.FinishedAt),
		run.Saved, run.Empty, run.Failed)

	return err
}

// FinishRun stores the final counters of a run.
func (s *VisitService) FinishRun(ctx context.Context, run *pagecrawl.Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, saved = ?, empty = ?, failed = ?
		WHERE id = ?
	`, formatOptionalTime(run.FinishedAt), run.Saved, run.Empty, run.Failed, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pagecrawl.Errorf(pagecrawl.ENOTFOUND, "run not found")
	}
	return nil
}

// FindRunByID retrieves a run by ID.
func (s *VisitService) FindRunByID(ctx context.Context, id string) (*pagecrawl.Run, error) {
	var run pagecrawl.Run
	var startedAt, finishedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, base_url, started_at, finished_at, saved, empty, failed
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.BaseURL, &startedAt, &finishedAt, &run.Saved, &run.Empty, &run.Failed)
	if err == sql.ErrNoRows {
		return nil, pagecrawl.Errorf(pagecrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseOptionalTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}

// RecordVisit stores the outcome of a single URL.
// Returns ENOTFOUND if the visit's run does not exist.
func (s *VisitService) RecordVisit(ctx context.Context, visit *pagecrawl.Visit) error {
	if err := visit.Validate(); err != nil {
		return err
	}

	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", visit.RunID).Scan(&exists)
	if err == sql.ErrNoRows {
		return pagecrawl.Errorf(pagecrawl.ENOTFOUND, "run not found")
	}
	if err != nil {
		return err
	}

	visit.ID = uuid.New().String()
	if visit.VisitedAt.IsZero() {
		visit.VisitedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO visits (id, run_id, url, depth, path, content_hash, status, attempts, error, visited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, visit.ID, visit.RunID, visit.URL, visit.Depth, visit.Path, visit.ContentHash,
		string(visit.Status), visit.Attempts, visit.Error, visit.VisitedAt.UTC().Format(time.RFC3339))

	return err
}

// FindVisits returns the visits of a run in the order they were recorded.
func (s *VisitService) FindVisits(ctx context.Context, runID string) ([]*pagecrawl.Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, url, depth, path, content_hash, status, attempts, error, visited_at
		FROM visits
		WHERE run_id = ?
		ORDER BY rowid ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []*pagecrawl.Visit
	for rows.Next() {
		var v pagecrawl.Visit
		var status, visitedAt string

		if err := rows.Scan(&v.ID, &v.RunID, &v.URL, &v.Depth, &v.Path, &v.ContentHash,
			&status, &v.Attempts, &v.Error, &visitedAt); err != nil {
			return nil, err
		}

		v.Status = pagecrawl.VisitStatus(status)
		if v.VisitedAt, err = parseRFC3339(visitedAt, "visited_at"); err != nil {
			return nil, err
		}
		visits = append(visits, &v)
	}

	return visits, rows.Err()
}
