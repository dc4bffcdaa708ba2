package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes. Databases with a
// different version are rejected; `tikcut history clear` recreates them.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match
// the version this binary expects.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

// Job statuses, in pipeline order.
const (
	StatusPending      = "pending"
	StatusDownloading  = "downloading"
	StatusTranscribing = "transcribing"
	StatusRendering    = "rendering"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
)

// Job is one processed (or attempted) video.
type Job struct {
	ID           int64
	VideoID      string
	URL          string
	Title        string
	Status       string
	OutputPath   string
	ErrorMessage string
	SessionID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store persists per-video job records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	s := &Store{db: db, path: dbPath}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Add inserts a new pending job and returns it.
func (s *Store) Add(ctx context.Context, videoID, url, sessionID string) (*Job, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (video_id, url, status, session_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		videoID, url, StatusPending, sessionID, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// SetStatus advances a job through the pipeline stages.
func (s *Store) SetStatus(ctx context.Context, id int64, status string) error {
	return s.update(ctx, id, "status = ?", status)
}

// SetTitle records the probed video title.
func (s *Store) SetTitle(ctx context.Context, id int64, title string) error {
	return s.update(ctx, id, "title = ?", title)
}

// MarkCompleted finalizes a successful job.
func (s *Store) MarkCompleted(ctx context.Context, id int64, outputPath string) error {
	return s.update(ctx, id, "status = ?, output_path = ?", StatusCompleted, outputPath)
}

// MarkFailed finalizes a failed job with its error message.
func (s *Store) MarkFailed(ctx context.Context, id int64, msg string) error {
	return s.update(ctx, id, "status = ?, error_message = ?", StatusFailed, msg)
}

// FindCompleted returns the most recent completed job for the video ID,
// or nil when none exists. The batch uses it to skip already-done videos.
func (s *Store) FindCompleted(ctx context.Context, videoID string) (*Job, error) {
	row := s.db.QueryRowContext(ctx,
		selectJob+` WHERE video_id = ? AND status = ? ORDER BY id DESC LIMIT 1`,
		videoID, StatusCompleted,
	)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

// GetByID fetches a single job.
func (s *Store) GetByID(ctx context.Context, id int64) (*Job, error) {
	row := s.db.QueryRowContext(ctx, selectJob+` WHERE id = ?`, id)
	return scanJob(row)
}

// List returns the most recent jobs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, selectJob+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Clear removes every job record.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

const selectJob = `SELECT id, video_id, url, title, status, output_path, error_message, session_id, created_at, updated_at FROM jobs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (*Job, error) {
	var job Job
	var created, updated string
	err := r.Scan(&job.ID, &job.VideoID, &job.URL, &job.Title, &job.Status,
		&job.OutputPath, &job.ErrorMessage, &job.SessionID, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	job.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	job.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &job, nil
}

func (s *Store) update(ctx context.Context, id int64, set string, args ...any) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	args = append(args, now, id)
	res, err := s.db.ExecContext(ctx, `UPDATE jobs SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job %d not found", id)
	}
	return nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start over)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
