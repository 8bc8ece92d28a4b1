package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/khrees2412/hireflow/internal/apperr"
	"github.com/khrees2412/hireflow/internal/logger"
	"github.com/khrees2412/hireflow/internal/workflow"
)

// Store is the SQLite implementation of workflow.Store
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

var _ workflow.Store = (*Store)(nil)

// DSN builds the connection string. _txlock=immediate makes every transaction take the
// write lock at BEGIN, which serializes read-check-write sequences across connections.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
}

// Open creates the database file if needed, applies the schema and verifies the connection
func Open(ctx context.Context, path string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db, log: logger.OrNop(log)}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WithinTx runs fn in an immediate transaction and commits when it returns nil
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx workflow.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapError("begin transaction", err)
	}

	if err := fn(ctx, &repo{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.log.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}

// View runs fn outside a transaction. Only reads are allowed.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, tx workflow.Tx) error) error {
	return fn(ctx, &repo{q: s.db})
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...interface{}) error
}

// repo implements workflow.Tx over a transaction or the pool
type repo struct {
	q querier
}

var _ workflow.Tx = (*repo)(nil)

// mapError turns driver failures into typed errors. Busy, locked and timed-out stores are
// retryable; unique violations are caller mistakes.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.Infrastructure(op+": store timeout", err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch {
		case sqliteErr.Code == sqlite3.ErrBusy, sqliteErr.Code == sqlite3.ErrLocked:
			return apperr.Infrastructure(op+": database is busy", err)
		case sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique:
			return apperr.New(apperr.KindValidation, op+": already exists", err)
		case sqliteErr.Code == sqlite3.ErrConstraint:
			return apperr.New(apperr.KindValidation, op+": constraint violated", err)
		}
	}
	return apperr.Infrastructure(op, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func expectOne(op, entity, id string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(op, err)
	}
	if n == 0 {
		return apperr.NotFound(entity, id)
	}
	return nil
}

// runMigrations creates all necessary tables
func runMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		recruiter_id TEXT NOT NULL,
		hiring_team TEXT NOT NULL DEFAULT '[]',
		experience_years INTEGER NOT NULL DEFAULT 0,
		skills TEXT NOT NULL DEFAULT '[]',
		relevant_experience TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		vacancies INTEGER NOT NULL DEFAULT 0,
		deadline DATETIME,
		closed BOOLEAN NOT NULL DEFAULT 0,
		close_reason TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK(experience_years >= 0),
		CHECK(vacancies >= 0)
	);

	CREATE TABLE IF NOT EXISTS candidacies (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL,
		candidate_id TEXT NOT NULL,
		candidate_name TEXT NOT NULL,
		experience_years INTEGER NOT NULL DEFAULT 0,
		skills TEXT NOT NULL DEFAULT '[]',
		relevant_experience TEXT NOT NULL DEFAULT '',
		education TEXT NOT NULL DEFAULT '',
		projects TEXT NOT NULL DEFAULT '',
		score INTEGER,
		status TEXT NOT NULL DEFAULT 'applied',
		applied_at DATETIME NOT NULL,
		shortlisted_at DATETIME,
		technical_interview_at DATETIME,
		hr_interview_at DATETIME,
		selected_at DATETIME,
		willingness_deadline DATETIME,
		willingness_responded_at DATETIME,
		hired_at DATETIME,
		closed_at DATETIME,
		rejection_reason TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL,
		UNIQUE(job_id, candidate_id),
		FOREIGN KEY (job_id) REFERENCES jobs(id),
		CHECK(score IS NULL OR (score BETWEEN 1 AND 10)),
		CHECK(status IN ('applied', 'shortlisted', 'rejected', 'interview_scheduled', 'technical_passed',
			'hr_round', 'hr_passed', 'selected', 'offer_declined', 'hired', 'position_closed'))
	);

	CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		candidacy_id TEXT NOT NULL,
		candidate_name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL,
		starts_at DATETIME NOT NULL,
		duration_minutes INTEGER NOT NULL,
		platform TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		result TEXT NOT NULL DEFAULT '',
		feedback TEXT NOT NULL DEFAULT '',
		created_by TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		superseded_at DATETIME,
		FOREIGN KEY (candidacy_id) REFERENCES candidacies(id),
		CHECK(kind IN ('technical', 'hr')),
		CHECK(result IN ('', 'passed', 'failed')),
		CHECK(duration_minutes > 0 AND duration_minutes <= 1440)
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL,
		type TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		interview_at DATETIME,
		interview_link TEXT NOT NULL DEFAULT '',
		read BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_candidacies_job_id ON candidacies(job_id);
	CREATE INDEX IF NOT EXISTS idx_candidacies_status ON candidacies(status);
	CREATE INDEX IF NOT EXISTS idx_interviews_created_by ON interviews(created_by);
	CREATE INDEX IF NOT EXISTS idx_interviews_candidacy_id ON interviews(candidacy_id);
	CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id);
	`

	_, err := db.ExecContext(ctx, schema)
	return err
}
