/*
Package sqlite persists computed compensation runs.

PURPOSE:
  The calculation engine is pure and stateless; a run's output is always
  recomputable from its shift and rate inputs. This archive keeps the
  outputs anyway so past payroll runs can be listed and retrieved without
  re-supplying the roster.

KEY TABLES:
  compensation_runs:      One row per calculation run (rates, totals)
  compensation_run_users: One row per user in a run, with period detail
                          kept as a JSON column

MONEY:
  Decimal values are stored as TEXT and re-parsed on read; they never pass
  through floating point.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the writer, plus foreign keys on.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety across the single connection pool.

USAGE:
  archive, err := sqlite.New("./data/caloohpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer archive.Close()

SEE ALSO:
  - api/handlers.go: Archives each compensation run
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// ErrRunNotFound is returned when a run id has no archived record.
var ErrRunNotFound = errors.New("compensation run not found")

// Store implements the run archive on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS compensation_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		weekday_rate TEXT NOT NULL,
		weekend_rate TEXT NOT NULL,
		currency TEXT NOT NULL,
		symbol TEXT NOT NULL,
		total_compensation TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS compensation_run_users (
		run_id TEXT NOT NULL REFERENCES compensation_runs(id),
		position INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		user_email TEXT,
		weekday_days INTEGER NOT NULL,
		weekend_days INTEGER NOT NULL,
		compensation TEXT NOT NULL,
		periods_json TEXT,
		PRIMARY KEY (run_id, position)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at
		ON compensation_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_run_users_user
		ON compensation_run_users(user_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RECORDS
// =============================================================================

// RunRecord is one archived compensation run.
type RunRecord struct {
	ID          string
	CreatedAt   time.Time
	WeekdayRate decimal.Decimal
	WeekendRate decimal.Decimal
	Currency    string
	Symbol      string
	Total       decimal.Decimal
	Users       []RunUserRecord
}

// RunUserRecord is one user's line in an archived run. PeriodsJSON holds
// the per-period detail as serialized JSON.
type RunUserRecord struct {
	UserID       string
	UserName     string
	UserEmail    string
	WeekdayDays  int
	WeekendDays  int
	Compensation decimal.Decimal
	PeriodsJSON  string
}

// RunSummary is the listing view of a run, without per-user lines.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Currency  string
	Total     decimal.Decimal
	UserCount int
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SaveRun archives a run and its per-user lines atomically.
func (s *Store) SaveRun(ctx context.Context, run RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO compensation_runs
			(id, created_at, weekday_rate, weekend_rate, currency, symbol, total_compensation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.UTC().Format(time.RFC3339),
		run.WeekdayRate.String(),
		run.WeekendRate.String(),
		run.Currency,
		run.Symbol,
		run.Total.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i, u := range run.Users {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO compensation_run_users
				(run_id, position, user_id, user_name, user_email,
				 weekday_days, weekend_days, compensation, periods_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, i, u.UserID, u.UserName, u.UserEmail,
			u.WeekdayDays, u.WeekendDays, u.Compensation.String(), u.PeriodsJSON,
		)
		if err != nil {
			return fmt.Errorf("failed to insert run user %s: %w", u.UserID, err)
		}
	}

	return tx.Commit()
}

// GetRun returns one archived run with its per-user lines in run order.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var run RunRecord
	var createdAt, weekdayRate, weekendRate, total string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, weekday_rate, weekend_rate, currency, symbol, total_compensation
		FROM compensation_runs WHERE id = ?`, id).
		Scan(&run.ID, &createdAt, &weekdayRate, &weekendRate, &run.Currency, &run.Symbol, &total)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at for run %s: %w", id, err)
	}
	if run.WeekdayRate, err = decimal.NewFromString(weekdayRate); err != nil {
		return nil, fmt.Errorf("corrupt weekday rate for run %s: %w", id, err)
	}
	if run.WeekendRate, err = decimal.NewFromString(weekendRate); err != nil {
		return nil, fmt.Errorf("corrupt weekend rate for run %s: %w", id, err)
	}
	if run.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("corrupt total for run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_name, user_email, weekday_days, weekend_days, compensation, periods_json
		FROM compensation_run_users WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var u RunUserRecord
		var email, periodsJSON sql.NullString
		var compensation string
		if err := rows.Scan(&u.UserID, &u.UserName, &email,
			&u.WeekdayDays, &u.WeekendDays, &compensation, &periodsJSON); err != nil {
			return nil, err
		}
		u.UserEmail = email.String
		u.PeriodsJSON = periodsJSON.String
		if u.Compensation, err = decimal.NewFromString(compensation); err != nil {
			return nil, fmt.Errorf("corrupt compensation for run %s user %s: %w", id, u.UserID, err)
		}
		run.Users = append(run.Users, u)
	}
	return &run, rows.Err()
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.currency, r.total_compensation,
		       (SELECT COUNT(*) FROM compensation_run_users u WHERE u.run_id = r.id)
		FROM compensation_runs r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var sum RunSummary
		var createdAt, total string
		if err := rows.Scan(&sum.ID, &createdAt, &sum.Currency, &total, &sum.UserCount); err != nil {
			return nil, err
		}
		if sum.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("corrupt created_at for run %s: %w", sum.ID, err)
		}
		if sum.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("corrupt total for run %s: %w", sum.ID, err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}
