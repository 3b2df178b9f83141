package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/fanlar-test/backend/internal/domain/stats"
)

type Driver string

const (
	DriverJSON     Driver = "json"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stat_users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stat_attempts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    date TEXT NOT NULL,
    subject TEXT NOT NULL,
    mode TEXT NOT NULL,
    score INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percent REAL NOT NULL,
    time_spent INTEGER NOT NULL,
    FOREIGN KEY (user_id) REFERENCES stat_users(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_stat_attempts_user ON stat_attempts(user_id, id);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stat_users (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stat_attempts (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES stat_users(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    subject TEXT NOT NULL,
    mode TEXT NOT NULL,
    score INTEGER NOT NULL,
    total INTEGER NOT NULL,
    percent DOUBLE PRECISION NOT NULL,
    time_spent INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stat_attempts_user ON stat_attempts(user_id, id);
`

// SQLStore keeps statistics in two tables. Summaries are not stored; they
// are recomputed from the attempt rows on every read.
type SQLStore struct {
	db     *sql.DB
	driver Driver
}

// OpenSQL opens dsn with the driver's database/sql driver and applies the
// schema.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var name string
	switch driver {
	case DriverSQLite:
		name = "sqlite"
	case DriverPostgres:
		name = "pgx"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared and writes serialised
		db.SetMaxOpenConns(1)
	}

	s, err := NewSQL(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQL wraps an open database and applies the schema.
func NewSQL(ctx context.Context, db *sql.DB, driver Driver) (*SQLStore, error) {
	schema := sqliteSchema
	if driver == DriverPostgres {
		schema = postgresSchema
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply %s schema: %w", driver, err)
	}
	return &SQLStore{db: db, driver: driver}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) RecordAttempt(ctx context.Context, username string, a stats.Attempt) (*stats.UserStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := stats.NewUserStats(a.At).CreatedAt
	_, err = tx.ExecContext(ctx,
		s.rebind("INSERT INTO stat_users (username, created_at) VALUES (?, ?) ON CONFLICT (username) DO NOTHING"),
		username, created)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	var userID int64
	err = tx.QueryRowContext(ctx, s.rebind("SELECT id FROM stat_users WHERE username = ?"), username).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	r := stats.NewAttempt(a)
	_, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO stat_attempts (user_id, date, subject, mode, score, total, percent, time_spent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		userID, r.Date, r.Subject, r.Mode, r.Score, r.Total, r.Percent, r.TimeSpent)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.Get(ctx, username)
}

func (s *SQLStore) Get(ctx context.Context, username string) (*stats.UserStats, error) {
	var (
		userID int64
		u      stats.UserStats
	)
	err := s.db.QueryRowContext(ctx,
		s.rebind("SELECT id, created_at FROM stat_users WHERE username = ?"), username).
		Scan(&userID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, stats.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	byUser, err := s.attempts(ctx, &userID)
	if err != nil {
		return nil, err
	}

	u.Attempts = byUser[userID]
	if u.Attempts == nil {
		u.Attempts = []stats.AttemptRecord{}
	}
	u.Summary = stats.Summarize(u.Attempts)
	return &u, nil
}

func (s *SQLStore) List(ctx context.Context) ([]stats.NamedStats, error) {
	type userRow struct {
		id        int64
		username  string
		createdAt string
	}

	var users []userRow
	err := func() error {
		rows, err := s.db.QueryContext(ctx, "SELECT id, username, created_at FROM stat_users ORDER BY id")
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u userRow
			if err := rows.Scan(&u.id, &u.username, &u.createdAt); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	}()
	if err != nil {
		return nil, err
	}

	byUser, err := s.attempts(ctx, nil)
	if err != nil {
		return nil, err
	}

	out := make([]stats.NamedStats, 0, len(users))
	for _, u := range users {
		attempts := byUser[u.id]
		if attempts == nil {
			attempts = []stats.AttemptRecord{}
		}
		out = append(out, stats.NamedStats{
			Username: u.username,
			Stats: stats.UserStats{
				CreatedAt: u.createdAt,
				Attempts:  attempts,
				Summary:   stats.Summarize(attempts),
			},
		})
	}
	return out, nil
}

// attempts loads attempt rows in insertion order, grouped by user. A nil
// userID loads every user.
func (s *SQLStore) attempts(ctx context.Context, userID *int64) (map[int64][]stats.AttemptRecord, error) {
	query := "SELECT user_id, date, subject, mode, score, total, percent, time_spent FROM stat_attempts"
	var args []any
	if userID != nil {
		query += " WHERE user_id = ?"
		args = append(args, *userID)
	}
	query += " ORDER BY user_id, id"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]stats.AttemptRecord)
	for rows.Next() {
		var (
			id int64
			r  stats.AttemptRecord
		)
		if err := rows.Scan(&id, &r.Date, &r.Subject, &r.Mode, &r.Score, &r.Total, &r.Percent, &r.TimeSpent); err != nil {
			return nil, err
		}
		out[id] = append(out[id], r)
	}
	return out, rows.Err()
}
