package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	attempt INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL,
	success INTEGER NOT NULL,
	reason TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_attempts_started_at ON attempts(started_at);
`

// timeLayout is fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// AttemptRepo journals booking attempts in a local SQLite file.
type AttemptRepo struct {
	db *sql.DB
}

// Open creates the database file and its directory when missing. ":memory:" is accepted.
func Open(ctx context.Context, path string) (*AttemptRepo, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
	}

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&"
	} else {
		dsn += "?"
	}
	dsn += "_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer, and keeps a ":memory:" database alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &AttemptRepo{db: db}, nil
}

func (r *AttemptRepo) Record(ctx context.Context, a booking.AttemptRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attempts (run_id, attempt, started_at, duration_ms, success, reason, detail)
		VALUES (?,?,?,?,?,?,?)
	`, a.RunID.String(), a.Attempt, a.StartedAt.UTC().Format(timeLayout), a.Duration.Milliseconds(), a.Success, string(a.Reason), a.Detail)
	return err
}

func (r *AttemptRepo) Recent(ctx context.Context, limit int) ([]booking.AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, attempt, started_at, duration_ms, success, reason, detail
		FROM attempts
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.AttemptRecord
	for rows.Next() {
		var (
			a              booking.AttemptRecord
			runID, started string
			ms             int64
			reason         string
		)
		if err := rows.Scan(&runID, &a.Attempt, &started, &ms, &a.Success, &reason, &a.Detail); err != nil {
			return nil, err
		}
		if a.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("attempt run id: %w", err)
		}
		if a.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("attempt start: %w", err)
		}
		a.Duration = time.Duration(ms) * time.Millisecond
		a.Reason = booking.Reason(reason)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttemptRepo) Close() error { return r.db.Close() }

var _ booking.Journal = (*AttemptRepo)(nil)
