package postgres

import (
	"context"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AttemptRepo journals booking attempts in Postgres.
type AttemptRepo struct{ pool *pgxpool.Pool }

func NewAttemptRepo(pool *pgxpool.Pool) *AttemptRepo { return &AttemptRepo{pool: pool} }

// Open connects, applies the schema and returns a ready journal.
func Open(ctx context.Context, databaseURL string) (*AttemptRepo, error) {
	pool, err := Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return NewAttemptRepo(pool), nil
}

func (r *AttemptRepo) Record(ctx context.Context, a booking.AttemptRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attempts (run_id, attempt, started_at, duration_ms, success, reason, detail)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.RunID, a.Attempt, a.StartedAt, a.Duration.Milliseconds(), a.Success, string(a.Reason), a.Detail)
	return err
}

func (r *AttemptRepo) Recent(ctx context.Context, limit int) ([]booking.AttemptRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT run_id, attempt, started_at, duration_ms, success, reason, detail
		FROM attempts
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []booking.AttemptRecord
	for rows.Next() {
		var a booking.AttemptRecord
		var ms int64
		var reason string
		if err := rows.Scan(&a.RunID, &a.Attempt, &a.StartedAt, &ms, &a.Success, &reason, &a.Detail); err != nil {
			return nil, err
		}
		a.Duration = time.Duration(ms) * time.Millisecond
		a.Reason = booking.Reason(reason)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AttemptRepo) Close() error {
	r.pool.Close()
	return nil
}

var _ booking.Journal = (*AttemptRepo)(nil)
