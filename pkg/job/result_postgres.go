package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgExecutor is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend stores results in the task_results table created by the
// migrations in internal/db/migrations.
type PostgresBackend struct {
	db  pgExecutor
	ttl time.Duration
}

// NewPostgresBackend keeps results for ttl; zero or negative keeps them
// until deleted.
func NewPostgresBackend(db pgExecutor, ttl time.Duration) *PostgresBackend {
	return &PostgresBackend{db: db, ttl: ttl}
}

const upsertResultSQL = `
INSERT INTO task_results (task_id, task_name, state, result, error, attempt, date_done, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (task_id) DO UPDATE SET
	task_name  = EXCLUDED.task_name,
	state      = EXCLUDED.state,
	result     = EXCLUDED.result,
	error      = EXCLUDED.error,
	attempt    = EXCLUDED.attempt,
	date_done  = EXCLUDED.date_done,
	expires_at = EXCLUDED.expires_at`

const selectResultSQL = `
SELECT task_id, task_name, state, result, error, attempt, date_done
FROM task_results
WHERE task_id = $1 AND (expires_at IS NULL OR expires_at > now())`

func (b *PostgresBackend) Store(ctx context.Context, res *Result) error {
	var expiresAt *time.Time
	if b.ttl > 0 {
		t := time.Now().Add(b.ttl)
		expiresAt = &t
	}

	var value []byte
	if len(res.Value) > 0 {
		value = res.Value
	}

	_, err := b.db.Exec(ctx, upsertResultSQL,
		res.TaskID, res.TaskName, string(res.State), value, res.Error, res.Attempt, res.DateDone, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("job: store result: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context, taskID string) (*Result, error) {
	var (
		res   Result
		state string
		value []byte
	)
	err := b.db.QueryRow(ctx, selectResultSQL, taskID).Scan(
		&res.TaskID, &res.TaskName, &state, &value, &res.Error, &res.Attempt, &res.DateDone,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("job: load result: %w", err)
	}

	res.State = State(state)
	res.Value = value
	return &res, nil
}

func (b *PostgresBackend) Delete(ctx context.Context, taskID string) error {
	if _, err := b.db.Exec(ctx, `DELETE FROM task_results WHERE task_id = $1`, taskID); err != nil {
		return fmt.Errorf("job: delete result: %w", err)
	}
	return nil
}

// DeleteExpired removes results past their expiry and returns how many were
// deleted.
func (b *PostgresBackend) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := b.db.Exec(ctx, `DELETE FROM task_results WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("job: delete expired results: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ ResultBackend = (*PostgresBackend)(nil)
