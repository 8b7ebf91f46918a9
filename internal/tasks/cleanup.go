package tasks

import (
	"context"
	"log/slog"
)

const (
	BackendCleanupName     = "celery.backend_cleanup"
	BackendCleanupSchedule = "0 4 * * *"
)

// ExpiredResultsDeleter is implemented by *job.PostgresBackend.
type ExpiredResultsDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// BackendCleanup removes expired rows from the database result backend.
// It returns the number of deleted results.
type BackendCleanup struct {
	Results ExpiredResultsDeleter
	Logger  *slog.Logger
}

func (BackendCleanup) Name() string { return BackendCleanupName }

func (BackendCleanup) Schedule() string { return BackendCleanupSchedule }

func (t BackendCleanup) Handle(ctx context.Context) (int64, error) {
	n, err := t.Results.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if t.Logger != nil && n > 0 {
		t.Logger.InfoContext(ctx, "expired task results deleted", slog.Int64("count", n))
	}
	return n, nil
}
