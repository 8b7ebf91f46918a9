package job

import (
	"context"

	"github.com/dmitrymomot/taskforge/pkg/logger"
)

type taskIDKey struct{}

func withTaskID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, id)
}

// TaskIDFromContext returns the id of the task being executed.
func TaskIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(taskIDKey{}).(string)
	return id, ok && id != ""
}

// TaskIDExtractor adds task_id to log records written inside a task.
func TaskIDExtractor() logger.ContextExtractor {
	return logger.StringValue(taskIDKey{}, "task_id")
}
