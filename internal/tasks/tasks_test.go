package tasks_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskforge/internal/tasks"
	"github.com/dmitrymomot/taskforge/pkg/job"
)

func TestAdd(t *testing.T) {
	t.Parallel()

	got, err := tasks.Add{}.Handle(context.Background(), tasks.AddArgs{X: 4, Y: 6})
	require.NoError(t, err)
	assert.Equal(t, 10, got)
}

func TestMultiply(t *testing.T) {
	t.Parallel()

	got, err := tasks.Multiply{}.Handle(context.Background(), tasks.AddArgs{X: 3, Y: 7})
	require.NoError(t, err)
	assert.Equal(t, 21, got)
}

func TestSayHello(t *testing.T) {
	t.Parallel()

	got, err := tasks.SayHello{}.Handle(context.Background(), tasks.SayHelloArgs{Name: "Beomjune"})
	require.NoError(t, err)
	assert.Equal(t, "Hello, Beomjune!", got)
}

func TestScheduledTask(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	at := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	task := tasks.ScheduledTask{
		Logger: slog.New(slog.NewJSONHandler(&logs, nil)),
		Now:    func() time.Time { return at },
	}

	got, err := task.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Task completed at 2024-05-01T12:30:00Z", got)
	assert.Contains(t, logs.String(), "scheduled task running")

	assert.Equal(t, "myapp.tasks.my_scheduled_task", task.Name())
	assert.Equal(t, tasks.DefaultSchedule, task.Schedule())
	assert.Equal(t, "*/5 * * * *", tasks.ScheduledTask{Spec: "*/5 * * * *"}.Schedule())
}

func TestScheduledTask_NilLogger(t *testing.T) {
	t.Parallel()

	got, err := tasks.ScheduledTask{}.Handle(context.Background())
	require.NoError(t, err)
	assert.Contains(t, got, "Task completed at ")
}

type deleter struct {
	n   int64
	err error
}

func (d deleter) DeleteExpired(context.Context) (int64, error) { return d.n, d.err }

func TestBackendCleanup(t *testing.T) {
	t.Parallel()

	n, err := tasks.BackendCleanup{Results: deleter{n: 3}}.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	boom := errors.New("boom")
	_, err = tasks.BackendCleanup{Results: deleter{err: boom}}.Handle(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_Names(t *testing.T) {
	t.Parallel()

	client := job.NewEager(tasks.Registry(tasks.Deps{})...)
	t.Cleanup(func() { _ = client.Close() })
	assert.Equal(t, []string{
		tasks.AddName,
		tasks.MultiplyName,
		tasks.ScheduledTaskName,
		tasks.SayHelloName,
	}, client.Tasks())

	withCleanup := job.NewEager(tasks.Registry(tasks.Deps{Cleanup: deleter{}})...)
	t.Cleanup(func() { _ = withCleanup.Close() })
	assert.Contains(t, withCleanup.Tasks(), tasks.BackendCleanupName)
}

func TestRegistry_RunByName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client := job.NewEager(tasks.Registry(tasks.Deps{Logger: slog.New(slog.DiscardHandler)})...)
	t.Cleanup(func() { _ = client.Close() })

	tests := []struct {
		name    string
		payload any
		dest    any
		want    any
	}{
		{name: tasks.AddName, payload: tasks.AddArgs{X: 4, Y: 6}, dest: new(int), want: 10},
		{name: tasks.MultiplyName, payload: tasks.AddArgs{X: 3, Y: 7}, dest: new(int), want: 21},
		{name: tasks.SayHelloName, payload: tasks.SayHelloArgs{Name: "Beomjune"}, dest: new(string), want: "Hello, Beomjune!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := client.Enqueue(ctx, tt.name, tt.payload)
			require.NoError(t, err)
			require.NoError(t, h.Wait(ctx, tt.dest))

			switch d := tt.dest.(type) {
			case *int:
				assert.Equal(t, tt.want, *d)
			case *string:
				assert.Equal(t, tt.want, *d)
			}
		})
	}

	t.Run("scheduled task by fixed name", func(t *testing.T) {
		t.Parallel()

		h, err := client.Enqueue(ctx, "myapp.tasks.my_scheduled_task", nil)
		require.NoError(t, err)

		var out string
		require.NoError(t, h.Wait(ctx, &out))
		assert.Contains(t, out, "Task completed at ")
	})
}
