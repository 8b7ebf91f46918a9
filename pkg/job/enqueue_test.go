package job

import (
	"testing"
	"time"

	"github.com/riverqueue/river"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildJobArgs_Defaults(t *testing.T) {
	t.Parallel()

	cfg := newConfig([]Option{WithDefaultQueue("celery"), WithMaxAttempts(5)})

	args, opts, err := buildJobArgs(cfg, "test.add", addArgs{X: 4, Y: 6})
	require.NoError(t, err)

	assert.NotEmpty(t, args.TaskID)
	assert.Equal(t, "test.add", args.TaskName)
	assert.JSONEq(t, `{"x":4,"y":6}`, string(args.Payload))
	assert.Equal(t, "celery", opts.Queue)
	assert.Equal(t, 5, opts.MaxAttempts)
	assert.Equal(t, river.UniqueOpts{}, opts.UniqueOpts)
}

func TestBuildJobArgs_Options(t *testing.T) {
	t.Parallel()

	at := time.Now().Add(time.Hour)
	cfg := newConfig(nil)

	args, opts, err := buildJobArgs(cfg, "test.add", nil,
		WithTaskID("fixed-id"),
		InQueue("math"),
		ScheduledAt(at),
		MaxAttempts(2),
		Priority(3),
		Tags("demo", "math"),
		UniqueFor(time.Minute),
		UniqueKey("k"),
	)
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", args.TaskID)
	assert.Nil(t, args.Payload)
	assert.Equal(t, "k", args.UniqueKey)
	assert.Equal(t, "math", opts.Queue)
	assert.Equal(t, at, opts.ScheduledAt)
	assert.Equal(t, 2, opts.MaxAttempts)
	assert.Equal(t, 3, opts.Priority)
	assert.Equal(t, []string{"demo", "math"}, opts.Tags)
	assert.Equal(t, river.UniqueOpts{ByArgs: true, ByPeriod: time.Minute}, opts.UniqueOpts)
}

func TestBuildJobArgs_UniqueKeyNeedsPeriod(t *testing.T) {
	t.Parallel()

	args, _, err := buildJobArgs(newConfig(nil), "test.add", nil, UniqueKey("k"))
	require.NoError(t, err)
	assert.Empty(t, args.UniqueKey)
}

func TestBuildJobArgs_UnmarshalablePayload(t *testing.T) {
	t.Parallel()

	_, _, err := buildJobArgs(newConfig(nil), "test.add", make(chan int))
	assert.ErrorContains(t, err, "marshal payload")
}

func TestScheduledIn(t *testing.T) {
	t.Parallel()

	cfg := &enqueueConfig{}
	before := time.Now()
	ScheduledIn(time.Hour)(cfg)

	require.NotNil(t, cfg.scheduledAt)
	assert.WithinDuration(t, before.Add(time.Hour), *cfg.scheduledAt, time.Second)
}

func TestInQueue_EmptyKeepsValue(t *testing.T) {
	t.Parallel()

	cfg := &enqueueConfig{queue: "existing"}
	InQueue("")(cfg)
	assert.Equal(t, "existing", cfg.queue)
}
