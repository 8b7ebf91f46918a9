package job

import (
	"context"
	"errors"
	"time"

	"github.com/riverqueue/river/rivertype"
)

type jobGetter interface {
	JobGet(ctx context.Context, id int64) (*rivertype.JobRow, error)
}

// Handle refers to an enqueued task. Every Enqueue returns one.
type Handle struct {
	results ResultBackend
	jobs    jobGetter
	id      string
	task    string
	jobID   int64
	poll    time.Duration
}

// ID returns the task identifier. It is never empty.
func (h *Handle) ID() string { return h.id }

// Task returns the registered task name.
func (h *Handle) Task() string { return h.task }

// JobID returns the River job id, or zero for eagerly executed tasks.
func (h *Handle) JobID() int64 { return h.jobID }

// Result loads the stored result.
func (h *Handle) Result(ctx context.Context) (*Result, error) {
	if h.results == nil {
		return nil, ErrNoResultBackend
	}
	return h.results.Load(ctx, h.id)
}

// Status returns the current task state. Without a result backend it is read
// from the River job row.
func (h *Handle) Status(ctx context.Context) (State, error) {
	if h.results == nil {
		if h.jobs == nil || h.jobID == 0 {
			return "", ErrNoResultBackend
		}
		row, err := h.jobs.JobGet(ctx, h.jobID)
		if err != nil {
			return "", err
		}
		return stateFromJob(row.State), nil
	}

	res, err := h.results.Load(ctx, h.id)
	if errors.Is(err, ErrResultNotFound) {
		return StatePending, nil
	}
	if err != nil {
		return "", err
	}
	return res.State, nil
}

// Wait polls until the task succeeds or fails, then decodes the return
// value into dest. dest may be nil to only wait. A failed task yields a
// *TaskError.
func (h *Handle) Wait(ctx context.Context, dest any) error {
	if h.results == nil {
		return ErrNoResultBackend
	}

	ticker := time.NewTicker(h.poll)
	defer ticker.Stop()

	for {
		res, err := h.results.Load(ctx, h.id)
		switch {
		case errors.Is(err, ErrResultNotFound):
		case err != nil:
			return err
		case res.State.Ready():
			if res.State == StateFailure || dest != nil {
				return res.Decode(dest)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
