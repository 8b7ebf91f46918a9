package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river/rivertype"

	"github.com/dmitrymomot/taskforge/pkg/cache"
)

// State is the lifecycle state of a task result.
type State string

const (
	StatePending State = "PENDING"
	StateStarted State = "STARTED"
	StateRetry   State = "RETRY"
	StateSuccess State = "SUCCESS"
	StateFailure State = "FAILURE"
)

// Ready reports whether the task will not change state again.
func (s State) Ready() bool {
	return s == StateSuccess || s == StateFailure
}

// stateFromJob maps a River job state to a task state.
func stateFromJob(s rivertype.JobState) State {
	switch s {
	case rivertype.JobStateRunning:
		return StateStarted
	case rivertype.JobStateRetryable:
		return StateRetry
	case rivertype.JobStateCompleted:
		return StateSuccess
	case rivertype.JobStateCancelled, rivertype.JobStateDiscarded:
		return StateFailure
	default:
		return StatePending
	}
}

// Result is the stored outcome of a task.
type Result struct {
	TaskID   string          `json:"task_id"`
	TaskName string          `json:"task_name"`
	State    State           `json:"state"`
	Value    json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	Attempt  int             `json:"attempt,omitempty"`
	DateDone *time.Time      `json:"date_done,omitempty"`
}

// Decode unmarshals the task return value into dest.
func (r *Result) Decode(dest any) error {
	if r.State == StateFailure {
		return &TaskError{TaskID: r.TaskID, TaskName: r.TaskName, Message: r.Error}
	}
	if len(r.Value) == 0 {
		return fmt.Errorf("job: task %s has no result in state %s", r.TaskID, r.State)
	}
	if err := json.Unmarshal(r.Value, dest); err != nil {
		return fmt.Errorf("job: decode result of %s: %w", r.TaskID, err)
	}
	return nil
}

// TaskError is returned by Decode and Handle.Wait for a failed task.
type TaskError struct {
	TaskID   string
	TaskName string
	Message  string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("job: task %s (%s) failed: %s", e.TaskName, e.TaskID, e.Message)
}

// ResultBackend persists task results.
type ResultBackend interface {
	Store(ctx context.Context, res *Result) error
	// Load returns ErrResultNotFound when no record exists.
	Load(ctx context.Context, taskID string) (*Result, error)
	// Delete removes a record. A missing record is not an error.
	Delete(ctx context.Context, taskID string) error
}

// CacheBackend stores results in a cache.Cache, such as cache.Memory or
// cache.Redis.
type CacheBackend struct {
	cache cache.Cache[Result]
	ttl   time.Duration
}

// NewCacheBackend keeps each result for ttl. A zero ttl uses the cache
// default, a negative ttl keeps results forever.
func NewCacheBackend(c cache.Cache[Result], ttl time.Duration) *CacheBackend {
	return &CacheBackend{cache: c, ttl: ttl}
}

func (b *CacheBackend) Store(ctx context.Context, res *Result) error {
	if err := b.cache.Set(ctx, res.TaskID, *res, b.ttl); err != nil {
		return fmt.Errorf("job: store result: %w", err)
	}
	return nil
}

func (b *CacheBackend) Load(ctx context.Context, taskID string) (*Result, error) {
	res, err := b.cache.Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("job: load result: %w", err)
	}
	return &res, nil
}

func (b *CacheBackend) Delete(ctx context.Context, taskID string) error {
	if err := b.cache.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("job: delete result: %w", err)
	}
	return nil
}

var _ ResultBackend = (*CacheBackend)(nil)
