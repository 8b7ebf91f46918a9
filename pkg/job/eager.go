package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrymomot/taskforge/pkg/cache"
)

// Eager runs tasks synchronously inside Enqueue. No broker is involved and
// failures are not retried. Results go to the configured backend, or to an
// in-memory one when none is set.
type Eager struct {
	cfg   *config
	owned *cache.Memory[Result]
}

// NewEager creates an eager client. Call Close to release the in-memory
// backend it creates when no result backend is configured.
func NewEager(opts ...Option) *Eager {
	e := &Eager{cfg: newConfig(opts)}
	if e.cfg.results == nil {
		e.owned = cache.NewMemory[Result]()
		e.cfg.results = NewCacheBackend(e.owned, 0)
	}
	return e
}

// Close stops the in-memory backend created by NewEager. A configured
// result backend is left open. Close is idempotent.
func (e *Eager) Close() error {
	if e.owned == nil {
		return nil
	}
	return e.owned.Close()
}

// Enqueue executes the task before returning. A task error is recorded as
// FAILURE on the handle and does not fail the call.
func (e *Eager) Enqueue(ctx context.Context, name string, payload any, opts ...EnqueueOption) (*Handle, error) {
	if _, ok := e.cfg.registry.get(name); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	ec := &enqueueConfig{}
	for _, opt := range opts {
		opt(ec)
	}
	taskID := ec.taskID
	if taskID == "" {
		taskID = newTaskID()
	}

	var raw json.RawMessage
	if payload != nil {
		var err error
		if raw, err = json.Marshal(payload); err != nil {
			return nil, fmt.Errorf("job: marshal payload: %w", err)
		}
	}

	_ = run(ctx, e.cfg, attempt{taskID: taskID, name: name, payload: raw, number: 1, final: true})

	return &Handle{
		results: e.cfg.results,
		id:      taskID,
		task:    name,
		poll:    e.cfg.pollInterval,
	}, nil
}

func (e *Eager) Result(ctx context.Context, taskID string) (*Result, error) {
	return e.cfg.results.Load(ctx, taskID)
}

// Tasks returns the registered task names.
func (e *Eager) Tasks() []string {
	return e.cfg.registry.names()
}

var _ Client = (*Eager)(nil)
