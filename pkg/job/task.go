package job

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"sync"
)

// executor runs a task from its JSON payload and returns the JSON result.
type executor interface {
	Execute(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)
}

type registry struct {
	executors map[string]executor
	mu        sync.RWMutex
}

func newRegistry() *registry {
	return &registry{executors: make(map[string]executor)}
}

func (r *registry) register(name string, e executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[name] = e
}

func (r *registry) get(name string) (executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.executors[name]
	return e, ok
}

func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.executors)
}

// names returns registered task names in lexical order.
func (r *registry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.executors))
}

// typedTask decodes P, calls the task and encodes R.
type typedTask[P, R any, T interface {
	Name() string
	Handle(context.Context, P) (R, error)
}] struct {
	task T
}

func (w typedTask[P, R, T]) Execute(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var payload P
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}
	}

	res, err := w.task.Handle(ctx, payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

// periodicTask adapts a task without arguments.
type periodicTask[R any] func(context.Context) (R, error)

func (f periodicTask[R]) Execute(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
	res, err := f(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}
