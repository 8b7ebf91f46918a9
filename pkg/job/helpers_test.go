package job

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

type addArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type addTask struct{}

func (addTask) Name() string { return "test.add" }

func (addTask) Handle(_ context.Context, a addArgs) (int, error) { return a.X + a.Y, nil }

type failTask struct{}

func (failTask) Name() string { return "test.fail" }

func (failTask) Handle(context.Context, struct{}) (string, error) {
	return "", errors.New("boom")
}

type tickTask struct{}

func (tickTask) Name() string { return "test.tick" }

func (tickTask) Schedule() string { return "@every 30s" }

func (tickTask) Handle(context.Context) (string, error) { return "tick", nil }

// ctxTask returns the task id seen in its context.
type ctxTask struct{}

func (ctxTask) Name() string { return "test.ctx" }

func (ctxTask) Handle(ctx context.Context, _ struct{}) (string, error) {
	id, _ := TaskIDFromContext(ctx)
	return id, nil
}

func testOptions(extra ...Option) []Option {
	return append([]Option{
		WithTask[addArgs, int](addTask{}),
		WithTask[struct{}, string](failTask{}),
		WithTask[struct{}, string](ctxTask{}),
		WithScheduledTask[string](tickTask{}),
	}, extra...)
}

// memoryResults is a ResultBackend that keeps every stored state.
type memoryResults struct {
	mu      sync.Mutex
	latest  map[string]Result
	history map[string][]State
	err     error
}

func newMemoryResults() *memoryResults {
	return &memoryResults{latest: map[string]Result{}, history: map[string][]State{}}
}

func (m *memoryResults) Store(_ context.Context, res *Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.latest[res.TaskID] = *res
	m.history[res.TaskID] = append(m.history[res.TaskID], res.State)
	return nil
}

func (m *memoryResults) Load(_ context.Context, id string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.latest[id]
	if !ok {
		return nil, ErrResultNotFound
	}
	return &res, nil
}

func (m *memoryResults) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	delete(m.latest, id)
	return nil
}

func (m *memoryResults) states(id string) []State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]State(nil), m.history[id]...)
}

type fakeInserter struct {
	mu        sync.Mutex
	args      []*taskArgs
	opts      []*river.InsertOpts
	err       error
	duplicate *taskArgs
	state     rivertype.JobState
	nextID    int64
}

func (f *fakeInserter) Insert(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	a := args.(*taskArgs)
	f.args = append(f.args, a)
	f.opts = append(f.opts, opts)
	f.nextID++

	stored := a
	if f.duplicate != nil {
		stored = f.duplicate
	}
	enc, _ := json.Marshal(stored)

	return &rivertype.JobInsertResult{
		Job: &rivertype.JobRow{
			ID:          f.nextID,
			Kind:        a.Kind(),
			Queue:       opts.Queue,
			State:       rivertype.JobStateAvailable,
			EncodedArgs: enc,
		},
		UniqueSkippedAsDuplicate: f.duplicate != nil,
	}, nil
}

func (f *fakeInserter) JobGet(_ context.Context, id int64) (*rivertype.JobRow, error) {
	return &rivertype.JobRow{ID: id, State: f.state}, nil
}

func newTestEnqueuer(ins inserter, opts ...Option) *Enqueuer {
	return &Enqueuer{client: ins, cfg: newConfig(opts)}
}
