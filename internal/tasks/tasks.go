package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Registered task names. Callers enqueue by these.
const (
	AddName           = "myapp.tasks.add"
	MultiplyName      = "myapp.tasks.multiply"
	SayHelloName      = "myapp.tasks.say_hello"
	ScheduledTaskName = "myapp.tasks.my_scheduled_task"
)

// DefaultSchedule is used by ScheduledTask when Spec is empty.
const DefaultSchedule = "@every 30s"

type AddArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns x + y.
type Add struct{}

func (Add) Name() string { return AddName }

func (Add) Handle(_ context.Context, args AddArgs) (int, error) {
	return args.X + args.Y, nil
}

// Multiply returns x * y. It shares the argument shape of Add.
type Multiply struct{}

func (Multiply) Name() string { return MultiplyName }

func (Multiply) Handle(_ context.Context, args AddArgs) (int, error) {
	return args.X * args.Y, nil
}

type SayHelloArgs struct {
	Name string `json:"name"`
}

type SayHello struct{}

func (SayHello) Name() string { return SayHelloName }

func (SayHello) Handle(_ context.Context, args SayHelloArgs) (string, error) {
	return fmt.Sprintf("Hello, %s!", args.Name), nil
}

// ScheduledTask logs a line and reports when it ran. It takes no arguments
// and is the task run by beat.
type ScheduledTask struct {
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now  func() time.Time
	Spec string
}

func (ScheduledTask) Name() string { return ScheduledTaskName }

func (t ScheduledTask) Schedule() string {
	if t.Spec == "" {
		return DefaultSchedule
	}
	return t.Spec
}

func (t ScheduledTask) Handle(ctx context.Context) (string, error) {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	ts := now()

	if t.Logger != nil {
		t.Logger.InfoContext(ctx, "scheduled task running", slog.Time("at", ts))
	}
	return fmt.Sprintf("Task completed at %s", ts.Format(time.RFC3339Nano)), nil
}
