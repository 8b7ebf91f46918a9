package handlers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/taskforge/internal"
	"github.com/dmitrymomot/taskforge/internal/tasks"
	"github.com/dmitrymomot/taskforge/pkg/job"
)

type enqueuer interface {
	Enqueue(ctx context.Context, name string, payload any, opts ...job.EnqueueOption) (*job.Handle, error)
}

// DispatchResponse is the body of /run-task.
type DispatchResponse struct {
	AddTaskID      string `json:"add_task_id"`
	MultiplyTaskID string `json:"multiply_task_id"`
	SayHelloTaskID string `json:"say_hello_task_id"`
}

// Dispatch enqueues the demo tasks.
type Dispatch struct {
	client enqueuer
}

func NewDispatch(client enqueuer) *Dispatch {
	return &Dispatch{client: client}
}

func (h *Dispatch) Routes(r internal.Router) {
	r.GET("/run-task", h.run)
	r.POST("/run-task", h.run)
}

// run submits add(4, 6), multiply(3, 7) and say_hello("Beomjune") in that
// order and answers with their task ids.
func (h *Dispatch) run(c internal.Context) error {
	add, err := h.client.Enqueue(c, tasks.AddName, tasks.AddArgs{X: 4, Y: 6})
	if err != nil {
		return err
	}
	multiply, err := h.client.Enqueue(c, tasks.MultiplyName, tasks.AddArgs{X: 3, Y: 7})
	if err != nil {
		return err
	}
	hello, err := h.client.Enqueue(c, tasks.SayHelloName, tasks.SayHelloArgs{Name: "Beomjune"})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, DispatchResponse{
		AddTaskID:      add.ID(),
		MultiplyTaskID: multiply.ID(),
		SayHelloTaskID: hello.ID(),
	})
}
