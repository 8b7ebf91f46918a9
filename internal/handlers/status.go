package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/taskforge/internal"
	"github.com/dmitrymomot/taskforge/pkg/job"
)

type resultLoader interface {
	Result(ctx context.Context, taskID string) (*job.Result, error)
}

// StatusResponse is the body of /tasks/{id}.
type StatusResponse struct {
	TaskID   string          `json:"task_id"`
	TaskName string          `json:"task_name"`
	State    job.State       `json:"state"`
	Result   json.RawMessage `json:"result"`
	Error    string          `json:"error,omitempty"`
	DateDone *time.Time      `json:"date_done"`
}

// TaskStatus reports stored task results.
type TaskStatus struct {
	results resultLoader
}

func NewTaskStatus(results resultLoader) *TaskStatus {
	return &TaskStatus{results: results}
}

func (h *TaskStatus) Routes(r internal.Router) {
	r.GET("/tasks/{id}", h.get)
}

func (h *TaskStatus) get(c internal.Context) error {
	id := c.Param("id")

	res, err := h.results.Result(c, id)
	switch {
	case errors.Is(err, job.ErrResultNotFound):
		return internal.ErrNotFound("task not found", err)
	case errors.Is(err, job.ErrNoResultBackend):
		return internal.ErrServiceUnavailable("result backend is not configured", err)
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, StatusResponse{
		TaskID:   res.TaskID,
		TaskName: res.TaskName,
		State:    res.State,
		Result:   res.Value,
		Error:    res.Error,
		DateDone: res.DateDone,
	})
}
