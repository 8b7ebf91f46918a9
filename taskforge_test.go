package taskforge_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskforge"
	"github.com/dmitrymomot/taskforge/internal/handlers"
	"github.com/dmitrymomot/taskforge/internal/tasks"
	"github.com/dmitrymomot/taskforge/middlewares"
	"github.com/dmitrymomot/taskforge/pkg/job"
	"github.com/dmitrymomot/taskforge/pkg/logger"
)

func newApp(client taskforge.TaskClient, ready func(context.Context) error) *taskforge.App {
	return taskforge.New(
		taskforge.WithLogger(logger.NewNope()),
		taskforge.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
		taskforge.WithHandlers(
			handlers.NewDispatch(client),
			handlers.NewTaskStatus(client),
		),
		taskforge.WithHealthChecks(taskforge.WithReadinessCheck("broker", ready)),
	)
}

func get(app http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestApp_DispatchThenStatus(t *testing.T) {
	t.Parallel()

	client := job.NewEager(tasks.Registry(tasks.Deps{})...)
	t.Cleanup(func() { _ = client.Close() })
	app := newApp(client, func(context.Context) error { return nil })

	rec := get(app, "/run-task")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middlewares.RequestIDHeader))

	var ids handlers.DispatchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ids))

	rec = get(app, "/tasks/"+ids.MultiplyTaskID)
	require.Equal(t, http.StatusOK, rec.Code)

	var status handlers.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, tasks.MultiplyName, status.TaskName)
	assert.JSONEq(t, "21", string(status.Result))
}

func TestApp_UnknownTaskID(t *testing.T) {
	t.Parallel()

	client := job.NewEager(tasks.Registry(tasks.Deps{})...)
	t.Cleanup(func() { _ = client.Close() })
	t.Cleanup(func() { _ = client.Close() })
	app := newApp(client, func(context.Context) error { return nil })

	rec := get(app, "/tasks/does-not-exist")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body taskforge.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "task not found", body.Error)
	assert.NotEmpty(t, body.RequestID)
}

func TestApp_Health(t *testing.T) {
	t.Parallel()

	client := job.NewEager()
	t.Cleanup(func() { _ = client.Close() })

	healthy := newApp(client, func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, get(healthy, "/health/live").Code)
	assert.Equal(t, http.StatusOK, get(healthy, "/health/ready").Code)

	down := newApp(client, func(context.Context) error { return errors.New("broker down") })
	assert.Equal(t, http.StatusOK, get(down, "/health/live").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(down, "/health/ready").Code)
}

func TestApp_NotFound(t *testing.T) {
	t.Parallel()

	rec := get(taskforge.New(), "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body taskforge.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.Error)
}

func TestHTTPErrorHelpers(t *testing.T) {
	t.Parallel()

	cause := errors.New("cause")
	err := taskforge.ErrServiceUnavailable("", cause)
	assert.Equal(t, http.StatusServiceUnavailable, err.Code)
	assert.Equal(t, "Service Unavailable", err.Message)
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, http.StatusTeapot, taskforge.NewHTTPError(http.StatusTeapot, "short").Code)
	assert.Equal(t, http.StatusNotFound, taskforge.ErrNotFound("gone").Code)
}
