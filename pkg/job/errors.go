package job

import "errors"

var (
	// ErrUnknownTask is returned when a task name is not in the registry.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrInvalidPayload is returned when a payload cannot be decoded into
	// the task's argument type.
	ErrInvalidPayload = errors.New("job: invalid payload")

	ErrAlreadyStarted = errors.New("job: already started")
	ErrNotStarted     = errors.New("job: not started")

	// ErrPoolRequired is returned by constructors that need Postgres.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrNoResultBackend is returned by result lookups when the client was
	// built without WithResultBackend.
	ErrNoResultBackend = errors.New("job: no result backend configured")

	// ErrResultNotFound is returned when the backend holds no record for
	// a task id, either because it was never stored or it expired.
	ErrResultNotFound = errors.New("job: result not found")

	ErrInvalidSchedule = errors.New("job: invalid schedule")
)
