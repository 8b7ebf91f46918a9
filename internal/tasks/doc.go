// Package tasks defines the application's background tasks and the
// registration table that binds them to their names.
package tasks
