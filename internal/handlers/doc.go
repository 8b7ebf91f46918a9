// Package handlers holds the HTTP endpoints. Each handler receives the task
// client it needs through its constructor.
package handlers
