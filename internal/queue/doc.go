// Package queue turns the CELERY_ settings into connections and task client
// options shared by the server and worker commands.
package queue
