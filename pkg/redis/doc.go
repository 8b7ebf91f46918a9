// Package redis opens go-redis clients from redis:// or rediss:// URLs with
// connection retry, and exposes health and shutdown hooks for the app
// runtime. It backs the redis task result store.
package redis
