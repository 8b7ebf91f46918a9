// Package cache provides a small TTL key-value store with an in-memory and a
// Redis implementation. Task results are kept here when the result backend
// is configured as memory or redis.
//
//	results := cache.NewRedis[job.Result](client, cache.WithPrefix("celery-task-meta"))
//	_ = results.Set(ctx, id, res, 24*time.Hour)
package cache
