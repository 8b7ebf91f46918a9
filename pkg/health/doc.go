// Package health serves liveness and readiness probes.
//
// Readiness runs every named check concurrently under one timeout and
// answers 503 if any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//		"worker":   manager.Healthcheck(),
//	}, health.WithLogger(log)))
//
// Responses are plain text unless the client asks for JSON with an
// "Accept: application/json" header or "?format=json".
package health
