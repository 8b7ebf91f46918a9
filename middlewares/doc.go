// Package middlewares holds HTTP middleware for the internal runtime:
// request ids, panic recovery and request deadlines.
//
//	app := internal.New(
//		internal.WithMiddleware(
//			middlewares.RequestID(),
//			middlewares.Recover(),
//			middlewares.Timeout(10*time.Second),
//		),
//	)
package middlewares
