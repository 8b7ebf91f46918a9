package internal

// Handler declares its routes on a Router.
//
//	func (h *Dispatch) Routes(r internal.Router) {
//		r.GET("/run-task", h.run)
//		r.POST("/run-task", h.run)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc serves a request. A returned error is passed to the app's
// ErrorHandler unless a response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders errors returned from handlers.
type ErrorHandler func(Context, error) error
