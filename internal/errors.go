package internal

import (
	"errors"
	"log/slog"
	"net/http"
)

// HTTPError is an error with an HTTP status. Message is shown to the
// client, Err is only logged.
type HTTPError struct {
	Err     error
	Message string
	Code    int
}

func (e *HTTPError) Error() string { return e.Message }

func (e *HTTPError) Unwrap() error { return e.Err }

// NewHTTPError creates an HTTPError. An empty message defaults to the
// status text.
func NewHTTPError(code int, message string, cause ...error) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return &HTTPError{Code: code, Message: message, Err: errors.Join(cause...)}
}

func ErrBadRequest(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, cause...)
}

func ErrNotFound(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, cause...)
}

func ErrInternal(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusInternalServerError, message, cause...)
}

func ErrServiceUnavailable(message string, cause ...error) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, message, cause...)
}

// AsHTTPError finds an HTTPError in err's chain.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}

// ErrorResponse is the JSON body written for failed requests.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// DefaultErrorHandler writes {"error": message} with the HTTPError status,
// or a generic 500 for any other error. 5xx causes are logged at error
// level, 4xx at debug.
func DefaultErrorHandler(c Context, err error) error {
	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	if httpErr := AsHTTPError(err); httpErr != nil {
		code, msg = httpErr.Code, httpErr.Message
	}

	level := slog.LevelDebug
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	c.Logger().Log(c, level, "request failed",
		slog.Int("status", code),
		slog.String("method", c.Request().Method),
		slog.String("path", c.Request().URL.Path),
		slog.Any("error", err),
	)

	return c.JSON(code, ErrorResponse{Error: msg, RequestID: c.RequestID()})
}
