package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("request rejected")
	ErrServer       = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected response")
)

const NetworkErrorMessage = "Network error. Please check your connection and try again."

// Error is a failed call. It unwraps to one of the sentinels above.
type Error struct {
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	s := e.Kind.Error()
	if e.Status != 0 {
		s = fmt.Sprintf("%s (%d %s)", s, e.Status, http.StatusText(e.Status))
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Kind }

type fallbackError struct {
	err error
	msg string
}

func (f *fallbackError) Error() string { return f.msg + ": " + f.err.Error() }
func (f *fallbackError) Unwrap() error { return f.err }

// WithFallback attaches the message shown when the server did not send one.
func WithFallback(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &fallbackError{err: err, msg: msg}
}

// Message renders err for the user: the network notice for unreachable
// servers, else the server's message, else the fallback attached with
// WithFallback, else err's own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnavailable) {
		return NetworkErrorMessage
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	var fb *fallbackError
	if errors.As(err, &fb) {
		return fb.msg
	}
	return err.Error()
}

func mapStatus(status int, message string) error {
	switch {
	case status == http.StatusUnauthorized:
		return &Error{Kind: ErrUnauthorized, Status: status, Message: message}
	case status >= 400 && status < 500:
		return &Error{Kind: ErrRejected, Status: status, Message: message}
	case status >= 500:
		return &Error{Kind: ErrServer, Status: status, Message: message}
	default:
		return &Error{Kind: ErrUnexpected, Status: status, Message: message}
	}
}
