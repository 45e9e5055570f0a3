package api

import (
	"errors"
	"fmt"
)

// Error is a failure reported by the backend (success:false) or detected
// before a request could be issued. Status is the HTTP status when one was
// received, 0 otherwise.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// ErrTokenExpired is returned before any network I/O when the configured
// bearer token has already expired.
var ErrTokenExpired = errors.New("bearer token expired")

// IsNotFound reports whether the error is a backend not-found failure.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}
