package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx answer from the server
type Error struct {
	StatusCode int
	Message    string
	Details    interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// IsRateLimited reports whether err is a 429 from the server
func IsRateLimited(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusTooManyRequests
}
