package usage

import (
	"errors"
	"fmt"
)

// ErrPageLimit is returned when the API keeps reporting more pages after the
// configured page cap has been reached.
var ErrPageLimit = errors.New("usage: page limit reached")

// APIError is a non-2xx response from the usage endpoint.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

// ParseError is a usage page that could not be decoded.
type ParseError struct {
	Page int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse usage page %d: %v", e.Page, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
