package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEmptyData is returned when a response carries neither data nor errors.
	ErrEmptyData = errors.New("graphql response has no data")
	// ErrDecode is returned when a response body cannot be decoded.
	ErrDecode = errors.New("failed to decode graphql response")
)

// Location points into the request document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Message is a single entry of a GraphQL "errors" array.
type Message struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Code returns extensions.code, if present.
func (m Message) Code() string {
	if code, ok := m.Extensions["code"].(string); ok {
		return code
	}
	return ""
}

// Error wraps the top-level errors of a GraphQL response.
type Error struct {
	Operation string
	Errors    []Message
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, m := range e.Errors {
		msgs = append(msgs, m.Message)
	}
	if e.Operation == "" {
		return "graphql: " + strings.Join(msgs, "; ")
	}
	return fmt.Sprintf("graphql %s: %s", e.Operation, strings.Join(msgs, "; "))
}

// HasCode reports whether any message carries the given extensions.code.
func (e *Error) HasCode(code string) bool {
	for _, m := range e.Errors {
		if m.Code() == code {
			return true
		}
	}
	return false
}

// StatusError is returned for non-2xx HTTP responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("storefront api returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Temporary reports whether the request may succeed when repeated.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsThrottled reports whether err is a throttling response, either as HTTP 429
// or as a THROTTLED GraphQL error.
func IsThrottled(err error) bool {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return true
	}
	var ge *Error
	return errors.As(err, &ge) && ge.HasCode("THROTTLED")
}
