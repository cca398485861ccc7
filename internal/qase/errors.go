package qase

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any APIError for a 404 response.
var ErrNotFound = errors.New("not found")

// FieldError is a per-field validation message returned with a 422.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// APIError is a failed call: a transport-level non-2xx response or an
// envelope with status=false.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Fields     []FieldError
	RequestID  string
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s: status %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&sb, ": %s", e.Message)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&sb, " [%s: %s]", f.Field, f.Error)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&sb, " (request id: %s)", e.RequestID)
	}
	return sb.String()
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
