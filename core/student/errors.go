package student

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// TransportError means no response was received.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return e.Op + ": network error"
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response carrying no structured field errors.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return body
	}
	return fmt.Sprintf("request failed with status code %d", e.StatusCode)
}

// FieldError holds every message the API reported for one field.
type FieldError struct {
	Field    string
	Messages []string
}

// ValidationError carries field-level violations, in the order they were reported.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(flds ...FieldError) *ValidationError {
	return &ValidationError{Fields: flds}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages(), ", ")
}

// Field returns the messages reported for fld, if any.
func (e *ValidationError) Field(fld string) ([]string, bool) {
	for _, f := range e.Fields {
		if f.Field == fld {
			return f.Messages, true
		}
	}
	return nil, false
}

// Messages flattens every reported message.
func (e *ValidationError) Messages() []string {
	var msgs []string
	for _, f := range e.Fields {
		msgs = append(msgs, f.Messages...)
	}
	return msgs
}

// NotFoundError means the requested id does not exist.
type NotFoundError struct {
	ID     int
	Detail string
}

func (e *NotFoundError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("alumno %d not found", e.ID)
}

// IsNotFound reports whether err (or its cause) is a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StatusCode maps an error to the HTTP status it stands for; 0 for transport errors.
func StatusCode(err error) int {
	var (
		srvErr *ServerError
		vErr   *ValidationError
		nfErr  *NotFoundError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &srvErr):
		return srvErr.StatusCode
	}
	return 0
}
