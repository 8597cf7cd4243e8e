// Package domain defines domain-level errors for the detection feature.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds returned by the external detection path.
// Each typed error below matches its sentinel via errors.Is.
var (
	// ErrExternalService indicates a non-2xx status from the vision endpoint.
	ErrExternalService = errors.New("vision API error")

	// ErrMissingOutput indicates that the response envelope had no text part.
	ErrMissingOutput = errors.New("no output from vision API")

	// ErrMalformedResponse indicates that the model text did not contain parsable JSON.
	ErrMalformedResponse = errors.New("could not parse vision API JSON response")

	// ErrIncompleteResponse indicates that the parsed JSON lacked required fields
	// or had fields of the wrong type.
	ErrIncompleteResponse = errors.New("vision API output missing fields")
)

// ExternalServiceError carries the upstream status code and raw body.
type ExternalServiceError struct {
	StatusCode int
	Body       string
}

func (e *ExternalServiceError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", ErrExternalService, e.Body)
	}
	return fmt.Sprintf("%s (status %d): %s", ErrExternalService, e.StatusCode, e.Body)
}

func (e *ExternalServiceError) Is(target error) bool { return target == ErrExternalService }

// MalformedResponseError carries the raw model text that failed to parse.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedResponse, e.Raw)
}

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IncompleteResponseError lists which fields were absent or mistyped.
type IncompleteResponseError struct {
	Raw     string
	Missing []string
}

func (e *IncompleteResponseError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", ErrIncompleteResponse, strings.Join(e.Missing, ", "), e.Raw)
}

func (e *IncompleteResponseError) Is(target error) bool { return target == ErrIncompleteResponse }

// Kind returns a stable machine-readable name for a detection error,
// or "" when err is not one of the external error kinds.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrExternalService):
		return "external_service"
	case errors.Is(err, ErrMissingOutput):
		return "missing_output"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrIncompleteResponse):
		return "incomplete_response"
	default:
		return ""
	}
}
