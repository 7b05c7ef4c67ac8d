package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEligibleFiles is returned when grouping left nothing to submit
	ErrNoEligibleFiles = errors.New("no eligible files to upload")

	// ErrUnsupportedResponse is returned for an envelope with an unknown
	// format or version
	ErrUnsupportedResponse = errors.New("unsupported response format")
)

// StatusError reports a non-2xx response from the upload endpoint
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("upload endpoint returned status %d: %s", e.Code, e.Body)
}

// DecodeError reports a response body that is not valid JSON for the
// expected contract
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "failed to decode upload response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
