package models

import (
	stderrors "errors"
	"fmt"
)

// SourceError carries a non-2xx response from one of the platform APIs.
// The aggregator inspects the status to tell auth death from transient noise.
type SourceError struct {
	HTTPStatus int
	Body       string
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source request failed with status code: %d", e.HTTPStatus)
}

// AsSourceError unwraps err (through pkg/errors wrapping) to a SourceError.
func AsSourceError(err error) (*SourceError, bool) {
	var sourceErr *SourceError
	if stderrors.As(err, &sourceErr) {
		return sourceErr, true
	}

	return nil, false
}

// APIErrorBody is the error payload shape the platform APIs respond with.
type APIErrorBody struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}
