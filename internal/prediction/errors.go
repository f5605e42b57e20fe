package prediction

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured         = errors.New("prediction api not configured")
	ErrInsufficientData      = errors.New("not enough cycle data to generate prediction")
	ErrTransport             = errors.New("prediction api request failed")
	ErrUpstreamStatus        = errors.New("prediction api returned an error status")
	ErrEmptyResponse         = errors.New("prediction api returned an empty response")
	ErrEmptyAfterCleaning    = errors.New("model returned empty content after cleaning")
	ErrInvalidJSON           = errors.New("invalid JSON from model")
	ErrMissingRequiredFields = errors.New("invalid prediction format: missing required fields")
)

const statusBodyExcerptLength = 150

// StatusError reports a non-2xx answer together with the start of its body.
type StatusError struct {
	StatusCode int
	Body       string
}

func newStatusError(statusCode int, body string) *StatusError {
	excerpt := []rune(body)
	if len(excerpt) > statusBodyExcerptLength {
		excerpt = excerpt[:statusBodyExcerptLength]
	}
	return &StatusError{StatusCode: statusCode, Body: string(excerpt)}
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("prediction api error %d: %s", err.StatusCode, err.Body)
}

func (err *StatusError) Is(target error) bool {
	return target == ErrUpstreamStatus
}
