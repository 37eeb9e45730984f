package types

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed marks a page that could not be retrieved.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMalformedPage marks a ratio label with no value after it.
	ErrMalformedPage = errors.New("malformed page")
	// ErrMalformedPercentage marks a dividend yield that is not a number.
	ErrMalformedPercentage = errors.New("malformed percentage")
)

// StatusError is returned when the data provider answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrFetchFailed
}

// FailureKind names the category of a per-row failure for logging.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrMalformedPercentage):
		return "MALFORMED_PERCENTAGE"
	case errors.Is(err, ErrMalformedPage):
		return "MALFORMED_PAGE"
	default:
		return "FETCH_FAILURE"
	}
}
