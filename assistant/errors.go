package assistant

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrAIUnavailable is matched by every failure to get an answer from the
	// provider once retries are exhausted.
	ErrAIUnavailable = errors.New("AI service temporarily unavailable")
	// ErrAIResponseInvalid marks provider output that is not the expected JSON.
	ErrAIResponseInvalid = errors.New("failed to parse AI response")
	// ErrNoProvider is returned by a provider that has no credentials. It is
	// not retried.
	ErrNoProvider = errors.New("AI provider not configured")
)

type UnavailableError struct {
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("failed to call AI provider after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrAIUnavailable
}

func invalidf(format string, args ...any) error {
	return errors.WithMessagef(ErrAIResponseInvalid, format, args...)
}
