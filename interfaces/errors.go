package interfaces

import (
	"context"
	"errors"
)

// Classifier failure kinds. Implementations wrap one of these with %w.
var (
	ErrClassifierTimeout           = errors.New("classifier: timeout")
	ErrClassifierUnavailable       = errors.New("classifier: unavailable")
	ErrClassifierMalformedResponse = errors.New("classifier: malformed response")
)

// FailureKind names the failure class of err for logs and metrics.
// Unknown errors count as unavailable.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrClassifierTimeout), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrClassifierMalformedResponse):
		return "malformed"
	default:
		return "unavailable"
	}
}
