package resilience

import (
	"context"
	"errors"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

var (
	// Retry marks a failure of the dependency that may pass on a later attempt.
	Retry = ErrorClassification{Retryable: true, RecordFailure: true}
	// Permanent counts against the breaker but is not retried.
	Permanent = ErrorClassification{RecordFailure: true}
	// Ignore says nothing about the dependency's health.
	Ignore = ErrorClassification{}
)

// ClassifyCommon handles what every adapter treats alike. Caller
// cancellation is ignored and a rejected breaker call fails fast. The second
// result is false when the adapter must decide.
func ClassifyCommon(err error) (ErrorClassification, bool) {
	switch {
	case err == nil:
		return Ignore, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Ignore, true
	case IsCircuitOpen(err):
		return Permanent, true
	default:
		return ErrorClassification{}, false
	}
}

// AsTemporary tags retryable and breaker-rejected failures with
// domain.ErrTemporary, which callers surface as "try again later".
func AsTemporary(operation string, err error, classifier ErrorClassifier) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if IsCircuitOpen(err) || classifier(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	return err
}
