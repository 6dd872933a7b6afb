package nats

import (
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/resilience"
)

// classifyNATSError retries while the client is between connections; any
// other publish failure is a configuration or payload problem.
func classifyNATSError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyCommon(err); ok {
		return class
	}
	switch {
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrConnectionReconnecting),
		errors.Is(err, nats.ErrDisconnected):
		return resilience.Retry
	default:
		return resilience.Permanent
	}
}

func wrapTemporaryIfNeeded(err error) error {
	return resilience.AsTemporary("nats publish", err, classifyNATSError)
}
