package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/pscheid92/vnsentiment/internal/platform/retry"
)

// probeText is a short greeting every sentiment model can label.
const probeText = "xin chào"

// ProbePolicy is the start-up retry policy. Hosted inference endpoints answer
// 503 while a model is loading, so the wait backoff is generous.
func ProbePolicy(attempts int) retry.Policy {
	return retry.Policy{
		MaxAttempts:    attempts,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		WaitBackoff:    10 * time.Second,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			slog.Warn("Oracle probe failed, retrying", "attempt", attempt, "backoff", backoff, "error", err)
		},
	}
}

// Probe checks once at start-up that the endpoint answers with a usable
// label. It bypasses the circuit breaker so a slow start does not trip it.
func (c *Client) Probe(ctx context.Context, policy retry.Policy) error {
	err := retry.DoVoid(ctx, policy, classifyProbeError, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		_, err := c.call(callCtx, probeText)
		return err
	})
	if err != nil {
		return fmt.Errorf("oracle probe failed: %w", err)
	}
	return nil
}

func classifyProbeError(err error) retry.Action {
	if errors.Is(err, ErrMalformedResponse) {
		return retry.Stop
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusTooManyRequests, statusErr.StatusCode == http.StatusServiceUnavailable:
			return retry.After
		case statusErr.StatusCode < http.StatusInternalServerError:
			return retry.Stop
		}
	}
	return retry.Retry
}
