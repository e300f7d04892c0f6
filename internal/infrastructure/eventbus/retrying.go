package eventbus

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/conveyor-ci/conveyor/internal/domain/event"
)

// RetryConfig tunes the retrying decorator.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryConfig returns the defaults used by the server wiring.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
	}
}

// RetryingPublisher decorates an event.Publisher with exponential backoff.
// Delivery stays best-effort: once the attempts are spent the last error
// is returned and the caller decides what to log.
type RetryingPublisher struct {
	next    event.Publisher
	retrier retry.Retry[struct{}]
}

// NewRetryingPublisher wraps next with retries.
func NewRetryingPublisher(next event.Publisher, cfg RetryConfig) *RetryingPublisher {
	return &RetryingPublisher{
		next: next,
		retrier: retry.New[struct{}](retry.Config{
			MaxAttempts:   cfg.MaxAttempts,
			InitialDelay:  cfg.InitialDelay,
			MaxDelay:      cfg.MaxDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    2.0,
			Jitter:        true,
			IsRetryable:   isRetryable,
		}),
	}
}

// Publish delivers a single event, retrying on transient failures.
func (p *RetryingPublisher) Publish(ctx context.Context, e event.Event) error {
	_, err := p.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, e)
	})
	return err
}

// PublishBatch delivers events in order, retrying the whole batch on
// transient failures. The inner publisher must tolerate redelivery.
func (p *RetryingPublisher) PublishBatch(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	_, err := p.retrier.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.next.PublishBatch(ctx, events)
	})
	return err
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
