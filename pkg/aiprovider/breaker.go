package aiprovider

import (
	"context"
	"errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Breaker fails fast with ErrCircuitOpen once the wrapped provider keeps
// failing, and lets a trial request through after the configured timeout.
type Breaker struct {
	next   Provider
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func NewBreaker(name string, cfg BreakerConfig, next Provider, logger *zap.Logger) *Breaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	b := &Breaker{next: next, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Provider circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err)
		},
	})

	return b
}

func (b *Breaker) Complete(ctx context.Context, req Request) (Response, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Response{}, ErrCircuitOpen
		}
		return Response{}, err
	}

	return res.(Response), nil
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Available is false while the breaker is open. A half-open breaker
// reports true so a trial request can get through.
func (b *Breaker) Available() bool {
	return b.cb.State() != gobreaker.StateOpen
}
