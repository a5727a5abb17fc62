package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

type BreakerSettings struct {
	// Failures is the number of consecutive upstream failures that opens
	// the breaker.
	Failures uint32
	// Timeout is how long the breaker stays open before letting a probe through.
	Timeout time.Duration
	// OnStateChange, if set, is called on every transition.
	OnStateChange func(to gobreaker.State)
}

// Breaker fails fast while the wrapped Source keeps failing. It never
// retries; a rejected call is reported as an UpstreamError.
type Breaker struct {
	next Source
	cb   *gobreaker.CircuitBreaker[[]string]
}

func NewBreaker(next Source, name string, s BreakerSettings, log zerolog.Logger) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		// Any UpstreamError, our own timeout included, is a failure. A caller
		// giving up neither counts nor resets the failure streak.
		IsExcluded: callerGaveUp,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit breaker changed state")
			if s.OnStateChange != nil {
				s.OnStateChange(to)
			}
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[[]string](settings),
	}
}

func (b *Breaker) ListProductIDs(ctx context.Context) ([]string, error) {
	ids, err := b.cb.Execute(func() ([]string, error) {
		return b.next.ListProductIDs(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &UpstreamError{Backend: "breaker", Addr: b.cb.Name(), Err: err}
	}
	return ids, err
}

func callerGaveUp(err error) bool {
	if IsUpstreamUnavailable(err) {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
