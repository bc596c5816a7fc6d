// Package retry implements a bounded, sequential poll with an injectable sleeper.
package retry

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when every attempt ran without satisfying the predicate.
var ErrExhausted = errors.New("retry: attempts exhausted")

// Sleeper pauses for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// ClockSleeper sleeps on a real timer.
type ClockSleeper struct{}

func (ClockSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	Sleeper     Sleeper
}

// Outcome describes a finished poll.
type Outcome[T any] struct {
	Last     T
	Attempts int
}

// Poll calls fetch up to p.MaxAttempts times, p.Interval apart, and stops at the first value
// for which done returns true. It never overlaps calls. A fetch error stops the poll at once
// and is returned as is; running out of attempts returns ErrExhausted with the last value.
// observe, when set, sees every value that did not satisfy done.
func Poll[T any](ctx context.Context, p Policy, fetch func(ctx context.Context) (T, error), done func(T) bool, observe func(attempt int, v T)) (Outcome[T], error) {
	var out Outcome[T]
	sleeper := p.Sleeper
	if sleeper == nil {
		sleeper = ClockSleeper{}
	}
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		v, err := fetch(ctx)
		out.Attempts = i
		if err != nil {
			return out, err
		}
		out.Last = v
		if done(v) {
			return out, nil
		}
		if observe != nil {
			observe(i, v)
		}

		if i < attempts {
			if err := sleeper.Sleep(ctx, p.Interval); err != nil {
				return out, err
			}
		}
	}
	return out, ErrExhausted
}
