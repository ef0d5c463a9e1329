// Package poll provides deadline-bounded polling on top of an injectable clock.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned by Until when the condition never held before the deadline.
var ErrTimeout = errors.New("poll: deadline exceeded")

// Clock is the time source used by pollers.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// System is the wall clock.
var System Clock = systemClock{}

// Sleep blocks for d on clk, or until ctx is done.
func Sleep(ctx context.Context, clk Clock, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clk.After(d):
		return nil
	}
}

// Until evaluates cond immediately and then once every interval until it
// reports done, returns an error, or timeout has elapsed since the first
// evaluation. The condition is always evaluated once more at the deadline.
func Until(ctx context.Context, clk Clock, interval, timeout time.Duration, cond func() (bool, error)) error {
	start := clk.Now()
	for {
		done, err := cond()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if clk.Now().Sub(start) >= timeout {
			return ErrTimeout
		}
		if err := Sleep(ctx, clk, interval); err != nil {
			return err
		}
	}
}
