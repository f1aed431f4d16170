package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/openwearables/quartz/internal/clock"
)

// Option represents a functional option for configuring Runner.
type Option func(*Runner) error

// WithLogHandler sets a custom slog handler for the Runner instance.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) error {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("scheduler.Runner")
		}
		return nil
	}
}

// WithLogger sets a logger for the Runner instance.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) error {
		if logger != nil {
			r.logger = logger
		}
		return nil
	}
}

// WithContext sets a custom parent context for the Runner instance.
func WithContext(ctx context.Context) Option {
	return func(r *Runner) error {
		if ctx != nil {
			r.parentCtx = ctx
		}
		return nil
	}
}

// WithClock sets the time source used for cadence and timers.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) error {
		if c != nil {
			r.clk = c
		}
		return nil
	}
}

// WithInteractiveInterval sets the interactive-mode frame cadence.
func WithInteractiveInterval(d time.Duration) Option {
	return func(r *Runner) error {
		if d > 0 {
			r.interactiveInterval = d
		}
		return nil
	}
}

// WithRetryInterval sets the fallback tick used after a timer fault.
func WithRetryInterval(d time.Duration) Option {
	return func(r *Runner) error {
		if d > 0 {
			r.retryInterval = d
		}
		return nil
	}
}

// WithTimerFactory replaces the timer primitive. Test hook for fault
// injection.
func WithTimerFactory(f func(d time.Duration) (<-chan time.Time, error)) Option {
	return func(r *Runner) error {
		r.newTimer = f
		return nil
	}
}
