package engine

import (
	"context"
	"image"
	"log/slog"

	"github.com/openwearables/quartz/internal/clock"
	"github.com/openwearables/quartz/internal/render"
)

// Option represents a functional option for configuring Runner.
type Option func(*Runner) error

// WithLogHandler sets a custom slog handler for the Runner instance. The
// handler also propagates to the components the engine constructs.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Runner) error {
		if handler != nil {
			r.handler = handler
			r.logger = slog.New(handler).WithGroup("engine.Runner")
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

// WithClock sets the time source frames snapshot from.
func WithClock(c clock.Clock) Option {
	return func(r *Runner) error {
		if c != nil {
			r.clk = c
		}
		return nil
	}
}

// WithCanvasBounds sets the display geometry passed to every render pass.
func WithCanvasBounds(bounds image.Rectangle) Option {
	return func(r *Runner) error {
		if !bounds.Empty() {
			r.bounds = bounds
		}
		return nil
	}
}

// WithMode sets the initial draw mode.
func WithMode(m render.Mode) Option {
	return func(r *Runner) error {
		if m == render.ModeInteractive || m == render.ModeAmbient {
			r.mode = m
		}
		return nil
	}
}

// WithHighlight enables the selected-complication overlay from the start.
func WithHighlight(on bool) Option {
	return func(r *Runner) error {
		r.highlight = on
		return nil
	}
}
