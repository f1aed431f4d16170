// Package scheduler drives the render loop for one watch-face instance. It
// owns the frame state machine (idle, scheduled, rendering), derives frame
// cadence from the current draw mode, and guarantees render passes never
// overlap: a schedule request arriving mid-render is deferred until the
// in-flight pass completes.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/openwearables/quartz/internal/clock"
	"github.com/openwearables/quartz/internal/finitestate"
	"github.com/openwearables/quartz/internal/render"
)

// DefaultInteractiveInterval is the frame cadence in interactive mode when
// the face definition does not set one.
const DefaultInteractiveInterval = 125 * time.Millisecond

// DefaultRetryInterval is the coarse fallback tick used after a timer fault.
const DefaultRetryInterval = time.Second

// Interface guards
var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
)

// Driver is the engine surface the scheduler drives. RenderFrame runs one
// full render pass; Mode reports the current draw mode for cadence.
type Driver interface {
	RenderFrame(ctx context.Context) error
	Mode() render.Mode
}

// Runner implements the frame scheduler.
type Runner struct {
	driver Driver
	clk    clock.Clock

	interactiveInterval time.Duration
	retryInterval       time.Duration

	// newTimer is the timer primitive; swappable so tests can inject faults.
	newTimer func(d time.Duration) (<-chan time.Time, error)

	fsm   finitestate.Machine
	frame finitestate.Machine

	mu        sync.Mutex
	timerC    <-chan time.Time
	pending   bool
	cancelled bool

	wake chan struct{}

	parentCtx context.Context
	runCtx    context.Context
	runCancel context.CancelFunc

	logger *slog.Logger
}

// NewRunner creates a frame scheduler for the given driver.
func NewRunner(driver Driver, opts ...Option) (*Runner, error) {
	if driver == nil {
		return nil, fmt.Errorf("driver cannot be nil")
	}

	r := &Runner{
		driver:              driver,
		clk:                 clock.NewSystem(),
		interactiveInterval: DefaultInteractiveInterval,
		retryInterval:       DefaultRetryInterval,
		wake:                make(chan struct{}, 1),
		parentCtx:           context.Background(),
		logger:              slog.Default().WithGroup("scheduler.Runner"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if r.newTimer == nil {
		r.newTimer = func(d time.Duration) (<-chan time.Time, error) {
			return r.clk.After(d), nil
		}
	}

	fsmLogger := r.logger.WithGroup("fsm")
	machine, err := finitestate.New(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = machine

	frame, err := finitestate.NewFrameMachine(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create frame machine: %w", err)
	}
	r.frame = frame

	return r, nil
}

// String returns the name of this runnable component.
func (r *Runner) String() string {
	return "scheduler.Runner"
}

// Run implements the supervisor.Runnable interface.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting: %w", err)
	}

	r.runCtx, r.runCancel = context.WithCancel(ctx)
	defer r.runCancel()

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running: %w", err)
	}
	r.logger.Debug("Frame scheduler ready")

	for {
		r.mu.Lock()
		timer := r.timerC
		r.mu.Unlock()

		select {
		case <-r.parentCtx.Done():
			r.logger.Debug("Parent context canceled")
			return r.shutdown()
		case <-r.runCtx.Done():
			r.logger.Debug("Run context canceled")
			return r.shutdown()
		case <-r.wake:
			// Re-evaluate the armed timer.
		case <-timer:
			r.fire()
		}
	}
}

// Stop signals the scheduler to stop.
func (r *Runner) Stop() {
	r.logger.Debug("Stop called")
	if r.runCancel != nil {
		r.runCancel()
	}
}

// ScheduleNextFrame requests a future frame at the cadence of the current
// draw mode. While a render pass is in flight the request is deferred; at
// most one deferred request is retained.
func (r *Runner) ScheduleNextFrame() {
	r.mu.Lock()
	switch r.frame.GetState() {
	case finitestate.FrameIdle:
		if r.frame.TransitionBool(finitestate.FrameScheduled) {
			r.armTimerLocked()
		}
	case finitestate.FrameScheduled:
		// Already armed.
	case finitestate.FrameRendering:
		// A request issued after CancelAll supersedes the cancellation:
		// CancelAll only removes callbacks pending at the moment of the call.
		r.pending = true
		r.cancelled = false
	}
	r.mu.Unlock()
	r.poke()
}

// CancelAll removes every pending frame callback. The in-flight render pass,
// if any, finishes but schedules nothing further. Idempotent: repeated calls,
// or a call before any frame was scheduled, are no-ops.
func (r *Runner) CancelAll() {
	r.mu.Lock()
	r.pending = false
	r.timerC = nil
	switch r.frame.GetState() {
	case finitestate.FrameScheduled:
		if err := r.frame.Transition(finitestate.FrameIdle); err != nil {
			r.logger.Error("Failed to transition frame to idle", "error", err)
		}
	case finitestate.FrameRendering:
		r.cancelled = true
	}
	r.mu.Unlock()
	r.poke()
}

// FrameState returns the current frame loop state.
func (r *Runner) FrameState() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame.GetState()
}

// fire runs one render pass and settles the frame machine afterwards.
func (r *Runner) fire() {
	r.mu.Lock()
	if r.frame.GetState() != finitestate.FrameScheduled {
		// Stale tick from a cancelled timer.
		r.mu.Unlock()
		return
	}
	if err := r.frame.Transition(finitestate.FrameRendering); err != nil {
		r.logger.Error("Failed to transition frame to rendering", "error", err)
		r.mu.Unlock()
		return
	}
	r.timerC = nil
	r.mu.Unlock()

	if err := r.driver.RenderFrame(r.runCtx); err != nil {
		r.logger.Error("Render pass failed", "error", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case r.cancelled:
		r.cancelled = false
		r.pending = false
		if err := r.frame.Transition(finitestate.FrameIdle); err != nil {
			r.logger.Error("Failed to transition frame to idle", "error", err)
		}
	case r.pending:
		r.pending = false
		if err := r.frame.Transition(finitestate.FrameScheduled); err != nil {
			r.logger.Error("Failed to transition frame to scheduled", "error", err)
			return
		}
		r.armTimerLocked()
	default:
		if err := r.frame.Transition(finitestate.FrameIdle); err != nil {
			r.logger.Error("Failed to transition frame to idle", "error", err)
		}
	}
}

// armTimerLocked arms the frame timer for the current cadence. Caller holds
// r.mu. A timer fault falls back to a coarse retry tick; the scheduler never
// silently stops scheduling without an explicit CancelAll.
func (r *Runner) armTimerLocked() {
	d := r.cadence()
	ch, err := r.newTimer(d)
	if err != nil {
		r.logger.Error("Timer fault, retrying on next tick", "error", err, "cadence", d)
		r.timerC = r.clk.After(r.retryInterval)
		return
	}
	r.timerC = ch
}

// cadence derives the frame interval from the current draw mode. Ambient
// frames align to the next minute boundary.
func (r *Runner) cadence() time.Duration {
	if r.driver.Mode() == render.ModeAmbient {
		now := r.clk.Now().In(r.clk.Location())
		next := now.Truncate(time.Minute).Add(time.Minute)
		if d := next.Sub(now); d >= time.Second {
			return d
		}
		return time.Second
	}
	return r.interactiveInterval
}

// poke nudges the run loop to re-evaluate its armed timer.
func (r *Runner) poke() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// shutdown performs graceful shutdown of the scheduler.
func (r *Runner) shutdown() error {
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping", "error", err)
		}
	}
	r.CancelAll()
	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped: %w", err)
	}
	r.logger.Debug("Frame scheduler stopped")
	return nil
}
