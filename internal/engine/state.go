package engine

import (
	"context"

	"github.com/openwearables/quartz/internal/finitestate"
)

// GetState returns the current lifecycle state.
func (r *Runner) GetState() string {
	return r.fsm.GetState()
}

// GetStateChan returns a channel emitting lifecycle state changes.
func (r *Runner) GetStateChan(ctx context.Context) <-chan string {
	return r.fsm.GetStateChan(ctx)
}

// IsRunning reports whether the engine is fully booted and serving frames.
func (r *Runner) IsRunning() bool {
	return r.fsm.GetState() == finitestate.StatusRunning
}
