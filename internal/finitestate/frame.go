// Frame loop state machine implementation.
// Tracks a single watch-face instance's render scheduling lifecycle.
package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Frame loop state constants
const (
	FrameIdle      = "idle"      // No frame armed, nothing in flight
	FrameScheduled = "scheduled" // A future frame callback is armed
	FrameRendering = "rendering" // A render pass is in flight
)

// FrameTransitions defines the valid state transitions for the frame loop.
// There is no rendering -> rendering edge: render passes never overlap.
var FrameTransitions = map[string][]string{
	FrameIdle:      {FrameScheduled},
	FrameScheduled: {FrameRendering, FrameIdle},
	FrameRendering: {FrameIdle, FrameScheduled},
}

// NewFrameMachine creates a new frame loop state machine starting at FrameIdle.
func NewFrameMachine(handler slog.Handler) (Machine, error) {
	machine, err := fsm.New(handler, FrameIdle, FrameTransitions)
	if err != nil {
		return nil, err
	}
	return &RunnerFSM{Machine: machine}, nil
}
