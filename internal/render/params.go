// Package render defines the renderer contract: the parameters a frame is
// drawn with, the time snapshot it is drawn against, and the interface every
// draw backend implements.
package render

import (
	"time"

	"github.com/openwearables/quartz/internal/clock"
)

// Mode is the draw mode the face is currently in.
type Mode string

const (
	// ModeInteractive is the actively animating, user-visible mode.
	ModeInteractive Mode = "interactive"

	// ModeAmbient is the low-power mode with infrequent updates.
	ModeAmbient Mode = "ambient"
)

// Params describes one render pass. It is an immutable comparable value,
// constructed fresh per frame; distinct values drive the
// OnRenderParametersChanged hook.
type Params struct {
	Mode           Mode
	ForScreenshot  bool
	HighlightLayer bool

	// SelectedSlot is only meaningful when HasSelection is set.
	SelectedSlot int
	HasSelection bool
}

// Snapshot is the instant and zone captured once at the start of a render
// pass. The whole pass renders against this value; the clock is never
// re-read mid-render.
type Snapshot struct {
	Instant time.Time
	Zone    *time.Location
}

// NewSnapshot captures the current instant and zone from the clock.
func NewSnapshot(c clock.Clock) Snapshot {
	return Snapshot{
		Instant: c.Now(),
		Zone:    c.Location(),
	}
}
