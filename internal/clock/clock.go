// Package clock provides the time source consumed by the frame scheduler and
// render pipeline. The interface is narrow so tests can substitute a manually
// advanced clock.
package clock

import "time"

// Clock supplies the current instant, the active time zone, and timer channels.
type Clock interface {
	// Now returns the current instant.
	Now() time.Time

	// Location returns the active time zone.
	Location() *time.Location

	// After returns a channel that delivers one tick after d has elapsed.
	After(d time.Duration) <-chan time.Time
}

// System is the wall-clock implementation of Clock.
type System struct {
	loc *time.Location
}

// NewSystem creates a Clock backed by the host's wall clock and local zone.
func NewSystem() *System {
	return &System{loc: time.Local}
}

// NewSystemInZone creates a wall Clock pinned to the given zone.
func NewSystemInZone(loc *time.Location) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{loc: loc}
}

func (s *System) Now() time.Time {
	return time.Now().In(s.loc)
}

func (s *System) Location() *time.Location {
	return s.loc
}

func (s *System) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
