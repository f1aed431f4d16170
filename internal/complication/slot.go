// Package complication owns the watch face's complication slots: bounded,
// tappable regions displaying auxiliary data.
package complication

import (
	"errors"
	"slices"
)

// Slot and manager errors
var (
	ErrSlotNotFound  = errors.New("complication slot not found")
	ErrDuplicateSlot = errors.New("duplicate complication slot id")
	ErrEmptyBounds   = errors.New("complication slot has empty bounds")
)

// DataType classifies the payload a slot can display.
type DataType string

const (
	DataShortText       DataType = "short_text"
	DataLongText        DataType = "long_text"
	DataRangedValue     DataType = "ranged_value"
	DataMonochromeImage DataType = "monochrome_image"
	DataEmpty           DataType = "empty"
)

// Rect is an axis-aligned screen-space region in the same coordinate space as
// tap input. Min is inclusive, Max exclusive.
type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether the point lies inside the region.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// Empty reports whether the region has no area.
func (r Rect) Empty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// TapListener receives tap notifications. Listeners are invoked synchronously
// during HandleTap.
type TapListener interface {
	OnComplicationSlotTapped(slotID int)
}

// TapListenerFunc adapts a function to the TapListener interface.
type TapListenerFunc func(slotID int)

func (f TapListenerFunc) OnComplicationSlotTapped(slotID int) {
	f(slotID)
}

// Slot declares one complication region. ID is stable for the lifetime of a
// schema version. Data is an opaque payload owned by the data layer.
type Slot struct {
	ID        int
	Bounds    Rect
	Supported []DataType
	Listener  TapListener

	data []byte
}

// SupportsAny reports whether the slot supports at least one of the given types.
func (s *Slot) SupportsAny(enabled map[DataType]bool) bool {
	if len(enabled) == 0 {
		return true
	}
	return slices.ContainsFunc(s.Supported, func(dt DataType) bool {
		return enabled[dt]
	})
}
