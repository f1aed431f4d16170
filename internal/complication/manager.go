package complication

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Manager owns the slot set for one watch-face instance. It performs tap
// hit-testing in declaration order, tracks the selected slot, and dispatches
// tap listeners. The manager is rebuilt when the face schema changes; slot
// IDs are stable within a schema version.
type Manager struct {
	mu       sync.RWMutex
	slots    []*Slot // declaration order, significant for hit-testing
	byID     map[int]*Slot
	enabled  map[DataType]bool
	selected int
	hasSel   bool
	history  []int

	lisMu     sync.Mutex
	listeners []TapListener

	logger *slog.Logger
}

// ManagerOption is a functional option for configuring a Manager.
type ManagerOption func(*Manager)

// WithLogHandler sets a custom slog handler for the Manager.
func WithLogHandler(handler slog.Handler) ManagerOption {
	return func(m *Manager) {
		if handler != nil {
			m.logger = slog.New(handler).WithGroup("complication.Manager")
		}
	}
}

// WithEnabledTypes restricts hit-testing to slots supporting at least one of
// the given data types. Slots outside the set stay addressable by ID. An
// empty set enables every slot.
func WithEnabledTypes(types ...DataType) ManagerOption {
	return func(m *Manager) {
		m.enabled = make(map[DataType]bool, len(types))
		for _, dt := range types {
			m.enabled[dt] = true
		}
	}
}

// NewManager builds a manager from an ordered slot declaration list. The
// active data-type restriction comes from WithEnabledTypes.
func NewManager(defs []Slot, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		byID:   make(map[int]*Slot, len(defs)),
		logger: slog.Default().WithGroup("complication.Manager"),
	}
	for _, opt := range opts {
		opt(m)
	}

	for i := range defs {
		s := defs[i]
		if s.Bounds.Empty() {
			return nil, fmt.Errorf("%w: slot %d", ErrEmptyBounds, s.ID)
		}
		if _, exists := m.byID[s.ID]; exists {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateSlot, s.ID)
		}
		m.slots = append(m.slots, &s)
		m.byID[s.ID] = &s
	}
	return m, nil
}

// HandleTap hit-tests the tap against slot bounds in declaration order; the
// first match wins on overlap. On a hit the matched slot becomes selected,
// the slot's own listener fires first, then every registered listener fires
// exactly once in registration order. On a miss nothing changes and nobody
// is notified.
func (m *Manager) HandleTap(x, y float64) (int, bool) {
	m.mu.Lock()
	var hit *Slot
	for _, s := range m.slots {
		if !s.SupportsAny(m.enabled) {
			continue
		}
		if s.Bounds.Contains(x, y) {
			hit = s
			break
		}
	}
	if hit == nil {
		m.mu.Unlock()
		m.logger.Debug("Tap missed all slots", "x", x, "y", y)
		return 0, false
	}

	m.selected = hit.ID
	m.hasSel = true
	m.history = append(m.history, hit.ID)
	slotListener := hit.Listener
	m.mu.Unlock()

	m.logger.Debug("Tap hit slot", "slot", hit.ID, "x", x, "y", y)

	m.lisMu.Lock()
	listeners := slices.Clone(m.listeners)
	m.lisMu.Unlock()

	if slotListener != nil {
		slotListener.OnComplicationSlotTapped(hit.ID)
	}
	for _, l := range listeners {
		l.OnComplicationSlotTapped(hit.ID)
	}
	return hit.ID, true
}

// AddTapListener appends a listener. Listeners are never removed; registering
// one twice means it fires twice per tap.
func (m *Manager) AddTapListener(l TapListener) {
	if l == nil {
		return
	}
	m.lisMu.Lock()
	defer m.lisMu.Unlock()
	m.listeners = append(m.listeners, l)
}

// TapHistory returns the IDs of every slot tapped since the last clear, in
// tap order.
func (m *Manager) TapHistory() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.history)
}

// ClearTapHistory resets the tap history without touching slot or selection
// state.
func (m *Manager) ClearTapHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// Selected returns the currently selected slot ID, if any.
func (m *Manager) Selected() (int, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selected, m.hasSel
}

// Select marks the given slot as selected without dispatching listeners.
// Used when rehydrating persisted state.
func (m *Manager) Select(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: %d", ErrSlotNotFound, id)
	}
	m.selected = id
	m.hasSel = true
	return nil
}

// ClearSelection drops the current selection.
func (m *Manager) ClearSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = 0
	m.hasSel = false
}

// SetData replaces the opaque payload for a slot.
func (m *Manager) SetData(id int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrSlotNotFound, id)
	}
	s.data = slices.Clone(data)
	return nil
}

// Data returns the payload currently held by a slot. The second return is
// false when the slot is unknown or holds no data.
func (m *Manager) Data(id int) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok || s.data == nil {
		return nil, false
	}
	return slices.Clone(s.data), true
}

// IDs returns every declared slot ID in declaration order, including slots
// currently excluded from hit-testing.
func (m *Manager) IDs() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]int, len(m.slots))
	for i, s := range m.slots {
		ids[i] = s.ID
	}
	return ids
}

// Bounds returns the declared bounds for a slot.
func (m *Manager) Bounds(id int) (Rect, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byID[id]
	if !ok {
		return Rect{}, false
	}
	return s.Bounds, true
}
