package complication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSlots() []Slot {
	return []Slot{
		{
			ID:        1,
			Bounds:    Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50},
			Supported: []DataType{DataShortText},
		},
		{
			ID:        2,
			Bounds:    Rect{MinX: 40, MinY: 40, MaxX: 80, MaxY: 80},
			Supported: []DataType{DataRangedValue},
		},
	}
}

func newTestManager(t *testing.T, opts ...ManagerOption) *Manager {
	t.Helper()
	m, err := NewManager(testSlots(), opts...)
	require.NoError(t, err)
	return m
}

func TestNewManager(t *testing.T) {
	t.Parallel()

	t.Run("duplicate slot id rejected", func(t *testing.T) {
		defs := testSlots()
		defs[1].ID = defs[0].ID
		_, err := NewManager(defs)
		assert.ErrorIs(t, err, ErrDuplicateSlot)
	})

	t.Run("empty bounds rejected", func(t *testing.T) {
		defs := testSlots()
		defs[0].Bounds = Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 50}
		_, err := NewManager(defs)
		assert.ErrorIs(t, err, ErrEmptyBounds)
	})

	t.Run("ids preserve declaration order", func(t *testing.T) {
		m := newTestManager(t)
		assert.Equal(t, []int{1, 2}, m.IDs())
	})
}

func TestHandleTap(t *testing.T) {
	t.Parallel()

	t.Run("hit selects slot and returns id", func(t *testing.T) {
		m := newTestManager(t)

		id, ok := m.HandleTap(20, 20)
		require.True(t, ok)
		assert.Equal(t, 1, id)

		sel, has := m.Selected()
		require.True(t, has)
		assert.Equal(t, 1, sel)
	})

	t.Run("overlap resolves by declaration order", func(t *testing.T) {
		// Slot 1 (10,10)-(50,50) and slot 2 (40,40)-(80,80) overlap at (45,45).
		m := newTestManager(t)

		id, ok := m.HandleTap(45, 45)
		require.True(t, ok)
		assert.Equal(t, 1, id, "first declared slot wins the tie-break")
	})

	t.Run("miss changes nothing", func(t *testing.T) {
		m := newTestManager(t)
		calls := 0
		m.AddTapListener(TapListenerFunc(func(int) { calls++ }))

		_, ok := m.HandleTap(200, 200)
		assert.False(t, ok)

		_, has := m.Selected()
		assert.False(t, has)
		assert.Zero(t, calls)
		assert.Empty(t, m.TapHistory())
	})

	t.Run("boundary is exclusive at max", func(t *testing.T) {
		m := newTestManager(t)
		_, ok := m.HandleTap(50, 50)
		require.True(t, ok) // inside slot 2 only

		id, _ := m.Selected()
		assert.Equal(t, 2, id)

		_, ok = m.HandleTap(80, 80)
		assert.False(t, ok)
	})
}

func TestTapListeners(t *testing.T) {
	t.Parallel()

	t.Run("registration order, exactly once per tap", func(t *testing.T) {
		m := newTestManager(t)

		var order []string
		m.AddTapListener(TapListenerFunc(func(id int) {
			order = append(order, "a")
			assert.Equal(t, 1, id)
		}))
		m.AddTapListener(TapListenerFunc(func(id int) {
			order = append(order, "b")
		}))

		_, ok := m.HandleTap(20, 20)
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("duplicate registration fires twice", func(t *testing.T) {
		m := newTestManager(t)

		calls := 0
		l := TapListenerFunc(func(int) { calls++ })
		m.AddTapListener(l)
		m.AddTapListener(l)

		m.HandleTap(20, 20)
		assert.Equal(t, 2, calls)
	})

	t.Run("per-slot listener fires before registered listeners", func(t *testing.T) {
		defs := testSlots()
		var order []string
		defs[0].Listener = TapListenerFunc(func(int) { order = append(order, "slot") })

		m, err := NewManager(defs)
		require.NoError(t, err)
		m.AddTapListener(TapListenerFunc(func(int) { order = append(order, "global") }))

		m.HandleTap(20, 20)
		assert.Equal(t, []string{"slot", "global"}, order)
	})
}

func TestTapHistory(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	m.HandleTap(20, 20)
	m.HandleTap(70, 70)
	m.HandleTap(20, 20)
	assert.Equal(t, []int{1, 2, 1}, m.TapHistory())

	m.ClearTapHistory()
	assert.Empty(t, m.TapHistory())

	// Selection survives a history clear.
	sel, has := m.Selected()
	require.True(t, has)
	assert.Equal(t, 1, sel)
}

func TestEnabledTypes(t *testing.T) {
	t.Parallel()

	t.Run("unsupported slot excluded from hit-testing", func(t *testing.T) {
		m := newTestManager(t, WithEnabledTypes(DataRangedValue))

		// Slot 1 only supports short_text, so the overlap now resolves to 2.
		id, ok := m.HandleTap(45, 45)
		require.True(t, ok)
		assert.Equal(t, 2, id)

		_, ok = m.HandleTap(20, 20)
		assert.False(t, ok)
	})

	t.Run("excluded slot stays addressable", func(t *testing.T) {
		m := newTestManager(t, WithEnabledTypes(DataRangedValue))

		require.NoError(t, m.SetData(1, []byte("tomorrow")))
		data, ok := m.Data(1)
		require.True(t, ok)
		assert.Equal(t, []byte("tomorrow"), data)

		_, ok = m.Bounds(1)
		assert.True(t, ok)
	})
}

func TestSlotData(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	_, ok := m.Data(1)
	assert.False(t, ok, "slot starts with no data")

	require.NoError(t, m.SetData(1, []byte{0x01, 0x02}))
	data, ok := m.Data(1)
	require.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x02}, data)

	assert.ErrorIs(t, m.SetData(99, nil), ErrSlotNotFound)
}

func TestSelect(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	require.NoError(t, m.Select(2))
	id, has := m.Selected()
	require.True(t, has)
	assert.Equal(t, 2, id)
	assert.Empty(t, m.TapHistory(), "Select must not dispatch or record taps")

	assert.ErrorIs(t, m.Select(99), ErrSlotNotFound)

	m.ClearSelection()
	_, has = m.Selected()
	assert.False(t, has)
}
