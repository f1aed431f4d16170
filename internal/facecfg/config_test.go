package facecfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openwearables/quartz/internal/complication"
)

const validDefinition = `
version = "v1"
name = "analog classic"
interactive_interval = "125ms"
complication_types = ["short_text", "ranged_value"]

[[style]]
key = "colorScheme"
display_name = "Color Scheme"
values = ["light", "dark"]
default = "dark"

[[style]]
key = "accentColor"
display_name = "Accent Color"
values = ["steelblue", "crimson"]
default = "crimson"

[[slot]]
id = 1
bounds = [10.0, 10.0, 50.0, 50.0]
types = ["short_text"]

[[slot]]
id = 2
bounds = [40.0, 40.0, 80.0, 80.0]
types = ["ranged_value"]
`

func TestNewFromBytes(t *testing.T) {
	t.Parallel()

	cfg, err := NewFromBytes([]byte(validDefinition))
	require.NoError(t, err)

	assert.Equal(t, "analog classic", cfg.Name)
	assert.Equal(t, 125*time.Millisecond, cfg.InteractiveInterval.AsDuration())
	require.Len(t, cfg.Style, 2)
	require.Len(t, cfg.Slots, 2)
	assert.Equal(t, [4]float64{40, 40, 80, 80}, cfg.Slots[1].Bounds)
}

func TestNewConfigFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "face.toml")
	require.NoError(t, os.WriteFile(path, []byte(validDefinition), 0o644))

	cfg, err := NewConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "analog classic", cfg.Name)

	_, err = NewConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrFailedToLoadConfig)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() *Config {
		cfg, err := NewFromBytes([]byte(validDefinition))
		require.NoError(t, err)
		return cfg
	}

	t.Run("unsupported version", func(t *testing.T) {
		cfg := base()
		cfg.Version = "v99"
		assert.ErrorIs(t, cfg.Validate(), ErrUnsupportedConfigVer)
	})

	t.Run("missing name", func(t *testing.T) {
		cfg := base()
		cfg.Name = ""
		assert.ErrorIs(t, cfg.Validate(), ErrMissingRequiredField)
	})

	t.Run("duplicate style key", func(t *testing.T) {
		cfg := base()
		cfg.Style = append(cfg.Style, cfg.Style[0])
		assert.ErrorIs(t, cfg.Validate(), ErrDuplicateID)
	})

	t.Run("default outside domain", func(t *testing.T) {
		cfg := base()
		cfg.Style[0].Default = "neon"
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidValue)
	})

	t.Run("accent values must be real color names", func(t *testing.T) {
		cfg := base()
		cfg.Style[1].Values = []string{"steelblue", "hyperpink"}
		cfg.Style[1].Default = "steelblue"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownColorName)
	})

	t.Run("duplicate slot id", func(t *testing.T) {
		cfg := base()
		cfg.Slots[1].ID = cfg.Slots[0].ID
		assert.ErrorIs(t, cfg.Validate(), ErrDuplicateID)
	})

	t.Run("zero-area bounds", func(t *testing.T) {
		cfg := base()
		cfg.Slots[0].Bounds = [4]float64{50, 10, 50, 50}
		assert.ErrorIs(t, cfg.Validate(), ErrZeroAreaBounds)
	})

	t.Run("unknown data type", func(t *testing.T) {
		cfg := base()
		cfg.Slots[0].Types = []string{"hologram"}
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownDataType)
	})

	t.Run("multiple findings reported together", func(t *testing.T) {
		cfg := base()
		cfg.Name = ""
		cfg.Slots[0].Bounds = [4]float64{0, 0, 0, 0}
		err := cfg.Validate()
		assert.ErrorIs(t, err, ErrMissingRequiredField)
		assert.ErrorIs(t, err, ErrZeroAreaBounds)
	})
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Style)
	assert.NotEmpty(t, cfg.Slots)
}

func TestConversion(t *testing.T) {
	t.Parallel()

	cfg, err := NewFromBytes([]byte(validDefinition))
	require.NoError(t, err)

	t.Run("style schema", func(t *testing.T) {
		schema, err := cfg.StyleSchema()
		require.NoError(t, err)
		assert.Equal(t, 2, schema.Len())

		opt, ok := schema.Lookup("colorScheme")
		require.True(t, ok)
		assert.Equal(t, "dark", opt.Default)
	})

	t.Run("slot defs preserve order and bounds", func(t *testing.T) {
		defs := cfg.SlotDefs()
		require.Len(t, defs, 2)
		assert.Equal(t, 1, defs[0].ID)
		assert.Equal(t, complication.Rect{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50}, defs[0].Bounds)
		assert.Equal(t, []complication.DataType{complication.DataRangedValue}, defs[1].Supported)
	})

	t.Run("enabled data types", func(t *testing.T) {
		types := cfg.EnabledDataTypes()
		assert.Equal(t, []complication.DataType{
			complication.DataShortText,
			complication.DataRangedValue,
		}, types)
	})
}

func TestString(t *testing.T) {
	t.Parallel()

	cfg, err := NewFromBytes([]byte(validDefinition))
	require.NoError(t, err)

	out := cfg.String()
	assert.Contains(t, out, "analog classic")
	assert.Contains(t, out, "colorScheme")
	assert.Contains(t, out, "slot 1")
}
