// Package facecfg loads and validates the declarative face definition: the
// style schema, the complication slot layout, and the frame cadence. The
// definition is TOML on disk and converts into the engine's domain objects.
package facecfg

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// VersionLatest is the current face definition version.
const VersionLatest = "v1"

// Config is the root of a face definition.
type Config struct {
	Version string `toml:"version"`
	Name    string `toml:"name"`

	// InteractiveInterval is the frame cadence in interactive mode. Ambient
	// cadence is fixed at minute boundaries and not configurable.
	InteractiveInterval Duration `toml:"interactive_interval"`

	// ComplicationTypes restricts which data types participate in tap
	// hit-testing. Empty means all declared types.
	ComplicationTypes []string `toml:"complication_types"`

	Style []StyleOption `toml:"style"`
	Slots []SlotConfig  `toml:"slot"`
}

// StyleOption declares one user style option and its closed value domain.
type StyleOption struct {
	Key         string   `toml:"key"`
	DisplayName string   `toml:"display_name"`
	Values      []string `toml:"values"`
	Default     string   `toml:"default"`
}

// SlotConfig declares one complication slot. Bounds is [minX, minY, maxX,
// maxY] in screen space, min inclusive and max exclusive.
type SlotConfig struct {
	ID     int        `toml:"id"`
	Bounds [4]float64 `toml:"bounds"`
	Types  []string   `toml:"types"`
}

// NewConfig loads, parses, and validates a face definition file.
func NewConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToLoadConfig, path, err)
	}
	return NewFromBytes(data)
}

// NewFromBytes parses and validates a face definition from raw TOML.
func NewFromBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToLoadConfig, err)
	}
	if cfg.Version == "" {
		cfg.Version = VersionLatest
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in face definition used when no file is given: a
// light/dark analog face with two complication slots.
func Default() *Config {
	return &Config{
		Version:             VersionLatest,
		Name:                "quartz default",
		InteractiveInterval: Duration(125 * time.Millisecond),
		Style: []StyleOption{
			{
				Key:         "colorScheme",
				DisplayName: "Color Scheme",
				Values:      []string{"light", "dark"},
				Default:     "light",
			},
			{
				Key:         "accentColor",
				DisplayName: "Accent Color",
				Values:      []string{"steelblue", "crimson", "seagreen"},
				Default:     "steelblue",
			},
		},
		Slots: []SlotConfig{
			{ID: 1, Bounds: [4]float64{20, 20, 80, 80}, Types: []string{"short_text"}},
			{ID: 2, Bounds: [4]float64{120, 120, 180, 180}, Types: []string{"ranged_value"}},
		},
	}
}
