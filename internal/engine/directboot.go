package engine

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// directBootComponent identifies the blob owner; rejected on mismatch so a
// foreign blob under the same key cannot be rehydrated.
const directBootComponent = "quartz.engine"

// DirectBootConfig is the serialized instance state written after every
// confirmed change and read back once at boot. A missing or corrupt blob is
// never fatal: the engine falls back to schema defaults.
type DirectBootConfig struct {
	Component string            `toml:"component"`
	Instance  string            `toml:"instance"`
	Style     map[string]string `toml:"style"`

	// SelectedSlot is nil when no complication slot is selected.
	SelectedSlot *int `toml:"selected_slot,omitempty"`
}

func encodeDirectBoot(cfg DirectBootConfig) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode direct boot config: %w", err)
	}
	return data, nil
}

func decodeDirectBoot(data []byte) (DirectBootConfig, error) {
	var cfg DirectBootConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return DirectBootConfig{}, fmt.Errorf("failed to decode direct boot config: %w", err)
	}
	if cfg.Component != directBootComponent {
		return DirectBootConfig{}, fmt.Errorf("unexpected direct boot component %q", cfg.Component)
	}
	return cfg, nil
}
