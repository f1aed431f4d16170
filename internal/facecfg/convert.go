package facecfg

import (
	"fmt"

	"github.com/openwearables/quartz/internal/complication"
	"github.com/openwearables/quartz/internal/style"
)

// StyleSchema converts the declared style options into the domain schema.
func (c *Config) StyleSchema() (*style.Schema, error) {
	options := make([]style.Option, 0, len(c.Style))
	for _, opt := range c.Style {
		options = append(options, style.Option{
			Key:         opt.Key,
			DisplayName: opt.DisplayName,
			Values:      opt.Values,
			Default:     opt.Default,
		})
	}
	schema, err := style.NewSchema(options)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return schema, nil
}

// SlotDefs converts the declared slots into domain slot definitions,
// preserving declaration order.
func (c *Config) SlotDefs() []complication.Slot {
	defs := make([]complication.Slot, 0, len(c.Slots))
	for _, s := range c.Slots {
		types := make([]complication.DataType, 0, len(s.Types))
		for _, dt := range s.Types {
			types = append(types, complication.DataType(dt))
		}
		defs = append(defs, complication.Slot{
			ID: s.ID,
			Bounds: complication.Rect{
				MinX: s.Bounds[0],
				MinY: s.Bounds[1],
				MaxX: s.Bounds[2],
				MaxY: s.Bounds[3],
			},
			Supported: types,
		})
	}
	return defs
}

// EnabledDataTypes returns the hit-testing type restriction, empty when the
// definition does not restrict.
func (c *Config) EnabledDataTypes() []complication.DataType {
	types := make([]complication.DataType, 0, len(c.ComplicationTypes))
	for _, dt := range c.ComplicationTypes {
		types = append(types, complication.DataType(dt))
	}
	return types
}
