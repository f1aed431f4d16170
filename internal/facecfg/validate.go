package facecfg

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/image/colornames"

	"github.com/openwearables/quartz/internal/complication"
)

// knownDataTypes are the complication payload classes a slot may declare.
var knownDataTypes = []string{
	string(complication.DataShortText),
	string(complication.DataLongText),
	string(complication.DataRangedValue),
	string(complication.DataMonochromeImage),
	string(complication.DataEmpty),
}

// colorOptionKeys are style options whose values must resolve to SVG 1.1
// color names for the canvas backend.
var colorOptionKeys = []string{"accentColor"}

// Validate checks the face definition for structural errors. All findings
// are joined so a bad file reports everything at once.
func (c *Config) Validate() error {
	var errz []error

	if c.Version != VersionLatest {
		errz = append(errz, fmt.Errorf("%w: %q", ErrUnsupportedConfigVer, c.Version))
	}
	if c.Name == "" {
		errz = append(errz, fmt.Errorf("%w: name", ErrMissingRequiredField))
	}
	if c.InteractiveInterval < 0 {
		errz = append(errz, fmt.Errorf("%w: %s", ErrInvalidInterval, c.InteractiveInterval))
	}

	for _, dt := range c.ComplicationTypes {
		if !slices.Contains(knownDataTypes, dt) {
			errz = append(errz, fmt.Errorf("%w: %q", ErrUnknownDataType, dt))
		}
	}

	errz = append(errz, c.validateStyle()...)
	errz = append(errz, c.validateSlots()...)

	if err := errors.Join(errz...); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToValidateConfig, err)
	}
	return nil
}

func (c *Config) validateStyle() []error {
	var errz []error
	seen := make(map[string]bool, len(c.Style))

	for i, opt := range c.Style {
		if opt.Key == "" {
			errz = append(errz, fmt.Errorf("%w: style option at index %d has no key", ErrMissingRequiredField, i))
			continue
		}
		if seen[opt.Key] {
			errz = append(errz, fmt.Errorf("%w: style option %q", ErrDuplicateID, opt.Key))
		}
		seen[opt.Key] = true

		if len(opt.Values) == 0 {
			errz = append(errz, fmt.Errorf("%w: style option %q has no values", ErrMissingRequiredField, opt.Key))
			continue
		}
		if !slices.Contains(opt.Values, opt.Default) {
			errz = append(errz, fmt.Errorf("%w: style option %q default %q not in values", ErrInvalidValue, opt.Key, opt.Default))
		}
		if slices.Contains(colorOptionKeys, opt.Key) {
			for _, v := range opt.Values {
				if _, ok := colornames.Map[v]; !ok {
					errz = append(errz, fmt.Errorf("%w: style option %q value %q", ErrUnknownColorName, opt.Key, v))
				}
			}
		}
	}
	return errz
}

func (c *Config) validateSlots() []error {
	var errz []error
	seen := make(map[int]bool, len(c.Slots))

	for i, slot := range c.Slots {
		if seen[slot.ID] {
			errz = append(errz, fmt.Errorf("%w: slot %d", ErrDuplicateID, slot.ID))
		}
		seen[slot.ID] = true

		if slot.Bounds[2] <= slot.Bounds[0] || slot.Bounds[3] <= slot.Bounds[1] {
			errz = append(errz, fmt.Errorf("%w: slot %d", ErrZeroAreaBounds, slot.ID))
		}
		if len(slot.Types) == 0 {
			errz = append(errz, fmt.Errorf("%w: slot at index %d declares no data types", ErrMissingRequiredField, i))
		}
		for _, dt := range slot.Types {
			if !slices.Contains(knownDataTypes, dt) {
				errz = append(errz, fmt.Errorf("%w: slot %d type %q", ErrUnknownDataType, slot.ID, dt))
			}
		}
	}
	return errz
}
