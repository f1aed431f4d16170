// Package style holds the user style schema and the repository tracking the
// currently selected option values for a watch-face instance.
package style

import (
	"errors"
	"fmt"
	"slices"
)

// Schema and selection errors
var (
	ErrEmptyOptionKey       = errors.New("empty option key")
	ErrDuplicateOption      = errors.New("duplicate option key")
	ErrEmptyDomain          = errors.New("option has no legal values")
	ErrDefaultOutsideDomain = errors.New("default value outside option domain")
	ErrUnknownOption        = errors.New("unknown option")
	ErrInvalidOptionValue   = errors.New("invalid option value")
)

// Option is a single user-configurable style setting with a closed domain of
// legal values.
type Option struct {
	Key         string
	DisplayName string
	Values      []string
	Default     string
}

// Valid reports whether v belongs to the option's declared domain.
func (o Option) Valid(v string) bool {
	return slices.Contains(o.Values, v)
}

// Schema is the ordered, immutable set of style options declared by a face.
type Schema struct {
	options []Option
	byKey   map[string]int
}

// NewSchema validates the option list and builds a schema. Order is preserved
// and significant.
func NewSchema(options []Option) (*Schema, error) {
	s := &Schema{
		options: slices.Clone(options),
		byKey:   make(map[string]int, len(options)),
	}
	for i, opt := range s.options {
		if opt.Key == "" {
			return nil, fmt.Errorf("%w: option at index %d", ErrEmptyOptionKey, i)
		}
		if _, exists := s.byKey[opt.Key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateOption, opt.Key)
		}
		if len(opt.Values) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrEmptyDomain, opt.Key)
		}
		if !opt.Valid(opt.Default) {
			return nil, fmt.Errorf("%w: %q default %q", ErrDefaultOutsideDomain, opt.Key, opt.Default)
		}
		s.byKey[opt.Key] = i
	}
	return s, nil
}

// Options returns a copy of the declared options in declaration order.
func (s *Schema) Options() []Option {
	return slices.Clone(s.options)
}

// Lookup returns the option declared under key.
func (s *Schema) Lookup(key string) (Option, bool) {
	i, ok := s.byKey[key]
	if !ok {
		return Option{}, false
	}
	return s.options[i], true
}

// Defaults returns the default selection for every declared option.
func (s *Schema) Defaults() map[string]string {
	defaults := make(map[string]string, len(s.options))
	for _, opt := range s.options {
		defaults[opt.Key] = opt.Default
	}
	return defaults
}

// Len returns the number of declared options.
func (s *Schema) Len() int {
	return len(s.options)
}
