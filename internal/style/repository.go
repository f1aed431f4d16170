package style

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
)

// Observer is notified after a selection change has been committed. Observers
// run synchronously, in subscription order, before SetOption returns.
type Observer interface {
	OnStyleChanged(key, value string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(key, value string)

func (f ObserverFunc) OnStyleChanged(key, value string) {
	f(key, value)
}

// Repository owns the current style selection for one watch-face instance.
// Exactly one Repository exists per running instance; all mutation goes
// through SetOption.
type Repository struct {
	schema *Schema

	mu       sync.RWMutex
	selected map[string]string

	obsMu     sync.Mutex
	observers []Observer

	logger *slog.Logger
}

// RepositoryOption is a functional option for configuring a Repository.
type RepositoryOption func(*Repository)

// WithLogHandler sets a custom slog handler for the Repository.
func WithLogHandler(handler slog.Handler) RepositoryOption {
	return func(r *Repository) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("style.Repository")
		}
	}
}

// NewRepository creates a repository seeded with the schema defaults.
func NewRepository(schema *Schema, opts ...RepositoryOption) *Repository {
	r := &Repository{
		schema:   schema,
		selected: schema.Defaults(),
		logger:   slog.Default().WithGroup("style.Repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Schema returns the schema this repository was built from.
func (r *Repository) Schema() *Schema {
	return r.schema
}

// SetOption updates the selection for key. A value outside the option's
// declared domain is rejected with ErrInvalidOptionValue and the repository
// is left unchanged. Selecting the already-current value is a no-op and
// notifies nobody. Observers are notified before SetOption returns.
func (r *Repository) SetOption(key, value string) error {
	opt, ok := r.schema.Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}
	if !opt.Valid(value) {
		return fmt.Errorf("%w: %q is not in the domain of %q", ErrInvalidOptionValue, value, key)
	}

	r.mu.Lock()
	if r.selected[key] == value {
		r.mu.Unlock()
		return nil
	}
	r.selected[key] = value
	r.mu.Unlock()

	r.logger.Debug("Style option changed", "key", key, "value", value)
	r.notify(key, value)
	return nil
}

// Get returns the current selection for key.
func (r *Repository) Get(key string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.selected[key]
	return v, ok
}

// Selected returns a copy of the full current selection.
func (r *Repository) Selected() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.selected)
}

// Subscribe registers an observer. Observers are never removed; duplicate
// subscription means duplicate notification.
func (r *Repository) Subscribe(obs Observer) {
	if obs == nil {
		return
	}
	r.obsMu.Lock()
	defer r.obsMu.Unlock()
	r.observers = append(r.observers, obs)
}

// notify runs outside the selection lock so observers may read the repository.
func (r *Repository) notify(key, value string) {
	r.obsMu.Lock()
	observers := slices.Clone(r.observers)
	r.obsMu.Unlock()

	for _, obs := range observers {
		obs.OnStyleChanged(key, value)
	}
}
