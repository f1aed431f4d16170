// Package memory provides a mutex-guarded in-memory Store used for tests and
// ephemeral deployments. It honors the same contract as the durable store:
// misses are not errors and identical writes are no-ops.
package memory

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/openwearables/quartz/internal/storage"
)

// Store is an in-memory storage.Store.
type Store struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	writes int

	readFault  error
	writeFault error

	logger *slog.Logger
}

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithLogHandler sets a custom slog handler for the Store.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Store) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("memory.Store")
		}
	}
}

// WithReadFault makes every Read fail with the given error. Test hook.
func WithReadFault(err error) Option {
	return func(s *Store) {
		s.readFault = err
	}
}

// WithWriteFault makes every Write fail with the given error. Test hook.
func WithWriteFault(err error) Option {
	return func(s *Store) {
		s.writeFault = err
	}
}

var _ storage.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{
		blobs:  make(map[string][]byte),
		logger: slog.Default().WithGroup("memory.Store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Read implements the storage.Store interface.
func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.readFault; err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.blobs[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

// Write implements the storage.Store interface.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if err := s.writeFault; err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.blobs[key]; ok && bytes.Equal(existing, value) {
		return nil
	}
	s.blobs[key] = slices.Clone(value)
	s.writes++
	s.logger.Debug("Wrote blob", "key", key, "bytes", len(value))
	return nil
}

// Close implements the storage.Store interface.
func (s *Store) Close() error {
	return nil
}

// WriteCount reports how many writes actually mutated the store. Used to
// verify write idempotency in tests.
func (s *Store) WriteCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Keys returns every stored key. Test helper.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.blobs))
	for k := range s.blobs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
