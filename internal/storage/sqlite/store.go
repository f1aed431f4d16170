// Package sqlite provides the durable SQLite-backed Store. A write that has
// returned is visible to any subsequent read, including after a process
// restart against the same database file.
package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openwearables/quartz/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed storage.Store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithLogHandler sets a custom slog handler for the Store.
func WithLogHandler(handler slog.Handler) Option {
	return func(s *Store) {
		if handler != nil {
			s.logger = slog.New(handler).WithGroup("sqlite.Store")
		}
	}
}

var _ storage.Store = (*Store)(nil)

// Open creates or opens the database at path and applies pragmas and schema.
// Safe to call repeatedly against the same file.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", storage.ErrStorageFault, path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: connect %s: %w", storage.ErrStorageFault, path, err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY churn from the background queue.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %s: %w", storage.ErrStorageFault, pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: apply schema: %w", storage.ErrStorageFault, err)
	}

	s := &Store{
		db:     db,
		logger: slog.Default().WithGroup("sqlite.Store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Read implements the storage.Store interface.
func (s *Store) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read %q: %w", storage.ErrStorageFault, key, err)
	}
	return value, true, nil
}

// Write implements the storage.Store interface. Writing bytes identical to
// the stored value leaves the row untouched.
func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	existing, ok, err := s.Read(ctx, key)
	if err != nil {
		return err
	}
	if ok && bytes.Equal(existing, value) {
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: write %q: %w", storage.ErrStorageFault, key, err)
	}
	s.logger.Debug("Wrote blob", "key", key, "bytes", len(value))
	return nil
}

// Close implements the storage.Store interface.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
