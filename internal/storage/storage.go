// Package storage defines the byte-blob persistence boundary the engine
// survives restarts through. Two logical namespaces share one store: the
// instance configuration blob and the per-slot complication data cache.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrStorageFault marks an underlying storage failure. It is distinct from a
// cache miss: Read reports an absent key as (nil, false, nil), never as an
// error.
var ErrStorageFault = errors.New("storage fault")

// DirectBootKey is the key of the serialized instance configuration blob.
// Keys are opaque filenames owned by the configuration layer.
const DirectBootKey = "directboot.toml"

// ComplicationKey returns the cache key for one slot. Entries are
// independently keyed so a corrupt entry cannot invalidate the rest of the
// cache.
func ComplicationKey(slotID int) string {
	return fmt.Sprintf("complications/%d.bin", slotID)
}

// Store is a durable byte-blob key/value store.
//
// Write is durable-on-return and observably idempotent: writing identical
// bytes twice is a no-op. Read returns (nil, false, nil) for an absent key;
// errors are reserved for genuine storage faults and wrap ErrStorageFault.
type Store interface {
	Read(ctx context.Context, key string) (value []byte, ok bool, err error)
	Write(ctx context.Context, key string, value []byte) error
	Close() error
}
