package changelog

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// DefaultMaxRecords is the default number of change records kept in history
const DefaultMaxRecords = 50

// MemoryLog is a thread-safe, bounded history of change records.
type MemoryLog struct {
	mu         sync.RWMutex
	records    []*Record
	maxRecords int

	logger *slog.Logger
}

// LogOption is a functional option for configuring a MemoryLog.
type LogOption func(*MemoryLog)

// WithMaxRecords bounds the history. Non-positive values are ignored.
func WithMaxRecords(n int) LogOption {
	return func(l *MemoryLog) {
		if n > 0 {
			l.maxRecords = n
		}
	}
}

// WithLogHandler sets a custom slog handler for the MemoryLog.
func WithLogHandler(handler slog.Handler) LogOption {
	return func(l *MemoryLog) {
		if handler != nil {
			l.logger = slog.New(handler).WithGroup("changelog.MemoryLog")
		}
	}
}

// NewMemoryLog creates an empty history with the given options.
func NewMemoryLog(opts ...LogOption) *MemoryLog {
	l := &MemoryLog{
		records:    make([]*Record, 0, 10),
		maxRecords: DefaultMaxRecords,
		logger:     slog.Default().WithGroup("changelog.MemoryLog"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Add appends a record, evicting the oldest entries past the bound.
func (l *MemoryLog) Add(r *Record) {
	if r == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
	if len(l.records) > l.maxRecords {
		l.records = l.records[len(l.records)-l.maxRecords:]
	}
	l.logger.Debug("Added change record", "id", r.ID.String(), "total", len(l.records))
}

// All returns a copy of the history, oldest first.
func (l *MemoryLog) All() []*Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.records)
}

// GetByID returns the record with the given ID or nil.
func (l *MemoryLog) GetByID(id string) *Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, r := range l.records {
		if r.ID.String() == id {
			return r
		}
	}
	return nil
}

// Clear removes settled records, keeping at least the last keepLast records
// total. Returns the number of records cleared.
func (l *MemoryLog) Clear(keepLast int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if keepLast < 0 {
		return 0, fmt.Errorf("keepLast must be non-negative, got %d", keepLast)
	}

	total := len(l.records)
	if total <= keepLast {
		return 0, nil
	}

	toDelete := total - keepLast
	deleted := 0
	kept := make([]*Record, 0, keepLast)

	for _, r := range l.records {
		state := r.GetState()
		if deleted < toDelete && (state == StateCommitted || state == StateRejected) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	l.records = kept

	l.logger.Info("Cleared change records", "cleared", deleted, "remaining", len(l.records))
	return deleted, nil
}
