// Package changelog tracks confirmed configuration changes for a watch-face
// instance. Each change is a record with its own small state machine and a
// deferred log collector, so the full history of a change can be replayed
// after the fact.
package changelog

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-fsm"
	"github.com/robbyt/go-loglater"
)

// Source describes what triggered a configuration change.
type Source string

const (
	// SourceBoot marks changes applied while rehydrating persisted state.
	SourceBoot Source = "boot"
	// SourceUser marks changes from user interaction (style picker, tap).
	SourceUser Source = "user"
	// SourceTest marks changes created by tests.
	SourceTest Source = "test"
)

// Record state constants
const (
	StateCreated   = "created"   // Change accepted, persistence pending
	StateCommitted = "committed" // Change persisted (terminal state)
	StateRejected  = "rejected"  // Persistence failed (terminal state)
)

// RecordTransitions defines the valid state transitions for a change record.
var RecordTransitions = map[string][]string{
	StateCreated:   {StateCommitted, StateRejected},
	StateCommitted: {},
	StateRejected:  {},
}

// ErrTerminalState is returned when marking an already-settled record.
var ErrTerminalState = errors.New("change record already settled")

// Record is one confirmed configuration change.
type Record struct {
	ID        uuid.UUID
	Source    Source
	Key       string
	Value     string
	CreatedAt time.Time

	fsm *fsm.Machine

	logger       *slog.Logger
	logCollector *loglater.LogCollector
}

// NewRecord creates a change record for key=value from the given source.
func NewRecord(source Source, key, value string, handler slog.Handler) (*Record, error) {
	id := uuid.Must(uuid.NewV6())

	machine, err := fsm.New(handler, StateCreated, RecordTransitions)
	if err != nil {
		return nil, fmt.Errorf("%s failed to create state machine: %w", id, err)
	}

	logCollector := loglater.NewLogCollector(handler)
	logger := slog.New(logCollector).With(
		"id", id,
		"source", source,
		"key", key)

	r := &Record{
		ID:           id,
		Source:       source,
		Key:          key,
		Value:        value,
		CreatedAt:    time.Now(),
		fsm:          machine,
		logger:       logger,
		logCollector: logCollector,
	}

	r.logger.Info("Change record created", "value", value)
	return r, nil
}

// GetState returns the current state of the record.
func (r *Record) GetState() string {
	return r.fsm.GetState()
}

// MarkCommitted settles the record as persisted.
func (r *Record) MarkCommitted() error {
	if err := r.fsm.Transition(StateCommitted); err != nil {
		r.logger.Error("Failed to transition to committed state", "error", err)
		return fmt.Errorf("%w: %w", ErrTerminalState, err)
	}
	r.logger.Info("Change committed")
	return nil
}

// MarkRejected settles the record as failed, retaining the cause.
func (r *Record) MarkRejected(cause error) error {
	if err := r.fsm.Transition(StateRejected); err != nil {
		r.logger.Error("Failed to transition to rejected state", "error", err)
		return fmt.Errorf("%w: %w", ErrTerminalState, err)
	}
	r.logger.Error("Change rejected", "error", cause)
	return nil
}

// PlaybackLogs replays the record's captured logs to the given handler.
func (r *Record) PlaybackLogs(handler slog.Handler) error {
	return r.logCollector.PlayLogs(handler)
}
