// Package engine is the composition root for one watch-face instance. The
// Runner wires the style repository, the complication slot manager, the
// renderer, and the persistence store together, owns the foreground and
// background serial queues, and rehydrates persisted state at boot.
package engine

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/openwearables/quartz/internal/clock"
	"github.com/openwearables/quartz/internal/complication"
	"github.com/openwearables/quartz/internal/engine/changelog"
	"github.com/openwearables/quartz/internal/engine/scheduler"
	"github.com/openwearables/quartz/internal/facecfg"
	"github.com/openwearables/quartz/internal/finitestate"
	"github.com/openwearables/quartz/internal/queue"
	"github.com/openwearables/quartz/internal/render"
	"github.com/openwearables/quartz/internal/storage"
	"github.com/openwearables/quartz/internal/style"
)

// DefaultCanvasBounds is the draw surface when no display geometry is given.
var DefaultCanvasBounds = image.Rect(0, 0, 200, 200)

// faultBuffer bounds the persistence fault channel. Background write failures
// beyond the buffer are logged and dropped rather than stalling the queue.
const faultBuffer = 8

// Interface guards
var (
	_ supervisor.Runnable  = (*Runner)(nil)
	_ supervisor.Stateable = (*Runner)(nil)
	_ scheduler.Driver     = (*Runner)(nil)
)

// Runner is the engine for one watch-face instance.
type Runner struct {
	instanceID uuid.UUID
	cfg        *facecfg.Config

	styles *style.Repository
	slots  *complication.Manager

	store   storage.Store
	factory render.Factory

	fg *queue.Serial
	bg *queue.Serial

	clk    clock.Clock
	bounds image.Rectangle

	// renderer is built by the factory during boot, before the first frame.
	renderer render.Renderer

	// mu guards mode and highlight; the frame path reads them per pass.
	mu        sync.Mutex
	mode      render.Mode
	highlight bool

	// lastParams and haveParams are touched only from foreground tasks.
	lastParams render.Params
	haveParams bool

	changes *changelog.MemoryLog
	faults  chan error

	fsm finitestate.Machine

	parentCtx context.Context
	runCtx    context.Context
	runCancel context.CancelFunc

	handler slog.Handler
	logger  *slog.Logger
}

// NewRunner creates an engine from a validated face definition, a persistence
// store, and a renderer factory. The store stays owned by the caller and is
// not closed on shutdown.
func NewRunner(
	cfg *facecfg.Config,
	store storage.Store,
	factory render.Factory,
	opts ...Option,
) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("face definition cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if factory == nil {
		return nil, fmt.Errorf("renderer factory cannot be nil")
	}

	r := &Runner{
		instanceID: uuid.Must(uuid.NewV6()),
		cfg:        cfg,
		store:      store,
		factory:    factory,
		clk:        clock.NewSystem(),
		bounds:     DefaultCanvasBounds,
		mode:       render.ModeInteractive,
		faults:     make(chan error, faultBuffer),
		parentCtx:  context.Background(),
		logger:     slog.Default().WithGroup("engine.Runner"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	if r.handler == nil {
		r.handler = r.logger.Handler()
	}

	schema, err := cfg.StyleSchema()
	if err != nil {
		return nil, err
	}
	r.styles = style.NewRepository(schema, style.WithLogHandler(r.handler))

	r.slots, err = complication.NewManager(
		cfg.SlotDefs(),
		complication.WithLogHandler(r.handler),
		complication.WithEnabledTypes(cfg.EnabledDataTypes()...),
	)
	if err != nil {
		return nil, err
	}

	r.fg = queue.NewSerial("foreground", queue.WithLogHandler(r.handler))
	r.bg = queue.NewSerial("background", queue.WithLogHandler(r.handler))
	r.changes = changelog.NewMemoryLog(changelog.WithLogHandler(r.handler))

	machine, err := finitestate.New(r.logger.WithGroup("fsm").Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	r.fsm = machine

	return r, nil
}

// String returns the name of this runnable component.
func (r *Runner) String() string {
	return "engine.Runner"
}

// Run implements the supervisor.Runnable interface. Boot order: queues,
// persisted state rehydration, renderer construction, then running. The
// renderer is guaranteed ready before any frame can fire.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting: %w", err)
	}

	r.runCtx, r.runCancel = context.WithCancel(ctx)
	defer r.runCancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := r.fg.Run(r.runCtx); err != nil {
			r.logger.Error("Foreground queue failed", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := r.bg.Run(r.runCtx); err != nil {
			r.logger.Error("Background queue failed", "error", err)
		}
	}()

	r.boot(r.runCtx)

	renderer, err := r.factory.NewRenderer(r.runCtx)
	if err != nil {
		r.runCancel()
		wg.Wait()
		if fsmErr := r.fsm.Transition(finitestate.StatusError); fsmErr != nil {
			r.logger.Error("Failed to transition to error state", "error", fsmErr)
		}
		return fmt.Errorf("failed to construct renderer: %w", err)
	}
	r.renderer = renderer

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		return fmt.Errorf("failed to transition to running: %w", err)
	}
	r.logger.Info("Engine ready",
		"instance", r.instanceID,
		"face", r.cfg.Name,
		"backend", renderer.Backend())

	select {
	case <-r.parentCtx.Done():
		r.logger.Debug("Parent context canceled")
	case <-r.runCtx.Done():
		r.logger.Debug("Run context canceled")
	}

	err = r.shutdown()
	wg.Wait()
	return err
}

// Stop signals the engine to stop. Safe to call multiple times.
func (r *Runner) Stop() {
	r.logger.Debug("Stop called")
	if r.runCancel != nil {
		r.runCancel()
	}
}

// Faults delivers background persistence failures. Writes never crash the
// render loop; the lifecycle owner decides what a persistent fault means.
func (r *Runner) Faults() <-chan error {
	return r.faults
}

// Styles returns the instance's style repository.
func (r *Runner) Styles() *style.Repository {
	return r.styles
}

// Slots returns the instance's complication slot manager.
func (r *Runner) Slots() *complication.Manager {
	return r.slots
}

// Changes returns the confirmed change history.
func (r *Runner) Changes() *changelog.MemoryLog {
	return r.changes
}

// Renderer returns the renderer built at boot, nil before Run.
func (r *Runner) Renderer() render.Renderer {
	return r.renderer
}

// Mode implements the scheduler.Driver interface.
func (r *Runner) Mode() render.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode switches between interactive and ambient drawing.
func (r *Runner) SetMode(m render.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m == render.ModeInteractive || m == render.ModeAmbient {
		r.mode = m
	}
}

// SetHighlight toggles the selected-complication overlay.
func (r *Runner) SetHighlight(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highlight = on
}

// HandleTap routes a tap through the foreground queue so taps and frames stay
// strictly ordered. Listener dispatch completes before HandleTap returns. A
// hit updates the selection and persists it in the background.
func (r *Runner) HandleTap(ctx context.Context, x, y float64) (int, bool, error) {
	var (
		id  int
		hit bool
	)
	err := r.fg.Do(ctx, func() {
		id, hit = r.slots.HandleTap(x, y)
	})
	if err != nil {
		return 0, false, fmt.Errorf("failed to dispatch tap: %w", err)
	}
	if hit {
		r.persistState(ctx, nil)
	}
	return id, hit, nil
}

// SetStyleOption validates and applies a style change. Validation and observer
// notification are synchronous; an out-of-domain value is rejected before
// anything is recorded or persisted. The durable write happens on the
// background queue, tracked by a change record.
func (r *Runner) SetStyleOption(ctx context.Context, key, value string) error {
	if err := r.styles.SetOption(key, value); err != nil {
		return err
	}

	record, err := changelog.NewRecord(changelog.SourceUser, key, value, r.handler)
	if err != nil {
		return fmt.Errorf("failed to create change record: %w", err)
	}
	r.changes.Add(record)

	r.persistState(ctx, record)
	return nil
}

// SetComplicationData replaces a slot's payload and caches it durably. Each
// slot is cached under its own key so one corrupt entry cannot poison the
// rest.
func (r *Runner) SetComplicationData(ctx context.Context, id int, data []byte) error {
	if err := r.slots.SetData(id, data); err != nil {
		return err
	}

	key := storage.ComplicationKey(id)
	entry := storage.EncodeCacheEntry(data)
	return r.bg.Submit(ctx, func() {
		if err := r.store.Write(r.writeCtx(ctx), key, entry); err != nil {
			r.reportFault(fmt.Errorf("failed to cache complication %d: %w", id, err))
		}
	})
}

// RenderFrame implements the scheduler.Driver interface. The pass runs on the
// foreground queue, so it observes every change committed before it and never
// interleaves with tap dispatch.
func (r *Runner) RenderFrame(ctx context.Context) error {
	var renderErr error
	err := r.fg.Do(ctx, func() {
		renderErr = r.renderPass(r.frameParams(false))
	})
	if err != nil {
		return fmt.Errorf("failed to dispatch frame: %w", err)
	}
	return renderErr
}

// Screenshot renders one deterministic frame with animation frozen. The pass
// shares the foreground queue with normal frames, so it cannot interleave
// with one.
func (r *Runner) Screenshot(ctx context.Context) error {
	var renderErr error
	err := r.fg.Do(ctx, func() {
		renderErr = r.renderPass(r.frameParams(true))
	})
	if err != nil {
		return fmt.Errorf("failed to dispatch screenshot: %w", err)
	}
	return renderErr
}

// frameParams assembles the parameters for the next pass from current state.
func (r *Runner) frameParams(screenshot bool) render.Params {
	r.mu.Lock()
	mode := r.mode
	highlight := r.highlight
	r.mu.Unlock()

	params := render.Params{
		Mode:           mode,
		ForScreenshot:  screenshot,
		HighlightLayer: highlight,
	}
	if id, ok := r.slots.Selected(); ok {
		params.SelectedSlot = id
		params.HasSelection = true
	}
	return params
}

// renderPass runs on the foreground queue. The snapshot is captured once; the
// params-changed hook fires only when the value differs from the previous
// pass.
func (r *Runner) renderPass(params render.Params) error {
	if r.renderer == nil {
		return fmt.Errorf("renderer not ready")
	}
	snap := render.NewSnapshot(r.clk)

	if !r.haveParams || params != r.lastParams {
		if obs, ok := r.renderer.(render.ParamsObserver); ok {
			obs.OnRenderParametersChanged(params)
		}
		r.lastParams = params
		r.haveParams = true
	}

	if err := r.renderer.Render(snap, r.bounds, params); err != nil {
		return fmt.Errorf("render pass failed: %w", err)
	}
	if params.HighlightLayer {
		if err := r.renderer.RenderHighlightLayer(snap, r.bounds, params); err != nil {
			return fmt.Errorf("highlight pass failed: %w", err)
		}
	}
	return nil
}

// boot rehydrates persisted state. Every failure path here degrades to
// defaults and keeps going; boot never aborts the engine.
func (r *Runner) boot(ctx context.Context) {
	data, ok, err := r.store.Read(ctx, storage.DirectBootKey)
	switch {
	case err != nil:
		r.logger.Warn("Direct boot read failed, using defaults", "error", err)
	case !ok:
		r.logger.Debug("No direct boot config, using defaults")
	default:
		boot, decErr := decodeDirectBoot(data)
		if decErr != nil {
			r.logger.Warn("Corrupt direct boot config, using defaults", "error", decErr)
			break
		}
		r.rehydrate(boot)
	}

	r.rehydrateComplications(ctx)
}

// rehydrate applies a decoded direct boot config. Entries that no longer fit
// the current schema are skipped individually.
func (r *Runner) rehydrate(boot DirectBootConfig) {
	for _, opt := range r.styles.Schema().Options() {
		value, ok := boot.Style[opt.Key]
		if !ok {
			continue
		}
		if err := r.styles.SetOption(opt.Key, value); err != nil {
			r.logger.Warn("Skipping persisted style value",
				"key", opt.Key, "value", value, "error", err)
			continue
		}
		record, err := changelog.NewRecord(changelog.SourceBoot, opt.Key, value, r.handler)
		if err != nil {
			r.logger.Warn("Failed to record boot change", "error", err)
			continue
		}
		if err := record.MarkCommitted(); err != nil {
			r.logger.Warn("Failed to settle boot change record", "error", err)
		}
		r.changes.Add(record)
	}

	if boot.SelectedSlot != nil {
		if err := r.slots.Select(*boot.SelectedSlot); err != nil {
			r.logger.Warn("Skipping persisted slot selection",
				"slot", *boot.SelectedSlot, "error", err)
		}
	}
	r.logger.Debug("Rehydrated persisted state", "instance", boot.Instance)
}

// rehydrateComplications restores cached slot payloads. A missing or corrupt
// entry is a miss for that slot alone.
func (r *Runner) rehydrateComplications(ctx context.Context) {
	for _, id := range r.slots.IDs() {
		data, ok, err := r.store.Read(ctx, storage.ComplicationKey(id))
		if err != nil {
			r.logger.Warn("Complication cache read failed", "slot", id, "error", err)
			continue
		}
		if !ok {
			continue
		}
		payload, valid := storage.DecodeCacheEntry(data)
		if !valid {
			r.logger.Warn("Corrupt complication cache entry, dropping", "slot", id)
			continue
		}
		if err := r.slots.SetData(id, payload); err != nil {
			r.logger.Warn("Failed to restore complication data", "slot", id, "error", err)
		}
	}
}

// persistState snapshots the current selection and writes the direct boot
// blob on the background queue. The optional record settles with the write.
func (r *Runner) persistState(ctx context.Context, record *changelog.Record) {
	boot := DirectBootConfig{
		Component: directBootComponent,
		Instance:  r.instanceID.String(),
		Style:     r.styles.Selected(),
	}
	if id, ok := r.slots.Selected(); ok {
		boot.SelectedSlot = &id
	}

	data, err := encodeDirectBoot(boot)
	if err != nil {
		r.settleRecord(record, err)
		r.reportFault(err)
		return
	}

	submitErr := r.bg.Submit(ctx, func() {
		writeErr := r.store.Write(r.writeCtx(ctx), storage.DirectBootKey, data)
		r.settleRecord(record, writeErr)
		if writeErr != nil {
			r.reportFault(fmt.Errorf("failed to persist instance state: %w", writeErr))
		}
	})
	if submitErr != nil {
		r.settleRecord(record, submitErr)
		r.reportFault(fmt.Errorf("failed to enqueue persistence write: %w", submitErr))
	}
}

// settleRecord marks a change record committed or rejected. nil records are
// selection-only persists with no record attached.
func (r *Runner) settleRecord(record *changelog.Record, cause error) {
	if record == nil {
		return
	}
	if cause == nil {
		if err := record.MarkCommitted(); err != nil {
			r.logger.Error("Failed to commit change record", "error", err)
		}
		return
	}
	if err := record.MarkRejected(cause); err != nil {
		r.logger.Error("Failed to reject change record", "error", err)
	}
}

// writeCtx picks the context a background write runs under. The caller's
// context may be gone by the time the task runs; fall back to the run
// context so in-flight writes finish during normal operation.
func (r *Runner) writeCtx(ctx context.Context) context.Context {
	if ctx.Err() == nil {
		return ctx
	}
	if r.runCtx != nil {
		return r.runCtx
	}
	return context.Background()
}

func (r *Runner) reportFault(err error) {
	select {
	case r.faults <- err:
	default:
		r.logger.Error("Fault channel full, dropping", "error", err)
	}
}

// shutdown performs ordered, idempotent teardown.
func (r *Runner) shutdown() error {
	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping", "error", err)
		}
	}

	r.fg.Stop()
	r.bg.Stop()

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped: %w", err)
	}
	r.logger.Info("Engine stopped", "instance", r.instanceID)
	return nil
}
