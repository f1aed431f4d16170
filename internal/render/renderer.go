package render

import (
	"context"
	"image"
)

// Backend tags the draw backend a renderer variant dispatches to. Callers
// depend only on the Renderer contract, never on a concrete variant.
type Backend string

const (
	// BackendCanvas is the software canvas backend.
	BackendCanvas Backend = "canvas"
)

// Renderer paints frames. Render and RenderHighlightLayer may read current
// style and slot state but must not mutate them. A screenshot pass
// (params.ForScreenshot) must produce a deterministic, animation-frozen
// frame.
type Renderer interface {
	// Render paints the normal frame for the given snapshot and parameters.
	Render(snap Snapshot, bounds image.Rectangle, params Params) error

	// RenderHighlightLayer paints only the overlay indicating the selected
	// complication. It is invoked only when params.HighlightLayer is set.
	RenderHighlightLayer(snap Snapshot, bounds image.Rectangle, params Params) error

	// Backend identifies the draw backend variant.
	Backend() Backend
}

// ParamsObserver is implemented by renderers that cache per-mode resources.
// The hook fires exactly once per distinct Params value before the next draw
// pass, never skipped and never duplicated for the same value.
type ParamsObserver interface {
	OnRenderParametersChanged(params Params)
}

// Factory constructs a Renderer. Construction may be asynchronous (waiting on
// style or schema availability) and must complete before the first scheduled
// frame fires; the context carries engine cancellation.
type Factory interface {
	NewRenderer(ctx context.Context) (Renderer, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(ctx context.Context) (Renderer, error)

func (f FactoryFunc) NewRenderer(ctx context.Context) (Renderer, error) {
	return f(ctx)
}
