// Package canvas implements the software canvas draw backend. It paints into
// an in-memory RGBA image: background fill from the color scheme, one region
// per hit-testable complication, and a highlight overlay for the selected
// slot. Pixel fidelity is not the point; the backend exists to honor the
// renderer contract, including the animation freeze on screenshot passes.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync/atomic"

	"golang.org/x/image/colornames"

	"github.com/openwearables/quartz/internal/complication"
	"github.com/openwearables/quartz/internal/render"
	"github.com/openwearables/quartz/internal/style"
)

// ErrNotHighlightPass is returned when RenderHighlightLayer is invoked with
// parameters that do not request the highlight layer.
var ErrNotHighlightPass = fmt.Errorf("render parameters do not request the highlight layer")

// Style option keys the canvas backend reads.
const (
	OptionColorScheme = "colorScheme"
	OptionAccentColor = "accentColor"
)

// Renderer is the canvas draw backend.
type Renderer struct {
	styles *style.Repository
	slots  *complication.Manager

	img *image.RGBA

	// frames advances once per interactive render pass and never during a
	// screenshot pass.
	frames atomic.Uint64

	// paramsSeen counts OnRenderParametersChanged invocations.
	paramsSeen atomic.Uint64
	lastParams atomic.Value // render.Params

	// colors is the palette resolved from the style selection, cached at
	// construction and refreshed on style-change notifications.
	colors atomic.Value // palette

	logger *slog.Logger
}

// palette holds the colors one pass paints with.
type palette struct {
	background color.RGBA
	accent     color.RGBA
}

// Option is a functional option for configuring the canvas Renderer.
type Option func(*Renderer)

// WithLogHandler sets a custom slog handler for the Renderer.
func WithLogHandler(handler slog.Handler) Option {
	return func(r *Renderer) {
		if handler != nil {
			r.logger = slog.New(handler).WithGroup("canvas.Renderer")
		}
	}
}

// New creates a canvas renderer reading style and slot state by reference.
func New(styles *style.Repository, slots *complication.Manager, opts ...Option) *Renderer {
	r := &Renderer{
		styles: styles,
		slots:  slots,
		logger: slog.Default().WithGroup("canvas.Renderer"),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.refreshPalette()
	styles.Subscribe(r)
	return r
}

var (
	_ render.Renderer       = (*Renderer)(nil)
	_ render.ParamsObserver = (*Renderer)(nil)
	_ style.Observer        = (*Renderer)(nil)
)

// OnStyleChanged implements the style.Observer interface. The repository
// notifies before SetOption returns, so the next pass paints with the new
// palette.
func (r *Renderer) OnStyleChanged(key, value string) {
	r.refreshPalette()
	r.logger.Debug("Style changed, palette refreshed", "key", key, "value", value)
}

// refreshPalette re-resolves the cached colors from the style selection.
func (r *Renderer) refreshPalette() {
	r.colors.Store(palette{
		background: r.background(),
		accent:     r.accent(),
	})
}

func (r *Renderer) loadPalette() palette {
	return r.colors.Load().(palette)
}

// Backend implements the render.Renderer interface.
func (r *Renderer) Backend() render.Backend {
	return render.BackendCanvas
}

// Render implements the render.Renderer interface.
func (r *Renderer) Render(snap render.Snapshot, bounds image.Rectangle, params render.Params) error {
	if !params.ForScreenshot && params.Mode == render.ModeInteractive {
		r.frames.Add(1)
	}

	colors := r.loadPalette()
	r.ensureCanvas(bounds)
	draw.Draw(r.img, bounds, image.NewUniform(colors.background), image.Point{}, draw.Src)

	for _, id := range r.slots.IDs() {
		rect, ok := r.slots.Bounds(id)
		if !ok {
			continue
		}
		r.fill(toPixels(rect).Intersect(bounds), dim(colors.accent))
	}

	local := snap.Instant.In(snap.Zone)
	r.logger.Debug("Rendered frame",
		"mode", params.Mode,
		"screenshot", params.ForScreenshot,
		"at", local.Format("15:04:05"),
		"frame", r.frames.Load())
	return nil
}

// RenderHighlightLayer implements the render.Renderer interface.
func (r *Renderer) RenderHighlightLayer(snap render.Snapshot, bounds image.Rectangle, params render.Params) error {
	if !params.HighlightLayer {
		return ErrNotHighlightPass
	}
	if !params.HasSelection {
		return nil
	}

	rect, ok := r.slots.Bounds(params.SelectedSlot)
	if !ok {
		return nil
	}

	r.ensureCanvas(bounds)
	r.outline(toPixels(rect).Intersect(bounds), r.loadPalette().accent)
	r.logger.Debug("Rendered highlight layer", "slot", params.SelectedSlot)
	return nil
}

// OnRenderParametersChanged implements the render.ParamsObserver interface.
func (r *Renderer) OnRenderParametersChanged(params render.Params) {
	r.paramsSeen.Add(1)
	r.lastParams.Store(params)
	r.logger.Debug("Render parameters changed",
		"mode", params.Mode,
		"highlight", params.HighlightLayer,
		"screenshot", params.ForScreenshot)
}

// FrameCount returns the number of animation frames advanced so far.
func (r *Renderer) FrameCount() uint64 {
	return r.frames.Load()
}

// ParamsChangeCount returns how often the params-changed hook has fired.
func (r *Renderer) ParamsChangeCount() uint64 {
	return r.paramsSeen.Load()
}

// Image exposes the last painted canvas for screenshot export.
func (r *Renderer) Image() *image.RGBA {
	return r.img
}

func (r *Renderer) ensureCanvas(bounds image.Rectangle) {
	if r.img == nil || r.img.Bounds() != bounds {
		r.img = image.NewRGBA(bounds)
	}
}

// background maps the colorScheme option to a fill color.
func (r *Renderer) background() color.RGBA {
	scheme, _ := r.styles.Get(OptionColorScheme)
	if scheme == "dark" {
		return colornames.Black
	}
	return colornames.White
}

// accent resolves the accentColor option against the SVG 1.1 color names.
func (r *Renderer) accent() color.RGBA {
	name, ok := r.styles.Get(OptionAccentColor)
	if !ok {
		return colornames.Steelblue
	}
	if c, found := colornames.Map[name]; found {
		return c
	}
	return colornames.Steelblue
}

func (r *Renderer) fill(rect image.Rectangle, c color.RGBA) {
	if rect.Empty() {
		return
	}
	draw.Draw(r.img, rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// outline paints a 2px border inside the rect.
func (r *Renderer) outline(rect image.Rectangle, c color.RGBA) {
	if rect.Empty() {
		return
	}
	const w = 2
	r.fill(image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+w), c)
	r.fill(image.Rect(rect.Min.X, rect.Max.Y-w, rect.Max.X, rect.Max.Y), c)
	r.fill(image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+w, rect.Max.Y), c)
	r.fill(image.Rect(rect.Max.X-w, rect.Min.Y, rect.Max.X, rect.Max.Y), c)
}

// dim halves a color's channels for the idle complication fill.
func dim(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 0xff}
}

// toPixels converts screen-space slot bounds to canvas pixels.
func toPixels(r complication.Rect) image.Rectangle {
	return image.Rect(int(r.MinX), int(r.MinY), int(r.MaxX), int(r.MaxY))
}
