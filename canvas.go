package canvasrender

import (
	"context"
	"image/color"
	"log/slog"
)

// FitMode selects how the logical canvas maps onto a differently sized
// display area.
type FitMode uint8

const (
	// FitContain preserves aspect ratio and letterboxes the canvas.
	FitContain FitMode = iota
	// FitStretch scales each axis independently to fill the area.
	FitStretch
)

// Config configures a Canvas. Zero values select defaults.
type Config struct {
	// Width and Height are the logical canvas size, independent of the
	// device scale.
	Width, Height float64

	// Background fills the surface before every pass. Nil leaves it
	// transparent.
	Background color.Color

	Fit FitMode

	// Logger overrides the package logger (see SetLogger) for this canvas.
	Logger *slog.Logger

	// Debug logs per-pass statistics at debug level and warns about
	// unusually deep or wide trees.
	Debug bool

	// Fonts loads bitmap fonts by id. Defaults to a loader that only knows
	// BasicFontID.
	Fonts FontLoader

	// LayoutCacheSize and LineCacheSize bound the text caches. Defaults are
	// 256 and 1024 entries.
	LayoutCacheSize int
	LineCacheSize   int

	// ScreenshotDir is where Screenshot writes PNG files.
	// Defaults to "screenshots".
	ScreenshotDir string
}

// Canvas owns the root of the registration tree, the raster surface and the
// pending redraw list.
//
// A Canvas is not safe for concurrent use. Text layout runs on background
// goroutines, but its results are applied only from Update or Flush on the
// caller's goroutine.
type Canvas struct {
	cfg     Config
	log     *slog.Logger
	root    *Node
	surface *Surface
	scale   float64

	pending []Rect
	text    *TextEngine
	tasks   taskQueue

	ctx    context.Context
	cancel context.CancelFunc

	injectQueue     []injectedPointer
	testRunner      *TestRunner
	screenshotQueue []string

	stats Stats
}

// NewCanvas creates a canvas with an empty root group the size of the
// logical canvas. No surface is allocated until AttachSurface.
func NewCanvas(cfg Config) *Canvas {
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	if cfg.Fonts == nil {
		cfg.Fonts = DefaultFonts()
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Canvas{
		cfg:    cfg,
		log:    log,
		scale:  1,
		ctx:    ctx,
		cancel: cancel,
		text: NewTextEngine(TextEngineConfig{
			Fonts:           cfg.Fonts,
			Logger:          log,
			LayoutCacheSize: cfg.LayoutCacheSize,
			LineCacheSize:   cfg.LineCacheSize,
		}),
	}
	c.root = NewGroup("root", 0, 0, cfg.Width, cfg.Height)
	c.root.canvas = c
	return c
}

// Root returns the root group. Mount top-level nodes here.
func (c *Canvas) Root() *Node { return c.root }

// Size returns the logical canvas size.
func (c *Canvas) Size() (w, h float64) { return c.cfg.Width, c.cfg.Height }

// Config returns the configuration the canvas was created with, defaults
// applied.
func (c *Canvas) Config() Config { return c.cfg }

// TextEngine returns the engine text nodes on this canvas lay out with.
func (c *Canvas) TextEngine() *TextEngine { return c.text }

// Surface returns the attached surface, or nil.
func (c *Canvas) Surface() *Surface { return c.surface }

// Scale returns the current device scale.
func (c *Canvas) Scale() float64 { return c.scale }

// AttachSurface allocates the physical surface at the given device scale.
// Redraw requests made before this call are kept and served by the next
// Redraw; a full-canvas request is added as well.
func (c *Canvas) AttachSurface(scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	c.scale = scale
	c.surface = NewSurface(c.cfg.Width, c.cfg.Height, scale)
	c.RequestRedraw(c.fullArea())
	return c.surface
}

// SetDeviceScale reallocates the surface for a new device pixel ratio and
// schedules a full redraw. No-op when the scale is unchanged or no surface
// is attached yet, in which case the scale is remembered for AttachSurface.
func (c *Canvas) SetDeviceScale(scale float64) {
	if scale <= 0 || scale == c.scale {
		return
	}
	if c.surface == nil {
		c.scale = scale
		return
	}
	c.log.Debug("canvasrender: device scale changed", "from", c.scale, "to", scale)
	c.AttachSurface(scale)
}

// RequestRedraw queues area for the next pass.
func (c *Canvas) RequestRedraw(area Rect) {
	c.pending = append(c.pending, area)
	c.stats.Requests++
}

// Pending returns the number of queued redraw requests.
func (c *Canvas) Pending() int { return len(c.pending) }

// Update applies finished background work (text layouts), then feeds the
// test runner and at most one injected pointer event through dispatch.
// Call once per frame before Redraw.
func (c *Canvas) Update() {
	c.tasks.drain()
	if c.testRunner != nil {
		c.testRunner.step(c)
	}
	c.processInjected()
}

// Flush blocks until every background task has finished and its result has
// been applied, including tasks started by applying earlier results.
func (c *Canvas) Flush() {
	for {
		c.tasks.wait()
		if c.tasks.drain() == 0 {
			return
		}
	}
}

// Close cancels in-flight background work. Results that arrive afterwards
// are dropped.
func (c *Canvas) Close() {
	c.cancel()
	c.tasks.wait()
	c.tasks.discard()
}

func (c *Canvas) fullArea() Rect {
	return Rect{Width: c.cfg.Width, Height: c.cfg.Height}
}
