// Package ebitenhost shows a canvasrender.Canvas in an Ebitengine window.
//
// The host owns the window and the game loop. Each tick it follows the
// monitor's device scale, forwards mouse and touch releases to the canvas as
// clicks and runs Canvas.Update. Each frame it runs Canvas.Redraw, uploads
// the software surface into a GPU image when it changed and draws it
// letterboxed into the window.
package ebitenhost

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/TetsuOtter/web-mon-jrc/canvasrender"
)

// Options configures a Host. Zero values select defaults.
type Options struct {
	Title string

	// WindowWidth and WindowHeight are the initial window size in
	// device-independent pixels. Default to the canvas size.
	WindowWidth, WindowHeight int

	// Letterbox fills the bars around the canvas. Defaults to black.
	Letterbox color.Color

	// OnUpdate runs once per tick after Canvas.Update, with the tick length
	// in seconds. Drive tweens from here. A non-nil error ends the loop.
	OnUpdate func(dt float32) error
}

// Host implements ebiten.Game for one canvas.
type Host struct {
	canvas *canvasrender.Canvas
	opts   Options

	img      *ebiten.Image
	uploaded bool

	screenW, screenH int

	touchIDs []ebiten.TouchID
}

// New creates a host for canvas. A surface is attached at scale 1 if the
// canvas has none; the first tick switches it to the monitor scale.
func New(canvas *canvasrender.Canvas, opts Options) *Host {
	w, h := canvas.Size()
	if opts.WindowWidth <= 0 {
		opts.WindowWidth = int(w)
	}
	if opts.WindowHeight <= 0 {
		opts.WindowHeight = int(h)
	}
	if opts.Letterbox == nil {
		opts.Letterbox = color.Black
	}
	if canvas.Surface() == nil {
		canvas.AttachSurface(1)
	}
	return &Host{canvas: canvas, opts: opts}
}

// Run opens the window and blocks until it is closed or OnUpdate fails.
func (h *Host) Run() error {
	ebiten.SetWindowTitle(h.opts.Title)
	ebiten.SetWindowSize(h.opts.WindowWidth, h.opts.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("ebitenhost: run game loop: %w", err)
	}
	return nil
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	h.canvas.SetDeviceScale(deviceScale())

	bounds := canvasrender.Rect{Width: float64(h.screenW), Height: float64(h.screenH)}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		h.canvas.HandlePointer(canvasrender.PointerEvent{X: float64(x), Y: float64(y), Bounds: bounds})
	}
	h.touchIDs = inpututil.AppendJustReleasedTouchIDs(h.touchIDs[:0])
	for _, id := range h.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		h.canvas.HandlePointer(canvasrender.PointerEvent{X: float64(x), Y: float64(y), Bounds: bounds})
	}

	h.canvas.Update()
	if h.opts.OnUpdate != nil {
		return h.opts.OnUpdate(float32(1.0 / float64(ebiten.TPS())))
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *Host) Draw(screen *ebiten.Image) {
	repainted := h.canvas.Redraw()
	s := h.canvas.Surface()
	if s == nil {
		return
	}
	pix := s.RGBA()
	size := pix.Bounds().Size()
	if h.img == nil || h.img.Bounds().Size() != size {
		if h.img != nil {
			h.img.Deallocate()
		}
		h.img = ebiten.NewImage(size.X, size.Y)
		h.uploaded = false
	}
	if repainted || !h.uploaded {
		h.img.WritePixels(pix.Pix)
		h.uploaded = true
	}

	screen.Fill(h.opts.Letterbox)
	b := screen.Bounds()
	view := h.viewRect(b)
	if view.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest}
	op.GeoM.Scale(view.Width/float64(size.X), view.Height/float64(size.Y))
	op.GeoM.Translate(view.X, view.Y)
	screen.DrawImage(h.img, op)
}

// viewRect is where the canvas lands on a screen of bounds b.
func (h *Host) viewRect(b image.Rectangle) canvasrender.Rect {
	full := canvasrender.Rect{
		X: float64(b.Min.X), Y: float64(b.Min.Y),
		Width: float64(b.Dx()), Height: float64(b.Dy()),
	}
	if h.canvas.Config().Fit == canvasrender.FitStretch {
		return full
	}
	w, hh := h.canvas.Size()
	return canvasrender.ContainRect(w, hh, full)
}

// Layout implements ebiten.Game. The screen is sized in device pixels so
// the surface is shown one to one on high-density displays.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := deviceScale()
	h.screenW = int(float64(outsideWidth) * scale)
	h.screenH = int(float64(outsideHeight) * scale)
	return h.screenW, h.screenH
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		if s := m.DeviceScaleFactor(); s > 0 {
			return s
		}
	}
	return 1
}
