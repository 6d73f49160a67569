package ebitenhost

import (
	"image"
	"image/color"
	"testing"

	"github.com/TetsuOtter/web-mon-jrc/canvasrender"
)

func TestNewDefaults(t *testing.T) {
	c := canvasrender.NewCanvas(canvasrender.Config{Width: 320, Height: 240})
	defer c.Close()
	h := New(c, Options{})

	if h.opts.WindowWidth != 320 || h.opts.WindowHeight != 240 {
		t.Errorf("window = %dx%d, want canvas size 320x240", h.opts.WindowWidth, h.opts.WindowHeight)
	}
	if h.opts.Letterbox != color.Black {
		t.Errorf("Letterbox = %v, want black", h.opts.Letterbox)
	}
	if c.Surface() == nil || c.Scale() != 1 {
		t.Error("New should attach a surface at scale 1")
	}
}

func TestNewKeepsSurface(t *testing.T) {
	c := canvasrender.NewCanvas(canvasrender.Config{Width: 10, Height: 10})
	defer c.Close()
	s := c.AttachSurface(2)
	New(c, Options{WindowWidth: 50, WindowHeight: 60})
	if c.Surface() != s {
		t.Error("New replaced an attached surface")
	}
}

func TestViewRect(t *testing.T) {
	tests := []struct {
		name   string
		fit    canvasrender.FitMode
		screen image.Rectangle
		want   canvasrender.Rect
	}{
		{"contain wide screen", canvasrender.FitContain, image.Rect(0, 0, 400, 100),
			canvasrender.Rect{X: 150, Y: 0, Width: 100, Height: 100}},
		{"contain tall screen", canvasrender.FitContain, image.Rect(0, 0, 100, 300),
			canvasrender.Rect{X: 0, Y: 100, Width: 100, Height: 100}},
		{"stretch", canvasrender.FitStretch, image.Rect(0, 0, 400, 100),
			canvasrender.Rect{Width: 400, Height: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := canvasrender.NewCanvas(canvasrender.Config{Width: 50, Height: 50, Fit: tt.fit})
			defer c.Close()
			h := New(c, Options{})
			if got := h.viewRect(tt.screen); got != tt.want {
				t.Errorf("viewRect = %+v, want %+v", got, tt.want)
			}
		})
	}
}
