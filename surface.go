package canvasrender

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Point is a 2D point in logical canvas pixels.
type Point struct {
	X, Y float64
}

// Surface is the software raster target every node draws onto.
//
// All drawing methods take logical coordinates; the surface multiplies them
// by its device scale and rounds edges to whole device pixels, so output is
// never antialiased. The backing image is premultiplied RGBA and can be
// uploaded directly to a GPU texture.
type Surface struct {
	img           *image.RGBA
	width, height float64
	scale         float64
}

// NewSurface allocates a surface of logical size w×h at the given device
// scale. A non-positive scale is treated as 1.
func NewSurface(w, h, scale float64) *Surface {
	if scale <= 0 {
		scale = 1
	}
	pw := int(math.Ceil(w * scale))
	ph := int(math.Ceil(h * scale))
	return &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, max(pw, 0), max(ph, 0))),
		width:  w,
		height: h,
		scale:  scale,
	}
}

// Size returns the logical size.
func (s *Surface) Size() (w, h float64) { return s.width, s.height }

// Scale returns the device scale factor.
func (s *Surface) Scale() float64 { return s.scale }

// RGBA returns the backing device-pixel image. Callers must not retain it
// across a device scale change.
func (s *Surface) RGBA() *image.RGBA { return s.img }

// At returns the device pixel at (px, py).
func (s *Surface) At(px, py int) color.RGBA { return s.img.RGBAAt(px, py) }

// Clear sets every pixel to transparent.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Fill paints the whole surface with c, replacing existing pixels.
func (s *Surface) Fill(c color.Color) {
	if c == nil {
		return
	}
	xdraw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, xdraw.Src)
}

// deviceRect converts a logical rectangle into device pixels, rounding each
// edge independently so adjacent rectangles never overlap or leave gaps.
func (s *Surface) deviceRect(x, y, w, h float64) image.Rectangle {
	x0 := int(math.Round(x * s.scale))
	y0 := int(math.Round(y * s.scale))
	x1 := int(math.Round((x + w) * s.scale))
	y1 := int(math.Round((y + h) * s.scale))
	return image.Rect(x0, y0, x1, y1).Intersect(s.img.Bounds())
}

// FillRect fills a logical rectangle with c using source-over compositing.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 || isTransparent(c) {
		return
	}
	r := s.deviceRect(x, y, w, h)
	if r.Empty() {
		return
	}
	xdraw.Draw(s.img, r, image.NewUniform(c), image.Point{}, xdraw.Over)
}

// StrokeRect draws the outline of a rectangle with a line of the given width
// centered on its edges.
func (s *Surface) StrokeRect(x, y, w, h, lineWidth float64, c color.Color) {
	if lineWidth <= 0 || w < 0 || h < 0 || isTransparent(c) {
		return
	}
	half := lineWidth / 2
	if w <= lineWidth || h <= lineWidth {
		s.FillRect(x-half, y-half, w+lineWidth, h+lineWidth, c)
		return
	}
	s.FillRect(x-half, y-half, w+lineWidth, lineWidth, c)
	s.FillRect(x-half, y+h-half, w+lineWidth, lineWidth, c)
	s.FillRect(x-half, y+half, lineWidth, h-lineWidth, c)
	s.FillRect(x+w-half, y+half, lineWidth, h-lineWidth, c)
}

// FillPolygon fills the closed path through pts. Coverage is thresholded at
// one half so edges stay hard.
func (s *Surface) FillPolygon(pts []Point, c color.Color) {
	if len(pts) < 3 || isTransparent(c) {
		return
	}
	// Rasterize only the polygon's device bounding box.
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = min(minX, p.X*s.scale), max(maxX, p.X*s.scale)
		minY, maxY = min(minY, p.Y*s.scale), max(maxY, p.Y*s.scale)
	}
	b := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	).Intersect(s.img.Bounds())
	if b.Empty() {
		return
	}
	ox, oy := float64(b.Min.X), float64(b.Min.Y)
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X*s.scale-ox), float32(pts[0].Y*s.scale-oy))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X*s.scale-ox), float32(p.Y*s.scale-oy))
	}
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	for i, a := range mask.Pix {
		if a >= 0x80 {
			mask.Pix[i] = 0xff
		} else {
			mask.Pix[i] = 0
		}
	}
	xdraw.DrawMask(s.img, b, image.NewUniform(c), image.Point{}, mask, image.Point{}, xdraw.Over)
}

// DrawImage draws src scaled into the logical rectangle (x, y, w, h) with
// nearest-neighbour sampling.
func (s *Surface) DrawImage(src image.Image, x, y, w, h float64) {
	if src == nil || w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Round(x * s.scale))
	y0 := int(math.Round(y * s.scale))
	x1 := int(math.Round((x + w) * s.scale))
	y1 := int(math.Round((y + h) * s.scale))
	dr := image.Rect(x0, y0, x1, y1)
	if dr.Empty() || !dr.Overlaps(s.img.Bounds()) {
		return
	}
	xdraw.NearestNeighbor.Scale(s.img, dr, src, src.Bounds(), xdraw.Over, nil)
}

// Line draws a Bresenham line between integer logical points, stamping a
// width×width square at each step.
func (s *Surface) Line(x0, y0, x1, y1 int, width float64, c color.Color) {
	strokeLine(s, x0, y0, x1, y1, width, c)
}

// WritePNG encodes the device-pixel image as PNG.
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("canvasrender: encode png: %w", err)
	}
	return nil
}
