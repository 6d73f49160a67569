package canvasrender

import (
	"errors"
	"image/color"
	"math"
)

// Construction errors returned by NewQuad.
var (
	ErrMissingColor = errors.New("canvasrender: either fill or stroke color must be set")
	ErrInvertedX    = errors.New("canvasrender: left x must be less than right x")
	ErrInvertedY    = errors.New("canvasrender: top y must be less than bottom y")
)

// ShapeStyle is the paint of a rectangle, circle or quadrilateral. A nil
// color skips that part.
type ShapeStyle struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
}

var defaultInk = color.RGBA{A: 0xff}

// --- Rectangle ---

// NewRect creates a rectangle. The fill is inset by the stroke width on
// every side and the stroke runs just inside the box edge, so neither ever
// paints outside (x, y, w, h) or over the other.
func NewRect(name string, x, y, w, h float64, style ShapeStyle) *Node {
	n := newNode(name, TypeRect, x, y, w, h)
	n.meta.IsFilled = style.Fill != nil
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		ix := math.Round(m.AbsX)
		iy := math.Round(m.AbsY)
		iw := math.Round(m.Width)
		ih := math.Round(m.Height)
		sw := style.StrokeWidth
		if style.Fill != nil {
			s.FillRect(ix+sw, iy+sw, iw-2*sw, ih-2*sw, style.Fill)
		}
		if style.Stroke != nil && sw > 0 {
			s.StrokeRect(ix+sw/2, iy+sw/2, iw-sw, ih-sw, sw, style.Stroke)
		}
		return nil
	}
	return n
}

// --- Circle ---

// NewCircle creates a circle centered at (cx, cy). The node's box is the
// circle's bounding square and clicks hit only inside the circle.
func NewCircle(name string, cx, cy, radius float64, style ShapeStyle) *Node {
	r := max(radius, 0)
	n := newNode(name, TypeCircle, cx-r, cy-r, 2*r, 2*r)
	n.meta.IsFilled = style.Fill != nil
	n.HitShape = HitCircle{CenterX: r, CenterY: r, Radius: r}
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		ix := m.AbsX + r - 0.5
		iy := m.AbsY + r - 0.5
		sw := style.StrokeWidth
		if style.Fill != nil {
			scanDisk(ix, iy, max(0, r-sw/2), 0, func(x, y int) {
				s.FillRect(float64(x), float64(y), 1, 1, style.Fill)
			})
		}
		if style.Stroke != nil && sw > 0 {
			scanDisk(ix, iy, r, max(0, r-sw), func(x, y int) {
				s.FillRect(float64(x), float64(y), 1, 1, style.Stroke)
			})
		}
		return nil
	}
	return n
}

// --- Line ---

// NewLine creates a line between two points in the parent's frame. The node
// is positioned at the top-left of the rounded endpoints. A nil color draws
// black and a non-positive width draws 1 pixel wide.
//
// Clicks hit within half the width of the segment.
func NewLine(name string, x1, y1, x2, y2 float64, c color.Color, width float64) *Node {
	if c == nil {
		c = defaultInk
	}
	if width <= 0 {
		width = 1
	}
	rx1, ry1 := math.Round(x1), math.Round(y1)
	rx2, ry2 := math.Round(x2), math.Round(y2)
	minX, minY := math.Min(rx1, rx2), math.Min(ry1, ry2)
	maxX, maxY := math.Max(rx1, rx2), math.Max(ry1, ry2)

	n := newNode(name, TypeLine, minX, minY, maxX-minX, maxY-minY)
	lx1, ly1 := rx1-minX, ry1-minY
	lx2, ly2 := rx2-minX, ry2-minY
	bw, bh := maxX-minX, maxY-minY

	n.HitShape = HitFunc(func(x, y float64) bool {
		if x < -width || x > bw+width || y < -width || y > bh+width {
			return false
		}
		return nearSegment(x, y, lx1, ly1, lx2, ly2, width/2)
	})
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		strokeLine(s,
			int(math.Round(m.AbsX+lx1)), int(math.Round(m.AbsY+ly1)),
			int(math.Round(m.AbsX+lx2)), int(math.Round(m.AbsY+ly2)),
			width, c)
		return nil
	}
	return n
}

// --- Quadrilateral ---

// Quad is a quadrilateral given by its left edge (L1 top, L2 bottom) and
// right edge (R1 top, R2 bottom) in the parent's frame.
type Quad struct {
	XL1, YL1 float64
	XL2, YL2 float64
	XR1, YR1 float64
	XR2, YR2 float64
}

// NewQuad creates a quadrilateral. Each right corner must lie right of the
// left corner on the same side, and each bottom corner below its top
// corner. Stroke defaults to Fill; at least one must be set. StrokeWidth
// defaults to 1.
//
// The fill is a polygon through the corners shifted by half the stroke
// width, matching the stroke cells that hang right and down from each
// Bresenham step. Clicks hit inside the fill or within the stroke width of
// any edge.
func NewQuad(name string, q Quad, style ShapeStyle) (*Node, error) {
	stroke := style.Stroke
	if stroke == nil {
		stroke = style.Fill
	}
	if stroke == nil {
		return nil, ErrMissingColor
	}
	if q.XR1 <= q.XL1 || q.XR2 <= q.XL2 {
		return nil, ErrInvertedX
	}
	if q.YL2 <= q.YL1 || q.YR2 <= q.YR1 {
		return nil, ErrInvertedY
	}
	w := style.StrokeWidth
	if w <= 0 {
		w = 1
	}

	xs := [4]float64{math.Round(q.XL1), math.Round(q.XL2), math.Round(q.XR1), math.Round(q.XR2)}
	ys := [4]float64{math.Round(q.YL1), math.Round(q.YL2), math.Round(q.YR1), math.Round(q.YR2)}
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := 1; i < 4; i++ {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
	}

	n := newNode(name, TypeQuad, minX, minY, maxX-minX, maxY-minY)
	bw, bh := maxX-minX, maxY-minY

	// Corners relative to the node origin, outline order L1 R1 R2 L2.
	outline := []Point{
		{xs[0] - minX, ys[0] - minY},
		{xs[2] - minX, ys[2] - minY},
		{xs[3] - minX, ys[3] - minY},
		{xs[1] - minX, ys[1] - minY},
	}
	edges := [4][2]int{{0, 3}, {0, 1}, {1, 2}, {3, 2}} // left, top, right, bottom

	n.HitShape = HitFunc(func(x, y float64) bool {
		if x < -w || x > bw+w || y < -w || y > bh+w {
			return false
		}
		if style.Fill != nil && pointInPolygon(x, y, outline) {
			return true
		}
		for _, e := range edges {
			a, b := outline[e[0]], outline[e[1]]
			if nearSegment(x, y, a.X, a.Y, b.X, b.Y, w) {
				return true
			}
		}
		return false
	})

	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		var pts [4]Point
		pts[0] = Point{math.Round(m.AbsX + q.XL1 - minX), math.Round(m.AbsY + q.YL1 - minY)}
		pts[1] = Point{math.Round(m.AbsX + q.XR1 - minX), math.Round(m.AbsY + q.YR1 - minY)}
		pts[2] = Point{math.Round(m.AbsX + q.XR2 - minX), math.Round(m.AbsY + q.YR2 - minY)}
		pts[3] = Point{math.Round(m.AbsX + q.XL2 - minX), math.Round(m.AbsY + q.YL2 - minY)}
		if style.Fill != nil {
			off := w / 2
			s.FillPolygon([]Point{
				{pts[0].X + off, pts[0].Y + off},
				{pts[1].X + off, pts[1].Y + off},
				{pts[2].X + off, pts[2].Y + off},
				{pts[3].X + off, pts[3].Y + off},
			}, style.Fill)
		}
		for _, e := range edges {
			a, b := pts[e[0]], pts[e[1]]
			strokeLine(s, int(a.X), int(a.Y), int(b.X), int(b.Y), w, stroke)
		}
		return nil
	}
	return n, nil
}

// --- Rounded rectangle ---

// NewRoundedRect creates a filled rectangle with quarter-disk corners. The
// radius is clamped to half the shorter side. A nil fill draws nothing but
// the node still takes clicks.
func NewRoundedRect(name string, x, y, w, h, radius float64, fill color.Color) *Node {
	n := newNode(name, TypeRoundedRect, x, y, w, h)
	n.meta.IsFilled = fill != nil
	n.HitShape = HitFunc(func(px, py float64) bool {
		return roundedRectContains(px, py, n.meta.Width, n.meta.Height, radius)
	})
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		if fill == nil {
			return nil
		}
		fillRoundedRect(s, m.AbsX, m.AbsY, m.Width, m.Height, radius, fill)
		return nil
	}
	return n
}

func fillRoundedRect(s *Surface, x, y, w, h, radius float64, c color.Color) {
	r := math.Min(radius, math.Min(w/2, h/2))
	if r < 0 {
		r = 0
	}
	// Horizontal band across the full width, vertical band across the full
	// height. Iteration counts match a per-pixel scan of [start, end).
	s.FillRect(math.Floor(x), math.Floor(y+r), math.Ceil(w), math.Ceil(h-2*r), c)
	s.FillRect(math.Floor(x+r), math.Floor(y), math.Ceil(w-2*r), math.Ceil(h), c)

	plot := func(px, py int) { s.FillRect(float64(px), float64(py), 1, 1, c) }
	fillCorner(x+r-0.5, y+r-0.5, r, -r+0.5, 0.5, -r+0.5, 0.5, plot)
	fillCorner(x+w-r-0.5, y+r-0.5, r, -0.5, r-0.5, -r+0.5, 0.5, plot)
	fillCorner(x+r-0.5, y+h-r-0.5, r, -r+0.5, 0.5, -0.5, r-0.5, plot)
	fillCorner(x+w-r-0.5, y+h-r-0.5, r, -0.5, r-0.5, -0.5, r-0.5, plot)
}

// fillCorner scans dy in [minDy, maxDy) and dx in [minDx, maxDx] around
// (cx, cy), plotting offsets inside radius r.
func fillCorner(cx, cy, r, minDx, maxDx, minDy, maxDy float64, plot func(x, y int)) {
	for dy := minDy; dy < maxDy; dy++ {
		for dx := minDx; dx <= maxDx; dx++ {
			if dx*dx+dy*dy <= r*r {
				plot(int(math.Floor(cx+dx)), int(math.Floor(cy+dy)))
			}
		}
	}
}

func roundedRectContains(x, y, w, h, radius float64) bool {
	r := math.Min(radius, math.Min(w/2, h/2))
	inCorner := func(cx, cy float64) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= r*r
	}
	switch {
	case x >= r && x < w-r:
		return y >= 0 && y < h
	case y >= r && y < h-r:
		return x >= 0 && x < w
	case x < r && y < r:
		return inCorner(r, r)
	case x >= w-r && y < r:
		return inCorner(w-r, r)
	case x < r && y >= h-r:
		return inCorner(r, h-r)
	case x >= w-r && y >= h-r:
		return inCorner(w-r, h-r)
	}
	return false
}

// --- Dot pattern ---

// NewDotPattern creates a dot-matrix image from rows of '1' (on) and any
// other byte (off). Each dot is scaleX×scaleY; non-positive scales are 1.
// The width comes from the first row.
func NewDotPattern(name string, x, y float64, pattern []string, scaleX, scaleY float64, c color.Color) *Node {
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	if c == nil {
		c = defaultInk
	}
	cols := 0
	if len(pattern) > 0 {
		cols = len(pattern[0])
	}
	rows := append([]string(nil), pattern...)
	n := newNode(name, TypeDotPattern, x, y, float64(cols)*scaleX, float64(len(rows))*scaleY)
	n.meta.IsFilled = true
	n.HitShape = HitFunc(func(px, py float64) bool {
		return px >= 0 && px <= n.meta.Width && py >= 0 && py <= n.meta.Height
	})
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		ox, oy := math.Round(m.AbsX), math.Round(m.AbsY)
		dw, dh := math.Ceil(scaleX), math.Ceil(scaleY)
		for row, line := range rows {
			for col := 0; col < len(line); col++ {
				if line[col] == '1' {
					s.FillRect(ox+float64(col)*scaleX, oy+float64(row)*scaleY, dw, dh, c)
				}
			}
		}
		return nil
	}
	return n
}

// --- Tofu ---

// NewTofu draws the placeholder glyph used for missing characters as a
// standalone node, one logical pixel per glyph bit.
func NewTofu(name string, x, y float64, size int, fullWidth bool, c color.Color) *Node {
	if c == nil {
		c = defaultInk
	}
	g := Tofu(size, fullWidth)
	n := newNode(name, TypeTofu, x, y, float64(g.Width), float64(g.Height))
	n.paint = func(s *Surface, m Metadata, _ []Rect) error {
		ox, oy := math.Round(m.AbsX), math.Round(m.AbsY)
		for py := 0; py < g.Height; py++ {
			for px := 0; px < g.Width; px++ {
				if g.At(px, py) {
					s.FillRect(ox+float64(px), oy+float64(py), 1, 1, c)
				}
			}
		}
		return nil
	}
	return n
}
