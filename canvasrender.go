package canvasrender

import "math"

// Rect is an axis-aligned rectangle in logical canvas pixels. The origin is
// the top-left corner with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rectangle containing both r and other.
// An empty operand is ignored.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.Width, other.X+other.Width)
	y1 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Metadata describes where a node sits on the canvas.
//
// RelX/RelY are relative to the parent's origin. AbsX/AbsY are the parent's
// absolute position plus RelX/RelY, kept current by the tree.
type Metadata struct {
	RelX, RelY    float64
	AbsX, AbsY    float64
	Width, Height float64

	// IsFilled marks nodes that cover their whole bounding box.
	// Informational only.
	IsFilled bool
}

// Bounds returns the node's bounding box in absolute coordinates.
func (m Metadata) Bounds() Rect {
	return Rect{X: m.AbsX, Y: m.AbsY, Width: m.Width, Height: m.Height}
}

// NodeType identifies what a Node draws.
type NodeType uint8

const (
	TypeGroup       NodeType = iota // no pixels of its own
	TypeObject                      // caller-supplied RenderFunc
	TypeRect                        // filled and/or stroked rectangle
	TypeCircle                      // filled and/or stroked circle
	TypeLine                        // Bresenham line
	TypeQuad                        // four-corner quadrilateral
	TypeRoundedRect                 // filled rounded rectangle
	TypeDotPattern                  // dot-matrix bitmap from a string pattern
	TypeTofu                        // placeholder glyph box
	TypeText                        // bitmap-font text block
)

var nodeTypeNames = [...]string{
	TypeGroup:       "group",
	TypeObject:      "object",
	TypeRect:        "rect",
	TypeCircle:      "circle",
	TypeLine:        "line",
	TypeQuad:        "quad",
	TypeRoundedRect: "rounded-rect",
	TypeDotPattern:  "dot-pattern",
	TypeTofu:        "tofu",
	TypeText:        "text",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "unknown"
}

// HitShape overrides the default bounding-box hit test. Coordinates are
// relative to the node's origin.
type HitShape interface {
	Contains(x, y float64) bool
}

// HitFunc adapts a plain function to HitShape.
type HitFunc func(x, y float64) bool

// Contains calls f(x, y).
func (f HitFunc) Contains(x, y float64) bool { return f(x, y) }

// RenderFunc draws a node onto the surface. m carries the node's current
// absolute position; dirty lists the areas requested since the previous pass.
// A returned error or a panic is logged and counted, and the pass continues
// with the next node.
type RenderFunc func(s *Surface, m Metadata, dirty []Rect) error

// ClickContext carries click event data to a node's OnClick handler.
type ClickContext struct {
	Node *Node

	// X, Y are relative to the node's origin.
	X, Y float64

	// CanvasX, CanvasY are logical canvas coordinates.
	CanvasX, CanvasY float64
}
