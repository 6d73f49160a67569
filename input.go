package canvasrender

// --- Built-in HitShape types ---

// HitRect is an axis-aligned rectangular hit area in node coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area in node coordinates.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// HitPolygon is a polygon hit area in node coordinates, tested with the
// even-odd rule. Concave outlines are fine.
type HitPolygon struct {
	Points []Point
}

// Contains reports whether (x, y) lies inside the polygon.
func (p HitPolygon) Contains(x, y float64) bool {
	if len(p.Points) < 3 {
		return false
	}
	return pointInPolygon(x, y, p.Points)
}

// --- Pointer mapping ---

// PointerEvent is a pointer event in display coordinates. Bounds is where
// the canvas is shown on the display, in the same coordinate space.
type PointerEvent struct {
	X, Y   float64
	Bounds Rect
}

// ContainRect returns the sub-rectangle of bounds that a w×h canvas occupies
// when scaled to fit while keeping its aspect ratio, centered.
func ContainRect(w, h float64, bounds Rect) Rect {
	if w <= 0 || h <= 0 || bounds.Empty() {
		return Rect{X: bounds.X, Y: bounds.Y}
	}
	scale := min(bounds.Width/w, bounds.Height/h)
	vw, vh := w*scale, h*scale
	return Rect{
		X:      bounds.X + (bounds.Width-vw)/2,
		Y:      bounds.Y + (bounds.Height-vh)/2,
		Width:  vw,
		Height: vh,
	}
}

// ToLogical maps a display-space pointer position to logical canvas
// coordinates. ok is false when the point falls outside the visible canvas
// (for FitContain, inside the letterbox bars).
func (c *Canvas) ToLogical(ev PointerEvent) (x, y float64, ok bool) {
	view := ev.Bounds
	if c.cfg.Fit == FitContain {
		view = ContainRect(c.cfg.Width, c.cfg.Height, ev.Bounds)
	}
	if view.Empty() || !view.Contains(ev.X, ev.Y) {
		return 0, 0, false
	}
	x = (ev.X - view.X) * c.cfg.Width / view.Width
	y = (ev.Y - view.Y) * c.cfg.Height / view.Height
	return x, y, true
}

// --- Dispatch ---

// HandlePointer maps a display-space click into the canvas and dispatches
// it. Returns whether a handler claimed it.
func (c *Canvas) HandlePointer(ev PointerEvent) bool {
	x, y, ok := c.ToLogical(ev)
	if !ok {
		return false
	}
	return c.Dispatch(x, y)
}

// Dispatch delivers a click at logical canvas coordinates (x, y).
//
// Children are searched in reverse declared order so the topmost node is
// tried first. On a hit the node's own children are searched before the
// node's handler runs. The first handler returning true ends the search;
// false lets it continue with earlier siblings and then the parent.
func (c *Canvas) Dispatch(x, y float64) bool {
	c.stats.Clicks++
	claimed := dispatchChildren(c.root, x, y, x, y)
	if claimed {
		c.stats.ClaimedClicks++
	}
	return claimed
}

// dispatchChildren searches n's children for a claimant. lx, ly are
// relative to n's origin.
func dispatchChildren(n *Node, lx, ly, cx, cy float64) bool {
	for i := len(n.children) - 1; i >= 0; i-- {
		child := n.children[i]
		if !child.visible || (child.OnClick == nil && len(child.children) == 0) {
			continue
		}
		rx := lx - child.meta.RelX
		ry := ly - child.meta.RelY
		if !child.hit(rx, ry) {
			continue
		}
		if dispatchChildren(child, rx, ry, cx, cy) {
			return true
		}
		if child.OnClick != nil && child.OnClick(ClickContext{
			Node: child, X: rx, Y: ry, CanvasX: cx, CanvasY: cy,
		}) {
			return true
		}
	}
	return false
}

// hit tests (x, y), relative to the node's origin, against HitShape or the
// bounding box.
func (n *Node) hit(x, y float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(x, y)
	}
	return x >= 0 && x <= n.meta.Width && y >= 0 && y <= n.meta.Height
}

// HitTest reports whether (x, y), relative to the node's origin, lands on
// the node.
func (n *Node) HitTest(x, y float64) bool { return n.hit(x, y) }
