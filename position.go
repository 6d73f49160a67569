package canvasrender

// SetPosition moves the node relative to its parent. Absolute positions of
// the whole subtree are recomputed at once, and both the old and the new
// bounds are queued for redraw.
func (n *Node) SetPosition(x, y float64) {
	if n.meta.RelX == x && n.meta.RelY == y {
		return
	}
	old := n.meta.Bounds()
	n.meta.RelX, n.meta.RelY = x, y
	n.updateAbs()
	n.requestRedraw(old)
	n.requestRedraw(n.meta.Bounds())
	if n.text != nil && n.text.style.InheritBounds {
		n.requestLayout()
	}
}

// Position returns the node's offset from its parent.
func (n *Node) Position() (x, y float64) {
	return n.meta.RelX, n.meta.RelY
}

// SetSize changes the bounding box size. Negative values are clamped to 0.
func (n *Node) SetSize(w, h float64) {
	w, h = max(w, 0), max(h, 0)
	if n.meta.Width == w && n.meta.Height == h {
		return
	}
	old := n.meta.Bounds()
	n.meta.Width, n.meta.Height = w, h
	n.requestRedraw(old)
	n.requestRedraw(n.meta.Bounds())
	if n.text == nil {
		n.relayoutInheritors()
	}
}

// SetVisible shows or hides the node and its subtree. Hidden nodes are
// neither drawn nor hit-tested.
func (n *Node) SetVisible(v bool) {
	if n.visible == v {
		return
	}
	n.visible = v
	n.requestRedraw(n.meta.Bounds())
}

// updateAbs recomputes AbsX/AbsY from the parent for n and every descendant.
func (n *Node) updateAbs() {
	if n.parent != nil {
		n.meta.AbsX = n.parent.meta.AbsX + n.meta.RelX
		n.meta.AbsY = n.parent.meta.AbsY + n.meta.RelY
	} else {
		n.meta.AbsX = n.meta.RelX
		n.meta.AbsY = n.meta.RelY
	}
	for _, c := range n.children {
		c.updateAbs()
	}
}

// relayoutInheritors re-runs layout for direct text children whose bounds
// come from this node.
func (n *Node) relayoutInheritors() {
	for _, c := range n.children {
		if c.text != nil && c.text.style.InheritBounds {
			c.requestLayout()
		}
	}
}
