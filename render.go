package canvasrender

import (
	"fmt"
	"time"
)

// Redraw runs one repaint pass if anything is pending and a surface is
// attached, and reports whether it did.
//
// The pending list is taken as one batch before painting starts; requests
// made by render functions during the pass land in the next batch. The pass
// always clears and repaints the whole tree; the batch is handed to every
// RenderFunc so nodes can skip work outside it.
func (c *Canvas) Redraw() bool {
	if c.surface == nil || len(c.pending) == 0 {
		return false
	}
	dirty := c.pending
	c.pending = nil

	var stats passStats
	var t0 time.Time
	if c.cfg.Debug {
		t0 = time.Now()
	}

	c.surface.Clear()
	if c.cfg.Background != nil {
		c.surface.Fill(c.cfg.Background)
	}
	c.renderNode(c.root, dirty, &stats)

	c.stats.Passes++
	c.stats.LastPassNodes = stats.nodes
	c.stats.LastPassRequests = len(dirty)
	c.stats.RenderErrors += stats.errors

	if c.cfg.Debug {
		stats.duration = time.Since(t0)
		stats.requests = len(dirty)
		c.debugLog(stats)
	}

	c.flushScreenshots()
	return true
}

// renderNode paints n and then its children in declared order. A failing
// node is logged and skipped; its children still draw.
func (c *Canvas) renderNode(n *Node, dirty []Rect, stats *passStats) {
	if !n.visible {
		return
	}
	stats.nodes++
	if n.paint != nil {
		if err := c.paintNode(n, dirty); err != nil {
			stats.errors++
			c.log.Error("canvasrender: render failed",
				"node", n.Name, "id", n.ID, "type", n.Type.String(), "err", err)
		}
	}
	for _, child := range n.children {
		c.renderNode(child, dirty, stats)
	}
}

// paintNode runs n's paint function, turning a panic into an error so one
// broken node cannot abort the pass.
func (c *Canvas) paintNode(n *Node, dirty []Rect) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("canvasrender: render panicked: %v", r)
		}
	}()
	return n.paint(c.surface, n.meta, dirty)
}
