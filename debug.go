package canvasrender

import (
	"log/slog"
	"time"
)

// Stats holds cumulative counters for a canvas.
type Stats struct {
	Passes           int // completed redraw passes
	Requests         int // RequestRedraw calls since creation
	LastPassRequests int // requests served by the last pass
	LastPassNodes    int // visible nodes visited by the last pass
	RenderErrors     int // RenderFunc errors since creation
	Clicks           int // dispatched clicks
	ClaimedClicks    int // dispatched clicks some handler claimed
}

// Stats returns a snapshot of the canvas counters.
func (c *Canvas) Stats() Stats { return c.stats }

// passStats holds per-pass metrics. Duration is only measured in debug mode.
type passStats struct {
	nodes    int
	errors   int
	requests int
	duration time.Duration
}

func (c *Canvas) debugLog(stats passStats) {
	c.log.Debug("canvasrender: redraw",
		"pass", c.stats.Passes,
		"requests", stats.requests,
		"nodes", stats.nodes,
		"errors", stats.errors,
		"duration", stats.duration)
}

const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if the tree below the root is deeper than
// debugMaxTreeDepth at n.
func debugCheckTreeDepth(log *slog.Logger, n *Node) {
	depth := 0
	for p := n; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		log.Warn("canvasrender: tree depth exceeds threshold",
			"node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
	}
}

const debugMaxChildCount = 1000

func debugCheckChildCount(log *slog.Logger, n *Node) {
	if len(n.children) > debugMaxChildCount {
		log.Warn("canvasrender: node has many children",
			"node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
	}
}
