package canvasrender

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values on a Node simultaneously. Create one
// via TweenPosition, TweenSize or TweenBlink and call Update(dt) each frame.
// Values are applied through the node's setters, so redraws are queued as
// for any other change. If the target node is destroyed, the group stops
// immediately.
//
// There is no global animation manager. Callers run Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	apply  func(vals [4]float64)
	target *Node
	loop   bool
	Done   bool
}

// Update advances all tweens by dt seconds and applies the current values.
// Looping groups restart when every tween has finished and never report
// Done on their own.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target != nil && g.target.Destroyed() {
		g.Done = true
		return
	}

	var vals [4]float64
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.apply(vals)

	if !allDone {
		return
	}
	if g.loop {
		for i := 0; i < g.count; i++ {
			g.tweens[i].Reset()
		}
		return
	}
	g.Done = true
}

// Stop ends the group without applying further values.
func (g *TweenGroup) Stop() {
	g.Done = true
}

// TweenPosition moves node to (toX, toY), relative to its parent, over
// duration seconds.
func TweenPosition(node *Node, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	x, y := node.Position()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(x), float32(toX), duration, fn)
	g.tweens[1] = gween.New(float32(y), float32(toY), duration, fn)
	g.apply = func(v [4]float64) { node.SetPosition(v[0], v[1]) }
	return g
}

// TweenSize resizes node to toW x toH over duration seconds.
func TweenSize(node *Node, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	m := node.Metadata()
	g := &TweenGroup{count: 2, target: node}
	g.tweens[0] = gween.New(float32(m.Width), float32(toW), duration, fn)
	g.tweens[1] = gween.New(float32(m.Height), float32(toH), duration, fn)
	g.apply = func(v [4]float64) { node.SetSize(v[0], v[1]) }
	return g
}

// TweenBlink toggles node visibility forever: visible for the first half
// of each period, hidden for the second. Stop it with Stop.
func TweenBlink(node *Node, period float32) *TweenGroup {
	g := &TweenGroup{count: 1, target: node, loop: true}
	g.tweens[0] = gween.New(0, 1, period, ease.Linear)
	g.apply = func(v [4]float64) { node.SetVisible(v[0] < 0.5) }
	return g
}
