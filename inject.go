package canvasrender

// injectedPointer is one queued synthetic click. Logical clicks skip the
// display mapping.
type injectedPointer struct {
	event   PointerEvent
	logical bool
}

// InjectClick queues a click at logical canvas coordinates. Queued events
// are dispatched one per Update call, in order.
func (c *Canvas) InjectClick(x, y float64) {
	c.injectQueue = append(c.injectQueue, injectedPointer{
		event:   PointerEvent{X: x, Y: y},
		logical: true,
	})
}

// InjectPointer queues a click in display coordinates, mapped through the
// canvas fit mode just like a real pointer event.
func (c *Canvas) InjectPointer(ev PointerEvent) {
	c.injectQueue = append(c.injectQueue, injectedPointer{event: ev})
}

// processInjected pops and dispatches one queued event. Returns whether an
// event was consumed.
func (c *Canvas) processInjected() bool {
	if len(c.injectQueue) == 0 {
		return false
	}
	evt := c.injectQueue[0]
	copy(c.injectQueue, c.injectQueue[1:])
	c.injectQueue = c.injectQueue[:len(c.injectQueue)-1]

	if evt.logical {
		c.Dispatch(evt.event.X, evt.event.Y)
	} else {
		c.HandlePointer(evt.event)
	}
	return true
}
