package canvasrender

import "testing"

func recordClicks(n *Node, got *[]string) {
	n.OnClick = func(ClickContext) bool {
		*got = append(*got, n.Name)
		return true
	}
}

func TestInjectClickOnePerUpdate(t *testing.T) {
	c := newTestCanvas(t, 100, 100)
	var got []string
	a := NewRect("a", 0, 0, 10, 10, ShapeStyle{Fill: testRed})
	b := NewRect("b", 50, 50, 10, 10, ShapeStyle{Fill: testBlue})
	recordClicks(a, &got)
	recordClicks(b, &got)
	c.Root().Mount(a)
	c.Root().Mount(b)

	c.InjectClick(55, 55)
	c.InjectClick(5, 5)
	if len(got) != 0 {
		t.Fatal("InjectClick should only queue")
	}

	c.Update()
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("after first Update got %v, want [b]", got)
	}
	c.Update()
	if len(got) != 2 || got[1] != "a" {
		t.Fatalf("after second Update got %v, want [b a]", got)
	}
	c.Update()
	if len(got) != 2 {
		t.Errorf("empty queue dispatched %v", got)
	}
}

func TestInjectPointerMapsThroughFit(t *testing.T) {
	c := newTestCanvas(t, 100, 50)
	var hit ClickContext
	n := NewGroup("target", 0, 0, 20, 20)
	n.OnClick = func(ctx ClickContext) bool {
		hit = ctx
		return true
	}
	c.Root().Mount(n)

	// 100x50 in 200x200 letterboxes to 200x100 at y=50.
	bounds := Rect{Width: 200, Height: 200}
	c.InjectPointer(PointerEvent{X: 20, Y: 10, Bounds: bounds})
	c.InjectPointer(PointerEvent{X: 20, Y: 60, Bounds: bounds})

	c.Update()
	if hit.Node != nil {
		t.Error("click in the letterbox bar should be ignored")
	}
	if c.Stats().Clicks != 0 {
		t.Errorf("Clicks = %d, want 0", c.Stats().Clicks)
	}

	c.Update()
	if hit.Node != n {
		t.Fatal("mapped click should reach the target")
	}
	if hit.CanvasX != 10 || hit.CanvasY != 5 {
		t.Errorf("canvas point = (%v, %v), want (10, 5)", hit.CanvasX, hit.CanvasY)
	}
}

func TestProcessInjectedEmptyQueue(t *testing.T) {
	c := newTestCanvas(t, 10, 10)
	if c.processInjected() {
		t.Error("processInjected on an empty queue should report false")
	}
}
