package canvasrender

import (
	"fmt"
	"sort"
)

// nodeIDCounter is a plain counter. Tree mutation is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a participant in the registration tree. One flat struct is used
// for every kind of node; Type tells them apart and the unexported paint
// function does the drawing.
type Node struct {
	ID   uint32
	Name string
	Type NodeType

	parent   *Node
	canvas   *Canvas
	children []*Node
	declared map[uint32]int // child ID -> declared index

	meta    Metadata
	visible bool
	paint   RenderFunc

	// OnClick handles a click that landed on this node and was not claimed
	// by any of its children. Returning false lets the search continue to
	// earlier siblings and then to the parent.
	OnClick func(ClickContext) bool

	// HitShape replaces the default [0,Width]×[0,Height] hit test.
	HitShape HitShape

	// OnLineInfo is called on text nodes after every layout with the total
	// number of laid-out lines and the number inside the visible window.
	OnLineInfo func(total, visible int)

	UserData any

	text      *textState
	destroyed bool
}

func newNode(name string, typ NodeType, x, y, w, h float64) *Node {
	return &Node{
		ID:      nextNodeID(),
		Name:    name,
		Type:    typ,
		visible: true,
		meta: Metadata{
			RelX: x, RelY: y,
			AbsX: x, AbsY: y,
			Width: max(w, 0), Height: max(h, 0),
		},
	}
}

// NewGroup creates a container that takes part in layout and hit testing
// but draws nothing itself.
func NewGroup(name string, x, y, w, h float64) *Node {
	return newNode(name, TypeGroup, x, y, w, h)
}

// NewObject creates a node drawn by a caller-supplied render function.
func NewObject(name string, x, y, w, h float64, filled bool, render RenderFunc) *Node {
	n := newNode(name, TypeObject, x, y, w, h)
	n.meta.IsFilled = filled
	n.paint = render
	return n
}

// --- Accessors ---

// Metadata returns the node's current position and size.
func (n *Node) Metadata() Metadata { return n.meta }

// Bounds returns the node's absolute bounding box.
func (n *Node) Bounds() Rect { return n.meta.Bounds() }

// Parent returns the container this node is mounted in, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Canvas returns the canvas the node is attached to, or nil while the node
// is not reachable from a canvas root.
func (n *Node) Canvas() *Canvas { return n.canvas }

// Children returns the registration list in declared order. The returned
// slice MUST NOT be mutated and is invalidated by the next Mount/Unmount.
func (n *Node) Children() []*Node { return n.children }

// Visible reports whether the node is drawn and hit-tested.
func (n *Node) Visible() bool { return n.visible }

// Destroyed reports whether Destroy has been called.
func (n *Node) Destroyed() bool { return n.destroyed }

// --- Registration ---

// Mount registers child with this node. Children without a declared index
// sort after all indexed children, in the order they were first mounted.
// Mounting a child that is already registered is a no-op apart from the
// redraw request. A child mounted elsewhere is moved here.
//
// Panics if child is nil, destroyed, or an ancestor of n.
func (n *Node) Mount(child *Node) {
	n.mount(child, 0, false)
}

// MountAt registers child with the given declared index and re-sorts the
// registration list so render and hit-test order follow declared order.
func (n *Node) MountAt(child *Node, index int) {
	n.mount(child, index, true)
}

func (n *Node) mount(child *Node, index int, hasIndex bool) {
	if child == nil {
		panic("canvasrender: cannot mount nil child")
	}
	if child.destroyed {
		panic(fmt.Sprintf("canvasrender: cannot mount destroyed node %q", child.Name))
	}
	if isAncestor(child, n) {
		panic("canvasrender: mounting child would create a cycle")
	}
	if child.parent != nil && child.parent != n {
		child.parent.Unmount(child)
	}
	if child.parent != n {
		child.parent = n
		n.children = append(n.children, child)
	}
	if hasIndex {
		if n.declared == nil {
			n.declared = make(map[uint32]int)
		}
		n.declared[child.ID] = index
	}
	n.sortChildren()

	child.updateAbs()
	child.attach(n.canvas)
	n.requestRedraw(child.meta.Bounds())

	if n.canvas != nil && n.canvas.cfg.Debug {
		debugCheckTreeDepth(n.canvas.log, child)
		debugCheckChildCount(n.canvas.log, n)
	}
}

// Unmount removes child from the registration list and forgets its declared
// index. No-op if child is not registered here.
func (n *Node) Unmount(child *Node) {
	if child == nil || child.parent != n {
		return
	}
	last := child.meta.Bounds()
	n.removeChild(child)
	delete(n.declared, child.ID)
	child.parent = nil
	child.attach(nil)
	n.requestRedraw(last)
}

// Destroy unmounts the node and everything below it. A destroyed node drops
// late text layout results and can never be mounted again.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	if n.parent != nil {
		n.parent.Unmount(n)
	}
	n.destroy()
}

func (n *Node) destroy() {
	n.destroyed = true
	for _, c := range n.children {
		c.parent = nil
		c.destroy()
	}
	n.children = nil
	n.declared = nil
	n.canvas = nil
	n.OnClick = nil
	n.OnLineInfo = nil
	n.HitShape = nil
	n.UserData = nil
}

// sortChildren orders the registration list by declared index. The sort is
// stable, so unindexed children keep their mount order at the end.
func (n *Node) sortChildren() {
	sort.SliceStable(n.children, func(i, j int) bool {
		ai, aok := n.declared[n.children[i].ID]
		bi, bok := n.declared[n.children[j].ID]
		switch {
		case aok && bok:
			return ai < bi
		case aok:
			return true
		default:
			return false
		}
	})
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// attach points the subtree at c (nil detaches it). Text nodes start their
// layout when they become reachable and drop in-flight work when detached.
func (n *Node) attach(c *Canvas) {
	if n.canvas == c {
		return
	}
	n.canvas = c
	if n.text != nil {
		n.text.generation++
		if c != nil {
			n.requestLayout()
		} else {
			n.text.state = TextUnresolved
		}
	}
	for _, child := range n.children {
		child.attach(c)
	}
}

func (n *Node) requestRedraw(area Rect) {
	if n.canvas != nil {
		n.canvas.RequestRedraw(area)
	}
}
