package canvasrender

import (
	"context"
	"fmt"
	"image/color"
)

// TextState tracks a text node through layout.
type TextState uint8

const (
	// TextUnresolved: not attached to a canvas, nothing requested yet.
	TextUnresolved TextState = iota
	// TextLoading: a layout is in flight.
	TextLoading
	// TextComposed: the layout has been applied to the node's size.
	TextComposed
	// TextRendered: the layout has been painted at least once.
	TextRendered
)

func (s TextState) String() string {
	switch s {
	case TextUnresolved:
		return "unresolved"
	case TextLoading:
		return "loading"
	case TextComposed:
		return "composed"
	case TextRendered:
		return "rendered"
	}
	return "unknown"
}

// TextStyle configures a text node. See TextParams for the defaults.
type TextStyle struct {
	Font  FontInfo
	Color color.Color

	MaxWidth, MaxHeight float64

	// InheritBounds fills an unset MaxWidth/MaxHeight with the room left in
	// the parent: parent width minus the node's x, parent height minus its y.
	InheritBounds bool

	LineHeight    float64
	Align         TextAlign
	VerticalAlign VerticalAlign
	ScaleX        float64
	ScaleY        float64
	SkipLines     int
}

type textState struct {
	content    string
	style      TextStyle
	state      TextState
	generation uint64
	layout     *TextLayout
}

// NewText creates a text node at (x, y). Its size is zero until the first
// layout completes, which happens shortly after the node is attached to a
// canvas (see Canvas.Update). OnLineInfo then reports the line counts.
func NewText(name string, x, y float64, content string, style TextStyle) *Node {
	n := newNode(name, TypeText, x, y, 0, 0)
	n.meta.IsFilled = true
	n.text = &textState{content: content, style: style}
	n.paint = n.paintText
	return n
}

// Text returns the content of a text node.
func (n *Node) Text() string {
	if n.text == nil {
		return ""
	}
	return n.text.content
}

// SetText replaces the content of a text node and re-runs layout.
// Panics on non-text nodes.
func (n *Node) SetText(content string) {
	t := n.mustText("SetText")
	if t.content == content {
		return
	}
	t.content = content
	n.requestLayout()
}

// TextStyle returns the style of a text node.
func (n *Node) TextStyle() TextStyle {
	if n.text == nil {
		return TextStyle{}
	}
	return n.text.style
}

// SetTextStyle replaces the style of a text node and re-runs layout.
// Panics on non-text nodes.
func (n *Node) SetTextStyle(style TextStyle) {
	t := n.mustText("SetTextStyle")
	t.style = style
	n.requestLayout()
}

// TextState returns where a text node is in its layout cycle.
func (n *Node) TextState() TextState {
	if n.text == nil {
		return TextUnresolved
	}
	return n.text.state
}

// TextLayout returns the layout last applied to a text node, or nil.
func (n *Node) TextLayout() *TextLayout {
	if n.text == nil {
		return nil
	}
	return n.text.layout
}

func (n *Node) mustText(op string) *textState {
	if n.text == nil {
		panic(fmt.Sprintf("canvasrender: %s on %s node %q", op, n.Type, n.Name))
	}
	return n.text
}

// textParams resolves the node's style into layout parameters. Inherited
// bounds need a parent; asking without one is a programming error.
func (n *Node) textParams() TextParams {
	st := n.text.style
	p := TextParams{
		Text:          n.text.content,
		Font:          st.Font,
		Color:         st.Color,
		MaxWidth:      st.MaxWidth,
		MaxHeight:     st.MaxHeight,
		LineHeight:    st.LineHeight,
		Align:         st.Align,
		VerticalAlign: st.VerticalAlign,
		ScaleX:        st.ScaleX,
		ScaleY:        st.ScaleY,
		SkipLines:     st.SkipLines,
	}
	if st.InheritBounds {
		if n.parent == nil {
			panic(fmt.Sprintf("canvasrender: text %q inherits bounds but has no parent", n.Name))
		}
		if p.MaxWidth == 0 {
			p.MaxWidth = n.parent.meta.Width - n.meta.RelX
		}
		if p.MaxHeight == 0 {
			p.MaxHeight = n.parent.meta.Height - n.meta.RelY
		}
	}
	return p
}

// requestLayout starts a layout for the node's current text and style.
// Cached layouts are applied at once; others are computed in the background
// and applied by Canvas.Update. Any earlier in-flight layout is superseded.
func (n *Node) requestLayout() {
	t := n.text
	c := n.canvas
	if t == nil || c == nil {
		return
	}
	t.generation++
	gen := t.generation
	params := n.textParams()

	if l, ok := c.text.Cached(params); ok {
		n.applyLayout(gen, l, nil)
		return
	}
	t.state = TextLoading
	engine := c.text
	c.tasks.goWork(c.ctx, func(ctx context.Context) func() {
		l, err := engine.Layout(ctx, params)
		return func() { n.applyLayout(gen, l, err) }
	})
}

// applyLayout adopts a finished layout. Results for a destroyed or detached
// node, or superseded by a newer request, are dropped. A failed layout
// becomes an empty block.
func (n *Node) applyLayout(gen uint64, l *TextLayout, err error) {
	t := n.text
	if n.destroyed || n.canvas == nil || t.generation != gen {
		return
	}
	if err != nil {
		n.canvas.log.Warn("canvasrender: text layout failed", "node", n.Name, "err", err)
		l = &TextLayout{}
	}
	t.layout = l
	t.state = TextComposed

	old := n.meta.Bounds()
	n.meta.Width, n.meta.Height = l.Width, l.Height
	n.requestRedraw(old)
	n.requestRedraw(n.meta.Bounds())

	if n.OnLineInfo != nil {
		n.OnLineInfo(l.TotalLines, l.VisibleLines)
	}
}

func (n *Node) paintText(s *Surface, m Metadata, _ []Rect) error {
	t := n.text
	if t.layout == nil {
		return nil
	}
	for _, ln := range t.layout.Lines {
		s.DrawImage(ln.Image, m.AbsX+ln.X, m.AbsY+ln.Y, ln.Width, ln.Height)
	}
	t.state = TextRendered
	return nil
}
