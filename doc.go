// Package canvasrender is a retained-mode 2D drawing toolkit for small
// fixed-layout displays such as train cab monitors.
//
// A [Canvas] owns a tree of [Node] values, a software [Surface] and a list
// of pending redraw areas. Nodes are positioned relative to their parent;
// absolute positions are kept up to date whenever a node moves. Paint order
// is declaration order and click order is its reverse.
//
// # Quick start
//
//	canvas := canvasrender.NewCanvas(canvasrender.Config{Width: 640, Height: 360})
//	canvas.AttachSurface(1)
//
//	panel := canvasrender.NewGroup("panel", 10, 10, 200, 100)
//	canvas.Root().Mount(panel)
//	panel.Mount(canvasrender.NewRect("frame", 0, 0, 200, 100, canvasrender.ShapeStyle{
//		Stroke: color.White, StrokeWidth: 2,
//	}))
//
//	for {
//		canvas.Update() // apply finished text layouts and scripted input
//		canvas.Redraw() // repaint if anything asked for it
//	}
//
// The ebitenhost sub-package runs this loop inside an Ebitengine window.
//
// # Drawing
//
// Built-in primitives are [NewRect], [NewCircle], [NewLine], [NewQuad],
// [NewRoundedRect], [NewDotPattern] and [NewTofu]. [NewObject] takes a
// [RenderFunc] for anything else. All drawing uses logical coordinates;
// the surface scales them to device pixels.
//
// # Clicks
//
// [Canvas.HandlePointer] maps a display-space click through the canvas fit
// mode and [Canvas.Dispatch] delivers it. The topmost node whose hit test
// passes gets the click first, after its own children. A handler returning
// false passes the click on.
//
// # Text
//
// [NewText] lays out bitmap-font text through the canvas [TextEngine].
// Fonts are loaded by id through a [FontLoader] (BDF files via [FSLoader],
// or any x/image font.Face via [FaceSource]); missing glyphs render as
// [Tofu] boxes. Layouts run in the background and are memoized, so nodes
// take their size once [Canvas.Update] applies the result.
package canvasrender
