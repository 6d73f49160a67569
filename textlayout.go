package canvasrender

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// TextAlign is horizontal alignment of each line within the maximum width.
type TextAlign uint8

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// VerticalAlign positions the block of lines within the maximum height.
type VerticalAlign uint8

const (
	AlignTop VerticalAlign = iota
	AlignMiddle
	AlignBottom
)

// ErrInvalidFontSize is returned by Layout for a non-positive font size.
var ErrInvalidFontSize = errors.New("canvasrender: font size must be positive")

// TextParams fully determines a text layout. Zero values select defaults:
// DefaultFontInfo, black, no width or height limit, line height 1 and
// scale 1.
type TextParams struct {
	Text  string
	Font  FontInfo
	Color color.Color

	// MaxWidth wraps lines whose summed glyph widths, before ScaleX, would
	// exceed it and is the width lines are aligned within. MaxHeight hides lines that would end
	// below it. Zero means unlimited.
	MaxWidth, MaxHeight float64

	// LineHeight is the line pitch as a multiple of the font size.
	LineHeight float64

	Align         TextAlign
	VerticalAlign VerticalAlign

	// ScaleX and ScaleY stretch glyphs independently.
	ScaleX, ScaleY float64

	// SkipLines hides the first lines while keeping their vertical space.
	SkipLines int
}

func (p TextParams) normalized() TextParams {
	if p.Font.isZero() {
		p.Font = DefaultFontInfo
	}
	if p.Color == nil {
		p.Color = defaultInk
	}
	if p.LineHeight <= 0 {
		p.LineHeight = 1
	}
	if p.ScaleX <= 0 {
		p.ScaleX = 1
	}
	if p.ScaleY <= 0 {
		p.ScaleY = 1
	}
	p.MaxWidth = max(p.MaxWidth, 0)
	p.MaxHeight = max(p.MaxHeight, 0)
	p.SkipLines = max(p.SkipLines, 0)
	return p
}

type layoutKey struct {
	text, fonts   string
	size          int
	color         color.NRGBA
	maxW, maxH    float64
	lineHeight    float64
	scaleX        float64
	scaleY        float64
	skip          int
	align         TextAlign
	verticalAlign VerticalAlign
}

func (p TextParams) key() layoutKey {
	return layoutKey{
		text:          p.Text,
		fonts:         p.Font.key(),
		size:          p.Font.Size,
		color:         toRGBA(p.Color),
		maxW:          p.MaxWidth,
		maxH:          p.MaxHeight,
		lineHeight:    p.LineHeight,
		scaleX:        p.ScaleX,
		scaleY:        p.ScaleY,
		skip:          p.SkipLines,
		align:         p.Align,
		verticalAlign: p.VerticalAlign,
	}
}

type lineKey struct {
	text  string
	fonts string
	size  int
	color color.NRGBA
}

// PlacedLine is one visible line of a layout. X and Y are relative to the
// text node's origin; Width and Height are scaled.
type PlacedLine struct {
	Index               int // position among all laid-out lines
	Image               *image.NRGBA
	X, Y, Width, Height float64
}

// TextLayout is the result of laying out a TextParams. Layouts are shared
// through the cache and must be treated as read-only.
type TextLayout struct {
	// Width is the widest drawn line and Height the pitch of every line,
	// hidden ones included.
	Width, Height float64

	// TotalLines counts every line after wrapping. VisibleLines counts those
	// not hidden by SkipLines or MaxHeight, empty lines included.
	TotalLines   int
	VisibleLines int

	// Lines holds the drawn lines; empty lines have no image and are left
	// out.
	Lines []PlacedLine
}

// TextEngineConfig configures a TextEngine.
type TextEngineConfig struct {
	Fonts           FontLoader
	Logger          *slog.Logger
	LayoutCacheSize int
	LineCacheSize   int
}

// TextEngine lays out bitmap-font text. Layout is a memoized function of
// its TextParams: identical inputs return the identical *TextLayout. Safe
// for concurrent use.
type TextEngine struct {
	fonts   *FontCache
	log     *slog.Logger
	layouts *lru.Cache[layoutKey, *TextLayout]
	lines   *lru.Cache[lineKey, *image.NRGBA]

	computed atomic.Int64
}

// NewTextEngine creates an engine. A nil loader selects DefaultFonts.
func NewTextEngine(cfg TextEngineConfig) *TextEngine {
	if cfg.Fonts == nil {
		cfg.Fonts = DefaultFonts()
	}
	if cfg.Logger == nil {
		cfg.Logger = Logger()
	}
	if cfg.LayoutCacheSize <= 0 {
		cfg.LayoutCacheSize = 256
	}
	if cfg.LineCacheSize <= 0 {
		cfg.LineCacheSize = 1024
	}
	// lru.New only fails for a non-positive size.
	layouts, _ := lru.New[layoutKey, *TextLayout](cfg.LayoutCacheSize)
	lines, _ := lru.New[lineKey, *image.NRGBA](cfg.LineCacheSize)
	return &TextEngine{
		fonts:   NewFontCache(cfg.Fonts),
		log:     cfg.Logger,
		layouts: layouts,
		lines:   lines,
	}
}

// Fonts returns the engine's font cache.
func (e *TextEngine) Fonts() *FontCache { return e.fonts }

// Computed returns how many layouts were computed rather than served from
// the cache.
func (e *TextEngine) Computed() int { return int(e.computed.Load()) }

// Cached returns the cached layout for p, if any.
func (e *TextEngine) Cached(p TextParams) (*TextLayout, bool) {
	return e.layouts.Get(p.normalized().key())
}

// Layout lays out p, loading fonts as needed. Missing glyphs and fonts that
// fail to load fall back to tofu and do not fail the layout. Errors are
// returned only for an invalid font size or a cancelled ctx.
func (e *TextEngine) Layout(ctx context.Context, p TextParams) (*TextLayout, error) {
	p = p.normalized()
	if p.Font.Size <= 0 {
		return nil, ErrInvalidFontSize
	}
	key := p.key()
	if l, ok := e.layouts.Get(key); ok {
		return l, nil
	}
	lines, err := e.compose(ctx, p)
	if err != nil {
		return nil, err
	}
	l := place(lines, p)
	e.layouts.Add(key, l)
	e.computed.Add(1)
	return l, nil
}

// --- Glyph lookup and wrapping ---

type glyphRun struct {
	runes  []rune
	glyphs []Glyph
	width  int
}

func (r *glyphRun) add(c rune, g Glyph) {
	r.runes = append(r.runes, c)
	r.glyphs = append(r.glyphs, g)
	r.width += g.Width
}

type composedLine struct {
	img   *image.NRGBA
	width int
}

func (e *TextEngine) compose(ctx context.Context, p TextParams) ([]composedLine, error) {
	failed := make(map[string]bool)
	var out []composedLine
	for _, src := range strings.Split(p.Text, "\n") {
		var run glyphRun
		for _, r := range src {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			g := e.glyph(ctx, r, p.Font, failed)
			if g.Empty() {
				continue
			}
			run.add(r, g)
		}
		var wrapped []glyphRun
		if p.MaxWidth > 0 {
			wrapped = wrapRun(run, p.MaxWidth)
		} else {
			wrapped = []glyphRun{run}
		}
		for _, wl := range wrapped {
			out = append(out, composedLine{img: e.lineImage(wl, p), width: wl.width})
		}
	}
	return out, nil
}

// glyph resolves r through the font list of its width class, falling back to
// tofu. Each failing font is logged once per layout.
func (e *TextEngine) glyph(ctx context.Context, r rune, fi FontInfo, failed map[string]bool) Glyph {
	full := IsFullWidth(r)
	for _, id := range fi.fonts(full) {
		src, err := e.fonts.Load(ctx, id)
		if err != nil {
			if !failed[id] && ctx.Err() == nil {
				failed[id] = true
				e.log.Warn("canvasrender: font unavailable, using fallback", "font", id, "err", err)
			}
			continue
		}
		if g, ok := src.Glyph(r); ok {
			return g
		}
	}
	return Tofu(fi.Size, full)
}

// wrapRun breaks run so no line is wider than limit, except a line holding
// a single glyph that alone exceeds it. An empty run yields one empty line.
func wrapRun(run glyphRun, limit float64) []glyphRun {
	var lines []glyphRun
	var cur glyphRun
	for i, g := range run.glyphs {
		if float64(cur.width+g.Width) > limit && len(cur.glyphs) > 0 {
			lines = append(lines, cur)
			cur = glyphRun{}
		}
		cur.add(run.runes[i], g)
	}
	if len(cur.glyphs) > 0 || len(lines) == 0 {
		lines = append(lines, cur)
	}
	return lines
}

// --- Compositing ---

// lineImage composites a line into an image run.width wide and one font
// size tall: on bits take the text color, off bits stay transparent.
// Empty lines produce nil.
func (e *TextEngine) lineImage(run glyphRun, p TextParams) *image.NRGBA {
	if len(run.glyphs) == 0 || run.width == 0 {
		return nil
	}
	key := lineKey{
		text:  string(run.runes),
		fonts: p.Font.key(),
		size:  p.Font.Size,
		color: toRGBA(p.Color),
	}
	if img, ok := e.lines.Get(key); ok {
		return img
	}
	h := p.Font.Size
	img := image.NewNRGBA(image.Rect(0, 0, run.width, h))
	x0 := 0
	for _, g := range run.glyphs {
		for y := 0; y < min(g.Height, h); y++ {
			for x := 0; x < g.Width; x++ {
				if g.At(x, y) {
					img.SetNRGBA(x0+x, y, key.color)
				}
			}
		}
		x0 += g.Width
	}
	e.lines.Add(key, img)
	return img
}

// --- Placement ---

func place(lines []composedLine, p TextParams) *TextLayout {
	size := float64(p.Font.Size)
	fontH := size * p.ScaleY
	pitch := size * p.LineHeight * p.ScaleY

	l := &TextLayout{TotalLines: len(lines)}
	total := 0.0
	for i, ln := range lines {
		hidden := (p.MaxHeight > 0 && total+pitch > p.MaxHeight) || i < p.SkipLines
		if !hidden {
			l.VisibleLines++
		}
		if hidden || ln.img == nil {
			total += pitch
			continue
		}
		w := float64(ln.width) * p.ScaleX
		l.Lines = append(l.Lines, PlacedLine{
			Index:  i,
			Image:  ln.img,
			X:      alignOffset(w, p.MaxWidth, p.Align),
			Y:      total,
			Width:  w,
			Height: fontH,
		})
		l.Width = max(l.Width, w)
		total += pitch
	}
	l.Height = total

	if dy := verticalOffset(total, p.MaxHeight, p.VerticalAlign); dy != 0 {
		for i := range l.Lines {
			l.Lines[i].Y += dy
		}
	}
	return l
}

func alignOffset(lineW, maxW float64, a TextAlign) float64 {
	if maxW <= 0 {
		return 0
	}
	switch a {
	case AlignCenter:
		return (maxW - lineW) / 2
	case AlignRight:
		return maxW - lineW
	}
	return 0
}

// verticalOffset distributes the height left over below the lines. Nothing
// moves when the lines fill or overflow the available height.
func verticalOffset(total, maxH float64, a VerticalAlign) float64 {
	avail := maxH
	if avail <= 0 {
		avail = total
	}
	if total >= avail {
		return 0
	}
	switch a {
	case AlignMiddle:
		return (avail - total) / 2
	case AlignBottom:
		return avail - total
	}
	return 0
}
