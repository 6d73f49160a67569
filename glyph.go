package canvasrender

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Glyph is a monochrome glyph cell. Bits is row-major, Width*Height long.
// Glyphs are immutable once built.
type Glyph struct {
	Width, Height int
	Bits          []bool
}

// At reports whether the pixel at (x, y) is on. Out-of-range is off.
func (g Glyph) At(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	return g.Bits[y*g.Width+x]
}

// Empty reports whether the glyph has no area. Empty glyphs take no space
// in a line.
func (g Glyph) Empty() bool { return g.Width == 0 || g.Height == 0 }

// GlyphSource resolves characters to glyph cells.
type GlyphSource interface {
	// Glyph returns the cell for r, or false when the font has no glyph.
	Glyph(r rune) (Glyph, bool)
	// CellHeight is the nominal cell height of the font in pixels.
	CellHeight() int
}

// FontLoader loads a font by id. Implementations may block on I/O.
type FontLoader interface {
	LoadFont(ctx context.Context, id string) (GlyphSource, error)
}

// FontLoaderFunc adapts a function to FontLoader.
type FontLoaderFunc func(ctx context.Context, id string) (GlyphSource, error)

// LoadFont calls f.
func (f FontLoaderFunc) LoadFont(ctx context.Context, id string) (GlyphSource, error) {
	return f(ctx, id)
}

// ErrFontNotFound is returned by loaders for unknown font ids.
var ErrFontNotFound = errors.New("canvasrender: font not found")

// MapLoader serves already-parsed fonts from memory.
type MapLoader map[string]GlyphSource

// LoadFont returns the font registered under id.
func (m MapLoader) LoadFont(_ context.Context, id string) (GlyphSource, error) {
	if src, ok := m[id]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrFontNotFound, id)
}

// ChainLoader tries each loader in order and returns the first success.
type ChainLoader []FontLoader

// LoadFont asks each loader in turn. The last error is returned when none
// succeeds.
func (c ChainLoader) LoadFont(ctx context.Context, id string) (GlyphSource, error) {
	err := fmt.Errorf("%w: %q", ErrFontNotFound, id)
	for _, l := range c {
		src, lerr := l.LoadFont(ctx, id)
		if lerr == nil {
			return src, nil
		}
		err = lerr
	}
	return nil, err
}

// BasicFontID names the built-in 7×13 face served by DefaultFonts.
const BasicFontID = "basic7x13"

// DefaultFonts returns a loader that knows only BasicFontID.
func DefaultFonts() FontLoader {
	return MapLoader{BasicFontID: NewFaceSource(basicfont.Face7x13)}
}

// --- font.Face adapter ---

// FaceSource rasterizes glyphs from any x/image font.Face. Coverage is
// thresholded at one half; cells are advance wide and ascent+descent tall.
type FaceSource struct {
	mu      sync.Mutex
	face    font.Face
	ascent  int
	descent int
}

// NewFaceSource wraps face. Calls into face are serialized, but the caller
// must not use face elsewhere concurrently.
func NewFaceSource(face font.Face) *FaceSource {
	m := face.Metrics()
	return &FaceSource{
		face:    face,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}
}

// CellHeight returns ascent plus descent.
func (f *FaceSource) CellHeight() int { return f.ascent + f.descent }

// Glyph rasterizes r. Runes the face does not cover report false.
func (f *FaceSource) Glyph(r rune) (Glyph, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.covers(r) {
		return Glyph{}, false
	}
	dr, mask, maskp, advance, ok := f.face.Glyph(fixed.P(0, f.ascent), r)
	if !ok {
		return Glyph{}, false
	}
	g := Glyph{Width: advance.Round(), Height: f.CellHeight()}
	g.Bits = make([]bool, g.Width*g.Height)
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		for x := dr.Min.X; x < dr.Max.X; x++ {
			if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
				continue
			}
			_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
			if a >= 0x8000 {
				g.Bits[y*g.Width+x] = true
			}
		}
	}
	return g, true
}

// covers reports whether the face has its own glyph for r. basicfont
// faces substitute U+FFFD for anything outside their ranges, so those are
// checked against the ranges directly.
func (f *FaceSource) covers(r rune) bool {
	if bf, ok := f.face.(*basicfont.Face); ok {
		for _, rng := range bf.Ranges {
			if r >= rng.Low && r < rng.High {
				return true
			}
		}
		return false
	}
	_, ok := f.face.GlyphAdvance(r)
	return ok
}

// --- Tofu ---

// Tofu builds the placeholder glyph for a missing character: a box outline
// one pixel in from the cell border. Full-width cells are size×size,
// half-width cells size/2 wide, rounded up.
func Tofu(size int, fullWidth bool) Glyph {
	if size <= 0 {
		return Glyph{}
	}
	w := size
	if !fullWidth {
		w = (size + 1) / 2
	}
	g := Glyph{Width: w, Height: size, Bits: make([]bool, w*size)}
	for row := 0; row < size; row++ {
		for col := 0; col < w; col++ {
			outer := row == 0 || row == size-1 || col == 0 || col == w-1
			inner := row == 1 || row == size-2 || col == 1 || col == w-2
			g.Bits[row*w+col] = inner && !outer
		}
	}
	return g
}
