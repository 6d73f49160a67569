package canvasrender

import (
	"context"
	"errors"
	"image/color"
	"testing"
)

// blockFont is a GlyphSource whose glyphs are solid width×height blocks.
// Runes listed in missing have no glyph.
type blockFont struct {
	width, height int
	missing       map[rune]bool
}

func (f blockFont) Glyph(r rune) (Glyph, bool) {
	if f.missing[r] {
		return Glyph{}, false
	}
	g := Glyph{Width: f.width, Height: f.height, Bits: make([]bool, f.width*f.height)}
	for i := range g.Bits {
		g.Bits[i] = true
	}
	return g, true
}

func (f blockFont) CellHeight() int { return f.height }

// testFontInfo pairs a 4-wide half-width font with an 8-wide full-width
// font, both 8 tall.
var testFontInfo = FontInfo{
	Size:      8,
	FullWidth: []string{"full"},
	HalfWidth: []string{"half"},
}

func testFonts() MapLoader {
	return MapLoader{
		"half": blockFont{width: 4, height: 8, missing: map[rune]bool{'z': true}},
		"full": blockFont{width: 8, height: 8},
	}
}

func newTestEngine() *TextEngine {
	return NewTextEngine(TextEngineConfig{Fonts: testFonts()})
}

func mustLayout(t *testing.T, e *TextEngine, p TextParams) *TextLayout {
	t.Helper()
	if p.Font.isZero() {
		p.Font = testFontInfo
	}
	l, err := e.Layout(context.Background(), p)
	if err != nil {
		t.Fatalf("Layout(%q): %v", p.Text, err)
	}
	return l
}

// --- Line breaking ---

func TestLayoutOneLinePerBreakWithoutMaxWidth(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "ab\ncdef\n\ng"})

	if l.TotalLines != 4 {
		t.Errorf("TotalLines = %d, want 4", l.TotalLines)
	}
	if l.VisibleLines != 4 {
		t.Errorf("VisibleLines = %d, want 4", l.VisibleLines)
	}
	if len(l.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3 (empty line has no image)", len(l.Lines))
	}
	if l.Width != 16 || l.Height != 32 {
		t.Errorf("size = %vx%v, want 16x32", l.Width, l.Height)
	}
	if got := l.Lines[2]; got.Index != 3 || got.Y != 24 {
		t.Errorf("last line Index, Y = %d, %v, want 3, 24", got.Index, got.Y)
	}
}

func TestLayoutWrapsAtMaxWidth(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		maxWidth  float64
		scaleX    float64
		wantLines int
		wantWidth float64
	}{
		{"fits", "ab", 10, 1, 1, 8},
		{"wraps twice", "abcdef", 10, 1, 3, 8},
		{"exact fit", "abcd", 16, 1, 1, 16},
		{"scale does not narrow the limit", "abcd", 16, 2, 1, 32},
		{"scaled glyphs", "abcdef", 20, 2, 2, 40},
		{"single glyph wider than limit", "あ", 4, 1, 1, 8},
		{"empty text", "", 10, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLayout(t, newTestEngine(), TextParams{
				Text: tt.text, MaxWidth: tt.maxWidth, ScaleX: tt.scaleX,
			})
			if l.TotalLines != tt.wantLines {
				t.Errorf("TotalLines = %d, want %d", l.TotalLines, tt.wantLines)
			}
			if l.Width != tt.wantWidth {
				t.Errorf("Width = %v, want %v", l.Width, tt.wantWidth)
			}
		})
	}
}

// --- Memoization ---

func TestLayoutCacheReturnsSameResult(t *testing.T) {
	e := newTestEngine()
	p := TextParams{Text: "abc\ndef", Font: testFontInfo}

	first := mustLayout(t, e, p)
	second := mustLayout(t, e, p)
	if first != second {
		t.Error("identical params should return the cached layout")
	}
	if e.Computed() != 1 {
		t.Errorf("Computed = %d, want 1", e.Computed())
	}
	if got, ok := e.Cached(p); !ok || got != first {
		t.Error("Cached should report the stored layout")
	}

	p.Color = testRed
	if mustLayout(t, e, p) == first {
		t.Error("a different color must not hit the cache")
	}
	if e.Computed() != 2 {
		t.Errorf("Computed = %d, want 2", e.Computed())
	}
}

func TestLayoutSharesLineImages(t *testing.T) {
	e := newTestEngine()
	a := mustLayout(t, e, TextParams{Text: "ab", MaxWidth: 100})
	b := mustLayout(t, e, TextParams{Text: "ab", MaxWidth: 200, Align: AlignRight})
	if a == b {
		t.Fatal("different params should give different layouts")
	}
	if a.Lines[0].Image != b.Lines[0].Image {
		t.Error("identical lines should share one image")
	}
}

// --- Placement ---

func TestLayoutAlign(t *testing.T) {
	tests := []struct {
		name  string
		align TextAlign
		maxW  float64
		wantX float64
	}{
		{"left", AlignLeft, 20, 0},
		{"center", AlignCenter, 20, 6},
		{"right", AlignRight, 20, 12},
		{"center without max width", AlignCenter, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLayout(t, newTestEngine(), TextParams{Text: "ab", MaxWidth: tt.maxW, Align: tt.align})
			if got := l.Lines[0].X; got != tt.wantX {
				t.Errorf("X = %v, want %v", got, tt.wantX)
			}
		})
	}
}

func TestLayoutVerticalAlign(t *testing.T) {
	tests := []struct {
		name  string
		align VerticalAlign
		maxH  float64
		wantY float64
	}{
		{"top", AlignTop, 20, 0},
		{"middle", AlignMiddle, 20, 6},
		{"bottom", AlignBottom, 20, 12},
		{"middle without max height", AlignMiddle, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLayout(t, newTestEngine(), TextParams{Text: "a", MaxHeight: tt.maxH, VerticalAlign: tt.align})
			if got := l.Lines[0].Y; got != tt.wantY {
				t.Errorf("Y = %v, want %v", got, tt.wantY)
			}
		})
	}
}

func TestLayoutSkipLines(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "a\nb\nc", SkipLines: 1})
	if l.TotalLines != 3 || l.VisibleLines != 2 {
		t.Errorf("TotalLines, VisibleLines = %d, %d, want 3, 2", l.TotalLines, l.VisibleLines)
	}
	if len(l.Lines) != 2 || l.Lines[0].Index != 1 || l.Lines[0].Y != 8 {
		t.Errorf("first drawn line = %+v, want index 1 at y 8", l.Lines[0])
	}
}

func TestLayoutMaxHeightHidesOverflow(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "a\nb\nc", MaxHeight: 20})
	if l.TotalLines != 3 || l.VisibleLines != 2 {
		t.Errorf("TotalLines, VisibleLines = %d, %d, want 3, 2", l.TotalLines, l.VisibleLines)
	}
	if len(l.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2", len(l.Lines))
	}
}

func TestLayoutLineHeightAndScale(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "a\nb", LineHeight: 1.5, ScaleY: 2})
	if l.Lines[1].Y != 24 {
		t.Errorf("second line Y = %v, want 24", l.Lines[1].Y)
	}
	if l.Lines[0].Height != 16 {
		t.Errorf("line Height = %v, want 16", l.Lines[0].Height)
	}
	if l.Height != 48 {
		t.Errorf("Height = %v, want 48", l.Height)
	}
}

// --- Glyph fallback ---

func TestLayoutMissingGlyphUsesTofu(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "z"})
	img := l.Lines[0].Image
	if w := img.Bounds().Dx(); w != 4 {
		t.Fatalf("line width = %d, want half-width tofu 4", w)
	}
	if a := img.NRGBAAt(0, 0).A; a != 0 {
		t.Error("tofu border pixel should be transparent")
	}
	if a := img.NRGBAAt(1, 1).A; a == 0 {
		t.Error("tofu ring pixel should be set")
	}
}

func TestLayoutFailingFontFallsBack(t *testing.T) {
	var calls int
	loader := ChainLoader{testFonts(), FontLoaderFunc(func(ctx context.Context, id string) (GlyphSource, error) {
		calls++
		return nil, errors.New("network down")
	})}
	e := NewTextEngine(TextEngineConfig{Fonts: loader})
	fi := FontInfo{Size: 8, FullWidth: []string{"remote", "full"}, HalfWidth: []string{"half"}}

	l := mustLayout(t, e, TextParams{Text: "ああ", Font: fi})
	if l.Width != 16 {
		t.Errorf("Width = %v, want 16 from the second font", l.Width)
	}
	mustLayout(t, e, TextParams{Text: "あいう", Font: fi})
	if calls != 1 {
		t.Errorf("failing loader calls = %d, want 1", calls)
	}
}

func TestLayoutTextColor(t *testing.T) {
	l := mustLayout(t, newTestEngine(), TextParams{Text: "a", Color: testRed})
	got := l.Lines[0].Image.NRGBAAt(1, 1)
	if got != (color.NRGBA{R: 0xff, A: 0xff}) {
		t.Errorf("pixel = %v, want opaque red", got)
	}
}

// --- Errors ---

func TestLayoutErrors(t *testing.T) {
	e := newTestEngine()

	_, err := e.Layout(context.Background(), TextParams{Text: "a", Font: FontInfo{Size: 0, HalfWidth: []string{"half"}}})
	if !errors.Is(err, ErrInvalidFontSize) {
		t.Errorf("err = %v, want ErrInvalidFontSize", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Layout(ctx, TextParams{Text: "abc", Font: testFontInfo})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if e.Computed() != 0 {
		t.Error("failed layouts should not be cached")
	}
}
