package canvasrender

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"golang.org/x/image/font/basicfont"
)

func loadTestBDF(t *testing.T) *BDFFont {
	t.Helper()
	f, err := os.Open("testdata/test.bdf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	font, err := ParseBDF(f)
	if err != nil {
		t.Fatalf("ParseBDF: %v", err)
	}
	return font
}

// --- BDF ---

func TestParseBDFHeader(t *testing.T) {
	f := loadTestBDF(t)
	if f.BoxW != 8 || f.BoxH != 8 || f.BoxX != 0 || f.BoxY != -1 {
		t.Errorf("bounding box = %d %d %d %d, want 8 8 0 -1", f.BoxW, f.BoxH, f.BoxX, f.BoxY)
	}
	if f.CellHeight() != 8 {
		t.Errorf("CellHeight = %d, want 8", f.CellHeight())
	}
	if f.Len() != 2 {
		t.Errorf("Len = %d, want 2 (unencoded glyph skipped)", f.Len())
	}
	if !strings.HasPrefix(f.Name, "-test-fixed") {
		t.Errorf("Name = %q", f.Name)
	}
}

func TestParseBDFGlyphPlacement(t *testing.T) {
	f := loadTestBDF(t)

	a, ok := f.Glyph('A')
	if !ok {
		t.Fatal("glyph A missing")
	}
	if a.Width != 6 || a.Height != 8 {
		t.Errorf("A cell = %dx%d, want 6x8", a.Width, a.Height)
	}
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"bbx offset column", 0, 3, false},
		{"first bit", 1, 3, true},
		{"last bit of top row", 4, 3, true},
		{"hollow middle", 2, 4, false},
		{"right side", 4, 4, true},
		{"above glyph", 1, 2, false},
		{"bottom row", 1, 6, true},
		{"below glyph", 1, 7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.At(tt.x, tt.y); got != tt.want {
				t.Errorf("A.At(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}

	wide, ok := f.Glyph('あ')
	if !ok {
		t.Fatal("glyph U+3042 missing")
	}
	if wide.Width != 8 || !wide.At(0, 0) || !wide.At(7, 7) || wide.At(3, 3) {
		t.Errorf("U+3042 cell wrong: %dx%d", wide.Width, wide.Height)
	}

	if _, ok := f.Glyph('Z'); ok {
		t.Error("glyph Z should be missing")
	}
}

func TestParseBDFErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"no bounding box", "STARTFONT 2.1\nENDFONT\n"},
		{"no startfont", "FONTBOUNDINGBOX 8 8 0 0\nENDFONT\n"},
		{"bad bounding box", "STARTFONT 2.1\nFONTBOUNDINGBOX 8 x 0 0\nENDFONT\n"},
		{"truncated char", "STARTFONT 2.1\nFONTBOUNDINGBOX 8 8 0 0\nSTARTCHAR A\nENCODING 65\nBITMAP\nFF\n"},
		{"bad hex", "STARTFONT 2.1\nFONTBOUNDINGBOX 8 8 0 0\nSTARTCHAR A\nENCODING 65\nBBX 8 1 0 0\nBITMAP\nZZ\nENDCHAR\nENDFONT\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBDF(strings.NewReader(tt.data)); err == nil {
				t.Error("ParseBDF should fail")
			}
		})
	}
}

func TestFSLoader(t *testing.T) {
	data, err := os.ReadFile("testdata/test.bdf")
	if err != nil {
		t.Fatal(err)
	}
	fsys := fstest.MapFS{
		"fonts/test8.bdf": {Data: data},
		"other/alias.bdf": {Data: data},
	}
	l := FSLoader{FS: fsys, Dir: "fonts", Paths: map[string]string{"alias": "other/alias.bdf"}}
	ctx := context.Background()

	for _, id := range []string{"test8", "alias"} {
		src, err := l.LoadFont(ctx, id)
		if err != nil {
			t.Errorf("LoadFont(%q): %v", id, err)
			continue
		}
		if _, ok := src.Glyph('A'); !ok {
			t.Errorf("LoadFont(%q): glyph A missing", id)
		}
	}
	if _, err := l.LoadFont(ctx, "missing"); err == nil {
		t.Error("LoadFont(missing) should fail")
	}
}

// --- Loaders ---

func TestMapAndChainLoader(t *testing.T) {
	ctx := context.Background()
	font := loadTestBDF(t)
	m := MapLoader{"test8": font}

	if _, err := m.LoadFont(ctx, "nope"); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("MapLoader err = %v, want ErrFontNotFound", err)
	}

	chain := ChainLoader{MapLoader{}, m}
	src, err := chain.LoadFont(ctx, "test8")
	if err != nil || src != GlyphSource(font) {
		t.Errorf("ChainLoader = %v, %v, want the mapped font", src, err)
	}
	if _, err := (ChainLoader{}).LoadFont(ctx, "x"); !errors.Is(err, ErrFontNotFound) {
		t.Errorf("empty ChainLoader err = %v, want ErrFontNotFound", err)
	}
}

func TestDefaultFontsBasicFace(t *testing.T) {
	src, err := DefaultFonts().LoadFont(context.Background(), BasicFontID)
	if err != nil {
		t.Fatal(err)
	}
	if got := src.CellHeight(); got != 13 {
		t.Errorf("CellHeight = %d, want 13", got)
	}
	g, ok := src.Glyph('A')
	if !ok {
		t.Fatal("basic face should have A")
	}
	if g.Width != 7 || g.Height != 13 {
		t.Errorf("A cell = %dx%d, want 7x13", g.Width, g.Height)
	}
	on := 0
	for _, b := range g.Bits {
		if b {
			on++
		}
	}
	if on == 0 {
		t.Error("A should have some pixels set")
	}
	if _, ok := src.Glyph('あ'); ok {
		t.Error("basic face should not cover U+3042")
	}
}

func TestFaceSourceSpace(t *testing.T) {
	src := NewFaceSource(basicfont.Face7x13)
	g, ok := src.Glyph(' ')
	if !ok {
		t.Fatal("space should be covered")
	}
	for _, b := range g.Bits {
		if b {
			t.Fatal("space should be blank")
		}
	}
}

// --- Font cache ---

func TestFontCacheLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	font := loadTestBDF(t)
	cache := NewFontCache(FontLoaderFunc(func(ctx context.Context, id string) (GlyphSource, error) {
		calls.Add(1)
		<-release
		return font, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(context.Background(), "f"); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if _, err := cache.Load(context.Background(), "f"); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
	if cache.Loads() != 1 {
		t.Errorf("Loads = %d, want 1", cache.Loads())
	}
}

func TestFontCacheCachesFailures(t *testing.T) {
	var calls atomic.Int32
	cache := NewFontCache(FontLoaderFunc(func(ctx context.Context, id string) (GlyphSource, error) {
		calls.Add(1)
		return nil, ErrFontNotFound
	}))

	for i := 0; i < 3; i++ {
		_, err := cache.Load(context.Background(), "missing")
		if !errors.Is(err, ErrFontNotFound) {
			t.Errorf("err = %v, want ErrFontNotFound", err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader calls = %d, want 1", got)
	}
}

func TestFontCacheDoesNotCacheCancellation(t *testing.T) {
	var calls atomic.Int32
	font := loadTestBDF(t)
	cache := NewFontCache(FontLoaderFunc(func(ctx context.Context, id string) (GlyphSource, error) {
		calls.Add(1)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return font, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cache.Load(ctx, "f"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if cache.Loads() != 0 {
		t.Error("cancelled load should not be cached")
	}
	if _, err := cache.Load(context.Background(), "f"); err != nil {
		t.Errorf("retry after cancellation: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("loader calls = %d, want 2", got)
	}
}

// --- Width classes ---

func TestIsFullWidth(t *testing.T) {
	tests := []struct {
		r    rune
		want bool
	}{
		{'A', false},
		{' ', false},
		{0x7F, false},
		{0x80, true},
		{'あ', true},
		{'Ａ', true},
	}
	for _, tt := range tests {
		if got := IsFullWidth(tt.r); got != tt.want {
			t.Errorf("IsFullWidth(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}

func TestToWide(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ABC", "ＡＢＣ"},
		{"a 1", "ａ　１"},
		{"45 km/h", "４５　ｋｍ／ｈ"},
		{"駅", "駅"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToWide(tt.in); got != tt.want {
			t.Errorf("ToWide(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
