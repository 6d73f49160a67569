package canvasrender

import (
	"strings"

	"golang.org/x/text/width"
)

// FontInfo selects the fonts used for a text node. Each width class names
// an ordered list of font ids; a character takes its glyph from the first
// font in its list that has one.
type FontInfo struct {
	// Size is the cell height in pixels. Full-width tofu is Size×Size,
	// half-width tofu Size/2 wide, rounded up.
	Size      int
	FullWidth []string
	HalfWidth []string
}

// DefaultFontInfo is a 16-pixel font pair. The half-width list falls back
// to the built-in face when the 8x16 font is not available.
var DefaultFontInfo = FontInfo{
	Size:      16,
	FullWidth: []string{"jiskan16"},
	HalfWidth: []string{"8x16rk", BasicFontID},
}

func (fi FontInfo) isZero() bool {
	return fi.Size == 0 && len(fi.FullWidth) == 0 && len(fi.HalfWidth) == 0
}

// fonts returns the font list for a width class.
func (fi FontInfo) fonts(fullWidth bool) []string {
	if fullWidth {
		return fi.FullWidth
	}
	return fi.HalfWidth
}

// key flattens the font lists into a comparable cache key part.
func (fi FontInfo) key() string {
	return strings.Join(fi.FullWidth, ",") + "|" + strings.Join(fi.HalfWidth, ",")
}

// IsFullWidth reports whether r is laid out with the full-width fonts.
// Code points up to 0x7F are half-width; everything else is full-width.
func IsFullWidth(r rune) bool {
	return r > 0x7F
}

// ToWide converts printable ASCII to its full-width form. The ASCII space
// becomes U+3000 IDEOGRAPHIC SPACE. Other characters pass through.
func ToWide(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if r == ' ' {
			b.WriteRune('\u3000')
			continue
		}
		if r > 0x20 && r <= 0x7E {
			b.WriteString(width.Widen.String(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
