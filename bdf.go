package canvasrender

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strconv"
	"strings"
)

// BDFFont is a parsed Glyph Bitmap Distribution Format font. Glyphs are
// keyed by their ENCODING value, which is expected to be a Unicode code
// point.
type BDFFont struct {
	Name string

	// Font bounding box: width, height and the offset of its lower-left
	// corner from the origin.
	BoxW, BoxH, BoxX, BoxY int

	glyphs map[rune]Glyph
}

// CellHeight returns the font bounding box height.
func (f *BDFFont) CellHeight() int { return f.BoxH }

// Glyph returns the cell for r: DWIDTH wide, font-box tall, with the glyph
// bitmap placed by its BBX offsets relative to the baseline.
func (f *BDFFont) Glyph(r rune) (Glyph, bool) {
	g, ok := f.glyphs[r]
	return g, ok
}

// Len returns the number of glyphs in the font.
func (f *BDFFont) Len() int { return len(f.glyphs) }

// bdfChar accumulates one STARTCHAR..ENDCHAR block.
type bdfChar struct {
	encoding  int
	dwidth    int
	hasDWidth bool
	bw, bh    int
	bx, by    int
	rows      []string
	inBitmap  bool
}

// ParseBDF parses a BDF 2.x font.
func ParseBDF(r io.Reader) (*BDFFont, error) {
	f := &BDFFont{glyphs: make(map[rune]Glyph)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cur *bdfChar
	var sawStart, sawBox bool
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if cur != nil && cur.inBitmap {
			if line == "ENDCHAR" {
				if err := f.addChar(cur); err != nil {
					return nil, fmt.Errorf("canvasrender: bdf line %d: %w", lineNo, err)
				}
				cur = nil
				continue
			}
			cur.rows = append(cur.rows, line)
			continue
		}

		tag, rest := splitTag(line)
		fields := strings.Fields(rest)

		switch tag {
		case "STARTFONT":
			sawStart = true
		case "FONT":
			f.Name = rest
		case "FONTBOUNDINGBOX":
			v, err := atoiFields(fields, 4)
			if err != nil {
				return nil, fmt.Errorf("canvasrender: bdf line %d: FONTBOUNDINGBOX: %w", lineNo, err)
			}
			f.BoxW, f.BoxH, f.BoxX, f.BoxY = v[0], v[1], v[2], v[3]
			sawBox = true
		case "STARTCHAR":
			cur = &bdfChar{encoding: -1}
		case "ENCODING":
			if cur == nil {
				continue
			}
			v, err := atoiFields(fields, 1)
			if err != nil {
				return nil, fmt.Errorf("canvasrender: bdf line %d: ENCODING: %w", lineNo, err)
			}
			cur.encoding = v[0]
		case "DWIDTH":
			if cur == nil {
				continue
			}
			v, err := atoiFields(fields, 1)
			if err != nil {
				return nil, fmt.Errorf("canvasrender: bdf line %d: DWIDTH: %w", lineNo, err)
			}
			cur.dwidth, cur.hasDWidth = v[0], true
		case "BBX":
			if cur == nil {
				continue
			}
			v, err := atoiFields(fields, 4)
			if err != nil {
				return nil, fmt.Errorf("canvasrender: bdf line %d: BBX: %w", lineNo, err)
			}
			cur.bw, cur.bh, cur.bx, cur.by = v[0], v[1], v[2], v[3]
		case "BITMAP":
			if cur == nil {
				return nil, fmt.Errorf("canvasrender: bdf line %d: BITMAP outside STARTCHAR", lineNo)
			}
			cur.inBitmap = true
		case "ENDCHAR":
			// ENDCHAR without BITMAP: a blank glyph.
			if cur != nil {
				if err := f.addChar(cur); err != nil {
					return nil, fmt.Errorf("canvasrender: bdf line %d: %w", lineNo, err)
				}
				cur = nil
			}
		case "ENDFONT":
			if !sawStart {
				return nil, fmt.Errorf("canvasrender: bdf: ENDFONT before STARTFONT")
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("canvasrender: error reading bdf data: %w", err)
	}
	if !sawStart {
		return nil, fmt.Errorf("canvasrender: bdf data missing STARTFONT")
	}
	if !sawBox {
		return nil, fmt.Errorf("canvasrender: bdf data missing FONTBOUNDINGBOX")
	}
	if cur != nil {
		return nil, fmt.Errorf("canvasrender: bdf data ends inside a character")
	}
	return f, nil
}

// addChar rasterizes c into a font-box-tall cell. Glyphs with a negative
// encoding (unencoded) are skipped.
func (f *BDFFont) addChar(c *bdfChar) error {
	if c.encoding < 0 {
		return nil
	}
	w := c.bw
	if c.hasDWidth {
		w = c.dwidth
	}
	h := f.BoxH
	g := Glyph{Width: max(w, 0), Height: max(h, 0)}
	g.Bits = make([]bool, g.Width*g.Height)

	// Rows of the cell are counted from the top of the font box; the
	// baseline sits BoxY above its bottom edge.
	ascent := f.BoxH + f.BoxY
	top := ascent - (c.by + c.bh)

	for row, hexRow := range c.rows {
		if row >= c.bh {
			break
		}
		data, err := hex.DecodeString(hexRow)
		if err != nil {
			return fmt.Errorf("glyph %d row %d: %w", c.encoding, row, err)
		}
		y := top + row
		if y < 0 || y >= g.Height {
			continue
		}
		for col := 0; col < c.bw && col/8 < len(data); col++ {
			if data[col/8]&(0x80>>(col%8)) == 0 {
				continue
			}
			x := c.bx + col
			if x < 0 || x >= g.Width {
				continue
			}
			g.Bits[y*g.Width+x] = true
		}
	}
	f.glyphs[rune(c.encoding)] = g
	return nil
}

// splitTag splits a keyword line into the keyword and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// atoiFields parses the first n fields as integers.
func atoiFields(fields []string, n int) ([]int, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(fields))
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// --- Loading from a file system ---

// FSLoader loads BDF fonts from a file system. A font id maps to Paths[id]
// when present, otherwise to id + ".bdf" under Dir.
type FSLoader struct {
	FS    fs.FS
	Dir   string
	Paths map[string]string
}

// LoadFont opens and parses the BDF file for id.
func (l FSLoader) LoadFont(ctx context.Context, id string) (GlyphSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, ok := l.Paths[id]
	if !ok {
		p = path.Join(l.Dir, id+".bdf")
	}
	file, err := l.FS.Open(p)
	if err != nil {
		return nil, fmt.Errorf("canvasrender: open font %q: %w", id, err)
	}
	defer file.Close()
	f, err := ParseBDF(file)
	if err != nil {
		return nil, fmt.Errorf("canvasrender: parse font %q: %w", id, err)
	}
	return f, nil
}
