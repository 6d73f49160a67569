package canvasrender

import (
	"image/color"
	"math"
)

// bresenham calls plot for every integer point on the segment from (x0, y0)
// to (x1, y1), both endpoints included.
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := 1, 1
	if x0 >= x1 {
		sx = -1
	}
	if y0 >= y1 {
		sy = -1
	}
	err := dx - dy
	x, y := x0, y0
	for i := 0; i <= max(dx, dy); i++ {
		plot(x, y)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// strokeLine draws a w×w cell at every Bresenham step. Cells hang to the
// right of and below the stepped point.
func strokeLine(s *Surface, x0, y0, x1, y1 int, w float64, c color.Color) {
	bresenham(x0, y0, x1, y1, func(x, y int) {
		s.FillRect(float64(x), float64(y), w, w, c)
	})
}

// nearSegment reports whether (px, py) is within dist of the segment from
// (x1, y1) to (x2, y2). The projection is clamped to the segment.
func nearSegment(px, py, x1, y1, x2, y2, dist float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		ex, ey := px-x1, py-y1
		return ex*ex+ey*ey <= dist*dist
	}
	t := ((px-x1)*dx + (py-y1)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))
	ex := px - (x1 + t*dx)
	ey := py - (y1 + t*dy)
	return ex*ex+ey*ey <= dist*dist
}

// pointInPolygon is the even-odd ray casting test.
func pointInPolygon(px, py float64, pts []Point) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		xi, yi := pts[i].X, pts[i].Y
		xj, yj := pts[j].X, pts[j].Y
		if (yi > py) != (yj > py) && px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// scanDisk plots every pixel whose offset from (cx, cy) satisfies
// inner² <= dx²+dy² <= outer². Offsets run on half-pixel centers so the
// covered area stays symmetric around the center.
func scanDisk(cx, cy, outer, inner float64, plot func(x, y int)) {
	if outer <= 0 {
		return
	}
	o2 := outer * outer
	i2 := inner * inner
	for dy := -outer + 0.5; dy < outer+0.5; dy++ {
		for dx := -outer + 0.5; dx < outer+0.5; dx++ {
			d := dx*dx + dy*dy
			if d <= o2 && d >= i2 {
				plot(int(math.Floor(cx+dx)), int(math.Floor(cy+dy)))
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
