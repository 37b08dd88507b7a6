package cli

// brailleBits maps a (column, row) position inside a 2x4 braille cell to its
// bit in the U+2800 block.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// brailleBuf is a monochrome bitmap with 2x4 sub-pixels per terminal cell.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell dot mask
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleBuf{w: w, h: h, m: m}
}

// microSize returns the bitmap size in sub-pixels.
func (b *brailleBuf) microSize() (int, int) {
	return b.w * 2, b.h * 4
}

// setPixel sets the sub-pixel (mx, my). Out-of-range pixels are ignored.
func (b *brailleBuf) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
}

// drawLine draws a line between two sub-pixels using Bresenham. Endpoints
// are clamped to one pixel outside the bitmap, which is exact for the
// axis-aligned lines of a grid.
func (b *brailleBuf) drawLine(x0, y0, x1, y1 int) {
	mw, mh := b.microSize()
	x0, x1 = clampInt(x0, -1, mw), clampInt(x1, -1, mw)
	y0, y1 = clampInt(y0, -1, mh), clampInt(y1, -1, mh)

	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// cell returns the braille rune of cell (x, y), or 0 if it is empty.
func (b *brailleBuf) cell(x, y int) rune {
	if mask := b.m[y][x]; mask != 0 {
		return rune(0x2800 + int(mask))
	}
	return 0
}

// lines returns the bitmap as one string per cell row, blanks for empty
// cells.
func (b *brailleBuf) lines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			if r := b.cell(x, y); r != 0 {
				row[x] = r
			} else {
				row[x] = ' '
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
