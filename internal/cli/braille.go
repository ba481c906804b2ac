package cli

import (
	"strings"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// brailleCanvas rasterizes polygon outlines onto a terminal cell grid
// using braille characters. Each cell holds a 2x4 micro-pixel block, so
// an 80x24 terminal gives a 160x96 drawing surface.
type brailleCanvas struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func newBrailleCanvas(w, h int) *brailleCanvas {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &brailleCanvas{w: w, h: h, m: m}
}

// braille dot bit layout per 2x4 cell, column-major.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell).
func (c *brailleCanvas) setPixel(mx, my int) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= c.h || cx >= c.w {
		return
	}
	c.m[cy][cx] |= brailleBits[rx][ry]
}

// line draws a micro-pixel line using Bresenham.
func (c *brailleCanvas) line(x0, y0, x1, y1 int) {
	dx := intAbs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -intAbs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.setPixel(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
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

// drawRing projects a ring from the unit square onto the micro grid and
// draws its closed outline. The domain y axis points up, the screen y
// axis down.
func (c *brailleCanvas) drawRing(ring geom.Ring) {
	if len(ring) < 2 {
		return
	}
	wMic := c.w*2 - 1
	hMic := c.h*4 - 1
	prev := c.projectMicro(ring[len(ring)-1], wMic, hMic)
	for _, v := range ring {
		cur := c.projectMicro(v, wMic, hMic)
		c.line(prev[0], prev[1], cur[0], cur[1])
		prev = cur
	}
}

// drawSet draws every ring of every polygon in the set.
func (c *brailleCanvas) drawSet(set geom.PolygonSet) {
	for _, poly := range set {
		c.drawRing(poly.Outer)
		for _, hole := range poly.Holes {
			c.drawRing(hole)
		}
	}
}

func (c *brailleCanvas) projectMicro(p geom.Point, wMic, hMic int) [2]int {
	return [2]int{
		int(p.X * float64(wMic)),
		int((1 - p.Y) * float64(hMic)),
	}
}

// render converts the canvas into terminal lines.
func (c *brailleCanvas) render() string {
	lines := make([]string, c.h)
	for y := 0; y < c.h; y++ {
		row := make([]rune, c.w)
		for x := 0; x < c.w; x++ {
			mask := c.m[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
