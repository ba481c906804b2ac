package geom

import (
	"math"
	"sort"
)

// Clip intersects p with the rectangle r and returns the disjoint pieces
// of the intersection. A polygon straddling the rectangle can come back
// as several pieces; that is a normal outcome, not an error. Each returned
// polygon lies entirely inside r (within Eps) and has positive area.
// Degenerate slivers at boundary tangencies are dropped silently.
//
// Holes of p are clipped independently and reattached to whichever output
// piece contains them. The input is never mutated.
func Clip(p Polygon, r Rect) []Polygon {
	p = p.Normalize()
	outer := p.Outer.Dedup()
	if len(outer) < 3 {
		return nil
	}

	// Fast path: the polygon is already contained in r. Returning it
	// untouched keeps repeated clipping idempotent down to the bit level.
	if ringInside(outer, r) && holesInside(p.Holes, r) {
		return []Polygon{p.Clone()}
	}

	pieces := clipRing(outer, r)
	if len(pieces) == 0 {
		return nil
	}

	out := make([]Polygon, len(pieces))
	for i, ring := range pieces {
		out[i] = Polygon{Outer: ring}
	}

	for _, h := range p.Holes {
		// Holes are stored clockwise; the tracer wants counterclockwise.
		for _, hp := range clipRing(h.Reversed().Dedup(), r) {
			rep := hp.RepresentativePoint()
			for i := range out {
				if out[i].Outer.ContainsPoint(rep) {
					out[i].Holes = append(out[i].Holes, hp.Reversed())
					break
				}
			}
		}
	}

	final := out[:0]
	for _, poly := range out {
		if poly.Area() > Eps {
			final = append(final, poly)
		}
	}
	if len(final) == 0 {
		return nil
	}
	return final
}

func ringInside(r Ring, rect Rect) bool {
	for _, p := range r {
		if !rect.Contains(p) {
			return false
		}
	}
	return true
}

func holesInside(holes []Ring, rect Rect) bool {
	for _, h := range holes {
		if !ringInside(h, rect) {
			return false
		}
	}
	return true
}

const (
	nodeVertex = iota
	nodeEnter
	nodeExit
)

// clipNode is an entry in the augmented subject sequence: an interior
// vertex of the subject ring, or a crossing of the rectangle boundary.
type clipNode struct {
	pt      Point
	kind    int
	perim   float64 // boundary coordinate in [0,4), crossings only
	seqIdx  int
	sortIdx int // position among crossings ordered by perim
	used    bool
}

// clipRing clips a counterclockwise simple ring against rect using
// boundary tracing (Weiler-Atherton restricted to a rectangular clip
// window). The subject must be simple; self-intersecting rings go through
// Repair first.
func clipRing(s Ring, rect Rect) []Ring {
	n := len(s)
	if n < 3 {
		return nil
	}

	inside := make([]bool, n)
	allIn := true
	for i, p := range s {
		inside[i] = rect.Contains(p)
		allIn = allIn && inside[i]
	}
	if allIn {
		if s.Area() <= Eps {
			return nil
		}
		return []Ring{s.Clone()}
	}

	var seq []*clipNode
	var crossings []*clipNode
	push := func(nd *clipNode) {
		nd.seqIdx = len(seq)
		seq = append(seq, nd)
		if nd.kind != nodeVertex {
			nd.perim = rect.perimCoord(nd.pt)
			crossings = append(crossings, nd)
		}
	}

	for i := 0; i < n; i++ {
		a, b := s[i], s[(i+1)%n]
		if inside[i] {
			push(&clipNode{pt: a, kind: nodeVertex})
		}
		insideA, insideB := inside[i], inside[(i+1)%n]
		if insideA && insideB {
			continue
		}
		t0, t1, ok := liangBarsky(a, b, rect)
		switch {
		case insideA && !insideB:
			ep := a
			if ok {
				ep = lerpPoint(a, b, t1)
			}
			push(&clipNode{pt: ep, kind: nodeExit})
		case !insideA && insideB:
			sp := b
			if ok {
				sp = lerpPoint(a, b, t0)
			}
			push(&clipNode{pt: sp, kind: nodeEnter})
		default: // both outside
			if ok && t1-t0 > Eps {
				push(&clipNode{pt: lerpPoint(a, b, t0), kind: nodeEnter})
				push(&clipNode{pt: lerpPoint(a, b, t1), kind: nodeExit})
			}
		}
	}

	if len(crossings) == 0 {
		// No boundary interaction: the ring either misses the rectangle
		// entirely or encloses it.
		center := Point{(rect.MinX + rect.MaxX) / 2, (rect.MinY + rect.MaxY) / 2}
		if s.ContainsPoint(center) {
			return []Ring{rect.Ring()}
		}
		return nil
	}

	// Stable sort: co-located crossings (tangencies) keep their subject
	// order, so an exit at a touch point is followed by its paired entry.
	sort.SliceStable(crossings, func(i, j int) bool {
		return crossings[i].perim < crossings[j].perim
	})
	for i, c := range crossings {
		c.sortIdx = i
	}

	var pieces []Ring
	for _, start := range crossings {
		if start.kind != nodeEnter || start.used {
			continue
		}
		ring := traceClip(seq, crossings, rect, start)
		ring = ring.Dedup()
		if len(ring) >= 3 && ring.SignedArea() > Eps {
			pieces = append(pieces, ring)
		}
	}
	return pieces
}

// traceClip walks one output piece: along the subject while inside the
// rectangle, along the rectangle boundary (counterclockwise) while
// outside, until the walk returns to the starting crossing.
func traceClip(seq []*clipNode, crossings []*clipNode, rect Rect, start *clipNode) Ring {
	var ring Ring
	cur := start
	limit := 2*len(seq) + 8

	for steps := 0; steps < limit; steps++ {
		// Subject walk: from an entry crossing to the next exit.
		cur.used = true
		ring = append(ring, cur.pt)
		var exit *clipNode
		for i := (cur.seqIdx + 1) % len(seq); ; i = (i + 1) % len(seq) {
			nd := seq[i]
			ring = append(ring, nd.pt)
			if nd.kind == nodeExit {
				exit = nd
				break
			}
			if len(ring) > limit {
				return nil
			}
		}
		exit.used = true

		// Boundary walk: counterclockwise from the exit, inserting
		// rectangle corners, until the next entry crossing.
		next := exit
		for {
			prev := next
			next = crossings[(prev.sortIdx+1)%len(crossings)]
			appendCorners(&ring, rect, prev.perim, next.perim)
			if next == start {
				return ring
			}
			if next.kind == nodeEnter {
				break
			}
			// An exit immediately following on the boundary is a
			// tangential touch; skip over it.
			next.used = true
		}
		cur = next
	}
	return nil
}

// appendCorners adds the rectangle corners strictly between boundary
// coordinates from and to (walking counterclockwise, possibly wrapping).
func appendCorners(ring *Ring, rect Rect, from, to float64) {
	if math.Abs(to-from) <= Eps {
		return // co-located crossings, nothing between them
	}
	if to < from {
		to += 4
	}
	for c := math.Floor(from) + 1; c < to-Eps; c++ {
		*ring = append(*ring, rect.Corner(int(c)&3))
	}
}

// perimCoord maps a boundary point to a scalar in [0,4): side index plus
// the fraction travelled along that side, counterclockwise from the
// bottom-left corner.
func (r Rect) perimCoord(p Point) float64 {
	w := r.MaxX - r.MinX
	h := r.MaxY - r.MinY
	side := math.Inf(1)
	coord := 0.0
	if d := math.Abs(p.Y - r.MinY); d < side {
		side, coord = d, 0+clamp01((p.X-r.MinX)/w)
	}
	if d := math.Abs(p.X - r.MaxX); d < side {
		side, coord = d, 1+clamp01((p.Y-r.MinY)/h)
	}
	if d := math.Abs(p.Y - r.MaxY); d < side {
		side, coord = d, 2+clamp01((r.MaxX-p.X)/w)
	}
	if d := math.Abs(p.X - r.MinX); d < side {
		coord = 3 + clamp01((r.MaxY-p.Y)/h)
	}
	return math.Mod(coord, 4)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

func lerpPoint(a, b Point, t float64) Point {
	return Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

// liangBarsky clips the segment a->b to rect, returning the parameter
// interval [t0, t1] of the portion inside. ok is false when the segment
// misses the rectangle.
func liangBarsky(a, b Point, rect Rect) (t0, t1 float64, ok bool) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	t0, t1 = 0, 1

	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}

	if clip(-dx, a.X-rect.MinX) && clip(dx, rect.MaxX-a.X) &&
		clip(-dy, a.Y-rect.MinY) && clip(dy, rect.MaxY-a.Y) {
		return t0, t1, t0 <= t1
	}
	return 0, 0, false
}
