package geom

import "math"

// Eps is the tolerance used for all boundary classification and degeneracy
// checks in this package. Two coordinates closer than Eps are considered
// equal, and a point within Eps of the domain boundary counts as on it.
// Using a single constant keeps classification consistent across repeated
// clip/repair passes, which the pipeline's determinism depends on.
const Eps = 1e-9

// Point is a position on the plane. Points have no identity; they are
// compared by value within Eps.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Eq reports whether p and q coincide within Eps.
func (p Point) Eq(q Point) bool {
	return math.Abs(p.X-q.X) <= Eps && math.Abs(p.Y-q.Y) <= Eps
}

// Ring is a closed polygon boundary: an ordered sequence of vertices with
// an implicit edge from the last vertex back to the first. The closing
// vertex is not duplicated.
type Ring []Point

// Polygon is one outer ring plus zero or more holes. The pipeline's inputs
// never carry holes directly, but repair of a ring that doubles back over
// itself can produce them, and they must survive clipping.
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// PolygonSet is the pipeline's working collection. Order carries no
// meaning, but stages preserve input order so that serialized output is
// reproducible run to run.
type PolygonSet []Polygon

// Rect is an axis-aligned rectangle, used as the clipping domain.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Unit is the fixed [0,1]x[0,1] generation domain.
var Unit = Rect{0, 0, 1, 1}

// Contains reports whether p lies inside r or within Eps of its boundary.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX-Eps && p.X <= r.MaxX+Eps &&
		p.Y >= r.MinY-Eps && p.Y <= r.MaxY+Eps
}

// Corner returns the i-th corner of r in counterclockwise order starting
// from (MinX, MinY).
func (r Rect) Corner(i int) Point {
	switch i & 3 {
	case 0:
		return Point{r.MinX, r.MinY}
	case 1:
		return Point{r.MaxX, r.MinY}
	case 2:
		return Point{r.MaxX, r.MaxY}
	default:
		return Point{r.MinX, r.MaxY}
	}
}

// Ring returns the boundary of r as a counterclockwise ring.
func (r Rect) Ring() Ring {
	return Ring{r.Corner(0), r.Corner(1), r.Corner(2), r.Corner(3)}
}

// SignedArea returns the signed area of the ring via the shoelace formula.
// Counterclockwise rings have positive area.
func (r Ring) SignedArea() float64 {
	if len(r) < 3 {
		return 0
	}
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Area returns the absolute area of the ring.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Area returns the area of the polygon: the outer ring's area minus the
// area of its holes.
func (p Polygon) Area() float64 {
	a := p.Outer.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return a
}

// Reversed returns a copy of the ring with opposite orientation.
func (r Ring) Reversed() Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Clone returns a deep copy of the ring.
func (r Ring) Clone() Ring {
	out := make(Ring, len(r))
	copy(out, r)
	return out
}

// Clone returns a deep copy of the polygon.
func (p Polygon) Clone() Polygon {
	out := Polygon{Outer: p.Outer.Clone()}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, h.Clone())
	}
	return out
}

// Dedup returns the ring with consecutive near-equal vertices collapsed,
// including the implicit wrap-around pair.
func (r Ring) Dedup() Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(Ring, 0, len(r))
	for _, p := range r {
		if len(out) == 0 || !out[len(out)-1].Eq(p) {
			out = append(out, p)
		}
	}
	for len(out) > 1 && out[0].Eq(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// ContainsPoint reports whether p lies strictly inside the ring, using an
// even-odd ray cast. Points within Eps of an edge are treated as inside:
// the pipeline uses containment only to nest clipped holes and loops, and
// shared split vertices must not flip that decision.
func (r Ring) ContainsPoint(p Point) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	for i, a := range r {
		b := r[(i+1)%len(r)]
		if pointOnSegment(p, a, b) {
			return true
		}
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// RepresentativePoint returns a point in the interior of the ring, found
// by probing midpoints of the triangle fan around the ring's vertices.
// Falls back to the vertex average for convex rings.
func (r Ring) RepresentativePoint() Point {
	var cx, cy float64
	for _, p := range r {
		cx += p.X
		cy += p.Y
	}
	c := Point{cx / float64(len(r)), cy / float64(len(r))}
	if r.ContainsPoint(c) {
		return c
	}
	for i := range r {
		a := r[i]
		b := r[(i+1)%len(r)]
		m := Point{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
		if r.ContainsPoint(m) {
			return m
		}
	}
	return r[0]
}

// IsSimple reports whether the ring is free of self-intersections: no two
// non-adjacent edges cross or touch, and no vertex repeats elsewhere in
// the ring. Adjacent edges sharing an endpoint are allowed.
func (r Ring) IsSimple() bool {
	n := len(r)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if !adjacentEdges(i, j, n) && r[i].Eq(r[j]) {
				return false
			}
		}
	}
	for i := 0; i < n; i++ {
		a1, a2 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if adjacentEdges(i, j, n) {
				continue
			}
			b1, b2 := r[j], r[(j+1)%n]
			if _, ok := segmentCross(a1, a2, b1, b2); ok {
				return false
			}
		}
	}
	return true
}

// Validate checks that the polygon is usable by the pipeline: the outer
// ring and all holes are simple, the polygon has positive area, and every
// hole lies inside the outer ring.
func (p Polygon) Validate() bool {
	outer := p.Outer.Dedup()
	if len(outer) < 3 || !outer.IsSimple() || outer.Area() <= Eps {
		return false
	}
	for _, h := range p.Holes {
		hd := h.Dedup()
		if len(hd) < 3 || !hd.IsSimple() || hd.Area() <= Eps {
			return false
		}
		if !outer.ContainsPoint(hd.RepresentativePoint()) {
			return false
		}
	}
	return true
}

// Normalize orients the outer ring counterclockwise and all holes
// clockwise, returning the adjusted polygon.
func (p Polygon) Normalize() Polygon {
	out := p
	if out.Outer.SignedArea() < 0 {
		out.Outer = out.Outer.Reversed()
	}
	for i, h := range out.Holes {
		if h.SignedArea() > 0 {
			out.Holes[i] = h.Reversed()
		}
	}
	return out
}

// adjacentEdges reports whether edges starting at indices i and j of an
// n-vertex ring share an endpoint.
func adjacentEdges(i, j, n int) bool {
	return j == i || (j+1)%n == i || (i+1)%n == j
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// pointOnSegment reports whether p lies on segment ab within Eps.
func pointOnSegment(p, a, b Point) bool {
	if math.Abs(cross(a, b, p)) > Eps*(math.Hypot(b.X-a.X, b.Y-a.Y)+1) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-Eps && p.X <= math.Max(a.X, b.X)+Eps &&
		p.Y >= math.Min(a.Y, b.Y)-Eps && p.Y <= math.Max(a.Y, b.Y)+Eps
}

// segmentCross returns the proper intersection point of segments ab and
// cd, if they cross in the interior of both. Touching endpoints and
// collinear overlaps do not count; those are resolved by vertex dedup and
// the repair pass instead.
func segmentCross(a, b, c, d Point) (Point, bool) {
	d1 := cross(c, d, a)
	d2 := cross(c, d, b)
	d3 := cross(a, b, c)
	d4 := cross(a, b, d)
	if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
		((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
		t := d1 / (d1 - d2)
		return Point{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}, true
	}
	return Point{}, false
}
