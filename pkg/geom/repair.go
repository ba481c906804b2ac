package geom

import (
	"math"
	"sort"
)

// Repair resolves an invalid polygon into zero or more valid simple
// polygons, mirroring the self-union semantics of a zero-width buffer in
// polygon-set libraries: the ring is split at every self-crossing, the
// resulting simple loops are kept if they have positive area, and a loop
// nested inside another becomes a hole. A figure-eight therefore resolves
// into its two lobes, and a ring that wraps back over itself yields an
// outer ring with a hole.
//
// An empty result means the shape is unrepairable and must be discarded.
// Repair is meant for shapes that failed Validate; valid shapes pass
// through with at most vertex dedup applied.
func Repair(p Polygon) []Polygon {
	outer := p.Outer.Dedup()
	if len(outer) < 3 {
		return nil
	}

	loops := splitLoops(outer)
	polys := assembleLoops(loops)
	if len(polys) == 0 {
		return nil
	}

	for _, h := range p.Holes {
		for _, hl := range splitLoops(h.Dedup()) {
			if hl.Area() <= Eps {
				continue
			}
			rep := hl.RepresentativePoint()
			for i := range polys {
				if polys[i].Outer.ContainsPoint(rep) {
					if hl.SignedArea() > 0 {
						hl = hl.Reversed()
					}
					polys[i].Holes = append(polys[i].Holes, hl)
					break
				}
			}
		}
	}

	out := polys[:0]
	for _, poly := range polys {
		if poly.Area() > Eps {
			out = append(out, poly)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// splitLoops cuts a ring at every proper self-crossing and returns the
// simple loops of the resulting closed walk. A simple ring comes back as
// a single loop.
func splitLoops(r Ring) []Ring {
	n := len(r)
	if n < 3 {
		return nil
	}

	type cut struct {
		t  float64
		pt Point
	}
	cuts := make([][]cut, n)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if adjacentEdges(i, j, n) {
				continue
			}
			c, d := r[j], r[(j+1)%n]
			d1 := cross(c, d, a)
			d2 := cross(c, d, b)
			d3 := cross(a, b, c)
			d4 := cross(a, b, d)
			if ((d1 > Eps && d2 < -Eps) || (d1 < -Eps && d2 > Eps)) &&
				((d3 > Eps && d4 < -Eps) || (d3 < -Eps && d4 > Eps)) {
				tAB := d1 / (d1 - d2)
				tCD := d3 / (d3 - d4)
				pt := lerpPoint(a, b, tAB)
				cuts[i] = append(cuts[i], cut{tAB, pt})
				cuts[j] = append(cuts[j], cut{tCD, pt})
			}
		}
	}

	var seq []Point
	for i := 0; i < n; i++ {
		seq = append(seq, r[i])
		sort.Slice(cuts[i], func(a, b int) bool { return cuts[i][a].t < cuts[i][b].t })
		for _, c := range cuts[i] {
			seq = append(seq, c.pt)
		}
	}
	seq = append(seq, seq[0]) // close the walk

	// Peel off a loop every time the walk revisits a position. Positions
	// are matched on an Eps-sized grid so that the two computed copies of
	// a crossing point land on the same key.
	key := func(p Point) [2]int64 {
		return [2]int64{int64(math.Round(p.X / Eps)), int64(math.Round(p.Y / Eps))}
	}
	var loops []Ring
	var stack []Point
	seen := make(map[[2]int64]int)
	for _, p := range seq {
		k := key(p)
		if idx, ok := seen[k]; ok {
			loop := make(Ring, len(stack)-idx)
			copy(loop, stack[idx:])
			if len(loop) >= 3 {
				loops = append(loops, loop)
			}
			for _, q := range stack[idx+1:] {
				delete(seen, key(q))
			}
			stack = stack[:idx+1]
			continue
		}
		seen[k] = len(stack)
		stack = append(stack, p)
	}
	return loops
}

// assembleLoops nests loops by containment depth: even-depth loops become
// outer rings, odd-depth loops become holes of their immediate container.
func assembleLoops(loops []Ring) []Polygon {
	kept := loops[:0]
	for _, l := range loops {
		l = l.Dedup()
		if len(l) >= 3 && l.Area() > Eps {
			kept = append(kept, l)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Area() > kept[j].Area() })

	reps := make([]Point, len(kept))
	for i, l := range kept {
		reps[i] = l.RepresentativePoint()
	}

	depth := make([]int, len(kept))
	parent := make([]int, len(kept))
	for i := range kept {
		parent[i] = -1
		for j := 0; j < i; j++ { // only larger loops can contain i
			if kept[j].ContainsPoint(reps[i]) {
				depth[i]++
				parent[i] = j // loops are area-sorted, so the last hit is the smallest container
			}
		}
	}

	var polys []Polygon
	polyFor := make(map[int]int)
	for i, l := range kept {
		if depth[i]%2 != 0 {
			continue
		}
		if l.SignedArea() < 0 {
			l = l.Reversed()
		}
		polyFor[i] = len(polys)
		polys = append(polys, Polygon{Outer: l})
	}
	for i, l := range kept {
		if depth[i]%2 == 0 || parent[i] < 0 {
			continue
		}
		pi, ok := polyFor[parent[i]]
		if !ok {
			continue
		}
		if l.SignedArea() > 0 {
			l = l.Reversed()
		}
		polys[pi].Holes = append(polys[pi].Holes, l)
	}
	return polys
}
