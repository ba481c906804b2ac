// Package sites produces the generator points fed to the Voronoi builder:
// seeded uniform points in the unit square, plus the fixed ring of border
// sentinels that keeps interior cells bounded.
package sites

import (
	"math/rand/v2"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// Generate returns n points drawn uniformly from [0,1)^2 using a PCG
// source keyed on seed. The same seed always yields the same points, in
// the same order.
func Generate(seed uint64, n int) []geom.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	pts := make([]geom.Point, n)
	for i := range pts {
		pts[i] = geom.Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return pts
}

// BorderSentinels returns the 12 fixed generator points surrounding the
// unit square: a lattice ring at coordinates -1, 0, 1, 2 outside the
// domain. Their cells absorb the unbounded directions so that every
// interior generator gets a closed cell; the sentinels themselves are
// never emitted as output cells.
func BorderSentinels() []geom.Point {
	var pts []geom.Point
	for _, x := range []float64{-1, 0, 1, 2} {
		for _, y := range []float64{-1, 2} {
			pts = append(pts, geom.Point{X: x, Y: y})
		}
	}
	for _, x := range []float64{-1, 2} {
		for _, y := range []float64{0, 1} {
			pts = append(pts, geom.Point{X: x, Y: y})
		}
	}
	return pts
}
