// Package voronoi adapts the Fortune's-sweep implementation in
// github.com/zzwx/voronoi to the raw cell model the pipeline consumes: a
// shared vertex table plus one vertex index list per interior generator,
// with [Unbounded] marking directions that escaped the computation box.
package voronoi

import (
	"fmt"
	"math"

	vor "github.com/zzwx/voronoi"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// Unbounded is the sentinel index for a cell vertex that lies on the
// computation box border, meaning the true cell extends beyond it. A cell
// whose index list contains Unbounded cannot be assembled into a polygon
// and is discarded downstream.
const Unbounded = -1

// Computation box. It strictly contains the border sentinel generators at
// coordinates -1..2, so every cell of an interior generator closes well
// inside it; only sentinel cells ever touch the border.
const (
	boxMin = -2
	boxMax = 3
)

// Diagram is the raw output of the builder: cell vertex index lists over a
// shared vertex table. Cells[i] belongs to the i-th interior generator, in
// input order. Vertex order within a cell follows the cell boundary.
type Diagram struct {
	Vertices []geom.Point
	Cells    [][]int
}

// Build computes the Voronoi diagram of the interior generators together
// with the guard generators, and returns raw cells for the interior ones
// only. Guards (the border sentinels) shape the diagram but are never
// emitted. Generators must be pairwise distinct; duplicates make the
// underlying sweep lose cells, which surfaces as an error here.
func Build(interior, guards []geom.Point) (*Diagram, error) {
	all := make([]vor.Vertex, 0, len(interior)+len(guards))
	for _, p := range interior {
		all = append(all, vor.Vertex{X: p.X, Y: p.Y})
	}
	for _, p := range guards {
		all = append(all, vor.Vertex{X: p.X, Y: p.Y})
	}

	bbox := vor.NewBBox(boxMin, boxMin, boxMax, boxMax)
	d := vor.ComputeDiagram(all, bbox, true)

	bySite := make(map[[2]float64]*vor.Cell, len(d.Cells))
	for _, c := range d.Cells {
		bySite[[2]float64{c.Site.X, c.Site.Y}] = c
	}

	out := &Diagram{Cells: make([][]int, len(interior))}
	index := make(map[[2]int64]int)
	for i, p := range interior {
		cell, ok := bySite[[2]float64{p.X, p.Y}]
		if !ok {
			return nil, fmt.Errorf("voronoi: no cell for generator %d at (%v, %v)", i, p.X, p.Y)
		}
		ring := make([]int, 0, len(cell.HalfEdges))
		for _, he := range cell.HalfEdges {
			v := he.StartPoint()
			if onBoxBorder(v.X, v.Y) {
				ring = append(ring, Unbounded)
				continue
			}
			ring = append(ring, out.internVertex(index, geom.Point{X: v.X, Y: v.Y}))
		}
		out.Cells[i] = ring
	}
	return out, nil
}

// internVertex returns the table index for p, adding it on first sight.
// Coordinates are keyed on an Eps-sized grid so the shared endpoints of
// adjacent cells resolve to one table entry.
func (d *Diagram) internVertex(index map[[2]int64]int, p geom.Point) int {
	k := [2]int64{int64(math.Round(p.X / geom.Eps)), int64(math.Round(p.Y / geom.Eps))}
	if i, ok := index[k]; ok {
		return i
	}
	i := len(d.Vertices)
	d.Vertices = append(d.Vertices, p)
	index[k] = i
	return i
}

func onBoxBorder(x, y float64) bool {
	const eps = 1e-7
	return math.Abs(x-boxMin) < eps || math.Abs(x-boxMax) < eps ||
		math.Abs(y-boxMin) < eps || math.Abs(y-boxMax) < eps
}
