package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cellwarp/cellwarp/pkg/errors"
	"github.com/cellwarp/cellwarp/pkg/geom"
	"github.com/cellwarp/cellwarp/pkg/sites"
	"github.com/cellwarp/cellwarp/pkg/voronoi"
)

// cellResult is the outcome of assembling one raw cell. Exactly one of
// pieces or discards is populated.
type cellResult struct {
	pieces   []geom.Polygon
	discards Discards
}

// generate runs the generate stage: seeded points, Voronoi diagram, then
// per-cell assembly, repair, and clipping. Cells are processed in
// parallel, but results are collected by input index, so the returned set
// is in generator order regardless of scheduling.
func generate(ctx context.Context, opts Options) (geom.PolygonSet, Stats, error) {
	var stats Stats

	interior := sites.Generate(opts.Seed, opts.Points)
	diagram, err := voronoi.Build(interior, sites.BorderSentinels())
	if err != nil {
		return nil, stats, errors.Wrap(errors.ErrCodeInternal, err, "voronoi diagram")
	}
	stats.CellCount = len(diagram.Cells)

	results := make([]cellResult, len(diagram.Cells))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range diagram.Cells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := assembleCell(diagram, i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	var set geom.PolygonSet
	for _, res := range results {
		set = append(set, res.pieces...)
		stats.Discards.add(res.discards)
	}
	stats.OriginalCount = len(set)
	return set, stats, nil
}

// assembleCell turns one raw cell into zero or more clipped polygons.
// Unusable cells are discarded with a reason; a vertex index outside the
// table is the one hard error, since it means the diagram itself is
// malformed.
func assembleCell(d *voronoi.Diagram, cell int) (cellResult, error) {
	idxs := d.Cells[cell]
	if len(idxs) == 0 {
		return cellResult{discards: Discards{Degenerate: 1}}, nil
	}

	ring := make(geom.Ring, 0, len(idxs))
	for _, idx := range idxs {
		if idx == voronoi.Unbounded {
			return cellResult{discards: Discards{Unbounded: 1}}, nil
		}
		if idx < 0 || idx >= len(d.Vertices) {
			return cellResult{}, errors.New(errors.ErrCodeInputContract,
				"cell %d references vertex %d, table has %d", cell, idx, len(d.Vertices))
		}
		ring = append(ring, d.Vertices[idx])
	}

	ring = ring.Dedup()
	if len(ring) < 3 || ring.Area() <= geom.Eps {
		return cellResult{discards: Discards{Degenerate: 1}}, nil
	}

	poly := geom.Polygon{Outer: ring}.Normalize()
	resolved := []geom.Polygon{poly}
	if !poly.Validate() {
		if resolved = geom.Repair(poly); resolved == nil {
			return cellResult{discards: Discards{RepairFailed: 1}}, nil
		}
	}

	var res cellResult
	for _, p := range resolved {
		res.pieces = append(res.pieces, geom.Clip(p, geom.Unit)...)
	}
	if len(res.pieces) == 0 {
		res.discards.ClipEmpty = 1
	}
	return res, nil
}
