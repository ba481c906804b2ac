package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/cellwarp/cellwarp/pkg/geom"
	"github.com/cellwarp/cellwarp/pkg/noise"
)

// warp runs the warp stage: every vertex of every polygon is displaced by
// the noise field, and the displaced shapes are repaired and re-clipped.
// Polygons are processed in parallel with results collected by input
// index, so output order follows input order. With Scale zero the input
// set comes back bit-for-bit unchanged.
func warp(ctx context.Context, field *noise.Field, in geom.PolygonSet, opts Options) (geom.PolygonSet, Stats, error) {
	var stats Stats

	results := make([]cellResult, len(in))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range in {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = warpPolygon(field, in[i], opts.Scale, opts.Frequency)
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
	stats.WarpedCount = len(set)
	return set, stats, nil
}

// warpPolygon displaces one polygon and re-establishes the domain
// invariants. A displaced ring that collapses is a warp failure; a ring
// that turned self-intersecting goes through repair before clipping,
// since the clipper requires simple input.
func warpPolygon(field *noise.Field, p geom.Polygon, scale, frequency float64) cellResult {
	warped := geom.Polygon{Outer: displaceRing(field, p.Outer, scale, frequency)}
	for _, h := range p.Holes {
		warped.Holes = append(warped.Holes, displaceRing(field, h, scale, frequency))
	}

	if len(warped.Outer.Dedup()) < 3 {
		return cellResult{discards: Discards{WarpFailed: 1}}
	}

	resolved := []geom.Polygon{warped}
	if !warped.Validate() {
		if resolved = geom.Repair(warped); resolved == nil {
			return cellResult{discards: Discards{WarpFailed: 1}}
		}
	}

	var res cellResult
	for _, poly := range resolved {
		res.pieces = append(res.pieces, geom.Clip(poly, geom.Unit)...)
	}
	if len(res.pieces) == 0 {
		res.discards.ClipEmpty = 1
	}
	return res
}

// displaceRing applies the noise displacement to every vertex. The x
// offset samples the field at the vertex, the y offset at the
// decorrelation offset; both scaled by scale.
func displaceRing(field *noise.Field, r geom.Ring, scale, frequency float64) geom.Ring {
	out := make(geom.Ring, len(r))
	for i, v := range r {
		dx, dy := field.Displace(v.X, v.Y, scale, frequency)
		out[i] = geom.Point{X: v.X + dx, Y: v.Y + dy}
	}
	return out
}
