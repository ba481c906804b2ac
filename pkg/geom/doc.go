// Package geom provides the plane geometry the cellwarp pipeline is built
// on: rings, polygons with holes, rectangle clipping, and self-intersection
// repair.
//
// # Overview
//
// The pipeline turns raw Voronoi cells into polygons, clips them to the
// unit square, warps their vertices with noise, and clips again. This
// package supplies the two non-trivial operations in that chain:
//
//   - [Clip] intersects a polygon with an axis-aligned rectangle and
//     returns every disjoint piece of the intersection. Clipping that
//     fragments a polygon into several pieces is a normal outcome.
//   - [Repair] resolves a self-intersecting ring into its simple loops,
//     with nested loops becoming holes, mirroring the self-union behavior
//     of a zero-width buffer.
//
// # Conventions
//
// Rings are stored without a duplicated closing vertex; the edge from the
// last vertex back to the first is implicit. Outer rings are oriented
// counterclockwise and holes clockwise ([Polygon.Normalize] enforces
// this). All tolerance decisions in the package go through the single
// constant [Eps], so repeated clip and repair passes classify boundary
// points the same way every time.
package geom
