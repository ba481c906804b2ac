// Package pkg provides the core libraries for cellwarp mosaic generation.
//
// # Overview
//
// Cellwarp turns a seeded point set into a Voronoi mosaic of the unit
// square, warps the cell boundaries with Perlin noise, and renders the
// result. The pkg directory is organized into these areas:
//
//  1. [geom] - Polygon primitives, clipping, and self-intersection repair
//  2. [sites] - Deterministic generator point placement
//  3. [voronoi] - Voronoi diagram construction and cell extraction
//  4. [noise] - Perlin noise fields for vertex displacement
//  5. [pipeline] - Orchestration (generate → warp → render) with caching
//  6. [render] - SVG, PNG, and GeoJSON sinks
//  7. [cache] - File and Redis artifact caches with content-hash keys
//
// # Architecture
//
// The typical data flow through cellwarp:
//
//	Seed + point count
//	         ↓
//	    [sites] package (place generators)
//	         ↓
//	    [voronoi] package (raw cells)
//	         ↓
//	    [geom] package (assemble, repair, clip to the unit square)
//	         ↓
//	    [noise] package (displace vertices)
//	         ↓
//	    [render] package (SVG/PNG/GeoJSON output)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Seed:    10,
//	    Points:  20,
//	    Scale:   0.05,
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts["svg"]
//
// Every stage is deterministic: the same options always produce the same
// polygons and the same artifact bytes.
package pkg
