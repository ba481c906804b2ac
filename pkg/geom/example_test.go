package geom_test

import (
	"fmt"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// A polygon straddling the domain can clip into several disjoint pieces.
func ExampleClip() {
	// U-shape whose base lies below the unit square; only the two prongs
	// overlap the domain.
	u := geom.Polygon{Outer: geom.Ring{
		{X: 0.1, Y: -0.5}, {X: 0.9, Y: -0.5}, {X: 0.9, Y: 0.5}, {X: 0.7, Y: 0.5},
		{X: 0.7, Y: -0.2}, {X: 0.3, Y: -0.2}, {X: 0.3, Y: 0.5}, {X: 0.1, Y: 0.5},
	}}
	pieces := geom.Clip(u, geom.Unit)
	fmt.Printf("pieces: %d\n", len(pieces))
	for _, p := range pieces {
		fmt.Printf("area: %.2f\n", p.Area())
	}
	// Output:
	// pieces: 2
	// area: 0.10
	// area: 0.10
}

// A self-intersecting ring resolves into its simple lobes.
func ExampleRepair() {
	bowtie := geom.Polygon{Outer: geom.Ring{
		{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 1},
	}}
	lobes := geom.Repair(bowtie)
	fmt.Printf("lobes: %d\n", len(lobes))
	for _, p := range lobes {
		fmt.Printf("area: %.2f\n", p.Area())
	}
	// Output:
	// lobes: 2
	// area: 0.25
	// area: 0.25
}
