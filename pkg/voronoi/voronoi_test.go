package voronoi

import (
	"testing"

	"github.com/cellwarp/cellwarp/pkg/geom"
	"github.com/cellwarp/cellwarp/pkg/sites"
)

func fourCorners() []geom.Point {
	return []geom.Point{
		{X: 0.25, Y: 0.25}, {X: 0.75, Y: 0.25},
		{X: 0.25, Y: 0.75}, {X: 0.75, Y: 0.75},
	}
}

func TestBuildFourGenerators(t *testing.T) {
	d, err := Build(fourCorners(), sites.BorderSentinels())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(d.Cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(d.Cells))
	}
	for i, cell := range d.Cells {
		if len(cell) < 3 {
			t.Errorf("cell %d has %d vertices, want >= 3", i, len(cell))
		}
		for _, idx := range cell {
			if idx == Unbounded {
				t.Errorf("cell %d is unbounded despite border sentinels", i)
				continue
			}
			if idx < 0 || idx >= len(d.Vertices) {
				t.Errorf("cell %d references vertex %d, table has %d", i, idx, len(d.Vertices))
			}
		}
	}
}

func TestBuildWithoutGuardsIsUnbounded(t *testing.T) {
	d, err := Build(fourCorners(), nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	unbounded := 0
	for _, cell := range d.Cells {
		for _, idx := range cell {
			if idx == Unbounded {
				unbounded++
				break
			}
		}
	}
	if unbounded != 4 {
		t.Errorf("%d cells unbounded, want all 4", unbounded)
	}
}

func TestBuildDeterministic(t *testing.T) {
	gens := sites.Generate(10, 20)
	guards := sites.BorderSentinels()
	a, err := Build(gens, guards)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b, err := Build(gens, guards)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(a.Cells) != len(b.Cells) || len(a.Vertices) != len(b.Vertices) {
		t.Fatalf("diagram shape differs between runs")
	}
	for i := range a.Cells {
		if len(a.Cells[i]) != len(b.Cells[i]) {
			t.Fatalf("cell %d differs between runs", i)
		}
		for j := range a.Cells[i] {
			if a.Cells[i][j] != b.Cells[i][j] {
				t.Fatalf("cell %d vertex %d differs between runs", i, j)
			}
		}
	}
	for i := range a.Vertices {
		if a.Vertices[i] != b.Vertices[i] {
			t.Fatalf("vertex %d differs between runs", i)
		}
	}
}

func TestBuildSharedVertices(t *testing.T) {
	// Adjacent cells share boundary vertices; the table must intern them.
	d, err := Build(fourCorners(), sites.BorderSentinels())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	counts := make(map[int]int)
	for _, cell := range d.Cells {
		for _, idx := range cell {
			counts[idx]++
		}
	}
	shared := 0
	for _, c := range counts {
		if c > 1 {
			shared++
		}
	}
	if shared == 0 {
		t.Error("no shared vertices between adjacent cells; interning is broken")
	}
}
