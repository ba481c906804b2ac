package geom

import (
	"math"
	"testing"
)

func TestRepairBowtie(t *testing.T) {
	// Figure-eight crossing at (0.5, 0.5); resolves into two triangles.
	p := Polygon{Outer: Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}}}
	got := Repair(p)
	if len(got) != 2 {
		t.Fatalf("got %d polygons, want 2", len(got))
	}
	for _, poly := range got {
		if !poly.Validate() {
			t.Errorf("repair produced invalid polygon %v", poly)
		}
		if a := poly.Area(); math.Abs(a-0.25) > 1e-9 {
			t.Errorf("lobe area = %v, want 0.25", a)
		}
		found := false
		for _, v := range poly.Outer {
			if v.Eq(Point{0.5, 0.5}) {
				found = true
			}
		}
		if !found {
			t.Errorf("lobe %v missing the crossing point", poly.Outer)
		}
	}
}

func TestRepairUnequalLobes(t *testing.T) {
	// Hourglass with a large and a small lobe, crossing at (1.2, 1.2).
	p := Polygon{Outer: Ring{{0, 0}, {2, 2}, {2, 0}, {0, 3}}}
	got := Repair(p)
	if len(got) != 2 {
		t.Fatalf("got %d polygons, want 2", len(got))
	}
	var total float64
	for _, poly := range got {
		if !poly.Validate() {
			t.Errorf("repair produced invalid polygon %v", poly)
		}
		total += poly.Area()
	}
	if math.Abs(total-2.6) > 1e-9 {
		t.Errorf("total area = %v, want 2.6", total)
	}
}

func TestRepairValidPassthrough(t *testing.T) {
	p := Polygon{Outer: square(0, 0, 1, 1)}
	got := Repair(p)
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if a := got[0].Area(); math.Abs(a-1) > 1e-9 {
		t.Errorf("area = %v, want 1", a)
	}
}

func TestRepairDegenerate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
	}{
		{"Collinear", Polygon{Outer: Ring{{0, 0}, {1, 0}, {2, 0}}}},
		{"TwoPoints", Polygon{Outer: Ring{{0, 0}, {1, 1}}}},
		{"AllSamePoint", Polygon{Outer: Ring{{1, 1}, {1, 1}, {1, 1}, {1, 1}}}},
		{"ZeroAreaSpike", Polygon{Outer: Ring{{0, 0}, {1, 0}, {0, 0}, {1, 0}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repair(tt.poly); got != nil {
				t.Errorf("Repair() = %v, want nil", got)
			}
		})
	}
}

func TestRepairSelfIntersectingHole(t *testing.T) {
	// Valid outer ring with a bowtie hole: the hole splits into two lobes,
	// both punched out of the outer.
	p := Polygon{
		Outer: square(0, 0, 10, 10),
		Holes: []Ring{{{2, 2}, {4, 4}, {4, 2}, {2, 4}}},
	}
	got := Repair(p)
	if len(got) != 1 {
		t.Fatalf("got %d polygons, want 1", len(got))
	}
	if len(got[0].Holes) != 2 {
		t.Fatalf("got %d holes, want 2", len(got[0].Holes))
	}
	if a, want := got[0].Area(), 98.0; math.Abs(a-want) > 1e-9 {
		t.Errorf("area = %v, want %v", a, want)
	}
}

func TestSplitLoopsSimpleRing(t *testing.T) {
	loops := splitLoops(square(0, 0, 1, 1))
	if len(loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(loops))
	}
	if len(loops[0]) != 4 {
		t.Errorf("loop has %d vertices, want 4", len(loops[0]))
	}
}

func TestRepairThenClip(t *testing.T) {
	// A bowtie centered on the domain corner-to-corner: repair splits it,
	// clipping then trims each lobe to a quadrant triangle.
	p := Polygon{Outer: Ring{{-0.5, -0.5}, {1.5, 1.5}, {1.5, -0.5}, {-0.5, 1.5}}}
	repaired := Repair(p)
	if len(repaired) != 2 {
		t.Fatalf("repair: got %d polygons, want 2", len(repaired))
	}
	var pieces []Polygon
	for _, poly := range repaired {
		pieces = append(pieces, Clip(poly, Unit)...)
	}
	if len(pieces) != 2 {
		t.Fatalf("clip: got %d pieces, want 2", len(pieces))
	}
	for _, piece := range pieces {
		if a := piece.Area(); math.Abs(a-0.25) > 1e-9 {
			t.Errorf("piece area = %v, want 0.25", a)
		}
	}
}
