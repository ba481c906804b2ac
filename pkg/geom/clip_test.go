package geom

import (
	"math"
	"testing"
)

func totalArea(polys []Polygon) float64 {
	var a float64
	for _, p := range polys {
		a += p.Area()
	}
	return a
}

func TestClip(t *testing.T) {
	tests := []struct {
		name       string
		poly       Polygon
		wantPieces int
		wantArea   float64
	}{
		{
			name:       "FullyInside",
			poly:       Polygon{Outer: square(0.2, 0.2, 0.8, 0.8)},
			wantPieces: 1,
			wantArea:   0.36,
		},
		{
			name:       "HalfOverlap",
			poly:       Polygon{Outer: square(0.5, 0.25, 1.5, 0.75)},
			wantPieces: 1,
			wantArea:   0.25,
		},
		{
			name:       "Disjoint",
			poly:       Polygon{Outer: square(2, 2, 3, 3)},
			wantPieces: 0,
			wantArea:   0,
		},
		{
			name:       "SurroundsDomain",
			poly:       Polygon{Outer: square(-1, -1, 2, 2)},
			wantPieces: 1,
			wantArea:   1,
		},
		{
			name: "CornerCut",
			poly: Polygon{Outer: Ring{{0.5, -0.25}, {0.5, 0.5}, {-0.25, 0.5}}},
			// The hypotenuse chords off the bottom-left corner.
			wantPieces: 1,
			wantArea:   0.21875,
		},
		{
			name: "UShapeTwoPieces",
			// U opening upward, base below the domain: only the prongs
			// intersect, producing two disjoint pieces.
			poly: Polygon{Outer: Ring{
				{0.1, -0.5}, {0.9, -0.5}, {0.9, 0.5}, {0.7, 0.5},
				{0.7, -0.2}, {0.3, -0.2}, {0.3, 0.5}, {0.1, 0.5},
			}},
			wantPieces: 2,
			wantArea:   0.2,
		},
		{
			name: "TouchingEdgeOnly",
			// Shares the x=1 boundary segment but has no interior overlap.
			poly:       Polygon{Outer: square(1, 0.25, 1.5, 0.75)},
			wantPieces: 0,
			wantArea:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clip(tt.poly, Unit)
			if len(got) != tt.wantPieces {
				t.Fatalf("Clip() returned %d pieces, want %d: %v", len(got), tt.wantPieces, got)
			}
			if a := totalArea(got); math.Abs(a-tt.wantArea) > 1e-9 {
				t.Errorf("total area = %v, want %v", a, tt.wantArea)
			}
			for _, p := range got {
				for _, v := range p.Outer {
					if !Unit.Contains(v) {
						t.Errorf("vertex %v outside domain", v)
					}
				}
				if !p.Validate() {
					t.Errorf("clip produced invalid polygon %v", p)
				}
			}
		})
	}
}

func TestClipInsideIsIdentity(t *testing.T) {
	// A polygon already inside the domain must come back bit-identical;
	// the warp stage relies on this for zero-displacement idempotence.
	p := Polygon{Outer: Ring{
		{0.123456789, 0.2}, {0.7, 0.30000000001}, {0.65, 0.8}, {0.2, 0.75},
	}}
	got := Clip(p, Unit)
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	if len(got[0].Outer) != len(p.Outer) {
		t.Fatalf("vertex count changed: %d != %d", len(got[0].Outer), len(p.Outer))
	}
	for i, v := range got[0].Outer {
		if v != p.Outer[i] {
			t.Errorf("vertex %d changed: %v != %v", i, v, p.Outer[i])
		}
	}
}

func TestClipPreservesHoles(t *testing.T) {
	p := Polygon{
		Outer: square(-0.5, -0.5, 1.5, 1.5),
		Holes: []Ring{square(0.25, 0.25, 0.75, 0.75).Reversed()},
	}
	got := Clip(p, Unit)
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	if len(got[0].Holes) != 1 {
		t.Fatalf("got %d holes, want 1", len(got[0].Holes))
	}
	if a, want := got[0].Area(), 0.75; math.Abs(a-want) > 1e-9 {
		t.Errorf("area = %v, want %v", a, want)
	}
}

func TestClipHoleStraddlingBoundary(t *testing.T) {
	// The hole pokes out of the domain; only its inside portion survives.
	p := Polygon{
		Outer: square(-0.5, -0.5, 1.5, 1.5),
		Holes: []Ring{square(0.5, 0.25, 1.5, 0.75).Reversed()},
	}
	got := Clip(p, Unit)
	if len(got) != 1 {
		t.Fatalf("got %d pieces, want 1", len(got))
	}
	if a, want := got[0].Area(), 1-0.25; math.Abs(a-want) > 1e-9 {
		t.Errorf("area = %v, want %v", a, want)
	}
}

func TestClipIdempotent(t *testing.T) {
	polys := []Polygon{
		{Outer: square(0.5, 0.25, 1.5, 0.75)},
		{Outer: Ring{{0.5, -0.25}, {0.5, 0.5}, {-0.25, 0.5}}},
		{Outer: square(-1, -1, 2, 2)},
	}
	for i, p := range polys {
		first := Clip(p, Unit)
		for _, piece := range first {
			again := Clip(piece, Unit)
			if len(again) != 1 {
				t.Fatalf("poly %d: re-clip returned %d pieces, want 1", i, len(again))
			}
			if math.Abs(again[0].Area()-piece.Area()) > 1e-9 {
				t.Errorf("poly %d: re-clip changed area %v -> %v", i, piece.Area(), again[0].Area())
			}
		}
	}
}

func TestLiangBarsky(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Point
		wantOK bool
		t0, t1 float64
	}{
		{"FullyInside", Point{0.2, 0.2}, Point{0.8, 0.8}, true, 0, 1},
		{"CrossingLeft", Point{-0.5, 0.5}, Point{0.5, 0.5}, true, 0.5, 1},
		{"CrossingThrough", Point{-0.5, 0.5}, Point{1.5, 0.5}, true, 0.25, 0.75},
		{"Miss", Point{-0.5, 2}, Point{1.5, 2}, false, 0, 0},
		{"DiagonalCorner", Point{-0.25, 0.5}, Point{0.5, -0.25}, true, 1.0 / 3, 2.0 / 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := liangBarsky(tt.a, tt.b, Unit)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if math.Abs(t0-tt.t0) > 1e-12 || math.Abs(t1-tt.t1) > 1e-12 {
				t.Errorf("interval = [%v, %v], want [%v, %v]", t0, t1, tt.t0, tt.t1)
			}
		})
	}
}

func TestPerimCoord(t *testing.T) {
	tests := []struct {
		pt   Point
		want float64
	}{
		{Point{0, 0}, 0},
		{Point{0.5, 0}, 0.5},
		{Point{1, 0}, 1},
		{Point{1, 0.5}, 1.5},
		{Point{1, 1}, 2},
		{Point{0.5, 1}, 2.5},
		{Point{0, 1}, 3},
		{Point{0, 0.5}, 3.5},
	}
	for _, tt := range tests {
		if got := Unit.perimCoord(tt.pt); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("perimCoord(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}
