package geom

import (
	"math"
	"testing"
)

func square(minX, minY, maxX, maxY float64) Ring {
	return Ring{{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}}
}

func TestSignedArea(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want float64
	}{
		{"Empty", nil, 0},
		{"TwoPoints", Ring{{0, 0}, {1, 1}}, 0},
		{"UnitSquareCCW", square(0, 0, 1, 1), 1},
		{"UnitSquareCW", square(0, 0, 1, 1).Reversed(), -1},
		{"Triangle", Ring{{0, 0}, {2, 0}, {0, 2}}, 2},
		{"Collinear", Ring{{0, 0}, {1, 1}, {2, 2}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ring.SignedArea(); math.Abs(got-tt.want) > Eps {
				t.Errorf("SignedArea() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want int
	}{
		{"NoDuplicates", square(0, 0, 1, 1), 4},
		{"ConsecutiveDuplicate", Ring{{0, 0}, {0, 0}, {1, 0}, {1, 1}}, 3},
		{"WrapAroundDuplicate", Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, 3},
		{"NearEqual", Ring{{0, 0}, {Eps / 2, 0}, {1, 0}, {1, 1}}, 3},
		{"AllSame", Ring{{1, 1}, {1, 1}, {1, 1}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.ring.Dedup()); got != tt.want {
				t.Errorf("len(Dedup()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	ring := square(0, 0, 1, 1)
	tests := []struct {
		name string
		pt   Point
		want bool
	}{
		{"Center", Point{0.5, 0.5}, true},
		{"Outside", Point{1.5, 0.5}, false},
		{"OnEdge", Point{1, 0.5}, true},
		{"OnVertex", Point{0, 0}, true},
		{"JustOutside", Point{1 + 1e-6, 0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ring.ContainsPoint(tt.pt); got != tt.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tt.pt, got, tt.want)
			}
		})
	}
}

func TestContainsPointConcave(t *testing.T) {
	// U-shape opening upward; the notch between the prongs is outside.
	u := Ring{{0, 0}, {3, 0}, {3, 2}, {2, 2}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}
	if !u.ContainsPoint(Point{0.5, 1.5}) {
		t.Error("left prong interior should be inside")
	}
	if u.ContainsPoint(Point{1.5, 1.5}) {
		t.Error("notch should be outside")
	}
	if !u.ContainsPoint(Point{1.5, 0.5}) {
		t.Error("base should be inside")
	}
}

func TestIsSimple(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		want bool
	}{
		{"Square", square(0, 0, 1, 1), true},
		{"Triangle", Ring{{0, 0}, {1, 0}, {0, 1}}, true},
		{"Bowtie", Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}}, false},
		{"RepeatedVertex", Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}, {0, 1}, {-1, 0.5}}, false},
		{"TooShort", Ring{{0, 0}, {1, 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ring.IsSimple(); got != tt.want {
				t.Errorf("IsSimple() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonValidate(t *testing.T) {
	tests := []struct {
		name string
		poly Polygon
		want bool
	}{
		{"SimpleSquare", Polygon{Outer: square(0, 0, 1, 1)}, true},
		{"SelfIntersecting", Polygon{Outer: Ring{{0, 0}, {1, 1}, {1, 0}, {0, 1}}}, false},
		{"ZeroArea", Polygon{Outer: Ring{{0, 0}, {1, 0}, {2, 0}}}, false},
		{
			"WithHole",
			Polygon{Outer: square(0, 0, 4, 4), Holes: []Ring{square(1, 1, 2, 2).Reversed()}},
			true,
		},
		{
			"HoleOutsideOuter",
			Polygon{Outer: square(0, 0, 1, 1), Holes: []Ring{square(2, 2, 3, 3).Reversed()}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.poly.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonArea(t *testing.T) {
	p := Polygon{
		Outer: square(0, 0, 4, 4),
		Holes: []Ring{square(1, 1, 2, 2).Reversed()},
	}
	if got, want := p.Area(), 15.0; math.Abs(got-want) > Eps {
		t.Errorf("Area() = %v, want %v", got, want)
	}
}

func TestNormalize(t *testing.T) {
	p := Polygon{
		Outer: square(0, 0, 1, 1).Reversed(),           // clockwise
		Holes: []Ring{square(0.2, 0.2, 0.4, 0.4)},      // counterclockwise
	}
	n := p.Normalize()
	if n.Outer.SignedArea() <= 0 {
		t.Error("outer ring should be counterclockwise after Normalize")
	}
	if n.Holes[0].SignedArea() >= 0 {
		t.Error("hole should be clockwise after Normalize")
	}
}

func TestRepresentativePoint(t *testing.T) {
	rings := []Ring{
		square(0, 0, 1, 1),
		{{0, 0}, {3, 0}, {3, 2}, {2, 2}, {2, 1}, {1, 1}, {1, 2}, {0, 2}}, // concave U
		{{0, 0}, {10, 0}, {10, 0.1}},                                     // thin sliver
	}
	for i, r := range rings {
		if p := r.RepresentativePoint(); !r.ContainsPoint(p) {
			t.Errorf("ring %d: representative point %v not inside ring", i, p)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Unit
	tests := []struct {
		pt   Point
		want bool
	}{
		{Point{0.5, 0.5}, true},
		{Point{0, 0}, true},
		{Point{1, 1}, true},
		{Point{1 + Eps/2, 0.5}, true}, // within tolerance
		{Point{1.1, 0.5}, false},
		{Point{-0.1, 0.5}, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.pt); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}
