package noise

import (
	"math"
	"testing"
)

func TestSampleDeterministic(t *testing.T) {
	a := New(42, DefaultParams())
	b := New(42, DefaultParams())
	for x := -2.0; x <= 2.0; x += 0.13 {
		for y := -2.0; y <= 2.0; y += 0.17 {
			va, vb := a.Sample(x, y), b.Sample(x, y)
			if va != vb {
				t.Fatalf("Sample(%v, %v): %v != %v", x, y, va, vb)
			}
		}
	}
}

func TestSampleSeedsDiffer(t *testing.T) {
	a := New(1, DefaultParams())
	b := New(2, DefaultParams())
	same := 0
	total := 0
	for x := 0.05; x < 3; x += 0.31 {
		for y := 0.05; y < 3; y += 0.29 {
			total++
			if a.Sample(x, y) == b.Sample(x, y) {
				same++
			}
		}
	}
	if same == total {
		t.Error("different seeds produced identical fields")
	}
}

func TestSampleRange(t *testing.T) {
	f := New(7, DefaultParams())
	for x := -5.0; x <= 5.0; x += 0.037 {
		for y := -5.0; y <= 5.0; y += 0.041 {
			v := f.Sample(x, y)
			if v < -1.2 || v > 1.2 {
				t.Fatalf("Sample(%v, %v) = %v, outside [-1.2, 1.2]", x, y, v)
			}
		}
	}
}

func TestSampleZeroAtLattice(t *testing.T) {
	f := New(3, DefaultParams())
	for ix := -3; ix <= 3; ix++ {
		for iy := -3; iy <= 3; iy++ {
			if v := f.Sample(float64(ix), float64(iy)); v != 0 {
				t.Errorf("Sample(%d, %d) = %v, want 0", ix, iy, v)
			}
		}
	}
}

func TestSampleContinuity(t *testing.T) {
	// Values on either side of a lattice cell boundary must nearly agree.
	f := New(11, DefaultParams())
	const eps = 1e-7
	for i := -2; i <= 2; i++ {
		x := float64(i)
		left := f.Sample(x-eps, 0.37)
		right := f.Sample(x+eps, 0.37)
		if math.Abs(left-right) > 1e-5 {
			t.Errorf("discontinuity at x=%v: %v vs %v", x, left, right)
		}
	}
}

func TestDisplaceZeroScale(t *testing.T) {
	f := New(10, DefaultParams())
	dx, dy := f.Displace(0.3, 0.7, 0, 3.0)
	if dx != 0 || dy != 0 {
		t.Errorf("Displace with zero scale = (%v, %v), want (0, 0)", dx, dy)
	}
}

func TestDisplaceAxesDecorrelated(t *testing.T) {
	f := New(10, DefaultParams())
	same := 0
	total := 0
	for x := 0.05; x < 1; x += 0.09 {
		for y := 0.05; y < 1; y += 0.11 {
			dx, dy := f.Displace(x, y, 0.05, 3.0)
			total++
			if dx == dy {
				same++
			}
		}
	}
	if same == total {
		t.Error("dx and dy are identical everywhere; axes are not decorrelated")
	}
}

func TestParamsValid(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   bool
	}{
		{"Default", DefaultParams(), true},
		{"SingleOctave", Params{Octaves: 1, Persistence: 0.5, Lacunarity: 2}, true},
		{"ZeroOctaves", Params{Octaves: 0, Persistence: 0.5, Lacunarity: 2}, false},
		{"NegativePersistence", Params{Octaves: 2, Persistence: -1, Lacunarity: 2}, false},
		{"ZeroLacunarity", Params{Octaves: 2, Persistence: 0.5, Lacunarity: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.params.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewReplacesInvalidParams(t *testing.T) {
	f := New(1, Params{})
	if f.Params() != DefaultParams() {
		t.Errorf("Params() = %+v, want defaults", f.Params())
	}
}
