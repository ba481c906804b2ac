// Package noise implements deterministic multi-octave 2D gradient noise
// (classic Perlin noise) used to displace polygon vertices.
//
// A [Field] is pure state derived from a seed: sampling never mutates it,
// so a field is safe for concurrent use, and two fields built from the
// same seed produce bit-for-bit identical values on every platform.
package noise

import "math"

// DecorrelationOffset shifts the sample position for the second
// displacement axis. Sampling one scalar field at (x, y) and at
// (x+offset, y+offset) yields two effectively independent values, which
// avoids the diagonal-only drift a shared sample would cause.
const DecorrelationOffset = 10

// Params control the fractal summation of octaves.
type Params struct {
	Octaves     int     `json:"octaves"`
	Persistence float64 `json:"persistence"`
	Lacunarity  float64 `json:"lacunarity"`
}

// DefaultParams returns the standard fractal settings: two octaves, each
// successive octave at half amplitude and double frequency.
func DefaultParams() Params {
	return Params{Octaves: 2, Persistence: 0.5, Lacunarity: 2.0}
}

// Valid reports whether the parameters describe a usable fractal sum.
func (p Params) Valid() bool {
	return p.Octaves >= 1 && p.Persistence > 0 && p.Lacunarity > 0
}

// Field is a seeded 2D gradient noise field. The zero value is not usable;
// construct with [New].
type Field struct {
	seed   uint64
	params Params
}

// New returns a field derived from seed. Invalid params are replaced with
// [DefaultParams].
func New(seed uint64, params Params) *Field {
	if !params.Valid() {
		params = DefaultParams()
	}
	return &Field{seed: seed, params: params}
}

// Params returns the fractal parameters the field was built with.
func (f *Field) Params() Params {
	return f.params
}

// Sample returns the fractal noise value at (x, y): the sum over octaves
// of gradient noise at frequency lacunarity^i and amplitude persistence^i.
// The sum is deliberately not normalized; with the default parameters the
// result stays well inside [-1.2, 1.2]. At integer lattice coordinates the
// value is exactly zero.
func (f *Field) Sample(x, y float64) float64 {
	var sum float64
	freq, amp := 1.0, 1.0
	for o := 0; o < f.params.Octaves; o++ {
		sum += amp * f.octave(x*freq, y*freq)
		freq *= f.params.Lacunarity
		amp *= f.params.Persistence
	}
	return sum
}

// Displace returns the noise displacement for a vertex at (x, y): the x
// offset is sampled at the vertex, the y offset at the decorrelation
// offset, both at the given spatial frequency and scaled by scale.
func (f *Field) Displace(x, y, scale, frequency float64) (dx, dy float64) {
	dx = f.Sample(x*frequency, y*frequency) * scale
	dy = f.Sample((x+DecorrelationOffset)*frequency, (y+DecorrelationOffset)*frequency) * scale
	return dx, dy
}

// octave evaluates one layer of classic Perlin noise: quintic-faded
// bilinear interpolation of the dot products between the four surrounding
// lattice gradients and the offsets to (x, y).
func (f *Field) octave(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	ix := int64(x0)
	iy := int64(y0)
	fx := x - x0
	fy := y - y0

	d00 := f.gradDot(ix, iy, fx, fy)
	d10 := f.gradDot(ix+1, iy, fx-1, fy)
	d01 := f.gradDot(ix, iy+1, fx, fy-1)
	d11 := f.gradDot(ix+1, iy+1, fx-1, fy-1)

	u := fade(fx)
	v := fade(fy)
	return lerp(lerp(d00, d10, u), lerp(d01, d11, u), v)
}

// gradDot returns the dot product of the lattice gradient at (ix, iy)
// with the offset vector (dx, dy).
func (f *Field) gradDot(ix, iy int64, dx, dy float64) float64 {
	const diag = math.Sqrt2 / 2
	switch f.latticeHash(ix, iy) & 7 {
	case 0:
		return dx
	case 1:
		return -dx
	case 2:
		return dy
	case 3:
		return -dy
	case 4:
		return diag * (dx + dy)
	case 5:
		return diag * (dx - dy)
	case 6:
		return diag * (-dx + dy)
	default:
		return diag * (-dx - dy)
	}
}

// latticeHash mixes the seed with a lattice coordinate pair using
// splitmix64 finalization. Pure integer math keeps the field identical
// across platforms.
func (f *Field) latticeHash(ix, iy int64) uint64 {
	h := f.seed
	h ^= uint64(ix) * 0x9e3779b97f4a7c15
	h ^= uint64(iy) * 0xbf58476d1ce4e5b9
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3. Its first and
// second derivatives vanish at 0 and 1, so octave values join smoothly
// across lattice cell boundaries.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
