// Package render turns polygon sets into artifacts: SVG and PNG images
// showing the original and warped mosaics side by side, and a GeoJSON
// document for downstream tooling.
//
// All sinks are pure functions of their inputs, so rendered artifacts are
// safe to cache under a content-hash key.
package render

import (
	"fmt"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// Default artifact dimensions, sized for two square panels side by side.
const (
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	width       int
	height      int
	strokeWidth float64
	warpedOnly  bool
}

// WithSize sets the artifact dimensions in pixels.
func WithSize(width, height int) Option {
	return func(r *renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithStrokeWidth sets the polygon outline width in pixels.
func WithStrokeWidth(w float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.strokeWidth = w
		}
	}
}

// WithWarpedOnly renders a single panel containing just the warped set.
func WithWarpedOnly() Option {
	return func(r *renderer) { r.warpedOnly = true }
}

func newRenderer(opts ...Option) renderer {
	r := renderer{
		width:       DefaultWidth,
		height:      DefaultHeight,
		strokeWidth: 1.5,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// panel describes the pixel region one polygon set is drawn into.
type panel struct {
	x, y, size float64
}

// panels lays out one or two square panels inside the artifact, with a
// small uniform margin.
func (r *renderer) panels() []panel {
	const margin = 10.0
	n := 2
	if r.warpedOnly {
		n = 1
	}
	w := float64(r.width)
	h := float64(r.height)
	size := h - 2*margin
	if max := (w - margin*float64(n+1)) / float64(n); max < size {
		size = max
	}
	out := make([]panel, n)
	for i := range out {
		out[i] = panel{
			x:    margin + float64(i)*(size+margin),
			y:    margin,
			size: size,
		}
	}
	return out
}

// project maps a domain point into panel pixel space. The domain y axis
// points up, the image y axis down.
func (p panel) project(pt geom.Point) (x, y float64) {
	return p.x + pt.X*p.size, p.y + (1-pt.Y)*p.size
}

// fillColor assigns each polygon a deterministic pastel from its index.
func fillColor(i int) (r, g, b uint8) {
	// Golden-angle hue steps keep adjacent indices visually distinct.
	h := float64(i%360) * 137.508
	for h >= 360 {
		h -= 360
	}
	return hslToRGB(h, 0.45, 0.72)
}

// hslToRGB converts an HSL color (h in degrees) to 8-bit RGB.
func hslToRGB(h, s, l float64) (uint8, uint8, uint8) {
	c := (1 - abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - abs(mod2(hp)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func mod2(v float64) float64 {
	for v >= 2 {
		v -= 2
	}
	return v
}

// hexColor formats an RGB triple as #rrggbb.
func hexColor(r, g, b uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}
