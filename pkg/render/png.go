package render

import (
	"bytes"

	"github.com/fogleman/gg"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// PNG rasterizes the original and warped sets as a two-panel PNG image.
// With [WithWarpedOnly], only the warped set is drawn.
func PNG(original, warped geom.PolygonSet, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	panels := r.panels()

	dc := gg.NewContext(r.width, r.height)
	dc.SetRGB255(0xfa, 0xfa, 0xfa)
	dc.Clear()

	sets := []geom.PolygonSet{original, warped}
	if r.warpedOnly {
		sets = sets[1:]
	}
	for pi, set := range sets {
		drawPanel(dc, panels[pi], set, r.strokeWidth)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawPanel(dc *gg.Context, p panel, set geom.PolygonSet, strokeWidth float64) {
	// Panel background and border.
	dc.SetRGB255(0xff, 0xff, 0xff)
	dc.DrawRectangle(p.x, p.y, p.size, p.size)
	dc.Fill()
	dc.SetRGB255(0xcc, 0xcc, 0xcc)
	dc.SetLineWidth(1)
	dc.DrawRectangle(p.x, p.y, p.size, p.size)
	dc.Stroke()

	for i, poly := range set {
		tracePolygon(dc, p, poly)
		cr, cg, cb := fillColor(i)
		dc.SetFillRule(gg.FillRuleEvenOdd)
		dc.SetRGB255(int(cr), int(cg), int(cb))
		dc.FillPreserve()
		dc.SetRGB255(0x33, 0x33, 0x33)
		dc.SetLineWidth(strokeWidth)
		dc.Stroke()
	}
}

// tracePolygon adds the polygon's rings as subpaths; the even-odd fill
// rule punches the holes out.
func tracePolygon(dc *gg.Context, p panel, poly geom.Polygon) {
	traceRing(dc, p, poly.Outer)
	for _, h := range poly.Holes {
		traceRing(dc, p, h)
	}
}

func traceRing(dc *gg.Context, p panel, ring geom.Ring) {
	for i, v := range ring {
		x, y := p.project(v)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
}
