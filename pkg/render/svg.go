package render

import (
	"bytes"
	"fmt"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// SVG renders the original and warped sets as a two-panel SVG document.
// With [WithWarpedOnly], only the warped set is drawn. Holes are rendered
// with the even-odd fill rule.
func SVG(original, warped geom.PolygonSet, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	panels := r.panels()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		r.width, r.height, r.width, r.height)
	fmt.Fprintf(&buf, `  <rect width="%d" height="%d" fill="#fafafa"/>`+"\n", r.width, r.height)

	sets := []geom.PolygonSet{original, warped}
	if r.warpedOnly {
		sets = sets[1:]
	}
	for pi, set := range sets {
		renderPanel(&buf, panels[pi], set, r.strokeWidth)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderPanel(buf *bytes.Buffer, p panel, set geom.PolygonSet, strokeWidth float64) {
	fmt.Fprintf(buf, `  <g>`+"\n")
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#ffffff" stroke="#cccccc"/>`+"\n",
		p.x, p.y, p.size, p.size)
	for i, poly := range set {
		cr, cg, cb := fillColor(i)
		fmt.Fprintf(buf, `    <path d="%s" fill="%s" fill-rule="evenodd" stroke="#333333" stroke-width="%.1f"/>`+"\n",
			pathData(p, poly), hexColor(cr, cg, cb), strokeWidth)
	}
	buf.WriteString("  </g>\n")
}

// pathData builds the SVG path for a polygon: one closed subpath for the
// outer ring and one per hole.
func pathData(p panel, poly geom.Polygon) string {
	var buf bytes.Buffer
	writeRing(&buf, p, poly.Outer)
	for _, h := range poly.Holes {
		writeRing(&buf, p, h)
	}
	return buf.String()
}

func writeRing(buf *bytes.Buffer, p panel, ring geom.Ring) {
	for i, v := range ring {
		x, y := p.project(v)
		switch {
		case i == 0 && buf.Len() > 0:
			fmt.Fprintf(buf, " M%.2f %.2f", x, y)
		case i == 0:
			fmt.Fprintf(buf, "M%.2f %.2f", x, y)
		default:
			fmt.Fprintf(buf, " L%.2f %.2f", x, y)
		}
	}
	buf.WriteString("Z")
}
