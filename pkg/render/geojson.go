package render

import (
	"encoding/json"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// GeoJSON types, trimmed to what the sink emits. Coordinates follow the
// GeoJSON polygon convention: the first ring is the exterior, the rest
// are holes, and every ring repeats its first position at the end.
type (
	featureCollection struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}

	feature struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties"`
		Geometry   geometry       `json:"geometry"`
	}

	geometry struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
)

// GeoJSON serializes both sets as a FeatureCollection. Each polygon
// becomes one feature tagged with its set ("original" or "warped") and
// its index within that set.
func GeoJSON(original, warped geom.PolygonSet) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection"}
	for _, s := range []struct {
		name string
		set  geom.PolygonSet
	}{
		{"original", original},
		{"warped", warped},
	} {
		for i, poly := range s.set {
			fc.Features = append(fc.Features, feature{
				Type: "Feature",
				Properties: map[string]any{
					"set":   s.name,
					"index": i,
					"area":  poly.Area(),
				},
				Geometry: geometry{
					Type:        "Polygon",
					Coordinates: polygonCoords(poly),
				},
			})
		}
	}
	return json.Marshal(fc)
}

func polygonCoords(poly geom.Polygon) [][][2]float64 {
	coords := [][][2]float64{ringCoords(poly.Outer)}
	for _, h := range poly.Holes {
		coords = append(coords, ringCoords(h))
	}
	return coords
}

// ringCoords closes the ring explicitly, as GeoJSON requires.
func ringCoords(r geom.Ring) [][2]float64 {
	out := make([][2]float64, 0, len(r)+1)
	for _, v := range r {
		out = append(out, [2]float64{v.X, v.Y})
	}
	if len(r) > 0 {
		out = append(out, [2]float64{r[0].X, r[0].Y})
	}
	return out
}
