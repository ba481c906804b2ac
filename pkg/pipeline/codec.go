package pipeline

import (
	"encoding/json"

	"github.com/cellwarp/cellwarp/pkg/geom"
)

// MarshalSet serializes a polygon set for caching and content hashing.
// The encoding is canonical: the same set always produces the same bytes,
// which makes content hashes usable as cache keys.
func MarshalSet(set geom.PolygonSet) ([]byte, error) {
	return json.Marshal(set)
}

// UnmarshalSet deserializes a polygon set produced by MarshalSet.
func UnmarshalSet(data []byte) (geom.PolygonSet, error) {
	var set geom.PolygonSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, err
	}
	return set, nil
}
