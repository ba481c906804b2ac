// Package cache provides the caching layer for pipeline results and
// rendered artifacts.
//
// A [Cache] stores opaque byte blobs under string keys with optional
// expiry. Three backends ship with the application: [FileCache] for CLI
// usage, [RedisCache] for server deployments, and [NullCache] to disable
// caching. A [Keyer] derives stable keys from the option sets that
// parameterize each pipeline stage, so any change to an option yields a
// different key.
package cache

import (
	"context"
	"time"
)

// Default TTLs per key family. Mosaic and warp results are cheap to
// recompute, artifacts less so.
const (
	MosaicTTL   = 24 * time.Hour
	WarpTTL     = 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MosaicKeyOpts identify a generated (unwarped) mosaic: the seed and
// point count fully determine the diagram and the assembled polygons.
type MosaicKeyOpts struct {
	Seed   uint64
	Points int
}

// WarpKeyOpts identify a warp of a given mosaic.
type WarpKeyOpts struct {
	Scale       float64
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// ArtifactKeyOpts identify a rendered artifact of a given result.
type ArtifactKeyOpts struct {
	Format string
	Width  int
	Height int
}

// Keyer generates cache keys for the pipeline stages.
type Keyer interface {
	// MosaicKey generates a key for a generated mosaic.
	MosaicKey(opts MosaicKeyOpts) string

	// WarpKey generates a key for a warped mosaic. mosaicHash is the
	// content hash of the serialized input set.
	WarpKey(mosaicHash string, opts WarpKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact. contentHash is
	// the content hash of the serialized result.
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the option structs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// MosaicKey generates a key for a generated mosaic.
func (k *DefaultKeyer) MosaicKey(opts MosaicKeyOpts) string {
	return hashKey("mosaic", opts)
}

// WarpKey generates a key for a warped mosaic.
func (k *DefaultKeyer) WarpKey(mosaicHash string, opts WarpKeyOpts) string {
	return hashKey("warp", mosaicHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}
