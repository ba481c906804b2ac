package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate deployments or
// tenants sharing one redis instance get disjoint key namespaces.
//
// Example usage:
//
//	// Per-environment keys on a shared instance
//	stagingKeyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// MosaicKey generates a prefixed key for a generated mosaic.
func (k *ScopedKeyer) MosaicKey(opts MosaicKeyOpts) string {
	return k.prefix + k.inner.MosaicKey(opts)
}

// WarpKey generates a prefixed key for a warped mosaic.
func (k *ScopedKeyer) WarpKey(mosaicHash string, opts WarpKeyOpts) string {
	return k.prefix + k.inner.WarpKey(mosaicHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(contentHash, opts)
}
