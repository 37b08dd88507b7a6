package cache

import "github.com/matzehuels/gridkit/pkg/grid"

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
// Example usage:
//
//	// Separate staging entries in a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// OverlayKey generates a prefixed overlay key.
func (k *ScopedKeyer) OverlayKey(in grid.Input) string {
	return k.prefix + k.inner.OverlayKey(in)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(overlayHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(overlayHash, opts)
}
