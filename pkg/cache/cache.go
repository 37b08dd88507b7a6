// Package cache stores rendered overlay artifacts.
//
// # Backends
//
//   - [NullCache]: stores nothing; used with --no-cache.
//   - [FileCache]: JSON entries with expiry under a local directory, sharded
//     by key hash. The CLI default.
//   - [RedisCache]: a shared Redis instance, for running several API servers
//     against one cache.
//
// # Keys
//
// Keys are built by a [Keyer] so backends never see raw inputs. Overlay keys
// hash the normalised grid input; artifact keys hash an overlay hash together
// with the output options. [ScopedKeyer] adds a namespace prefix.
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(cache.Hash([]byte(keyer.OverlayKey(in))), cache.ArtifactKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data
//	}
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	// TTLArtifact applies to rendered SVG/PNG/PDF/JSON outputs. Rendering is
	// deterministic, so entries only expire to bound disk usage.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A zero ttl in Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
