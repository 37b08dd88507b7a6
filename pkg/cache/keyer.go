package cache

import "github.com/matzehuels/gridkit/pkg/grid"

// keyVersion is mixed into every hashed key. Bump it when the overlay
// algorithm or an output format changes so stale entries are never served.
const keyVersion = 1

// Keyer builds cache keys.
type Keyer interface {
	// OverlayKey identifies a normalised grid input.
	OverlayKey(in grid.Input) string
	// ArtifactKey identifies one rendered output of an overlay.
	ArtifactKey(overlayHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the output options that change rendered bytes.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	Background string  `json:"background,omitempty"`
	Class      string  `json:"class,omitempty"`
	Summary    bool    `json:"summary,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// OverlayKey normalises grid type and theme before hashing, so inputs that
// render identically share a key.
func (DefaultKeyer) OverlayKey(in grid.Input) string {
	return hashKey("overlay", keyVersion,
		in.Viewport,
		in.Zoom,
		in.Type.Normalize(),
		in.Theme.WithDefaults(),
		in.GridSize,
	)
}

// ArtifactKey generates a key for a rendered output.
func (DefaultKeyer) ArtifactKey(overlayHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", keyVersion, overlayHash, opts)
}

var _ Keyer = DefaultKeyer{}
