package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/lucasb-eyer/go-colorful"
)

// Limits on user-supplied values.
const (
	// MaxZoom bounds the zoom factor accepted from users.
	MaxZoom = 1e6

	// MaxPixels bounds the width and height of rasterised output.
	MaxPixels = 8192

	// maxPresetNameLength bounds preset names.
	maxPresetNameLength = 64
)

// ValidateZoom checks that zoom is finite, positive and at most [MaxZoom].
func ValidateZoom(zoom float64) error {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) {
		return New(ErrCodeInvalidZoom, "zoom must be finite")
	}
	if zoom <= 0 {
		return New(ErrCodeInvalidZoom, "zoom must be positive, got %g", zoom)
	}
	if zoom > MaxZoom {
		return New(ErrCodeInvalidZoom, "zoom too large (max %g)", float64(MaxZoom))
	}
	return nil
}

// ValidateSize checks output dimensions in pixels. Zero means "derive from
// the viewport" and is accepted.
func ValidateSize(width, height float64) error {
	for _, v := range []float64{width, height} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return New(ErrCodeInvalidSize, "size must be a non-negative number")
		}
		if v > MaxPixels {
			return New(ErrCodeInvalidSize, "size too large (max %d pixels)", MaxPixels)
		}
	}
	return nil
}

// ValidateColor checks that c is a hex colour (#rgb or #rrggbb).
// The empty string is accepted and means "use the default".
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if _, err := colorful.Hex(c); err != nil {
		return Wrap(ErrCodeInvalidColor, err, "invalid colour %q", c)
	}
	return nil
}

// ValidatePresetName validates a preset name for safety and correctness.
// Preset names are used as file names and URL path segments, so the rules
// are conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - Letters, digits, '-', '_' and '.' only
//   - No leading '.'
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}
	if len(name) > maxPresetNameLength {
		return New(ErrCodeInvalidPreset, "preset name too long (max %d characters)", maxPresetNameLength)
	}
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPreset, "preset name cannot start with '.'")
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			continue
		}
		return New(ErrCodeInvalidPreset, "preset name contains invalid character %q", r)
	}
	return nil
}
