package errors

import (
	"math"
	"testing"
)

func TestValidateZoom(t *testing.T) {
	tests := []struct {
		name    string
		zoom    float64
		wantErr bool
	}{
		{"unit", 1, false},
		{"small", 0.01, false},
		{"large", 1000, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
		{"beyond max", MaxZoom * 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateZoom(tt.zoom)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateZoom(%v) error = %v, wantErr %v", tt.zoom, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidZoom) {
				t.Errorf("ValidateZoom(%v) code = %v, want %v", tt.zoom, GetCode(err), ErrCodeInvalidZoom)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
		wantErr       bool
	}{
		{"derived", 0, 0, false},
		{"explicit", 800, 600, false},
		{"negative", -1, 600, true},
		{"too large", MaxPixels + 1, 10, true},
		{"nan", math.NaN(), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSize(tt.width, tt.height)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%v, %v) error = %v, wantErr %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		color   string
		wantErr bool
	}{
		{"", false},
		{"#ef4444", false},
		{"#fff", false},
		{"red", true},
		{"#12345", true},
		{"ef4444", true},
	}

	for _, tt := range tests {
		err := ValidateColor(tt.color)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.color, err, tt.wantErr)
		}
	}
}

func TestValidatePresetName(t *testing.T) {
	tests := []struct {
		name    string
		preset  string
		wantErr bool
	}{
		{"simple", "home", false},
		{"with dashes", "zoomed-in_2", false},
		{"with dot", "v1.2", false},
		{"empty", "", true},
		{"hidden", ".secret", true},
		{"path traversal", "../etc", true},
		{"slash", "a/b", true},
		{"space", "my view", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePresetName(tt.preset)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePresetName(%q) error = %v, wantErr %v", tt.preset, err, tt.wantErr)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidViewport,
		ErrCodeInvalidZoom,
		ErrCodeInvalidFormat,
		ErrCodeInvalidGridType,
		ErrCodeInvalidColor,
		ErrCodeInvalidSize,
		ErrCodeInvalidPreset,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodePresetNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeRender,
		ErrCodeInternal,
		ErrCodeUnsupported,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
