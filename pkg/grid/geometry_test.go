package grid

import (
	"math"
	"testing"
)

func lineConfig(spacing, opacity float64) TierConfig {
	return TierConfig{Tier: Secondary, Spacing: spacing, Opacity: opacity, StrokeWidth: 0.7, Color: "#94a3b8"}
}

func TestPadding(t *testing.T) {
	if got := Padding(Viewport{Width: 1000, Height: 600}); got != 500 {
		t.Errorf("Padding = %v, want 500", got)
	}
	if got := Padding(Viewport{Width: 300, Height: 800}); got != 400 {
		t.Errorf("Padding = %v, want 400", got)
	}
}

func TestGenerateLinesSkipsInvisibleTier(t *testing.T) {
	vp := Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	if lines := GenerateLines(lineConfig(10, 0.009), vp, 50); len(lines) != 0 {
		t.Errorf("GenerateLines with opacity 0.009 returned %d lines, want 0", len(lines))
	}
	if dots := GenerateDots(lineConfig(10, 0.0), vp, 50, 1); len(dots) != 0 {
		t.Errorf("GenerateDots with opacity 0 returned %d dots, want 0", len(dots))
	}
	if lines := GenerateLines(lineConfig(10, 0.01), vp, 50); len(lines) == 0 {
		t.Error("GenerateLines with opacity 0.01 should produce lines")
	}
}

func TestGenerateLinesSkipsDegenerateSpacing(t *testing.T) {
	vp := Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	for _, spacing := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		if lines := GenerateLines(lineConfig(spacing, 0.5), vp, 50); len(lines) != 0 {
			t.Errorf("spacing %v: got %d lines, want 0", spacing, len(lines))
		}
	}
}

func TestGenerateLinesCoverage(t *testing.T) {
	tests := []struct {
		name    string
		vp      Viewport
		spacing float64
	}{
		{"centered", Viewport{X: -500, Y: -300, Width: 1000, Height: 600}, 20},
		{"unaligned", Viewport{X: 13, Y: 7, Width: 100, Height: 50}, 10},
		{"fractional", Viewport{X: -0.37, Y: 1.2, Width: 2.5, Height: 1.5}, 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			padding := Padding(tt.vp)
			lines := GenerateLines(lineConfig(tt.spacing, 0.5), tt.vp, padding)

			var xs []float64
			for _, l := range lines {
				if l.X1 == l.X2 {
					xs = append(xs, l.X1)
				}
			}

			lo := tt.vp.X - padding
			hi := tt.vp.X + tt.vp.Width + padding
			if xs[0] > lo {
				t.Errorf("first x %v does not reach %v", xs[0], lo)
			}
			if xs[len(xs)-1] < hi {
				t.Errorf("last x %v does not reach %v", xs[len(xs)-1], hi)
			}

			// Consecutive positions are exactly one step apart: no gaps, no duplicates.
			for i := 1; i < len(xs); i++ {
				step := xs[i] - xs[i-1]
				if math.Abs(step-tt.spacing) > tt.spacing*1e-6 {
					t.Fatalf("step %d: %v -> %v, want spacing %v", i, xs[i-1], xs[i], tt.spacing)
				}
			}

			// Every position is a multiple of spacing.
			for _, x := range xs {
				k := x / tt.spacing
				if math.Abs(k-math.Round(k)) > 1e-6 {
					t.Errorf("x %v is not a multiple of %v", x, tt.spacing)
				}
			}

			// Nothing beyond one step past the padded range.
			if xs[0] < lo-tt.spacing || xs[len(xs)-1] > hi+tt.spacing {
				t.Errorf("range [%v, %v] overshoots padded range [%v, %v]", xs[0], xs[len(xs)-1], lo, hi)
			}
		})
	}
}

func TestGenerateLinesSpanPaddedRange(t *testing.T) {
	vp := Viewport{X: 13, Y: 7, Width: 100, Height: 50}
	lines := GenerateLines(lineConfig(10, 0.5), vp, 50)

	// x range [-37, 163] -> [-40, 170]; y range [-43, 107] -> [-50, 110]
	var vertical, horizontal int
	for _, l := range lines {
		switch {
		case l.X1 == l.X2:
			vertical++
			if l.Y1 != -50 || l.Y2 != 110 {
				t.Errorf("vertical line %s spans [%v, %v], want [-50, 110]", l.Key, l.Y1, l.Y2)
			}
		case l.Y1 == l.Y2:
			horizontal++
			if l.X1 != -40 || l.X2 != 170 {
				t.Errorf("horizontal line %s spans [%v, %v], want [-40, 170]", l.Key, l.X1, l.X2)
			}
		}
	}
	if vertical != 22 {
		t.Errorf("vertical lines = %d, want 22", vertical)
	}
	if horizontal != 17 {
		t.Errorf("horizontal lines = %d, want 17", horizontal)
	}
}

func TestGenerateLinesKeysUnique(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
	}{
		{"near origin", Viewport{X: -0.37, Y: 1.2, Width: 2.5, Height: 1.5}},
		{"far from origin", Viewport{X: 1e9, Y: 1e9, Width: 0.01, Height: 0.01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{Viewport: tt.vp, Zoom: 1}
			for _, typ := range []GridType{Lines, Dots} {
				in.Type = typ
				o := Render(in)
				seen := make(map[string]bool)
				for _, layer := range o.Tiers {
					for _, l := range layer.Lines {
						if seen[l.Key] {
							t.Fatalf("%s: duplicate key %q", typ, l.Key)
						}
						seen[l.Key] = true
					}
					for _, d := range layer.Dots {
						if seen[d.Key] {
							t.Fatalf("%s: duplicate key %q", typ, d.Key)
						}
						seen[d.Key] = true
					}
				}
				if len(seen) == 0 {
					t.Fatalf("%s: no elements generated", typ)
				}
			}
		})
	}
}

func TestGenerateLinesKeysUseStepIndex(t *testing.T) {
	cfg := lineConfig(10, 0.5)
	lines := GenerateLines(cfg, Viewport{X: 0, Y: 0, Width: 10, Height: 10}, 0)
	want := []string{"secondary-v-0", "secondary-v-1", "secondary-h-0", "secondary-h-1"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %d, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if l.Key != want[i] {
			t.Errorf("line %d key = %q, want %q", i, l.Key, want[i])
		}
	}

	dots := GenerateDots(cfg, Viewport{X: -10, Y: 20, Width: 1, Height: 1}, 0, 1)
	if len(dots) == 0 || dots[0].Key != "secondary-d--1-2" {
		t.Errorf("first dot = %+v, want key secondary-d--1-2", dots)
	}
}

func TestGenerateLinesOutOfRangeIndex(t *testing.T) {
	// Far beyond exact step indices: the tier is skipped rather than
	// producing positions nowhere near the viewport.
	vp := Viewport{X: 1e300, Y: 0, Width: 1000, Height: 1000}
	cfg := lineConfig(SelectSpacing(vp.Width, vp.Height).Primary, 0.5)
	if lines := GenerateLines(cfg, vp, Padding(vp)); len(lines) != 0 {
		t.Errorf("lines = %d, want 0; first at x=%v", len(lines), lines[0].X1)
	}
	if dots := GenerateDots(cfg, vp, Padding(vp), 1); len(dots) != 0 {
		t.Errorf("dots = %d, want 0", len(dots))
	}
}

func TestGeneratedPositionsStayNearViewport(t *testing.T) {
	vp := Viewport{X: 1e9, Y: -1e9, Width: 1000, Height: 1000}
	pad := Padding(vp)
	cfg := lineConfig(SelectSpacing(vp.Width, vp.Height).Tertiary, 0.5)
	for _, l := range GenerateLines(cfg, vp, pad) {
		if l.X1 == l.X2 && (l.X1 < vp.X-pad-cfg.Spacing || l.X1 > vp.X+vp.Width+pad+cfg.Spacing) {
			t.Fatalf("line %s at x=%v outside the padded viewport", l.Key, l.X1)
		}
	}
}

func TestGenerateLinesKeysStableAcrossPans(t *testing.T) {
	cfg := lineConfig(10, 0.5)
	a := GenerateLines(cfg, Viewport{X: 0, Y: 0, Width: 100, Height: 100}, 50)
	b := GenerateLines(cfg, Viewport{X: 30, Y: 0, Width: 100, Height: 100}, 50)

	keyX := make(map[string]float64)
	for _, l := range a {
		if l.X1 == l.X2 {
			keyX[l.Key] = l.X1
		}
	}
	shared := 0
	for _, l := range b {
		if x, ok := keyX[l.Key]; ok && l.X1 == l.X2 {
			shared++
			if x != l.X1 {
				t.Errorf("key %s moved from x=%v to x=%v", l.Key, x, l.X1)
			}
		}
	}
	if shared == 0 {
		t.Error("expected overlapping keys after a small pan")
	}
}

func TestGenerateDots(t *testing.T) {
	vp := Viewport{X: 13, Y: 7, Width: 100, Height: 50}
	cfg := TierConfig{Tier: Tertiary, Spacing: 10, Opacity: 0.03, Color: "#000"}
	dots := GenerateDots(cfg, vp, 50, 2)

	if len(dots) != 22*17 {
		t.Fatalf("dots = %d, want %d", len(dots), 22*17)
	}
	for _, d := range dots {
		if d.R != TertiaryDotRadius/2 {
			t.Fatalf("radius = %v, want %v", d.R, TertiaryDotRadius/2)
		}
		if d.Opacity != 0.03 || d.Fill != "#000" {
			t.Fatalf("dot %s has opacity %v fill %q", d.Key, d.Opacity, d.Fill)
		}
	}
}

func TestDotRadiusShrinksWithZoom(t *testing.T) {
	vp := Viewport{X: 0, Y: 0, Width: 10, Height: 10}
	cfg := TierConfig{Tier: Primary, Spacing: 5, Opacity: 0.15}
	near := GenerateDots(cfg, vp, 5, 4)[0].R
	far := GenerateDots(cfg, vp, 5, 0.5)[0].R
	if near >= far {
		t.Errorf("radius at zoom 4 (%v) should be smaller than at zoom 0.5 (%v)", near, far)
	}
}
