package grid

// Render computes the complete overlay for in. Tiers are generated
// tertiary first so coarser, more opaque tiers draw on top; origin markers
// come last. Unknown grid types render as [Lines].
//
// Render is a pure function of its input.
func Render(in Input) Overlay {
	in.Type = in.Type.Normalize()
	in.Theme = in.Theme.WithDefaults()

	vp := in.Viewport
	padding := Padding(vp)
	configs := TierConfigs(vp, in.Zoom, in.Theme.Grid)

	o := Overlay{Input: in, Padding: padding}
	for _, t := range Tiers {
		layer := TierLayer{Config: configs[t]}
		switch in.Type {
		case Dots:
			layer.Dots = GenerateDots(configs[t], vp, padding, in.Zoom)
		default:
			layer.Lines = GenerateLines(configs[t], vp, padding)
		}
		o.Tiers[t] = layer
	}
	o.Origin = GenerateOrigin(vp, padding, in.Zoom, in.Theme)
	return o
}

// Counts is the number of elements [Render] generates per tier and for the
// origin markers.
type Counts struct {
	Tiers  [3]int
	Origin int
}

// Total returns the overall element count, saturating at math.MaxInt.
func (c Counts) Total() int {
	n := c.Origin
	for _, t := range c.Tiers {
		n = addSat(n, t)
	}
	return n
}

// Count reports the element counts [Render] would produce for in without
// generating any geometry. It runs in constant time, so callers can bound
// the cost of a render before paying for it.
func Count(in Input) Counts {
	in.Type = in.Type.Normalize()
	vp := in.Viewport
	padding := Padding(vp)
	configs := TierConfigs(vp, in.Zoom, in.Theme.Grid)

	var c Counts
	for _, t := range Tiers {
		if in.Type == Dots {
			c.Tiers[t] = dotCount(configs[t], vp, padding)
		} else {
			c.Tiers[t] = lineCount(configs[t], vp, padding)
		}
	}
	c.Origin = originCount(in.Zoom)
	return c
}
