package aero

// Overlay colors, RGB per channel.
var (
	lowColor  = [3]float32{0.15, 0.25, 0.9} // suction / shadow, blue
	midColor  = [3]float32{0.9, 0.9, 0.9}   // neutral
	highColor = [3]float32{0.95, 0.2, 0.15} // stagnation, red
)

// CpColors maps a per-vertex pressure-coefficient field to a flat RGB
// slice suitable for a color vertex buffer. The field is normalized to
// its own [min, max] span; a constant field maps to the neutral color.
func CpColors(cp []float32) []float32 {
	out := make([]float32, 0, len(cp)*3)
	if len(cp) == 0 {
		return out
	}

	lo, hi := cp[0], cp[0]
	for _, v := range cp[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo

	for _, v := range cp {
		t := float32(0.5)
		if span > 1e-12 {
			t = (v - lo) / span
		}
		r, g, b := lerp3(t)
		out = append(out, r, g, b)
	}
	return out
}

// lerp3 blends low -> mid -> high across t in [0, 1].
func lerp3(t float32) (r, g, b float32) {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	if t < 0.5 {
		return mix(lowColor, midColor, t*2)
	}
	return mix(midColor, highColor, (t-0.5)*2)
}

func mix(a, b [3]float32, t float32) (float32, float32, float32) {
	return a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t
}
