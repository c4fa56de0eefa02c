// Package colorcube builds and applies a 3D RGB lookup table that substitutes
// a window of hues around red with a user-chosen target hue, leaving all other
// colors untouched.
package colorcube

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultSize is the number of samples per cube axis.
	DefaultSize = 64

	// referenceHue is the center of the substituted window, normalized to
	// [0, 1). Red.
	referenceHue = 0.0

	// hueHalfWindow is half the substituted window width: 30 degrees.
	hueHalfWindow = 30.0 / 360.0
)

// Cube is an N x N x N RGBA lookup table sampled on a uniform grid over RGB
// space. Entries are stored red-fastest.
type Cube struct {
	size int
	data []float32
}

// Size returns the number of samples per axis.
func (c *Cube) Size() int { return c.size }

func (c *Cube) index(r, g, b int) int {
	return ((b*c.size+g)*c.size + r) * 4
}

// Build constructs the hue-substitution cube for the given target hue in
// [0, 1). Each of size³ grid samples is converted to HSV; samples whose hue
// lies strictly inside ±30° of red get their hue shifted to the target and
// are converted back, all others pass through unchanged. A target of exactly
// 0 is treated as 1 so the slider's zero position still recolors the window
// (toward red) instead of degenerating into an identity table.
func Build(targetHue float64, size int) *Cube {
	effective := targetHue
	if effective == 0 {
		effective = 1
	}
	adjustment := referenceHue - effective

	cube := &Cube{size: size, data: make([]float32, size*size*size*4)}
	// Grid samples sit at i/(size-1) so a trilinear lookup of an untouched
	// entry reproduces the input exactly, including full-intensity channels.
	span := float64(size - 1)
	idx := 0
	for bi := 0; bi < size; bi++ {
		bv := float64(bi) / span
		for gi := 0; gi < size; gi++ {
			gv := float64(gi) / span
			for ri := 0; ri < size; ri++ {
				rv := float64(ri) / span

				r, g, b := rv, gv, bv
				deg, s, v := colorful.Color{R: rv, G: gv, B: bv}.Hsv()
				hue := signedHue(deg / 360.0)
				if hue > -hueHalfWindow && hue < hueHalfWindow {
					r, g, b = hsvToRGB(hue-adjustment, s, v)
				}

				cube.data[idx] = float32(r)
				cube.data[idx+1] = float32(g)
				cube.data[idx+2] = float32(b)
				cube.data[idx+3] = 1
				idx += 4
			}
		}
	}
	return cube
}

// signedHue recenters a [0, 1) hue around red so the window test and the
// substitution work on a continuous range: hues just below 1 become small
// negative values.
func signedHue(h float64) float64 {
	if h > 0.5 {
		return h - 1
	}
	return h
}

// hsvToRGB converts back to RGB using half-open hue sextants, boundary values
// falling into the lower sextant. Adjusted hues outside [0, 1) do not wrap;
// they saturate at red, which is what makes the target-0 alias visibly recolor
// the window.
func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	if h < 0 {
		h = 0
	}
	hs := h * 6.0
	i := int(math.Floor(hs))
	f := hs - float64(i)
	if i > 5 {
		i, f = 5, 1
	}
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)
	switch i {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}
