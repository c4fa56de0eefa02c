// Package composite blends the live color frame with a replacement background
// according to an alpha matte.
package composite

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/mat"

	"github.com/jamesblasco/PopArtCamera/rimage"
	"github.com/jamesblasco/PopArtCamera/utils"
)

// Compositor blends a frame over a background. It caches the
// saturation-adjusted background between frames; the adjustment is only
// recomputed when the background or the saturation changes. A Compositor is
// meant to be used from a single processing goroutine.
type Compositor struct {
	srcBG     *rimage.Image
	cachedBG  *rimage.Image
	cachedSat float64
}

// NewCompositor returns a compositor with an empty adjustment cache.
func NewCompositor() *Compositor {
	return &Compositor{cachedSat: -1}
}

// Composite returns a new frame blending frame (alpha=1) against the
// background (alpha=0) per the matte. When visible is false the frame passes
// through untouched and neither the matte nor the background is consulted.
// A nil background composites against black. saturation 1 keeps the
// background's colors, 0 fully desaturates it.
func (c *Compositor) Composite(
	frame *rimage.Image,
	alpha *mat.Dense,
	visible bool,
	bg *rimage.Image,
	saturation float64,
) *rimage.Image {
	if !visible {
		return frame.Clone()
	}

	adjusted := c.adjustedBackground(bg, saturation)
	w, h := frame.Width(), frame.Height()
	out := rimage.NewImage(w, h)
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		bgPx := color.NRGBA{0, 0, 0, 0xff}
		if adjusted != nil && adjusted.In(x, y) {
			bgPx = adjusted.GetXY(x, y)
		}
		fgPx := frame.GetXY(x, y)
		a := alpha.At(y, x)
		out.SetXY(x, y, color.NRGBA{
			R: lerp8(bgPx.R, fgPx.R, a),
			G: lerp8(bgPx.G, fgPx.G, a),
			B: lerp8(bgPx.B, fgPx.B, a),
			A: lerp8(bgPx.A, fgPx.A, a),
		})
	})
	return out
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(utils.Lerp(float64(a), float64(b), utils.ClampF64(t, 0, 1)) + 0.5)
}

func (c *Compositor) adjustedBackground(bg *rimage.Image, saturation float64) *rimage.Image {
	if bg == nil {
		return nil
	}
	if saturation >= 1 {
		return bg
	}
	if c.srcBG == bg && c.cachedSat == saturation && c.cachedBG != nil {
		return c.cachedBG
	}

	w, h := bg.Width(), bg.Height()
	adj := rimage.NewImage(w, h)
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		px := bg.GetXY(x, y)
		gray := rimage.Luminance(px)
		adj.SetXY(x, y, color.NRGBA{
			R: uint8(utils.Lerp(gray, float64(px.R), saturation) + 0.5),
			G: uint8(utils.Lerp(gray, float64(px.G), saturation) + 0.5),
			B: uint8(utils.Lerp(gray, float64(px.B), saturation) + 0.5),
			A: px.A,
		})
	})

	c.srcBG = bg
	c.cachedSat = saturation
	c.cachedBG = adj
	return adj
}
