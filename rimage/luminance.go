package rimage

import "image/color"

// Luminance returns the Rec. 601 luma of a pixel, in [0, 255].
func Luminance(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
