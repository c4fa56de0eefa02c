package colorcube

import (
	"image"
	"image/color"

	"github.com/jamesblasco/PopArtCamera/rimage"
	"github.com/jamesblasco/PopArtCamera/utils"
)

// Sample looks up (r, g, b) in [0, 1] with trilinear interpolation over the
// cube grid.
func (c *Cube) Sample(r, g, b float64) (float64, float64, float64) {
	span := float64(c.size - 1)
	fr := utils.ClampF64(r, 0, 1) * span
	fg := utils.ClampF64(g, 0, 1) * span
	fb := utils.ClampF64(b, 0, 1) * span

	r0, g0, b0 := int(fr), int(fg), int(fb)
	r1 := utils.MinInt(r0+1, c.size-1)
	g1 := utils.MinInt(g0+1, c.size-1)
	b1 := utils.MinInt(b0+1, c.size-1)
	dr := fr - float64(r0)
	dg := fg - float64(g0)
	db := fb - float64(b0)

	var out [3]float64
	for ch := 0; ch < 3; ch++ {
		c000 := float64(c.data[c.index(r0, g0, b0)+ch])
		c100 := float64(c.data[c.index(r1, g0, b0)+ch])
		c010 := float64(c.data[c.index(r0, g1, b0)+ch])
		c110 := float64(c.data[c.index(r1, g1, b0)+ch])
		c001 := float64(c.data[c.index(r0, g0, b1)+ch])
		c101 := float64(c.data[c.index(r1, g0, b1)+ch])
		c011 := float64(c.data[c.index(r0, g1, b1)+ch])
		c111 := float64(c.data[c.index(r1, g1, b1)+ch])

		c00 := utils.Lerp(c000, c100, dr)
		c10 := utils.Lerp(c010, c110, dr)
		c01 := utils.Lerp(c001, c101, dr)
		c11 := utils.Lerp(c011, c111, dr)
		c0 := utils.Lerp(c00, c10, dg)
		c1 := utils.Lerp(c01, c11, dg)
		out[ch] = utils.Lerp(c0, c1, db)
	}
	return out[0], out[1], out[2]
}

// Remap applies the cube to every pixel of img in place. The alpha channel
// passes through unchanged.
func Remap(img *rimage.Image, cube *Cube) {
	utils.ParallelForEachPixel(image.Point{img.Width(), img.Height()}, func(x, y int) {
		px := img.GetXY(x, y)
		r, g, b := cube.Sample(
			float64(px.R)/255.0,
			float64(px.G)/255.0,
			float64(px.B)/255.0,
		)
		img.SetXY(x, y, color.NRGBA{
			R: uint8(utils.ClampF64(r, 0, 1)*255.0 + 0.5),
			G: uint8(utils.ClampF64(g, 0, 1)*255.0 + 0.5),
			B: uint8(utils.ClampF64(b, 0, 1)*255.0 + 0.5),
			A: px.A,
		})
	})
}
