// Package rimage defines the frame primitives the processing pipeline operates
// on: an RGBA color frame and a floating-point depth map.
package rimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Image is a width x height RGBA color frame with 8 bits per channel. Pixels
// are stored row-major, four bytes per pixel. It implements image.Image so it
// can flow through the standard library and the imaging package directly.
type Image struct {
	width, height int
	pix           []uint8
}

// NewImage returns a zeroed (transparent black) frame of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// NewImageFromStdImage converts any image.Image into an Image, copying pixels.
func NewImageFromStdImage(img image.Image) *Image {
	if i, ok := img.(*Image); ok {
		return i.Clone()
	}
	n := imaging.Clone(img)
	b := n.Bounds()
	out := &Image{width: b.Dx(), height: b.Dy(), pix: n.Pix}
	return out
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle { return image.Rect(0, 0, i.width, i.height) }

// Width returns the frame width in pixels.
func (i *Image) Width() int { return i.width }

// Height returns the frame height in pixels.
func (i *Image) Height() int { return i.height }

// In reports whether (x, y) lies within the frame.
func (i *Image) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < i.width && y < i.height
}

func (i *Image) kxy(x, y int) int {
	return (y*i.width + x) * 4
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.GetXY(x, y)
}

// GetXY returns the pixel at (x, y).
func (i *Image) GetXY(x, y int) color.NRGBA {
	k := i.kxy(x, y)
	return color.NRGBA{i.pix[k], i.pix[k+1], i.pix[k+2], i.pix[k+3]}
}

// SetXY sets the pixel at (x, y).
func (i *Image) SetXY(x, y int, c color.NRGBA) {
	k := i.kxy(x, y)
	i.pix[k] = c.R
	i.pix[k+1] = c.G
	i.pix[k+2] = c.B
	i.pix[k+3] = c.A
}

// Clone returns a deep copy of the frame.
func (i *Image) Clone() *Image {
	pix := make([]uint8, len(i.pix))
	copy(pix, i.pix)
	return &Image{width: i.width, height: i.height, pix: pix}
}

// ToNRGBA returns a standard library view sharing this frame's pixel storage.
func (i *Image) ToNRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.pix,
		Stride: i.width * 4,
		Rect:   image.Rect(0, 0, i.width, i.height),
	}
}
