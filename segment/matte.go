package segment

import (
	"image"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/mat"
)

// Matte generation defaults.
const (
	DefaultBlurRadius = 5.0
	DefaultGamma      = 0.5
)

// MatteParams shape the mask-to-matte conversion.
type MatteParams struct {
	// BlurRadius is the gaussian sigma used to soften the mask edge.
	BlurRadius float64
	// Gamma is the power applied to the blurred values. Gamma < 1 widens
	// the transition toward 1, pulling mid-tones up.
	Gamma float64
}

// DefaultMatteParams returns the stock blur/gamma configuration.
func DefaultMatteParams() MatteParams {
	return MatteParams{BlurRadius: DefaultBlurRadius, Gamma: DefaultGamma}
}

// GenerateMatte turns a binary foreground mask into a continuous alpha matte
// at the target (color frame) resolution. The mask is treated as clamped at
// its edges for blurring, gaussian blurred, remapped by value^gamma, cropped
// back to the mask extent, and upscaled with Catmull-Rom interpolation.
// The result is a rows=target.Y by cols=target.X dense matrix with values in
// [0, 1]; 1 is fully foreground.
func GenerateMatte(mask *image.Gray, target image.Point, p MatteParams) *mat.Dense {
	bounds := mask.Bounds()

	soft := imaging.Blur(mask, p.BlurRadius)
	gamma := p.Gamma
	if gamma <= 0 {
		gamma = 1
	}
	// imaging.AdjustGamma raises to 1/gamma, so invert to get value^gamma.
	soft = imaging.AdjustGamma(soft, 1.0/gamma)
	soft = imaging.Crop(soft, bounds)
	resized := imaging.Resize(soft, target.X, target.Y, imaging.CatmullRom)

	out := mat.NewDense(target.Y, target.X, nil)
	for y := 0; y < target.Y; y++ {
		for x := 0; x < target.X; x++ {
			k := y*resized.Stride + x*4
			out.Set(y, x, float64(resized.Pix[k])/255.0)
		}
	}
	return out
}
