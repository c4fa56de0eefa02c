// Package segment derives a foreground alpha matte from a depth map: an
// adaptive face-anchored depth cutoff, a binary threshold mask, and a
// blurred, gamma-shaped, upscaled matte.
package segment

import (
	"image"
	"math"

	"github.com/jamesblasco/PopArtCamera/rimage"
	"github.com/jamesblasco/PopArtCamera/utils"
)

// DefaultCutoffMargin is how far past the face plane (meters) still counts
// as foreground.
const DefaultCutoffMargin = 0.25

// CutoffEstimator derives a depth cutoff from the position of the subject's
// face. The cutoff is sticky: without a face observation it stays unchanged.
type CutoffEstimator struct {
	// Margin is added to the sampled face depth, in meters.
	Margin float64
}

// Estimate samples the depth under the center of face (given in color-frame
// pixel coordinates, with colorSize the color frame dimensions) and returns
// sampled depth + margin. It returns current unchanged when there is no face,
// or when the sampled pixel has no valid reading. Sample coordinates are
// clamped into depth-map bounds; a face rectangle near the frame edge can
// otherwise scale to a point just outside the map.
func (e CutoffEstimator) Estimate(
	dm *rimage.DepthMap,
	face *image.Rectangle,
	colorSize image.Point,
	current float64,
) float64 {
	if face == nil || dm == nil || colorSize.X == 0 || colorSize.Y == 0 {
		return current
	}
	cx := float64(face.Min.X+face.Max.X) / 2.0
	cy := float64(face.Min.Y+face.Max.Y) / 2.0
	px := int(math.Round(cx * float64(dm.Width()) / float64(colorSize.X)))
	py := int(math.Round(cy * float64(dm.Height()) / float64(colorSize.Y)))
	px = utils.ClampInt(px, 0, dm.Width()-1)
	py = utils.ClampInt(py, 0, dm.Height()-1)
	d := float64(dm.GetDepth(px, py))
	if d <= 0 {
		return current
	}
	return d + e.Margin
}
