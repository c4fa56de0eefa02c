package segment

import (
	"image"

	"github.com/jamesblasco/PopArtCamera/rimage"
	"github.com/jamesblasco/PopArtCamera/utils"
)

// BuildMask thresholds a depth map into a binary foreground mask at depth-map
// resolution. A pixel is foreground (255) iff 0 < depth <= cutoff; invalid
// (zero or negative) readings are background along with everything past the
// cutoff.
func BuildMask(dm *rimage.DepthMap, cutoff float64) *image.Gray {
	w, h := dm.Width(), dm.Height()
	out := image.NewGray(image.Rect(0, 0, w, h))
	c := float32(cutoff)
	utils.ParallelForEachPixel(image.Point{w, h}, func(x, y int) {
		d := dm.GetDepth(x, y)
		if d > 0 && d <= c {
			out.Pix[y*out.Stride+x] = 0xff
		}
	})
	return out
}
