package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/jamesblasco/PopArtCamera/rimage"
)

// PrepareBackground center-crops img to the target aspect ratio and scales it
// to the target resolution. This happens once at load time, off the per-frame
// path; compositing then treats the result as immutable.
func PrepareBackground(img image.Image, target image.Point) (*rimage.Image, error) {
	if img == nil {
		return nil, errors.New("no background image")
	}
	if target.X <= 0 || target.Y <= 0 {
		return nil, errors.Errorf("bad background target size %v", target)
	}
	filled := imaging.Fill(img, target.X, target.Y, imaging.Center, imaging.Lanczos)
	return rimage.NewImageFromStdImage(filled), nil
}

// LoadBackground prepares img off the worker's path and atomically publishes
// it to the control state when ready. On failure the previous background (or
// none) stays in place; the error is logged, never surfaced to the frame
// path. The returned channel closes when the attempt has finished, success or
// not.
func (p *Pipeline) LoadBackground(img image.Image, target image.Point) <-chan struct{} {
	done := make(chan struct{})
	goutils.PanicCapturingGo(func() {
		defer close(done)
		prepared, err := PrepareBackground(img, target)
		if err != nil {
			p.logger.Errorw("background load failed; keeping previous background", "error", err)
			return
		}
		p.state.SetBackground(prepared)
	})
	return done
}

// LoadBackgroundFile decodes an image file and loads it as the background,
// with the same failure semantics as LoadBackground.
func (p *Pipeline) LoadBackgroundFile(path string, target image.Point) <-chan struct{} {
	done := make(chan struct{})
	goutils.PanicCapturingGo(func() {
		defer close(done)
		img, err := imaging.Open(path)
		if err != nil {
			p.logger.Errorw("background decode failed; keeping previous background", "error", err)
			return
		}
		prepared, err := PrepareBackground(img, target)
		if err != nil {
			p.logger.Errorw("background prepare failed; keeping previous background", "error", err)
			return
		}
		p.state.SetBackground(prepared)
	})
	return done
}
