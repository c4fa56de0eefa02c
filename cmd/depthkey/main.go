// Command depthkey runs the background-replacement pipeline over files: a
// color image, a serialized depth map, and an optional background image.
// Useful for tuning matte parameters and hue substitution without a live
// capture session.
package main

import (
	"flag"
	"image"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"

	"github.com/jamesblasco/PopArtCamera/pipeline"
	"github.com/jamesblasco/PopArtCamera/rimage"
)

var logger = golog.NewDevelopmentLogger("depthkey")

func main() {
	colorFile := flag.String("color", "", "color frame image (png/jpeg)")
	depthFile := flag.String("depth", "", "depth map file (.dat or .dat.gz), optional")
	bgFile := flag.String("background", "", "background image, optional")
	outFile := flag.String("out", "out.png", "output image")
	hue := flag.Float64("hue", 0, "target hue in [0,1)")
	sat := flag.Float64("saturation", 1, "background saturation in [0,1]")
	showBG := flag.Bool("show-background", false, "enable background replacement")
	cutoff := flag.Float64("cutoff", 1.0, "default depth cutoff in meters")
	margin := flag.Float64("margin", 0.25, "cutoff margin past the face in meters")
	blur := flag.Float64("blur", 5.0, "matte blur radius")
	gamma := flag.Float64("gamma", 0.5, "matte gamma power")
	flag.Parse()

	if err := realMain(*colorFile, *depthFile, *bgFile, *outFile,
		*hue, *sat, *showBG, *cutoff, *margin, *blur, *gamma); err != nil {
		logger.Fatal(err)
	}
}

func realMain(
	colorFile, depthFile, bgFile, outFile string,
	hue, sat float64,
	showBG bool,
	cutoff, margin, blur, gamma float64,
) error {
	src, err := imaging.Open(colorFile)
	if err != nil {
		return err
	}
	frame := rimage.NewImageFromStdImage(src)

	var depth *rimage.DepthMap
	if depthFile != "" {
		depth, err = rimage.ParseDepthMap(depthFile)
		if err != nil {
			return err
		}
		logger.Debugw("loaded depth map", "width", depth.Width(), "height", depth.Height())
	}

	p, err := pipeline.New(pipeline.Config{
		DefaultCutoff: cutoff,
		CutoffMargin:  margin,
		BlurRadius:    blur,
		Gamma:         gamma,
	}, logger)
	if err != nil {
		return err
	}

	if err := p.State().SetHue(hue); err != nil {
		return err
	}
	if err := p.State().SetBackgroundSaturation(sat); err != nil {
		return err
	}
	if showBG {
		p.State().ToggleBackgroundVisible()
	}
	if bgFile != "" {
		target := image.Point{frame.Width(), frame.Height()}
		<-p.LoadBackgroundFile(bgFile, target)
	}

	out := p.ProcessTick(pipeline.FrameTuple{Color: frame, Depth: depth})
	if out == nil {
		logger.Warn("tick produced no output")
		return nil
	}
	return imaging.Save(out.ToNRGBA(), outFile)
}
