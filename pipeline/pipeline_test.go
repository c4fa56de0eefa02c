package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/jamesblasco/PopArtCamera/rimage"
)

func uniformFrame(w, h int, c color.NRGBA) *rimage.Image {
	img := rimage.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetXY(x, y, c)
		}
	}
	return img
}

func newTestPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := New(cfg, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return p
}

func TestNewRejectsNonFloatDepth(t *testing.T) {
	_, err := New(Config{DepthFormat: DepthFormatUint16}, golog.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrUnsupportedDepthFormat), test.ShouldBeTrue)
}

func TestDroppedTicksProduceNothing(t *testing.T) {
	p := newTestPipeline(t, Config{})
	before := p.State().Snapshot()

	frame := uniformFrame(8, 8, color.NRGBA{0, 255, 0, 255})
	out := p.ProcessTick(FrameTuple{Color: frame, ColorDropped: true})
	test.That(t, out, test.ShouldBeNil)
	out = p.ProcessTick(FrameTuple{Color: frame, DepthDropped: true})
	test.That(t, out, test.ShouldBeNil)

	// dropped ticks must not touch state or build cubes
	test.That(t, p.State().Snapshot(), test.ShouldResemble, before)
	test.That(t, p.CubeBuilds(), test.ShouldEqual, 0)
}

func TestMissingDepthFallsBackToPassthrough(t *testing.T) {
	p := newTestPipeline(t, Config{})
	p.State().ToggleBackgroundVisible()

	green := color.NRGBA{0, 255, 0, 255}
	frame := uniformFrame(8, 8, green)
	out := p.ProcessTick(FrameTuple{Color: frame})
	test.That(t, out, test.ShouldNotBeNil)
	// green is outside the hue window, so the remap stage leaves the
	// passthrough frame intact
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			test.That(t, out.GetXY(x, y), test.ShouldResemble, green)
		}
	}
	// and the input frame itself is never written to
	test.That(t, frame.GetXY(0, 0), test.ShouldResemble, green)
}

func TestHiddenBackgroundBypassesMatting(t *testing.T) {
	p := newTestPipeline(t, Config{})
	green := color.NRGBA{0, 255, 0, 255}
	frame := uniformFrame(8, 8, green)

	dm := rimage.NewEmptyDepthMap(4, 4)
	out := p.ProcessTick(FrameTuple{Color: frame, Depth: dm})
	test.That(t, out, test.ShouldNotBeNil)
	test.That(t, out.GetXY(3, 3), test.ShouldResemble, green)
}

func TestCubeCachedAcrossTicks(t *testing.T) {
	p := newTestPipeline(t, Config{CubeSize: 8})
	frame := uniformFrame(4, 4, color.NRGBA{0, 0, 255, 255})

	test.That(t, p.State().SetHue(0.25), test.ShouldBeNil)
	p.ProcessTick(FrameTuple{Color: frame})
	test.That(t, p.CubeBuilds(), test.ShouldEqual, 1)

	// setting the same hue again must not trigger a second build
	test.That(t, p.State().SetHue(0.25), test.ShouldBeNil)
	p.ProcessTick(FrameTuple{Color: frame})
	test.That(t, p.CubeBuilds(), test.ShouldEqual, 1)

	test.That(t, p.State().SetHue(0.75), test.ShouldBeNil)
	p.ProcessTick(FrameTuple{Color: frame})
	test.That(t, p.CubeBuilds(), test.ShouldEqual, 2)
}

func TestCutoffStickyAcrossTicks(t *testing.T) {
	p := newTestPipeline(t, Config{DefaultCutoff: 1.0, CutoffMargin: 0.25})
	frame := uniformFrame(64, 48, color.NRGBA{0, 0, 255, 255})

	dm := rimage.NewEmptyDepthMap(32, 24)
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			dm.Set(x, y, 0.8)
		}
	}

	face := image.Rect(28, 20, 36, 28) // centered at (32, 24) in color coords
	p.ProcessTick(FrameTuple{Color: frame, Depth: dm, Face: &face})
	test.That(t, p.State().Snapshot().DepthCutoff, test.ShouldAlmostEqual, 1.05, 1e-5)

	// no face on the next tick: the cutoff stays where the face left it
	p.ProcessTick(FrameTuple{Color: frame, Depth: dm})
	test.That(t, p.State().Snapshot().DepthCutoff, test.ShouldAlmostEqual, 1.05, 1e-5)
}

func TestEndToEndBackgroundReplacement(t *testing.T) {
	p := newTestPipeline(t, Config{DefaultCutoff: 0.4, BlurRadius: 1.5})
	p.State().ToggleBackgroundVisible()

	// background of arbitrary aspect, solid green
	bgSrc := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	for i := 0; i < len(bgSrc.Pix); i += 4 {
		bgSrc.Pix[i+1] = 0xff
		bgSrc.Pix[i+3] = 0xff
	}
	<-p.LoadBackground(bgSrc, image.Point{128, 96})

	blue := color.NRGBA{0, 0, 255, 255}
	frame := uniformFrame(128, 96, blue)

	// uniform 0.5 m depth with a nearer 10x10 patch
	dm := rimage.NewEmptyDepthMap(64, 48)
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			dm.Set(x, y, 0.5)
		}
	}
	for y := 18; y < 28; y++ {
		for x := 20; x < 30; x++ {
			dm.Set(x, y, 0.3)
		}
	}

	out := p.ProcessTick(FrameTuple{Color: frame, Depth: dm})
	test.That(t, out, test.ShouldNotBeNil)
	test.That(t, out.Width(), test.ShouldEqual, 128)
	test.That(t, out.Height(), test.ShouldEqual, 96)

	// far from the patch: pure background
	corner := out.GetXY(4, 4)
	test.That(t, corner.G, test.ShouldBeGreaterThan, uint8(250))
	test.That(t, corner.B, test.ShouldBeLessThan, uint8(5))

	// center of the patch: live frame content
	center := out.GetXY(50, 46)
	test.That(t, center.B, test.ShouldBeGreaterThan, uint8(245))
	test.That(t, center.G, test.ShouldBeLessThan, uint8(10))

	// on the patch edge: a blurred blend of the two
	edge := out.GetXY(40, 46)
	test.That(t, edge.B, test.ShouldBeGreaterThan, uint8(20))
	test.That(t, edge.B, test.ShouldBeLessThan, uint8(245))
	test.That(t, edge.G, test.ShouldBeGreaterThan, uint8(20))
	test.That(t, edge.G, test.ShouldBeLessThan, uint8(245))
}
