package colorcube

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"go.viam.com/test"
)

func TestBuildOutOfWindowIdentity(t *testing.T) {
	for _, hue := range []float64{0.25, 0.5, 0.75, 0.999} {
		cube := Build(hue, DefaultSize)
		// colors well away from the red window pass through exactly
		for _, c := range [][3]float64{
			{0, 1, 0},                   // green
			{0, 0, 1},                   // blue
			{0, 1, 1},                   // cyan
			{1, 1, 1},                   // white (no hue)
			{21.0 / 63, 42.0 / 63, 0.5}, // arbitrary grid-ish blue-green
		} {
			r, g, b := cube.Sample(c[0], c[1], c[2])
			test.That(t, r, test.ShouldAlmostEqual, c[0], 1e-5)
			test.That(t, g, test.ShouldAlmostEqual, c[1], 1e-5)
			test.That(t, b, test.ShouldAlmostEqual, c[2], 1e-5)
		}
	}
}

func TestBuildRedToCyan(t *testing.T) {
	cube := Build(0.5, DefaultSize)
	r, g, b := cube.Sample(1, 0, 0)
	// hue 0 + 180 degrees = cyan, saturation and value preserved
	test.That(t, r, test.ShouldAlmostEqual, 0, 1e-5)
	test.That(t, g, test.ShouldAlmostEqual, 1, 1e-5)
	test.That(t, b, test.ShouldAlmostEqual, 1, 1e-5)

	h, s, v := colorful.Color{R: r, G: g, B: b}.Hsv()
	test.That(t, h, test.ShouldAlmostEqual, 180, 1)
	test.That(t, s, test.ShouldAlmostEqual, 1, 1e-5)
	test.That(t, v, test.ShouldAlmostEqual, 1, 1e-5)
}

func TestBuildTargetZeroIsNotIdentity(t *testing.T) {
	cube := Build(0, DefaultSize)

	// an in-window orange (hue 20 degrees) must not survive unchanged;
	// the zero target aliases to 1 and lands the window on red
	in := [3]float64{1, 21.0 / 63, 0}
	r, g, b := cube.Sample(in[0], in[1], in[2])
	test.That(t, g, test.ShouldNotAlmostEqual, in[1], 1e-3)
	test.That(t, r, test.ShouldAlmostEqual, 1, 1e-5)
	test.That(t, g, test.ShouldAlmostEqual, 0, 1e-5)
	test.That(t, b, test.ShouldAlmostEqual, 0, 1e-5)

	// out-of-window colors still pass through
	r, g, b = cube.Sample(0, 1, 0)
	test.That(t, r, test.ShouldAlmostEqual, 0, 1e-5)
	test.That(t, g, test.ShouldAlmostEqual, 1, 1e-5)
	test.That(t, b, test.ShouldAlmostEqual, 0, 1e-5)
}

func TestBuildPreservesSaturationValue(t *testing.T) {
	cube := Build(0.5, DefaultSize)

	// half-bright fully saturated red grid sample
	in := colorful.Color{R: 32.0 / 63, G: 0, B: 0}
	_, s0, v0 := in.Hsv()
	r, g, b := cube.Sample(in.R, in.G, in.B)
	h, s, v := colorful.Color{R: r, G: g, B: b}.Hsv()
	test.That(t, h, test.ShouldAlmostEqual, 180, 1)
	test.That(t, s, test.ShouldAlmostEqual, s0, 1e-4)
	test.That(t, v, test.ShouldAlmostEqual, v0, 1e-4)
}

func TestBuildAlphaFixed(t *testing.T) {
	cube := Build(0.3, 8)
	for i := 3; i < len(cube.data); i += 4 {
		test.That(t, cube.data[i], test.ShouldEqual, float32(1))
	}
}

func TestCacheReuse(t *testing.T) {
	cache := NewCache(8)
	a := cache.Get(0.25)
	b := cache.Get(0.25)
	test.That(t, b, test.ShouldEqual, a) // same table, no rebuild
	test.That(t, cache.Builds(), test.ShouldEqual, 1)

	c := cache.Get(0.5)
	test.That(t, c, test.ShouldNotEqual, a)
	test.That(t, cache.Builds(), test.ShouldEqual, 2)

	// float jitter below the quantization step does not force a rebuild
	cache.Get(0.5 + 1e-9)
	test.That(t, cache.Builds(), test.ShouldEqual, 2)
}
