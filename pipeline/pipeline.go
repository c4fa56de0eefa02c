// Package pipeline sequences the per-frame processing chain: adaptive depth
// cutoff, depth segmentation, alpha matting, background compositing, and
// color-cube hue substitution, with a latest-frame-wins worker and shared
// control state mutated by input pathways.
package pipeline

import (
	"image"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/jamesblasco/PopArtCamera/colorcube"
	"github.com/jamesblasco/PopArtCamera/composite"
	"github.com/jamesblasco/PopArtCamera/rimage"
	"github.com/jamesblasco/PopArtCamera/segment"
)

// DepthFormat identifies the sample format a depth source delivers.
type DepthFormat int

// Supported depth formats. Only 32-bit float depth (meters) can drive the
// matting chain.
const (
	DepthFormatFloat32 DepthFormat = iota
	DepthFormatUint16
)

// ErrUnsupportedDepthFormat is returned at construction when the configured
// depth source cannot deliver floating-point depth. This is the one fatal
// error; everything at tick time degrades instead of failing.
var ErrUnsupportedDepthFormat = errors.New("depth source does not support floating-point depth")

// Config holds the pipeline's tunables. The zero value of optional fields is
// replaced by defaults in New.
type Config struct {
	DepthFormat   DepthFormat
	DefaultCutoff float64 // meters; used until the first face observation
	CutoffMargin  float64 // meters past the face still kept as foreground
	BlurRadius    float64 // matte gaussian sigma
	Gamma         float64 // matte power-law exponent
	CubeSize      int     // color cube samples per axis
}

// Validate checks the config for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.DepthFormat != DepthFormatFloat32 {
		return ErrUnsupportedDepthFormat
	}
	if c.DefaultCutoff < 0 {
		return errors.Errorf("default cutoff must be positive, got %f", c.DefaultCutoff)
	}
	if c.CutoffMargin < 0 {
		return errors.Errorf("cutoff margin cannot be negative, got %f", c.CutoffMargin)
	}
	if c.CubeSize != 0 && c.CubeSize < 2 {
		return errors.Errorf("cube size must be at least 2, got %d", c.CubeSize)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DefaultCutoff == 0 {
		c.DefaultCutoff = 1.0
	}
	if c.CutoffMargin == 0 {
		c.CutoffMargin = segment.DefaultCutoffMargin
	}
	if c.BlurRadius == 0 {
		c.BlurRadius = segment.DefaultBlurRadius
	}
	if c.Gamma == 0 {
		c.Gamma = segment.DefaultGamma
	}
	if c.CubeSize == 0 {
		c.CubeSize = colorcube.DefaultSize
	}
}

// FrameTuple is one synchronized delivery from the capture layer.
type FrameTuple struct {
	Color *rimage.Image
	// Depth may be nil when the sensor produced nothing for this tick.
	Depth *rimage.DepthMap
	// Face is the detected face rectangle in color-frame coordinates, if any.
	Face         *image.Rectangle
	ColorDropped bool
	DepthDropped bool
	CapturedAt   time.Time
}

// Pipeline owns the per-tick processing chain and the control state.
type Pipeline struct {
	cfg    Config
	state  *State
	cubes  *colorcube.Cache
	comp   *composite.Compositor
	cutoff segment.CutoffEstimator
	matte  segment.MatteParams
	logger golog.Logger
}

// New validates cfg and builds a pipeline. It must be called before streaming
// begins; an unsupported depth format fails here, never at tick time.
func New(cfg Config, logger golog.Logger) (*Pipeline, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:    cfg,
		state:  NewState(cfg.DefaultCutoff),
		cubes:  colorcube.NewCache(cfg.CubeSize),
		comp:   composite.NewCompositor(),
		cutoff: segment.CutoffEstimator{Margin: cfg.CutoffMargin},
		matte:  segment.MatteParams{BlurRadius: cfg.BlurRadius, Gamma: cfg.Gamma},
		logger: logger,
	}, nil
}

// State returns the control state for input pathways to mutate.
func (p *Pipeline) State() *State { return p.state }

// CubeBuilds reports how many color cube constructions have happened so far.
func (p *Pipeline) CubeBuilds() int { return p.cubes.Builds() }

// ProcessTick runs the full chain for one synchronized frame tuple and
// returns the output frame, or nil when the tick must be skipped (either half
// of the pair was dropped by the synchronization layer). The input color
// frame is never written to. Control state is read once, at the start of the
// tick; the face-derived depth cutoff is the only field written back.
func (p *Pipeline) ProcessTick(tick FrameTuple) *rimage.Image {
	if tick.ColorDropped || tick.DepthDropped {
		p.logger.Debugw("skipping dropped frame pair",
			"colorDropped", tick.ColorDropped, "depthDropped", tick.DepthDropped)
		return nil
	}
	if tick.Color == nil {
		return nil
	}

	snap := p.state.Snapshot()
	frameSize := image.Point{tick.Color.Width(), tick.Color.Height()}

	cutoff := snap.DepthCutoff
	if tick.Depth != nil {
		cutoff = p.cutoff.Estimate(tick.Depth, tick.Face, frameSize, snap.DepthCutoff)
		if cutoff != snap.DepthCutoff {
			p.state.SetDepthCutoff(cutoff)
		}
	}

	var out *rimage.Image
	switch {
	case !snap.BackgroundVisible:
		// Replacement off: the matte and background are not consulted.
		out = tick.Color.Clone()
	case tick.Depth == nil:
		// No depth this tick; matting is impossible, fall back to the live
		// frame rather than guessing a matte.
		p.logger.Debug("no depth frame; passing color frame through")
		out = tick.Color.Clone()
	default:
		mask := segment.BuildMask(tick.Depth, cutoff)
		alpha := segment.GenerateMatte(mask, frameSize, p.matte)
		out = p.comp.Composite(tick.Color, alpha, true, snap.Background, snap.BackgroundSaturation)
	}

	// Hue substitution applies last so it recolors the composited background
	// and the passthrough cases alike.
	colorcube.Remap(out, p.cubes.Get(snap.Hue))
	return out
}
