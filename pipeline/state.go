package pipeline

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/jamesblasco/PopArtCamera/rimage"
)

// Snapshot is a consistent view of the control state, taken once at the start
// of each tick. The background image pointer is immutable once published.
type Snapshot struct {
	DepthCutoff          float64
	Hue                  float64
	BackgroundVisible    bool
	BackgroundSaturation float64
	Background           *rimage.Image
}

// State is the pipeline's shared mutable control state. Input pathways
// (gestures, background loading) mutate individual fields concurrently with
// the processing worker's per-tick reads; every access goes through the one
// mutex so no reader can observe a half-updated value.
type State struct {
	mu   sync.Mutex
	snap Snapshot
}

// NewState returns control state with the stock defaults: the given depth
// cutoff, red hue, hidden background, full saturation, no background image.
func NewState(defaultCutoff float64) *State {
	return &State{snap: Snapshot{
		DepthCutoff:          defaultCutoff,
		Hue:                  0,
		BackgroundVisible:    false,
		BackgroundSaturation: 1,
	}}
}

// Snapshot returns a copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetHue sets the hue-substitution target, in [0, 1).
func (s *State) SetHue(v float64) error {
	if v < 0 || v >= 1 {
		return errors.Errorf("hue must be in [0,1), got %f", v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Hue = v
	return nil
}

// ToggleBackgroundVisible flips background replacement on or off and returns
// the new value.
func (s *State) ToggleBackgroundVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.BackgroundVisible = !s.snap.BackgroundVisible
	return s.snap.BackgroundVisible
}

// SetBackgroundSaturation sets the background saturation, in [0, 1].
func (s *State) SetBackgroundSaturation(v float64) error {
	if v < 0 || v > 1 {
		return errors.Errorf("saturation must be in [0,1], got %f", v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.BackgroundSaturation = v
	return nil
}

// SetBackground publishes a fully prepared background image. The swap is a
// single pointer store under the state mutex; the worker either sees the old
// background or the new one, never a partially built image.
func (s *State) SetBackground(img *rimage.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Background = img
}

// SetDepthCutoff stores a face-derived cutoff for following ticks to read.
func (s *State) SetDepthCutoff(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.DepthCutoff = v
}
