package view

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	MinIterations = 1
	MaxIterations = 1 << 20
)

// Params is a snapshot of the view parameters handed to the compute kernel.
type Params struct {
	Center     mgl64.Vec2
	Scale      float64
	Iterations uint32
}

func DefaultParams() Params {
	return Params{
		Center:     mgl64.Vec2{0, 0},
		Scale:      200,
		Iterations: 512,
	}
}

// State holds the current view and a dirty flag.
// It can only be changed through a Controller.
type State struct {
	params Params
	dirty  bool
}

// NewState returns a State that starts dirty, so the first dispatch binds its arguments.
func NewState(p Params) *State {
	return &State{
		params: p,
		dirty:  true,
	}
}

func (s *State) Params() Params {
	return s.params
}

func (s *State) Dirty() bool {
	return s.dirty
}

// Take returns the current parameters and whether they changed since the last Take.
// The dirty flag is cleared.
func (s *State) Take() (Params, bool) {
	dirty := s.dirty
	s.dirty = false
	return s.params, dirty
}

func (s *State) pan(dx, dy float64) {
	s.params.Center = s.params.Center.Add(mgl64.Vec2{dx, dy})
	s.dirty = true
}

func (s *State) zoomIn(ratio float64) {
	s.params.Scale *= ratio
	s.dirty = true
}

func (s *State) zoomOut(ratio float64) {
	s.params.Scale /= ratio
	s.dirty = true
}

func (s *State) setIterations(n uint32) {
	if n < MinIterations {
		n = MinIterations
	}
	if n > MaxIterations {
		n = MaxIterations
	}
	s.params.Iterations = n
	s.dirty = true
}
