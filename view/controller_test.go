package view

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedActions struct {
	resizes  [][2]int
	toggles  int
	snapshot int
	quits    int
}

func (a *recordedActions) Resize(width, height int) { a.resizes = append(a.resizes, [2]int{width, height}) }
func (a *recordedActions) ToggleDevice()            { a.toggles++ }
func (a *recordedActions) Snapshot()                { a.snapshot++ }
func (a *recordedActions) Quit()                    { a.quits++ }

func newTestController(p Params) (*State, *Controller, *recordedActions) {
	state := NewState(p)
	state.Take()
	actions := &recordedActions{}
	return state, NewController(state, 800, 800, actions), actions
}

func TestNewStateStartsDirty(t *testing.T) {
	state := NewState(DefaultParams())
	assert.True(t, state.Dirty())

	p, dirty := state.Take()
	assert.True(t, dirty)
	assert.Equal(t, DefaultParams(), p)
	assert.False(t, state.Dirty())

	_, dirty = state.Take()
	assert.False(t, dirty, "dirty must be cleared exactly once")
}

func TestKeyPanStep(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(KeyDown{Key: KeyPanRight})
	assert.InDelta(t, 1.0/200, state.Params().Center.X(), 1e-12)
	assert.True(t, state.Dirty())

	c.Handle(KeyDown{Key: KeyPanUp})
	assert.InDelta(t, 1.0/200, state.Params().Center.Y(), 1e-12)

	c.Handle(KeyDown{Key: KeyPanDown})
	c.Handle(KeyDown{Key: KeyPanLeft})
	assert.InDelta(t, 0, state.Params().Center.X(), 1e-12)
	assert.InDelta(t, 0, state.Params().Center.Y(), 1e-12)
}

func TestPanRoundTrip(t *testing.T) {
	start := Params{Center: mgl64.Vec2{-0.743643887037151, 0.13182590420533}, Scale: 12345.678, Iterations: 512}
	state, c, _ := newTestController(start)

	c.Handle(KeyDown{Key: KeyPanLeft})
	c.Handle(KeyDown{Key: KeyPanRight})

	got := state.Params().Center.X()
	assert.InEpsilon(t, start.Center.X(), got, 1e-9)
}

func TestZoomRoundTrip(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(MouseButtonDown{Button: ButtonSecondary, X: 100, Y: 100})
	c.Handle(MouseMove{X: 100, Y: 90})
	assert.InDelta(t, 200*ZoomRatio, state.Params().Scale, 1e-9)

	c.Handle(MouseMove{X: 100, Y: 100})
	assert.InEpsilon(t, 200, state.Params().Scale, 1e-9)
}

func TestZoomOutScenario(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(MouseButtonDown{Button: ButtonSecondary, X: 400, Y: 400})
	c.Handle(MouseMove{X: 400, Y: 410})

	assert.InDelta(t, 200/(1+0.1*1), state.Params().Scale, 1e-9)
	assert.InDelta(t, 181.8, state.Params().Scale, 0.05)
	assert.Equal(t, mgl64.Vec2{0, 0}, state.Params().Center)

	c.Handle(MouseButtonUp{Button: ButtonSecondary, X: 400, Y: 410})
	assert.Zero(t, c.Buttons())
}

func TestZeroVerticalDeltaZoomsOut(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(MouseButtonDown{Button: ButtonSecondary})
	c.Handle(MouseMove{X: 5, Y: 0})

	assert.InDelta(t, 200/ZoomRatio, state.Params().Scale, 1e-9)
}

func TestButtonMaskResetsOnAnyRelease(t *testing.T) {
	_, c, _ := newTestController(DefaultParams())

	c.Handle(MouseButtonDown{Button: ButtonPrimary})
	c.Handle(MouseButtonDown{Button: ButtonSecondary})
	c.Handle(MouseButtonDown{Button: ButtonMiddle})
	assert.Equal(t, uint32(0b111), c.Buttons())

	c.Handle(MouseButtonUp{Button: ButtonMiddle})
	assert.Zero(t, c.Buttons())
}

func TestPrimaryDragPan(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(MouseButtonDown{Button: ButtonPrimary, X: 10, Y: 10})
	c.Handle(MouseMove{X: 20, Y: 5})

	want := mgl64.Vec2{
		-SlowFactor * MoveSpeed * 10 * math.Log(1+200.0/800),
		SlowFactor * MoveSpeed * -5 * math.Log(1+200.0/800),
	}
	got := state.Params().Center
	assert.InDelta(t, want.X(), got.X(), 1e-12)
	assert.InDelta(t, want.Y(), got.Y(), 1e-12)
	assert.Equal(t, 200.0, state.Params().Scale)
}

func TestDragPanSpeedTracksScale(t *testing.T) {
	near, cn, _ := newTestController(Params{Scale: 100, Iterations: 64})
	far, cf, _ := newTestController(Params{Scale: 100000, Iterations: 64})

	for _, c := range []*Controller{cn, cf} {
		c.Handle(MouseButtonDown{Button: ButtonPrimary})
		c.Handle(MouseMove{X: 1})
	}

	assert.Greater(t, math.Abs(far.Params().Center.X()), math.Abs(near.Params().Center.X()))
}

func TestMoveWithoutButtonsIsIgnored(t *testing.T) {
	state, c, _ := newTestController(DefaultParams())

	c.Handle(MouseMove{X: 50, Y: 50})
	c.Handle(MouseMove{X: 10, Y: 90})

	assert.False(t, state.Dirty())
	assert.Equal(t, DefaultParams(), state.Params())
}

func TestIterationKeysClamp(t *testing.T) {
	state, c, _ := newTestController(Params{Scale: 1, Iterations: 2})

	c.Handle(KeyDown{Key: KeyMoreIterations})
	assert.Equal(t, uint32(4), state.Params().Iterations)

	for i := 0; i < 4; i++ {
		c.Handle(KeyDown{Key: KeyFewerIterations})
	}
	assert.Equal(t, uint32(MinIterations), state.Params().Iterations)

	state, c, _ = newTestController(Params{Scale: 1, Iterations: MaxIterations})
	c.Handle(KeyDown{Key: KeyMoreIterations})
	assert.Equal(t, uint32(MaxIterations), state.Params().Iterations)
}

func TestActionsAreForwarded(t *testing.T) {
	state, c, actions := newTestController(DefaultParams())

	c.Handle(Resize{Width: 640, Height: 480})
	c.Handle(Resize{Width: 0, Height: 0})
	c.Handle(KeyDown{Key: KeyToggleDevice})
	c.Handle(KeyDown{Key: KeySnapshot})
	c.Handle(KeyDown{Key: KeyQuit})
	c.Handle(KeyDown{Key: KeyUnknown})

	require.Len(t, actions.resizes, 2)
	assert.Equal(t, [2]int{640, 480}, actions.resizes[0])
	assert.Equal(t, 1, actions.toggles)
	assert.Equal(t, 1, actions.snapshot)
	assert.Equal(t, 1, actions.quits)
	assert.Equal(t, 640, c.width)
	assert.Equal(t, 480, c.height)
	assert.False(t, state.Dirty(), "actions must not touch the view")
}

func TestKeyNamesAreDistinct(t *testing.T) {
	seen := map[string]Key{}
	for k := KeyPanLeft; k <= KeyQuit; k++ {
		name := k.String()
		assert.NotEqual(t, "unknown", name, "key %d", k)
		prev, dup := seen[name]
		assert.False(t, dup, "%d and %d share name %q", prev, k, name)
		seen[name] = k
	}
	assert.Equal(t, "down", KeyPanDown.String())
	assert.Equal(t, "unknown", KeyUnknown.String())
}
