package view

import "math"

const (
	SlowFactor = 0.1
	MoveSpeed  = 0.1
	ZoomSpeed  = 1.0
)

// ZoomRatio is the factor applied to the scale by one zoom step.
const ZoomRatio = 1 + SlowFactor*ZoomSpeed

// Actions receives the events that are not view mutations.
type Actions interface {
	Resize(width, height int)
	ToggleDevice()
	Snapshot()
	Quit()
}

// Controller translates input events into State mutations.
type Controller struct {
	state   *State
	actions Actions

	width, height int

	buttons      uint32
	lastX, lastY float64
}

func NewController(state *State, width, height int, actions Actions) *Controller {
	return &Controller{
		state:   state,
		actions: actions,
		width:   width,
		height:  height,
	}
}

// Buttons returns the mask of held mouse buttons, bit n for button n.
func (c *Controller) Buttons() uint32 {
	return c.buttons
}

func (c *Controller) Handle(ev Event) {
	switch ev := ev.(type) {
	case Resize:
		if ev.Width > 0 && ev.Height > 0 {
			c.width, c.height = ev.Width, ev.Height
		}
		if c.actions != nil {
			c.actions.Resize(ev.Width, ev.Height)
		}

	case KeyDown:
		c.key(ev.Key)

	case MouseButtonDown:
		c.buttons |= 1 << uint(ev.Button)
		c.lastX, c.lastY = ev.X, ev.Y

	case MouseButtonUp:
		// releasing any button releases all of them
		c.buttons = 0
		c.lastX, c.lastY = ev.X, ev.Y

	case MouseMove:
		c.motion(ev.X, ev.Y)
	}
}

func (c *Controller) key(k Key) {
	step := 1 / c.state.params.Scale

	switch k {
	case KeyPanRight:
		c.state.pan(step, 0)
	case KeyPanLeft:
		c.state.pan(-step, 0)
	case KeyPanUp:
		c.state.pan(0, step)
	case KeyPanDown:
		c.state.pan(0, -step)
	case KeyMoreIterations:
		c.state.setIterations(c.state.params.Iterations * 2)
	case KeyFewerIterations:
		c.state.setIterations(c.state.params.Iterations / 2)
	case KeyToggleDevice:
		if c.actions != nil {
			c.actions.ToggleDevice()
		}
	case KeySnapshot:
		if c.actions != nil {
			c.actions.Snapshot()
		}
	case KeyQuit:
		if c.actions != nil {
			c.actions.Quit()
		}
	}
}

func (c *Controller) motion(x, y float64) {
	dx := x - c.lastX
	dy := y - c.lastY
	c.lastX, c.lastY = x, y

	switch {
	case c.buttons&(1<<uint(ButtonPrimary)) != 0:
		scale := c.state.params.Scale
		c.state.pan(
			-SlowFactor*MoveSpeed*dx*math.Log(1+scale/float64(c.width)),
			SlowFactor*MoveSpeed*dy*math.Log(1+scale/float64(c.height)),
		)

	case c.buttons&(1<<uint(ButtonSecondary)) != 0:
		if dy < 0 {
			c.state.zoomIn(ZoomRatio)
		} else {
			c.state.zoomOut(ZoomRatio)
		}
	}
}
