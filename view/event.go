package view

// Event is one of Resize, KeyDown, MouseButtonDown, MouseButtonUp or MouseMove.
type Event interface {
	event()
}

type Resize struct {
	Width, Height int
}

type KeyDown struct {
	Key Key
}

type MouseButtonDown struct {
	Button MouseButton
	X, Y   float64
}

type MouseButtonUp struct {
	Button MouseButton
	X, Y   float64
}

type MouseMove struct {
	X, Y float64
}

func (Resize) event()          {}
func (KeyDown) event()         {}
func (MouseButtonDown) event() {}
func (MouseButtonUp) event()   {}
func (MouseMove) event()       {}

type Key int

const (
	KeyUnknown Key = iota
	KeyPanLeft
	KeyPanRight
	KeyPanUp
	KeyPanDown
	KeyMoreIterations
	KeyFewerIterations
	KeyToggleDevice
	KeySnapshot
	KeyQuit
)

func (k Key) String() string {
	switch k {
	case KeyPanLeft:
		return "left"
	case KeyPanRight:
		return "right"
	case KeyPanUp:
		return "up"
	case KeyPanDown:
		return "down"
	case KeyMoreIterations:
		return "moreIterations"
	case KeyFewerIterations:
		return "fewerIterations"
	case KeyToggleDevice:
		return "toggleDevice"
	case KeySnapshot:
		return "snapshot"
	case KeyQuit:
		return "quit"
	}
	return "unknown"
}

type MouseButton int

const (
	ButtonPrimary   MouseButton = 0
	ButtonSecondary MouseButton = 1
	ButtonMiddle    MouseButton = 2
)
