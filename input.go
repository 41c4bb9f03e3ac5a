package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/clfractal/view"
)

var glfwToKey = map[glfw.Key]view.Key{
	glfw.KeyLeft:       view.KeyPanLeft,
	glfw.KeyRight:      view.KeyPanRight,
	glfw.KeyUp:         view.KeyPanUp,
	glfw.KeyDown:       view.KeyPanDown,
	glfw.KeyEqual:      view.KeyMoreIterations,
	glfw.KeyKPAdd:      view.KeyMoreIterations,
	glfw.KeyPageUp:     view.KeyMoreIterations,
	glfw.KeyMinus:      view.KeyFewerIterations,
	glfw.KeyKPSubtract: view.KeyFewerIterations,
	glfw.KeyPageDown:   view.KeyFewerIterations,
	glfw.KeyTab:        view.KeyToggleDevice,
	glfw.KeyS:          view.KeySnapshot,
	glfw.KeyEscape:     view.KeyQuit,
}

func keyOf(k glfw.Key) view.Key {
	return glfwToKey[k]
}

func buttonOf(b glfw.MouseButton) (view.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return view.ButtonPrimary, true
	case glfw.MouseButtonRight:
		return view.ButtonSecondary, true
	case glfw.MouseButtonMiddle:
		return view.ButtonMiddle, true
	}
	return 0, false
}

// configureInput forwards window events to handle. Held keys repeat as
// further key-down events.
func configureInput(window *glfw.Window, handle func(view.Event)) {
	window.SetKeyCallback(func(_ *glfw.Window, glfwKey glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		if key := keyOf(glfwKey); key != view.KeyUnknown {
			handle(view.KeyDown{Key: key})
		}
	})

	window.SetMouseButtonCallback(func(win *glfw.Window, btn glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		button, ok := buttonOf(btn)
		if !ok {
			return
		}

		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			handle(view.MouseButtonDown{Button: button, X: x, Y: y})
		case glfw.Release:
			handle(view.MouseButtonUp{Button: button, X: x, Y: y})
		}
	})

	window.SetCursorPosCallback(func(_ *glfw.Window, xpos float64, ypos float64) {
		handle(view.MouseMove{X: xpos, Y: ypos})
	})

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width int, height int) {
		handle(view.Resize{Width: width, Height: height})
	})
}
