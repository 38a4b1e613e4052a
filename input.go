package milun

import "time"

// FrameInputs is the input snapshot handed to the frame callback. It is a
// value: each frame gets its own copy and nothing the callback does to it
// reaches the renderer.
type FrameInputs struct {
	// Frame is the zero-based index of the frame.
	Frame uint64
	// Delta is the fixed time step of one frame (1/TPS).
	Delta time.Duration
	// CursorWindow is the cursor position in window pixels.
	CursorWindow Vec2
	// CursorWorld is CursorWindow mapped through the inverse camera view.
	CursorWorld Vec2
	// WindowSize is the back buffer size in pixels.
	WindowSize Vec2
	// Buttons holds the mouse buttons currently down.
	Buttons MouseButtons
}

// inputState accumulates platform events between frames.
type inputState struct {
	cursor  Vec2
	buttons MouseButtons
}

// apply folds a pointer event into the state. It reports whether the event
// was a pointer event.
func (s *inputState) apply(ev Event) bool {
	switch e := ev.(type) {
	case CursorMoved:
		s.cursor = Vec2{e.X, e.Y}
	case ButtonPressed:
		s.cursor = Vec2{e.X, e.Y}
		s.buttons = s.buttons.with(e.Button, true)
	case ButtonReleased:
		s.cursor = Vec2{e.X, e.Y}
		s.buttons = s.buttons.with(e.Button, false)
	default:
		return false
	}
	return true
}

// sample builds the FrameInputs for a frame.
func (s *inputState) sample(cam *Camera, frame uint64, dt time.Duration, w, h int) FrameInputs {
	wx, wy := cam.ScreenToWorld(s.cursor.X, s.cursor.Y)
	return FrameInputs{
		Frame:        frame,
		Delta:        dt,
		CursorWindow: s.cursor,
		CursorWorld:  Vec2{wx, wy},
		WindowSize:   Vec2{float64(w), float64(h)},
		Buttons:      s.buttons,
	}
}
