package milun

// InjectCursor queues a cursor move to window coordinates (x, y). Injected
// events are consumed one per frame, after the platform's own events, and
// are mapped to world coordinates through the camera like real input.
func (r *Renderer) InjectCursor(x, y float64) {
	r.injectQueue = append(r.injectQueue, CursorMoved{X: x, Y: y})
}

// InjectPress queues a left-button press at (x, y).
func (r *Renderer) InjectPress(x, y float64) {
	r.injectQueue = append(r.injectQueue, ButtonPressed{Button: MouseButtonLeft, X: x, Y: y})
}

// InjectRelease queues a left-button release at (x, y).
func (r *Renderer) InjectRelease(x, y float64) {
	r.injectQueue = append(r.injectQueue, ButtonReleased{Button: MouseButtonLeft, X: x, Y: y})
}

// InjectClick queues a press followed by a release at the same position.
// Consumes two frames.
func (r *Renderer) InjectClick(x, y float64) {
	r.InjectPress(x, y)
	r.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), linearly interpolated moves
// over frames-2 intermediate frames, and a release at (toX, toY). The whole
// sequence consumes frames frames; the minimum is 2.
func (r *Renderer) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.InjectCursor(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// InjectClose queues a close request.
func (r *Renderer) InjectClose() {
	r.injectQueue = append(r.injectQueue, CloseRequested{})
}

// processInjected pops one event from the inject queue and handles it.
// Returns true if an event was consumed.
func (r *Renderer) processInjected() bool {
	if len(r.injectQueue) == 0 {
		return false
	}
	ev := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]
	r.handleEvent(ev)
	return true
}
