package milun

import (
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle state of a Renderer.
type State uint8

const (
	// StateCreated is the state between New and the first frame. Sprites
	// and configuration may be changed freely.
	StateCreated State = iota
	// StateRunning is the state while the frame loop is active.
	StateRunning
	// StateStopped is terminal. The loop never restarts.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// FrameFunc is the per-frame callback. It runs once per frame with that
// frame's inputs and records draws through r.Draw. Returning an error stops
// the loop; the error is returned from Run.
type FrameFunc func(r *Renderer, in FrameInputs) error

// Game is the two-phase form of a frame callback. Setup runs once before
// the first frame with the renderer still in StateCreated; Frame runs every
// frame after that.
type Game interface {
	Setup(r *Renderer) error
	Frame(r *Renderer, in FrameInputs) error
}

// FlushFunc observes the sorted draw batch of each flushed frame. batch is
// only valid for the duration of the call.
type FlushFunc func(frame uint64, batch []DrawCommand)

// Run starts the frame loop and blocks until it stops. It returns nil after
// a close request or Stop, and the callback's error (wrapped with the frame
// number) if the callback fails. Run can only be called once.
func (r *Renderer) Run(fn FrameFunc) error {
	if err := r.start("Run", fn); err != nil {
		return err
	}
	err := r.platform.Loop(func() error { return r.iterate(fn) })
	r.finish()
	if errors.Is(err, errStop) {
		return nil
	}
	return err
}

// RunGame calls g.Setup and then runs g.Frame as the frame callback.
func (r *Renderer) RunGame(g Game) error {
	if r.state != StateCreated {
		return fmt.Errorf("%w: RunGame called while %s", ErrInvalidState, r.state)
	}
	if err := g.Setup(r); err != nil {
		return fmt.Errorf("milun: setup: %w", err)
	}
	return r.Run(g.Frame)
}

// Step runs exactly one frame for callers that own the outer loop. It
// returns ErrStopped once the renderer has stopped, including on the step
// that observes a close request.
func (r *Renderer) Step(fn FrameFunc) error {
	switch {
	case r.state == StateStopped:
		return ErrStopped
	case r.state == StateCreated:
		if err := r.start("Step", fn); err != nil {
			return err
		}
	case r.inFrame:
		return fmt.Errorf("%w: Step called during a frame", ErrInvalidState)
	}

	err := r.iterate(fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errStop):
		r.finish()
		return ErrStopped
	default:
		r.finish()
		return err
	}
}

// Stop requests the loop to end at the next frame boundary. The current
// frame, if any, still completes.
func (r *Renderer) Stop() {
	r.stopReq = true
}

// State returns the current lifecycle state.
func (r *Renderer) State() State {
	return r.state
}

// Frame returns the number of frames completed so far.
func (r *Renderer) Frame() uint64 {
	return r.frame
}

// OnFlush registers an observer called after every flushed frame.
func (r *Renderer) OnFlush(fn FlushFunc) {
	r.flushObservers = append(r.flushObservers, fn)
}

func (r *Renderer) start(op string, fn FrameFunc) error {
	switch {
	case fn == nil:
		return fmt.Errorf("%w: %s called with a nil frame function", ErrInvalidState, op)
	case r.state == StateStopped:
		return ErrStopped
	case r.state != StateCreated:
		return fmt.Errorf("%w: %s called while %s", ErrInvalidState, op, r.state)
	}
	if err := r.store.upload(r.platform); err != nil {
		r.state = StateStopped
		return err
	}
	r.state = StateRunning
	w, h := r.platform.Canvas().Size()
	Logger().Info("milun: loop started", "title", r.title, "width", w, "height", h,
		"sprites", len(r.store.sprites), "tps", r.cfg.TPS)
	return nil
}

func (r *Renderer) finish() {
	if r.state == StateStopped {
		return
	}
	r.state = StateStopped
	r.queue.reset()
	Logger().Info("milun: loop stopped", "frames", r.frame)
}

// iterate runs one frame: gather input, invoke fn, flush, present, and
// apply deferred configuration. It returns errStop when a stop was
// requested before the frame began.
func (r *Renderer) iterate(fn FrameFunc) error {
	r.inFrame = true
	defer func() { r.inFrame = false }()

	r.events = r.platform.PollEvents(r.events[:0])
	for _, ev := range r.events {
		r.handleEvent(ev)
	}
	r.processInjected()
	if r.testRunner != nil {
		r.testRunner.step(r)
	}
	if r.stopReq {
		return errStop
	}

	dt := time.Second / time.Duration(r.cfg.TPS)
	r.camera.update(float32(dt.Seconds()))
	w, h := r.platform.Canvas().Size()
	in := r.input.sample(r.camera, r.frame, dt, w, h)

	r.queue.reset()

	frameStart := time.Now()
	if err := r.invoke(fn, in); err != nil {
		Logger().Info("milun: frame callback failed", "frame", r.frame, "error", err)
		return fmt.Errorf("milun: frame %d: %w", r.frame, err)
	}
	callbackTime := time.Since(frameStart)

	stats, err := r.flush()
	if err != nil {
		return err
	}
	stats.CallbackTime = callbackTime

	presentStart := time.Now()
	if err := r.platform.Present(); err != nil {
		return fmt.Errorf("%w: present frame %d: %w", ErrPlatform, r.frame, err)
	}
	stats.PresentTime = time.Since(presentStart)
	r.flushScreenshots()

	r.applyPending()
	stats.Frame = r.frame
	r.stats = stats
	r.debugLog(stats)
	r.frame++
	return nil
}

// invoke runs fn with the callback window open. A panic closes the window,
// stops the renderer, and propagates.
func (r *Renderer) invoke(fn FrameFunc, in FrameInputs) error {
	r.inCallback = true
	defer func() {
		r.inCallback = false
		if p := recover(); p != nil {
			r.state = StateStopped
			panic(p)
		}
	}()
	return fn(r, in)
}

// handleEvent applies one platform or injected event.
func (r *Renderer) handleEvent(ev Event) {
	if r.input.apply(ev) {
		return
	}
	switch e := ev.(type) {
	case Resized:
		r.camera.Viewport.Width = float64(e.Width)
		r.camera.Viewport.Height = float64(e.Height)
		Logger().Info("milun: resized", "width", e.Width, "height", e.Height)
	case CloseRequested:
		r.stopReq = true
	case KeyEscape:
		if r.cfg.EscapeCloses {
			r.stopReq = true
		}
	}
}
