// Package milun is a minimal immediate-mode 2D sprite renderer built on
// [Ebitengine].
//
// A program creates a [Renderer], loads images into it as sprites, and hands
// it a per-frame callback. Each frame the callback receives a snapshot of the
// mouse input and records draw commands; the renderer then sorts them by
// layer and submission order, rasterizes them into the window, and presents.
//
// # Quick start
//
//	r, err := milun.New(milun.Config{Title: "hello", Background: color.Black})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer r.Close()
//
//	ball, err := r.AddSprite(ballPNG)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = r.Run(func(r *milun.Renderer, in milun.FrameInputs) error {
//		return r.Draw(ball, in.CursorWorld, nil)
//	})
//
// # Coordinates
//
// World coordinates are centered on the window: with the default [Camera]
// the point (0, 0) is the middle of the window, X grows to the right, Y grows
// downward, and one world unit is one pixel. A sprite's position is its
// center. [FrameInputs.CursorWorld] is the cursor mapped through the inverse
// camera view, so drawing a sprite at it places the sprite under the cursor
// regardless of camera position, zoom, or rotation.
//
// # Layers
//
// Draw commands are sorted by [DrawOptions.Layer] ascending, then by
// submission order, so higher layers draw on top and ties keep call order.
// Layers can be named with [Renderer.SetLayer] and referred to through
// [DrawOptions.LayerName].
//
// # Lifecycle
//
// A renderer moves from [StateCreated] to [StateRunning] when [Renderer.Run]
// (or the first [Renderer.Step]) begins, and to [StateStopped] when the
// window is closed, [Renderer.Stop] is called, or the callback returns an
// error. Sprites, the background color, the title, and named layers may be
// changed before the loop starts or from inside the callback. [Renderer.Draw]
// is only valid inside the callback.
//
// # Headless rendering
//
// [HeadlessPlatform] renders into an in-memory image instead of a window. It
// is used by the package tests and works for offscreen rendering:
//
//	p := milun.NewHeadlessPlatform(320, 240)
//	p.MaxFrames = 1
//	r, _ := milun.New(milun.Config{Platform: p, Background: color.White})
//	...
//	_ = r.Run(frame)
//	img := p.Frame()
//
// # Scripted input
//
// The Inject methods queue synthetic pointer events that are consumed one
// per frame, and [LoadTestScript] plays a JSON script of moves, clicks,
// drags, waits, and screenshots. Together with [Renderer.Screenshot] they
// allow automated visual tests.
//
// # Logging
//
// The package logs through [log/slog] and is silent by default. Enable it
// with [SetLogger]. With [Config.Debug] set, per-frame timing and draw stats
// are logged at debug level.
//
// [Ebitengine]: https://ebitengine.org
package milun
