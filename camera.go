package milun

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera decides where queued sprites land in the window. Draw positions are
// world coordinates; the camera maps them to pixels when the queue is
// flushed, and maps the cursor back into the world when inputs are sampled.
//
// The default camera looks at the world origin, which therefore sits at the
// window center. Y grows downward and one world unit is one pixel.
type Camera struct {
	// X and Y are the world point shown at the viewport center.
	X, Y float64
	// Zoom scales world units to pixels. Values above 1 magnify.
	Zoom float64
	// Rotation turns the view clockwise, in radians.
	Rotation float64
	// Viewport is the window rectangle drawn into. The renderer resizes it
	// with the window.
	Viewport Rect

	// CullEnabled skips rasterizing commands that fall outside
	// VisibleBounds. Culled commands are still reported to flush observers.
	CullEnabled bool

	// BoundsEnabled keeps the visible area inside Bounds.
	BoundsEnabled bool
	Bounds        Rect

	view, inv [6]float64
	cached    viewKey

	scroll *cameraScroll
}

// viewKey is the camera state view was computed from.
type viewKey struct {
	x, y, zoom, rotation float64
	viewport             Rect
	ok                   bool
}

// cameraScroll drives X and Y toward a ScrollTo target, one frame at a time.
type cameraScroll struct {
	x, y         *gween.Tween
	xDone, yDone bool
}

func newCamera(viewport Rect) *Camera {
	return &Camera{Zoom: 1, Viewport: viewport, CullEnabled: true}
}

// ScrollTo glides the camera to (x, y) over duration seconds. A nil easeFn
// scrolls linearly. Calling it again replaces the current scroll.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scroll = &cameraScroll{
		x: gween.New(float32(c.X), float32(x), duration, easeFn),
		y: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo is still running.
func (c *Camera) Scrolling() bool {
	return c.scroll != nil
}

// SetBounds turns on clamping to bounds.
func (c *Camera) SetBounds(bounds Rect) {
	c.Bounds = bounds
	c.BoundsEnabled = true
}

func (c *Camera) ClearBounds() {
	c.BoundsEnabled = false
}

// ClampToBounds applies bounds clamping now instead of at the next frame.
func (c *Camera) ClampToBounds() {
	if c.BoundsEnabled {
		c.clamp()
	}
}

// update runs once per frame before inputs are sampled.
func (c *Camera) update(dt float32) {
	if s := c.scroll; s != nil {
		c.X, s.xDone = advance(s.x, c.X, s.xDone, dt)
		c.Y, s.yDone = advance(s.y, c.Y, s.yDone, dt)
		if s.xDone && s.yDone {
			c.scroll = nil
		}
	}
	if c.BoundsEnabled {
		c.clamp()
	}
}

func advance(tw *gween.Tween, cur float64, done bool, dt float32) (float64, bool) {
	if done {
		return cur, true
	}
	v, done := tw.Update(dt)
	return float64(v), done
}

func (c *Camera) clamp() {
	c.X = clampAxis(c.X, c.Bounds.X, c.Bounds.Width, c.Viewport.Width/(2*c.Zoom))
	c.Y = clampAxis(c.Y, c.Bounds.Y, c.Bounds.Height, c.Viewport.Height/(2*c.Zoom))
}

// clampAxis keeps pos at least half away from both ends of [lo, lo+size].
// When the span is narrower than the view, pos is centered on it.
func clampAxis(pos, lo, size, half float64) float64 {
	minPos, maxPos := lo+half, lo+size-half
	if minPos > maxPos {
		return lo + size/2
	}
	return math.Max(minPos, math.Min(pos, maxPos))
}

// computeViewMatrix returns the world-to-window matrix
//
//	Translate(viewport center) * Scale(zoom) * Rotate(-rotation) * Translate(-X, -Y)
//
// rebuilding it only when a field changed.
func (c *Camera) computeViewMatrix() [6]float64 {
	key := viewKey{c.X, c.Y, c.Zoom, c.Rotation, c.Viewport, true}
	if key == c.cached {
		return c.view
	}
	c.cached = key

	sin, cos := math.Sincos(-c.Rotation)
	z := c.Zoom
	center := [6]float64{1, 0, 0, 1, c.Viewport.X + c.Viewport.Width/2, c.Viewport.Y + c.Viewport.Height/2}
	turn := [6]float64{z * cos, z * sin, -z * sin, z * cos, 0, 0}
	look := [6]float64{1, 0, 0, 1, -c.X, -c.Y}

	c.view = multiplyAffine(center, multiplyAffine(turn, look))
	c.inv = invertAffine(c.view)
	return c.view
}

// WorldToScreen maps a draw position to window pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return transformPoint(c.computeViewMatrix(), wx, wy)
}

// ScreenToWorld maps window pixels, such as the cursor, into the world.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.computeViewMatrix()
	return transformPoint(c.inv, sx, sy)
}

// VisibleBounds returns the world rectangle covering the viewport. Under
// rotation it is the bounding box of the rotated view.
func (c *Camera) VisibleBounds() Rect {
	c.computeViewMatrix()
	toViewport := multiplyAffine(c.inv, [6]float64{1, 0, 0, 1, c.Viewport.X, c.Viewport.Y})
	return worldAABB(toViewport, c.Viewport.Width, c.Viewport.Height)
}

// MarkDirty drops the cached view matrix.
func (c *Camera) MarkDirty() {
	c.cached.ok = false
}
