package milun

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at flush time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// RGB builds an opaque Color from 8-bit channels, the form background colors
// are usually written in.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// isZero reports whether c is the zero-value sentinel, which draws as
// opaque white.
func (c Color) isZero() bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

// premultiplied returns the color scale applied to texels at flush time.
// The zero-value sentinel maps to opaque white.
func (c Color) premultiplied() Color {
	if c.isZero() {
		return ColorWhite
	}
	a := clamp01(c.A)
	return Color{clamp01(c.R) * a, clamp01(c.G) * a, clamp01(c.B) * a, a}
}

// toRGBA converts c to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

// RGBA implements color.Color, so a Color can be passed as a background.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.toRGBA().RGBA()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, sizes, and directions throughout
// the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Handle identifies a sprite. Handles are dense, start at 0, and are never
// reused while the renderer is alive.
type Handle int

// Filter selects how textures are sampled when scaled or rotated.
type Filter uint8

const (
	FilterNearest Filter = iota // pixel-art sampling (default)
	FilterLinear                // bilinear sampling
)

// PixelFormat describes how sprite texels are stored.
type PixelFormat uint8

const (
	PixelFormatRGBA8Premultiplied PixelFormat = iota // 8-bit RGBA, alpha premultiplied
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8Premultiplied:
		return "rgba8-premultiplied"
	default:
		return "unknown"
	}
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// MouseButtons is a bitmask of held mouse buttons.
type MouseButtons uint8

// Pressed reports whether b is held.
func (m MouseButtons) Pressed(b MouseButton) bool {
	return m&(1<<b) != 0
}

func (m MouseButtons) with(b MouseButton, down bool) MouseButtons {
	if down {
		return m | 1<<b
	}
	return m &^ (1 << b)
}
