package milun

import (
	"image"
	"image/color"
)

// Platform is the window, event, and presentation layer the frame scheduler
// drives. EbitenPlatform opens a real window; HeadlessPlatform rasterizes in
// memory.
type Platform interface {
	// Loop owns the outer loop. It calls step once per iteration until step
	// returns an error and returns that error. The renderer recognizes its
	// own stop signal, so a platform may pass it through unchanged.
	Loop(step func() error) error
	// PollEvents appends the events observed since the last call to dst.
	PollEvents(dst []Event) []Event
	// Canvas returns the back buffer draws are rasterized into.
	Canvas() Canvas
	// Present makes the back buffer visible.
	Present() error
	// SetTitle changes the window title.
	SetTitle(title string)
	// NewTexture uploads img and returns a texture drawable on the Canvas.
	NewTexture(img *image.RGBA) (Texture, error)
	// Close releases the platform.
	Close() error
}

// Texture is a platform-owned image created by Platform.NewTexture.
type Texture interface {
	Size() (w, h int)
	Dispose()
}

// Canvas is a back buffer.
type Canvas interface {
	Size() (w, h int)
	// Fill replaces every pixel with c.
	Fill(c color.Color)
	// DrawTexture composites the src rectangle of tex (source-over) using
	// geo, an affine matrix [a, b, c, d, tx, ty] mapping texture pixel
	// coordinates relative to src.Min to canvas pixels. tint is a
	// premultiplied color scale.
	DrawTexture(tex Texture, src image.Rectangle, geo [6]float64, tint Color, filter Filter)
	// ReadPixels returns a copy of the back buffer.
	ReadPixels() *image.RGBA
}

// Event is a platform event consumed at the start of a frame.
type Event interface {
	event()
}

// CursorMoved reports the cursor position in window pixels.
type CursorMoved struct {
	X, Y float64
}

// ButtonPressed reports a mouse button going down.
type ButtonPressed struct {
	Button MouseButton
	X, Y   float64
}

// ButtonReleased reports a mouse button going up.
type ButtonReleased struct {
	Button MouseButton
	X, Y   float64
}

// Resized reports a new window size in pixels.
type Resized struct {
	Width, Height int
}

// CloseRequested reports that the window should close.
type CloseRequested struct{}

// KeyEscape reports that Escape was pressed.
type KeyEscape struct{}

func (CursorMoved) event()    {}
func (ButtonPressed) event()  {}
func (ButtonReleased) event() {}
func (Resized) event()        {}
func (CloseRequested) event() {}
func (KeyEscape) event()      {}
