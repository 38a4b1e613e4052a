package milun

import "image/color"

const (
	defaultTitle         = "milun"
	defaultWidth         = 640
	defaultHeight        = 480
	defaultTPS           = 60
	defaultMaxAtlasSize  = 4096
	defaultScreenshotDir = "screenshots"
)

// Config holds the options for New. Zero values are replaced with defaults.
type Config struct {
	// Title is the initial window title.
	Title string
	// Width and Height are the initial window size in pixels.
	Width, Height int
	// Background is the initial clear color. Nil means the back buffer is
	// never cleared and each frame draws over the previous one.
	Background color.Color
	// Filter selects texture sampling for every draw.
	Filter Filter
	// TPS is the target number of frames per second.
	TPS int
	// ShowFPS overlays the measured FPS and TPS (ebiten platform only).
	ShowFPS bool
	// Debug logs per-frame timing and command stats at debug level.
	Debug bool
	// EscapeCloses stops the loop when Escape is pressed.
	EscapeCloses bool
	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string
	// MaxAtlasSize bounds the side of a packed atlas page built by AddSprites.
	MaxAtlasSize int
	// Platform is the window and presentation layer. Nil opens an ebiten
	// window using the settings above.
	Platform Platform
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = defaultTitle
	}
	if c.Width <= 0 {
		c.Width = defaultWidth
	}
	if c.Height <= 0 {
		c.Height = defaultHeight
	}
	if c.TPS <= 0 {
		c.TPS = defaultTPS
	}
	if c.MaxAtlasSize <= 0 {
		c.MaxAtlasSize = defaultMaxAtlasSize
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = defaultScreenshotDir
	}
	return c
}
