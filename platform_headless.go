package milun

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// HeadlessPlatform renders into an in-memory RGBA back buffer. It needs no
// window or GPU, which makes it the platform for tests, CI, and offscreen
// rendering.
type HeadlessPlatform struct {
	// MaxFrames, when positive, queues a CloseRequested event once that many
	// frames have been presented. It keeps Run from looping forever.
	MaxFrames int

	canvas    *softCanvas
	title     string
	events    []Event
	presented int
	closed    bool
}

// NewHeadlessPlatform creates a headless platform with a transparent black
// back buffer of the given size.
func NewHeadlessPlatform(width, height int) *HeadlessPlatform {
	return &HeadlessPlatform{
		canvas: &softCanvas{img: image.NewRGBA(image.Rect(0, 0, width, height))},
	}
}

// Loop calls step until it requests a stop or fails.
func (p *HeadlessPlatform) Loop(step func() error) error {
	for {
		if err := step(); err != nil {
			if errors.Is(err, errStop) {
				return nil
			}
			return err
		}
	}
}

// Queue appends events delivered by the next PollEvents call.
func (p *HeadlessPlatform) Queue(events ...Event) {
	p.events = append(p.events, events...)
}

// Resize queues a Resized event. The back buffer is resized when the event
// is delivered.
func (p *HeadlessPlatform) Resize(width, height int) {
	p.Queue(Resized{Width: width, Height: height})
}

// PollEvents delivers queued events.
func (p *HeadlessPlatform) PollEvents(dst []Event) []Event {
	for _, ev := range p.events {
		if rs, ok := ev.(Resized); ok {
			p.canvas.resize(rs.Width, rs.Height)
		}
		dst = append(dst, ev)
	}
	p.events = p.events[:0]
	return dst
}

// Canvas returns the back buffer.
func (p *HeadlessPlatform) Canvas() Canvas {
	return p.canvas
}

// Present counts the frame. There is no front buffer; the back buffer is
// the visible result.
func (p *HeadlessPlatform) Present() error {
	if p.closed {
		return errors.New("headless platform closed")
	}
	p.presented++
	if p.MaxFrames > 0 && p.presented == p.MaxFrames {
		p.Queue(CloseRequested{})
	}
	return nil
}

// Presented returns the number of frames presented so far.
func (p *HeadlessPlatform) Presented() int {
	return p.presented
}

// SetTitle records the title.
func (p *HeadlessPlatform) SetTitle(title string) {
	p.title = title
}

// Title returns the most recently applied title.
func (p *HeadlessPlatform) Title() string {
	return p.title
}

// Seed copies img into the back buffer, aligned at the top-left corner.
func (p *HeadlessPlatform) Seed(img image.Image) {
	draw.Draw(p.canvas.img, p.canvas.img.Bounds(), img, img.Bounds().Min, draw.Src)
}

// Frame returns the live back buffer. It must not be retained across frames.
func (p *HeadlessPlatform) Frame() *image.RGBA {
	return p.canvas.img
}

// NewTexture keeps img as the texture. The caller must not modify img
// afterwards.
func (p *HeadlessPlatform) NewTexture(img *image.RGBA) (Texture, error) {
	if p.closed {
		return nil, errors.New("headless platform closed")
	}
	return &softTexture{img: img}, nil
}

// Close marks the platform closed.
func (p *HeadlessPlatform) Close() error {
	p.closed = true
	return nil
}

// softTexture is a texture backed by an *image.RGBA.
type softTexture struct {
	img *image.RGBA
}

func (t *softTexture) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *softTexture) Dispose() {
	t.img = nil
}

// softCanvas rasterizes textures with golang.org/x/image/draw.
type softCanvas struct {
	img  *image.RGBA
	tint *image.RGBA // scratch for tinted sources
}

func (c *softCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *softCanvas) Fill(col color.Color) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *softCanvas) DrawTexture(tex Texture, src image.Rectangle, geo [6]float64, tint Color, filter Filter) {
	t, ok := tex.(*softTexture)
	if !ok || t.img == nil {
		return
	}
	src = src.Intersect(t.img.Bounds())
	if src.Empty() {
		return
	}

	var srcImg image.Image = t.img
	if tint != ColorWhite {
		srcImg = c.tinted(t.img, src, tint)
	}

	a, b, cc, d := geo[0], geo[1], geo[2], geo[3]
	// Whole-pixel translations go through Copy: Transform's copy fast path
	// reads sub-rectangles from (Min.X, Min.X) instead of src.Min.
	if a == 1 && b == 0 && cc == 0 && d == 1 &&
		geo[4] == math.Trunc(geo[4]) && geo[5] == math.Trunc(geo[5]) {
		xdraw.Copy(c.img, image.Pt(int(geo[4]), int(geo[5])), srcImg, src, xdraw.Over, nil)
		return
	}

	// x/image/draw expects a source-to-destination transform in absolute
	// source coordinates, so shift by src.Min first.
	mx, my := float64(src.Min.X), float64(src.Min.Y)
	tx := geo[4] - a*mx - cc*my
	ty := geo[5] - b*mx - d*my
	s2d := f64.Aff3{a, cc, tx, b, d, ty}

	var interp xdraw.Interpolator = xdraw.NearestNeighbor
	if filter == FilterLinear {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(c.img, s2d, srcImg, src, xdraw.Over, nil)
}

// tinted multiplies the src rectangle of img by the premultiplied tint into
// a scratch image with the same coordinates.
func (c *softCanvas) tinted(img *image.RGBA, src image.Rectangle, tint Color) *image.RGBA {
	if c.tint == nil || !src.In(c.tint.Bounds()) {
		c.tint = image.NewRGBA(img.Bounds())
	}
	for y := src.Min.Y; y < src.Max.Y; y++ {
		so := img.PixOffset(src.Min.X, y)
		do := c.tint.PixOffset(src.Min.X, y)
		for x := 0; x < src.Dx(); x++ {
			i, j := so+x*4, do+x*4
			c.tint.Pix[j] = uint8(float64(img.Pix[i])*tint.R + 0.5)
			c.tint.Pix[j+1] = uint8(float64(img.Pix[i+1])*tint.G + 0.5)
			c.tint.Pix[j+2] = uint8(float64(img.Pix[i+2])*tint.B + 0.5)
			c.tint.Pix[j+3] = uint8(float64(img.Pix[i+3])*tint.A + 0.5)
		}
	}
	return c.tint
}

func (c *softCanvas) ReadPixels() *image.RGBA {
	out := image.NewRGBA(c.img.Bounds())
	copy(out.Pix, c.img.Pix)
	return out
}

// resize replaces the back buffer, keeping the overlapping top-left region.
func (c *softCanvas) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	next := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(next, next.Bounds(), c.img, image.Point{}, draw.Src)
	c.img = next
}
