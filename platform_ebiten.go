package milun

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// EbitenPlatform presents frames in an Ebitengine window. Ebitengine owns
// the outer loop, so frames are driven from ebiten.Game.Update and the back
// buffer is blitted to the screen in ebiten.Game.Draw.
type EbitenPlatform struct {
	back    *ebiten.Image
	w, h    int
	showFPS bool

	events           []Event
	cursorX, cursorY int
	step             func() error
}

// NewEbitenPlatform configures the Ebitengine window from cfg. The window
// opens when Loop is called.
func NewEbitenPlatform(cfg Config) *EbitenPlatform {
	cfg = cfg.withDefaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TPS)
	// The back buffer decides whether a frame is cleared, never the screen.
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetWindowClosingHandled(true)
	return &EbitenPlatform{
		back:    ebiten.NewImage(cfg.Width, cfg.Height),
		w:       cfg.Width,
		h:       cfg.Height,
		showFPS: cfg.ShowFPS,
		cursorX: -1,
		cursorY: -1,
	}
}

// Loop runs ebiten.RunGame until step requests a stop or fails.
func (p *EbitenPlatform) Loop(step func() error) error {
	p.step = step
	defer func() { p.step = nil }()
	return ebiten.RunGame(&ebitenGame{p: p})
}

// PollEvents delivers the events gathered since the last call.
func (p *EbitenPlatform) PollEvents(dst []Event) []Event {
	dst = append(dst, p.events...)
	p.events = p.events[:0]
	return dst
}

// Canvas returns the offscreen back buffer.
func (p *EbitenPlatform) Canvas() Canvas {
	return ebitenCanvas{p: p}
}

// Present is a no-op: the back buffer reaches the screen in Draw.
func (p *EbitenPlatform) Present() error {
	if p.back == nil {
		return errors.New("ebiten platform closed")
	}
	return nil
}

// SetTitle changes the window title.
func (p *EbitenPlatform) SetTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// NewTexture uploads img to the GPU.
func (p *EbitenPlatform) NewTexture(img *image.RGBA) (Texture, error) {
	if img.Bounds().Empty() {
		return nil, errors.New("empty texture")
	}
	return &ebitenTexture{img: ebiten.NewImageFromImage(img)}, nil
}

// Close releases the back buffer.
func (p *EbitenPlatform) Close() error {
	if p.back != nil {
		p.back.Deallocate()
		p.back = nil
	}
	return nil
}

// gatherInput translates Ebitengine input state into events.
func (p *EbitenPlatform) gatherInput() {
	if ebiten.IsWindowBeingClosed() {
		p.events = append(p.events, CloseRequested{})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		p.events = append(p.events, KeyEscape{})
	}

	x, y := ebiten.CursorPosition()
	if x != p.cursorX || y != p.cursorY {
		p.cursorX, p.cursorY = x, y
		p.events = append(p.events, CursorMoved{X: float64(x), Y: float64(y)})
	}

	for _, b := range [...]MouseButton{MouseButtonLeft, MouseButtonRight, MouseButtonMiddle} {
		eb := ebitenButton(b)
		if inpututil.IsMouseButtonJustPressed(eb) {
			p.events = append(p.events, ButtonPressed{Button: b, X: float64(x), Y: float64(y)})
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			p.events = append(p.events, ButtonReleased{Button: b, X: float64(x), Y: float64(y)})
		}
	}
}

// resize replaces the back buffer, keeping its previous contents.
func (p *EbitenPlatform) resize(w, h int) {
	if w <= 0 || h <= 0 || p.back == nil {
		return
	}
	next := ebiten.NewImage(w, h)
	next.DrawImage(p.back, nil)
	p.back.Deallocate()
	p.back = next
	p.w, p.h = w, h
	p.events = append(p.events, Resized{Width: w, Height: h})
}

func ebitenButton(b MouseButton) ebiten.MouseButton {
	switch b {
	case MouseButtonRight:
		return ebiten.MouseButtonRight
	case MouseButtonMiddle:
		return ebiten.MouseButtonMiddle
	default:
		return ebiten.MouseButtonLeft
	}
}

// ebitenGame adapts the platform to ebiten.Game.
type ebitenGame struct {
	p *EbitenPlatform
}

func (g *ebitenGame) Update() error {
	g.p.gatherInput()
	if err := g.p.step(); err != nil {
		if errors.Is(err, errStop) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *ebitenGame) Draw(screen *ebiten.Image) {
	if g.p.back == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.Blend = ebiten.BlendCopy
	screen.DrawImage(g.p.back, &op)
	if g.p.showFPS {
		drawFPS(screen)
	}
}

func (g *ebitenGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.p.w || outsideHeight != g.p.h {
		g.p.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// ebitenTexture wraps a GPU image.
type ebitenTexture struct {
	img *ebiten.Image
}

func (t *ebitenTexture) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ebitenTexture) Dispose() {
	if t.img != nil {
		t.img.Deallocate()
		t.img = nil
	}
}

// ebitenCanvas draws into the platform's current back buffer, which is
// replaced on resize.
type ebitenCanvas struct {
	p *EbitenPlatform
}

func (c ebitenCanvas) Size() (int, int) {
	return c.p.w, c.p.h
}

func (c ebitenCanvas) Fill(col color.Color) {
	if c.p.back != nil {
		c.p.back.Fill(col)
	}
}

func (c ebitenCanvas) DrawTexture(tex Texture, src image.Rectangle, geo [6]float64, tint Color, filter Filter) {
	t, ok := tex.(*ebitenTexture)
	if !ok || t.img == nil || c.p.back == nil {
		return
	}
	sub := t.img.SubImage(src).(*ebiten.Image)

	var op ebiten.DrawImageOptions
	op.GeoM = affineGeoM(geo)
	op.ColorScale.Scale(float32(tint.R), float32(tint.G), float32(tint.B), float32(tint.A))
	if filter == FilterLinear {
		op.Filter = ebiten.FilterLinear
	} else {
		op.Filter = ebiten.FilterNearest
	}
	c.p.back.DrawImage(sub, &op)
}

func (c ebitenCanvas) ReadPixels() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, c.p.w, c.p.h))
	if c.p.back != nil {
		c.p.back.ReadPixels(out.Pix)
	}
	return out
}

// affineGeoM converts an [a, b, c, d, tx, ty] matrix into an ebiten.GeoM.
func affineGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}
