package milun

import (
	"fmt"
	"image"
	"image/color"
)

// Renderer draws sprites into a window once per frame. Create it with New,
// load sprites, then hand a frame callback to Run.
//
// A Renderer is single-threaded: every method must be called from the
// goroutine that calls Run (or Step), either before the loop starts or from
// inside the frame callback.
type Renderer struct {
	cfg      Config
	platform Platform

	store  spriteStore
	queue  drawQueue
	layers layerTable
	camera *Camera
	input  inputState

	state      State
	inCallback bool
	inFrame    bool // set for the whole of iterate
	stopReq    bool
	frame      uint64

	background color.Color
	bgPending  bool
	bgNext     color.Color
	title      string
	titlePend  bool

	events          []Event
	injectQueue     []Event
	screenshotQueue []string
	testRunner      *TestRunner
	flushObservers  []FlushFunc
	stats           FrameStats
}

// New creates a renderer. With a nil cfg.Platform an Ebitengine window is
// configured; it opens when Run is called.
func New(cfg Config) (*Renderer, error) {
	cfg = cfg.withDefaults()
	p := cfg.Platform
	if p == nil {
		p = NewEbitenPlatform(cfg)
	}
	if p.Canvas() == nil {
		return nil, fmt.Errorf("%w: platform has no canvas", ErrPlatform)
	}
	w, h := p.Canvas().Size()

	r := &Renderer{
		cfg:        cfg,
		platform:   p,
		queue:      newDrawQueue(),
		layers:     make(layerTable),
		camera:     newCamera(Rect{Width: float64(w), Height: float64(h)}),
		background: cfg.Background,
		title:      cfg.Title,
	}
	p.SetTitle(cfg.Title)
	return r, nil
}

// checkMutable reports whether configuration and sprite loading are
// permitted: before the loop starts, or inside the frame callback.
func (r *Renderer) checkMutable(op string) error {
	if r.inCallback || r.state == StateCreated {
		return nil
	}
	return fmt.Errorf("%w: %s called while %s and outside the frame callback", ErrInvalidState, op, r.state)
}

// AddSprite decodes an encoded image (PNG, JPEG, GIF, BMP, TIFF, or WebP)
// and returns its handle. Handles start at 0 and increase by one per sprite.
// Inside a frame callback the GPU upload is deferred to the end of the
// callback, but the handle can be drawn immediately.
func (r *Renderer) AddSprite(data []byte) (Handle, error) {
	return r.AddSpriteWithOptions(data, SpriteLoadOptions{})
}

// AddSpriteWithOptions is AddSprite with load options.
func (r *Renderer) AddSpriteWithOptions(data []byte, opts SpriteLoadOptions) (Handle, error) {
	if err := r.checkMutable("AddSprite"); err != nil {
		return -1, err
	}
	img, err := decodeImage(data, opts)
	if err != nil {
		return -1, err
	}
	h := r.store.addImage(img)
	return h, r.uploadNow()
}

// AddImage registers an already decoded image.
func (r *Renderer) AddImage(img image.Image) (Handle, error) {
	if err := r.checkMutable("AddImage"); err != nil {
		return -1, err
	}
	rgba, err := toRGBA(img, SpriteLoadOptions{})
	if err != nil {
		return -1, err
	}
	h := r.store.addImage(rgba)
	return h, r.uploadNow()
}

// AddSprites decodes several images and packs them onto shared atlas pages.
// Handles are returned in argument order. If any image fails to decode, no
// sprite is added.
func (r *Renderer) AddSprites(data ...[]byte) ([]Handle, error) {
	if err := r.checkMutable("AddSprites"); err != nil {
		return nil, err
	}
	imgs := make([]*image.RGBA, len(data))
	for i, d := range data {
		img, err := decodeImage(d, SpriteLoadOptions{})
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		imgs[i] = img
	}
	handles := r.store.addPacked(imgs, r.cfg.MaxAtlasSize)
	return handles, r.uploadNow()
}

// AddAtlas registers every frame of a TexturePacker sheet (JSON hash or
// array format). pages holds the encoded page images in sheet order.
// Handles are minted in lexical frame-name order.
func (r *Renderer) AddAtlas(jsonData []byte, pages [][]byte) (map[string]Handle, error) {
	if err := r.checkMutable("AddAtlas"); err != nil {
		return nil, err
	}
	regions, err := parseAtlas(jsonData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	imgs := make([]*image.RGBA, len(pages))
	for i, d := range pages {
		img, err := decodeImage(d, SpriteLoadOptions{})
		if err != nil {
			return nil, fmt.Errorf("atlas page %d: %w", i, err)
		}
		imgs[i] = img
	}
	handles, err := r.store.addAtlas(regions, imgs)
	if err != nil {
		return nil, err
	}
	return handles, r.uploadNow()
}

// uploadNow uploads pending pages unless a frame callback is running, in
// which case they wait for the flush.
func (r *Renderer) uploadNow() error {
	if r.inCallback {
		return nil
	}
	return r.store.upload(r.platform)
}

// Sprite returns the metadata of a loaded sprite.
func (r *Renderer) Sprite(h Handle) (Sprite, error) {
	return r.store.sprite(h)
}

// SpriteCount returns the number of sprites minted so far.
func (r *Renderer) SpriteCount() int {
	return len(r.store.sprites)
}

// Draw queues sprite h centered at the world position pos. It may only be
// called from inside the frame callback. A nil opts draws with angle 0 on
// layer 0.
func (r *Renderer) Draw(h Handle, pos Vec2, opts *DrawOptions) error {
	if !r.inCallback {
		return fmt.Errorf("%w: Draw called outside the frame callback (%s)", ErrInvalidState, r.state)
	}
	if !r.store.valid(h) {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	cmd := DrawCommand{Handle: h, Position: pos, Scale: Vec2{1, 1}}
	if opts != nil {
		cmd.Angle = opts.Angle
		cmd.Layer = opts.Layer
		if opts.LayerName != "" {
			cmd.Layer = r.layers.resolve(opts.LayerName)
		}
		if opts.ScaleX != 0 {
			cmd.Scale.X = opts.ScaleX
		}
		if opts.ScaleY != 0 {
			cmd.Scale.Y = opts.ScaleY
		}
		cmd.Color = opts.Color
	}
	r.queue.push(cmd)
	return nil
}

// SetLayer names a layer ordinal so draws can refer to it by name.
func (r *Renderer) SetLayer(name string, z int) error {
	if err := r.checkMutable("SetLayer"); err != nil {
		return err
	}
	r.layers[name] = z
	return nil
}

// Layer returns the ordinal registered for name.
func (r *Renderer) Layer(name string) (int, bool) {
	z, ok := r.layers[name]
	return z, ok
}

// SetBackgroundColor sets the color the back buffer is cleared with at the
// start of each flush. Nil disables clearing, so every frame draws over the
// previous one. Inside the frame callback the change takes effect from the
// next frame.
func (r *Renderer) SetBackgroundColor(c color.Color) error {
	if err := r.checkMutable("SetBackgroundColor"); err != nil {
		return err
	}
	if r.inCallback {
		r.bgNext, r.bgPending = c, true
		return nil
	}
	r.background = c
	return nil
}

// BackgroundColor returns the color currently used to clear frames, or nil.
func (r *Renderer) BackgroundColor() color.Color {
	return r.background
}

// SetTitle sets the window title. Inside the frame callback the last title
// set is applied after the frame is presented.
func (r *Renderer) SetTitle(title string) error {
	if err := r.checkMutable("SetTitle"); err != nil {
		return err
	}
	r.title = title
	if r.inCallback {
		r.titlePend = true
		return nil
	}
	r.platform.SetTitle(title)
	return nil
}

// Title returns the most recently requested window title.
func (r *Renderer) Title() string {
	return r.title
}

// Camera returns the camera used for world coordinates.
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// applyPending applies configuration requested during the callback.
func (r *Renderer) applyPending() {
	if r.bgPending {
		r.background, r.bgNext, r.bgPending = r.bgNext, nil, false
	}
	if r.titlePend {
		r.platform.SetTitle(r.title)
		r.titlePend = false
	}
}

// Close releases every sprite texture and the platform. The renderer is
// stopped afterwards. Calling Close while a frame is running, from the
// frame callback or a flush observer, is an error; call Stop instead.
// Close is idempotent.
func (r *Renderer) Close() error {
	if r.inFrame {
		return fmt.Errorf("%w: Close called during a frame", ErrInvalidState)
	}
	if r.platform == nil {
		return nil
	}
	r.store.release()
	err := r.platform.Close()
	r.platform = nil
	r.state = StateStopped
	if err != nil {
		return fmt.Errorf("%w: close: %w", ErrPlatform, err)
	}
	return nil
}
