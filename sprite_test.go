package milun

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// solidPNG encodes a w x h PNG filled with c.
func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// newTestRenderer returns a renderer on a headless w x h platform.
func newTestRenderer(t *testing.T, w, h int, cfg Config) (*Renderer, *HeadlessPlatform) {
	t.Helper()
	p := NewHeadlessPlatform(w, h)
	cfg.Platform = p
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r, p
}

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func TestAddSpriteHandlesIncrease(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	for i := 0; i < 4; i++ {
		h, err := r.AddSprite(solidPNG(t, 4, 4, red))
		if err != nil {
			t.Fatalf("AddSprite %d: %v", i, err)
		}
		if h != Handle(i) {
			t.Errorf("handle = %d, want %d", h, i)
		}
	}
	hs, err := r.AddSprites(solidPNG(t, 2, 2, red), solidPNG(t, 3, 3, red))
	if err != nil {
		t.Fatal(err)
	}
	if hs[0] != 4 || hs[1] != 5 {
		t.Errorf("packed handles = %v, want [4 5]", hs)
	}
	if r.SpriteCount() != 6 {
		t.Errorf("SpriteCount = %d, want 6", r.SpriteCount())
	}
}

func TestAddSpriteMetadata(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	h, err := r.AddSprite(solidPNG(t, 8, 16, green))
	if err != nil {
		t.Fatal(err)
	}
	sp, err := r.Sprite(h)
	if err != nil {
		t.Fatal(err)
	}
	if sp.Width != 8 || sp.Height != 16 {
		t.Errorf("size = %dx%d, want 8x16", sp.Width, sp.Height)
	}
	if sp.Format != PixelFormatRGBA8Premultiplied {
		t.Errorf("format = %v", sp.Format)
	}
}

func TestAddSpriteDecodeErrors(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not an image")},
		{"truncated png", solidPNG(t, 4, 4, red)[:20]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := r.AddSprite(tt.data)
			if !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
			if h != -1 {
				t.Errorf("handle = %d, want -1", h)
			}
		})
	}
	if r.SpriteCount() != 0 {
		t.Errorf("SpriteCount = %d after failed decodes", r.SpriteCount())
	}
}

func TestAddSpritesAllOrNothing(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	_, err := r.AddSprites(solidPNG(t, 4, 4, red), []byte("bad"), solidPNG(t, 4, 4, red))
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("err = %v, want ErrDecode", err)
	}
	if r.SpriteCount() != 0 {
		t.Errorf("SpriteCount = %d, want 0", r.SpriteCount())
	}
}

func TestAddSpritesSharesPage(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	hs, err := r.AddSprites(solidPNG(t, 8, 8, red), solidPNG(t, 4, 12, green))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := r.Sprite(hs[0])
	b, _ := r.Sprite(hs[1])
	if a.Region.Page != b.Region.Page {
		t.Errorf("pages = %d, %d, want shared", a.Region.Page, b.Region.Page)
	}
	page := r.store.pages[b.Region.Page].img
	if got := page.RGBAAt(b.Region.X, b.Region.Y); got != green {
		t.Errorf("packed texel = %v, want green", got)
	}
}

func TestAddSpritePremultiplies(t *testing.T) {
	half := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	tests := []struct {
		name  string
		opts  SpriteLoadOptions
		wantR uint8
	}{
		{"straight", SpriteLoadOptions{}, 100},
		{"already premultiplied", SpriteLoadOptions{Premultiplied: true}, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t, 8, 8, Config{})
			h, err := r.AddSpriteWithOptions(solidPNG(t, 2, 2, half), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			sp, _ := r.Sprite(h)
			got := r.store.pages[sp.Region.Page].img.RGBAAt(0, 0)
			if got.R != tt.wantR || got.A != 128 {
				t.Errorf("texel = %v, want R=%d A=128", got, tt.wantR)
			}
		})
	}
}

func TestAddSpritePremultiplied16Bit(t *testing.T) {
	img := image.NewNRGBA64(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{R: 0x8080, A: 0x8080})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		opts  SpriteLoadOptions
		wantR uint8
	}{
		{"straight", SpriteLoadOptions{}, 64},
		{"already premultiplied", SpriteLoadOptions{Premultiplied: true}, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t, 8, 8, Config{})
			h, err := r.AddSpriteWithOptions(buf.Bytes(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			sp, _ := r.Sprite(h)
			got := r.store.pages[sp.Region.Page].img.RGBAAt(1, 1)
			if got.R != tt.wantR || got.A != 128 {
				t.Errorf("texel = %v, want R=%d A=128", got, tt.wantR)
			}
		})
	}
}

func TestSpriteInvalidHandle(t *testing.T) {
	r, _ := newTestRenderer(t, 8, 8, Config{})
	for _, h := range []Handle{-1, 0, 42} {
		if _, err := r.Sprite(h); !errors.Is(err, ErrInvalidHandle) {
			t.Errorf("Sprite(%d) err = %v, want ErrInvalidHandle", h, err)
		}
	}
}

func TestAddImageUploadsImmediately(t *testing.T) {
	r, _ := newTestRenderer(t, 8, 8, Config{})
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	h, err := r.AddImage(img)
	if err != nil {
		t.Fatal(err)
	}
	sp, _ := r.Sprite(h)
	if r.store.pages[sp.Region.Page].tex == nil {
		t.Error("texture not uploaded before the loop")
	}
	if len(r.store.pending) != 0 {
		t.Errorf("pending = %v", r.store.pending)
	}
}

func TestAddImageEmpty(t *testing.T) {
	r, _ := newTestRenderer(t, 8, 8, Config{})
	if _, err := r.AddImage(image.NewRGBA(image.Rectangle{})); !errors.Is(err, ErrDecode) {
		t.Errorf("err = %v, want ErrDecode", err)
	}
}

const twoFrameAtlas = `{
  "frames": {
    "b": {"frame": {"x": 8, "y": 0, "w": 8, "h": 8}},
    "a": {"frame": {"x": 0, "y": 0, "w": 8, "h": 8}}
  }
}`

func halvesPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, green)
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestAddAtlas(t *testing.T) {
	r, _ := newTestRenderer(t, 32, 32, Config{})
	first, err := r.AddSprite(solidPNG(t, 2, 2, blue))
	if err != nil {
		t.Fatal(err)
	}
	got, err := r.AddAtlas([]byte(twoFrameAtlas), [][]byte{halvesPNG(t)})
	if err != nil {
		t.Fatalf("AddAtlas: %v", err)
	}
	// Handles are minted in name order after existing sprites.
	if got["a"] != first+1 || got["b"] != first+2 {
		t.Errorf("handles = %v", got)
	}
	b, _ := r.Sprite(got["b"])
	if b.Region.X != 8 || b.Width != 8 || b.Height != 8 {
		t.Errorf("b = %+v", b)
	}
	if b.Region.Page == 0 {
		t.Error("atlas page index not offset past existing pages")
	}
}

func TestAddAtlasErrors(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		pages int
	}{
		{"bad json", `{`, 1},
		{"missing page", twoFrameAtlas, 0},
		{"region outside page", `{"frames": {"x": {"frame": {"x": 12, "y": 0, "w": 8, "h": 8}}}}`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestRenderer(t, 32, 32, Config{})
			pages := make([][]byte, tt.pages)
			for i := range pages {
				pages[i] = halvesPNG(t)
			}
			if _, err := r.AddAtlas([]byte(tt.json), pages); !errors.Is(err, ErrDecode) {
				t.Errorf("err = %v, want ErrDecode", err)
			}
			if r.SpriteCount() != 0 || len(r.store.pages) != 0 {
				t.Errorf("store changed: %d sprites, %d pages", r.SpriteCount(), len(r.store.pages))
			}
		})
	}
}
