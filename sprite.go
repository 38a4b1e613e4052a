package milun

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	// Decoders reachable through image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SpriteLoadOptions controls how decoded image data is stored.
type SpriteLoadOptions struct {
	// Premultiplied marks the source color channels as already multiplied
	// by alpha, so they are stored as-is instead of being converted.
	Premultiplied bool
}

// Sprite describes a loaded sprite. Sprites are owned by the renderer and
// live until Close.
type Sprite struct {
	Width, Height int
	Format        PixelFormat
	Region        TextureRegion
}

// atlasPage is one texture holding one or more sprites.
type atlasPage struct {
	img *image.RGBA
	tex Texture // nil until uploaded
}

// spriteStore owns decoded pages, their platform textures, and the
// handle-to-region table. Handles index sprites directly.
type spriteStore struct {
	sprites []Sprite
	pages   []*atlasPage
	pending []int // page indices awaiting upload
}

// decodeImage decodes any registered raster format into a tightly packed
// premultiplied RGBA image with its origin at (0, 0).
func decodeImage(data []byte, opts SpriteLoadOptions) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return toRGBA(img, opts)
}

// toRGBA converts img to *image.RGBA.
func toRGBA(img image.Image, opts SpriteLoadOptions) (*image.RGBA, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	if nrgba, ok := img.(*image.NRGBA); ok && opts.Premultiplied {
		for y := 0; y < b.Dy(); y++ {
			src := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(out.Pix[y*out.Stride:y*out.Stride+4*b.Dx()], src[:4*b.Dx()])
		}
		return out, nil
	}
	if opts.Premultiplied {
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetRGBA(x, y, rawRGBA(img.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
		return out, nil
	}
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}

// rawRGBA reads c's stored channels without scaling them by alpha.
func rawRGBA(c color.Color) color.RGBA {
	switch c := c.(type) {
	case color.NRGBA:
		return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	case color.NRGBA64:
		return color.RGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: uint8(c.A >> 8)}
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// valid reports whether h was minted by the store.
func (s *spriteStore) valid(h Handle) bool {
	return h >= 0 && int(h) < len(s.sprites)
}

func (s *spriteStore) sprite(h Handle) (Sprite, error) {
	if !s.valid(h) {
		return Sprite{}, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return s.sprites[h], nil
}

// addPage registers img as a new page and returns its index.
func (s *spriteStore) addPage(img *image.RGBA) int {
	s.pages = append(s.pages, &atlasPage{img: img})
	idx := len(s.pages) - 1
	s.pending = append(s.pending, idx)
	return idx
}

// mint appends a sprite for region and returns its handle.
func (s *spriteStore) mint(r TextureRegion) Handle {
	s.sprites = append(s.sprites, Sprite{
		Width:  r.OriginalW,
		Height: r.OriginalH,
		Format: PixelFormatRGBA8Premultiplied,
		Region: r,
	})
	return Handle(len(s.sprites) - 1)
}

// addImage stores img on a page of its own.
func (s *spriteStore) addImage(img *image.RGBA) Handle {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	page := s.addPage(img)
	return s.mint(TextureRegion{
		Page: page, Width: w, Height: h, OriginalW: w, OriginalH: h,
	})
}

// addPacked stitches imgs onto shared pages and mints one handle per image
// in argument order.
func (s *spriteStore) addPacked(imgs []*image.RGBA, maxSize int) []Handle {
	sizes := make([]image.Point, len(imgs))
	for i, img := range imgs {
		sizes[i] = img.Bounds().Size()
	}
	res := packRects(sizes, maxSize)

	first := len(s.pages)
	for _, size := range res.pageSizes {
		s.addPage(image.NewRGBA(image.Rectangle{Max: size}))
	}

	handles := make([]Handle, len(imgs))
	for i, img := range imgs {
		pl := res.placements[i]
		page := s.pages[first+pl.page].img
		dst := image.Rectangle{Min: pl.at, Max: pl.at.Add(sizes[i])}
		draw.Draw(page, dst, img, image.Point{}, draw.Src)
		handles[i] = s.mint(TextureRegion{
			Page:      first + pl.page,
			X:         pl.at.X,
			Y:         pl.at.Y,
			Width:     sizes[i].X,
			Height:    sizes[i].Y,
			OriginalW: sizes[i].X,
			OriginalH: sizes[i].Y,
		})
	}
	return handles
}

// addAtlas registers the pages of a TexturePacker sheet and mints a handle
// per region in name order. Every region is checked against its page before
// anything is stored.
func (s *spriteStore) addAtlas(regions map[string]TextureRegion, pages []*image.RGBA) (map[string]Handle, error) {
	names := sortedRegionNames(regions)
	for _, name := range names {
		r := regions[name]
		if r.Page < 0 || r.Page >= len(pages) {
			return nil, fmt.Errorf("%w: region %q references page %d of %d", ErrDecode, name, r.Page, len(pages))
		}
		if !r.sourceRect().In(pages[r.Page].Bounds()) || r.Width <= 0 || r.Height <= 0 {
			return nil, fmt.Errorf("%w: region %q lies outside its page", ErrDecode, name)
		}
	}

	first := len(s.pages)
	for _, img := range pages {
		s.addPage(img)
	}

	out := make(map[string]Handle, len(names))
	for _, name := range names {
		r := regions[name]
		r.Page += first
		out[name] = s.mint(r)
	}
	return out, nil
}

// upload creates platform textures for every pending page.
func (s *spriteStore) upload(p Platform) error {
	for _, idx := range s.pending {
		page := s.pages[idx]
		tex, err := p.NewTexture(page.img)
		if err != nil {
			return fmt.Errorf("%w: upload page %d: %w", ErrPlatform, idx, err)
		}
		page.tex = tex
		Logger().Debug("milun: uploaded atlas page", "page", idx,
			"width", page.img.Bounds().Dx(), "height", page.img.Bounds().Dy())
	}
	s.pending = s.pending[:0]
	return nil
}

// release disposes every uploaded texture.
func (s *spriteStore) release() {
	for _, page := range s.pages {
		if page.tex != nil {
			page.tex.Dispose()
			page.tex = nil
		}
	}
	s.pending = s.pending[:0]
}
