package milun

import (
	"image"
	"image/color"
	"testing"
)

func TestHeadlessMaxFrames(t *testing.T) {
	p := NewHeadlessPlatform(4, 4)
	p.MaxFrames = 2
	for i := 0; i < 2; i++ {
		if evs := p.PollEvents(nil); len(evs) != 0 {
			t.Fatalf("frame %d: unexpected events %v", i, evs)
		}
		if err := p.Present(); err != nil {
			t.Fatal(err)
		}
	}
	evs := p.PollEvents(nil)
	if len(evs) != 1 || evs[0] != (CloseRequested{}) {
		t.Errorf("events = %v, want [CloseRequested]", evs)
	}
	if p.Presented() != 2 {
		t.Errorf("Presented = %d", p.Presented())
	}
}

func TestHeadlessResizeOnPoll(t *testing.T) {
	p := NewHeadlessPlatform(4, 4)
	p.Canvas().Fill(color.RGBA{R: 9, A: 255})
	p.Resize(8, 2)
	if w, h := p.Canvas().Size(); w != 4 || h != 4 {
		t.Fatalf("resized before poll: %dx%d", w, h)
	}
	evs := p.PollEvents(nil)
	if len(evs) != 1 || evs[0] != (Resized{Width: 8, Height: 2}) {
		t.Errorf("events = %v", evs)
	}
	if w, h := p.Canvas().Size(); w != 8 || h != 2 {
		t.Errorf("size = %dx%d, want 8x2", w, h)
	}
	img := p.Frame()
	if got := img.RGBAAt(3, 1); got.R != 9 {
		t.Errorf("kept pixel = %v", got)
	}
	if got := img.RGBAAt(6, 1); got != (color.RGBA{}) {
		t.Errorf("new pixel = %v, want transparent", got)
	}
}

func TestHeadlessSeedAndReadPixels(t *testing.T) {
	p := NewHeadlessPlatform(4, 4)
	seed := image.NewRGBA(image.Rect(0, 0, 4, 4))
	seed.SetRGBA(1, 2, color.RGBA{G: 77, A: 255})
	p.Seed(seed)

	snap := p.Canvas().ReadPixels()
	if got := snap.RGBAAt(1, 2); got.G != 77 {
		t.Errorf("seeded pixel = %v", got)
	}
	snap.SetRGBA(1, 2, color.RGBA{})
	if got := p.Frame().RGBAAt(1, 2); got.G != 77 {
		t.Error("ReadPixels returned the live buffer")
	}
}

func TestHeadlessClosed(t *testing.T) {
	p := NewHeadlessPlatform(4, 4)
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.NewTexture(image.NewRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Error("NewTexture on a closed platform succeeded")
	}
	if err := p.Present(); err == nil {
		t.Error("Present on a closed platform succeeded")
	}
}

func TestHeadlessDrawTextureSubRect(t *testing.T) {
	p := NewHeadlessPlatform(4, 4)
	src := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		for y := 0; y < 2; y++ {
			src.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), A: 255})
		}
	}
	tex, err := p.NewTexture(src)
	if err != nil {
		t.Fatal(err)
	}
	if w, h := tex.Size(); w != 4 || h != 2 {
		t.Errorf("texture size = %dx%d", w, h)
	}

	// Draw only columns 2..3 at the canvas origin.
	p.Canvas().DrawTexture(tex, image.Rect(2, 0, 4, 2), identityTransform, ColorWhite, FilterNearest)
	img := p.Frame()
	if got := img.RGBAAt(0, 0).R; got != 120 {
		t.Errorf("(0,0).R = %d, want 120", got)
	}
	if got := img.RGBAAt(1, 1).R; got != 180 {
		t.Errorf("(1,1).R = %d, want 180", got)
	}
	if got := img.RGBAAt(2, 0); got != (color.RGBA{}) {
		t.Errorf("(2,0) = %v, want untouched", got)
	}

	tex.Dispose()
	if w, h := tex.Size(); w != 0 || h != 0 {
		t.Errorf("disposed size = %dx%d", w, h)
	}
}

func TestHeadlessDrawTextureLinear(t *testing.T) {
	p := NewHeadlessPlatform(8, 8)
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	tex, _ := p.NewTexture(src)
	scale := [6]float64{4, 0, 0, 4, 0, 0}
	p.Canvas().DrawTexture(tex, src.Bounds(), scale, ColorWhite, FilterLinear)
	if got := p.Frame().RGBAAt(3, 3); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("interior pixel = %v, want white", got)
	}
}
