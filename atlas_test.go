package milun

import (
	"image"
	"testing"
)

const singlePageJSON = `{
  "frames": {
    "hero.png": {
      "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 64, "h": 64},
      "sourceSize": {"w": 64, "h": 64}
    },
    "enemy.png": {
      "frame": {"x": 64, "y": 0, "w": 32, "h": 48},
      "rotated": false,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 32, "h": 48},
      "sourceSize": {"w": 32, "h": 48}
    },
    "trimmed.png": {
      "frame": {"x": 100, "y": 50, "w": 60, "h": 58},
      "rotated": false,
      "trimmed": true,
      "spriteSourceSize": {"x": 2, "y": 3, "w": 60, "h": 58},
      "sourceSize": {"w": 64, "h": 64}
    },
    "rotated.png": {
      "frame": {"x": 200, "y": 0, "w": 48, "h": 32},
      "rotated": true,
      "trimmed": false,
      "spriteSourceSize": {"x": 0, "y": 0, "w": 48, "h": 32},
      "sourceSize": {"w": 48, "h": 32}
    }
  },
  "meta": {
    "image": "atlas.png",
    "size": {"w": 256, "h": 128}
  }
}`

const multiPageJSON = `{
  "textures": [
    {
      "image": "atlas-0.png",
      "frames": {
        "page0_sprite.png": {
          "frame": {"x": 0, "y": 0, "w": 64, "h": 64},
          "sourceSize": {"w": 64, "h": 64}
        }
      }
    },
    {
      "image": "atlas-1.png",
      "frames": {
        "page1_sprite.png": {
          "frame": {"x": 10, "y": 20, "w": 50, "h": 50}
        }
      }
    }
  ]
}`

func TestParseAtlasSinglePage(t *testing.T) {
	regions, err := parseAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatalf("parseAtlas: %v", err)
	}
	if len(regions) != 4 {
		t.Fatalf("regions = %d, want 4", len(regions))
	}
	enemy := regions["enemy.png"]
	want := TextureRegion{X: 64, Width: 32, Height: 48, OriginalW: 32, OriginalH: 48}
	if enemy != want {
		t.Errorf("enemy = %+v, want %+v", enemy, want)
	}
}

func TestParseAtlasTrimmedRegion(t *testing.T) {
	regions, err := parseAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatal(err)
	}
	r := regions["trimmed.png"]
	if r.OffsetX != 2 || r.OffsetY != 3 {
		t.Errorf("offset = (%d,%d), want (2,3)", r.OffsetX, r.OffsetY)
	}
	if r.OriginalW != 64 || r.OriginalH != 64 || r.Width != 60 || r.Height != 58 {
		t.Errorf("sizes = %+v", r)
	}
}

func TestParseAtlasRotatedRegion(t *testing.T) {
	regions, err := parseAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatal(err)
	}
	r := regions["rotated.png"]
	if !r.Rotated {
		t.Fatal("Rotated = false")
	}
	// Rotated regions occupy Height x Width on the page.
	if got, want := r.sourceRect(), image.Rect(200, 0, 232, 48); got != want {
		t.Errorf("sourceRect = %v, want %v", got, want)
	}
}

func TestParseAtlasMultiPage(t *testing.T) {
	regions, err := parseAtlas([]byte(multiPageJSON))
	if err != nil {
		t.Fatal(err)
	}
	if regions["page0_sprite.png"].Page != 0 {
		t.Errorf("page0 sprite page = %d", regions["page0_sprite.png"].Page)
	}
	r := regions["page1_sprite.png"]
	if r.Page != 1 || r.X != 10 || r.Y != 20 {
		t.Errorf("page1 sprite = %+v", r)
	}
	// sourceSize omitted: original size defaults to the frame.
	if r.OriginalW != 50 || r.OriginalH != 50 {
		t.Errorf("original = %dx%d, want 50x50", r.OriginalW, r.OriginalH)
	}
}

func TestParseAtlasErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"invalid", `not json`},
		{"no frames", `{"meta": {}}`},
		{"bad frames", `{"frames": [1, 2]}`},
		{"bad textures", `{"textures": {"a": 1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseAtlas([]byte(tt.json)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSortedRegionNames(t *testing.T) {
	regions, err := parseAtlas([]byte(singlePageJSON))
	if err != nil {
		t.Fatal(err)
	}
	got := sortedRegionNames(regions)
	want := []string{"enemy.png", "hero.png", "rotated.png", "trimmed.png"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
}

func TestLocalMatrixTrimOffset(t *testing.T) {
	r := TextureRegion{Width: 60, Height: 58, OriginalW: 64, OriginalH: 64, OffsetX: 2, OffsetY: 3}
	x, y := transformPoint(r.localMatrix(), 0, 0)
	assertNear(t, "x", x, 2)
	assertNear(t, "y", y, 3)
}

func TestLocalMatrixRotated(t *testing.T) {
	// A 3x2 sprite stored rotated clockwise occupies 2x3 on the page. The
	// stored top-right pixel is the visual top-left.
	r := TextureRegion{Width: 3, Height: 2, OriginalW: 3, OriginalH: 2, Rotated: true}
	m := r.localMatrix()

	tests := []struct {
		u, v   float64 // stored pixel center
		vx, vy float64 // visual pixel center
	}{
		{1.5, 0.5, 0.5, 0.5},
		{0.5, 0.5, 0.5, 1.5},
		{1.5, 2.5, 2.5, 0.5},
		{0.5, 2.5, 2.5, 1.5},
	}
	for _, tt := range tests {
		x, y := transformPoint(m, tt.u, tt.v)
		if !approxEqual(x, tt.vx, epsilon) || !approxEqual(y, tt.vy, epsilon) {
			t.Errorf("stored (%v,%v) -> (%v,%v), want (%v,%v)", tt.u, tt.v, x, y, tt.vx, tt.vy)
		}
	}
}
