package milun

import (
	"encoding/json"
	"fmt"
	"image"
	"sort"
)

// TextureRegion describes a sub-rectangle within an atlas page.
type TextureRegion struct {
	Page      int  // atlas page index within the sprite store
	X, Y      int  // top-left corner of the sub-image rect within the atlas page
	Width     int  // width of the visible pixels (may differ from OriginalW if trimmed)
	Height    int  // height of the visible pixels (may differ from OriginalH if trimmed)
	OriginalW int  // untrimmed sprite width as authored
	OriginalH int  // untrimmed sprite height as authored
	OffsetX   int  // horizontal trim offset from TexturePacker
	OffsetY   int  // vertical trim offset from TexturePacker
	Rotated   bool // true if the region is stored 90 degrees clockwise in the atlas
}

// sourceRect returns the rectangle the region occupies on its page.
// Rotated regions occupy Height x Width.
func (r TextureRegion) sourceRect() image.Rectangle {
	if r.Rotated {
		return image.Rect(r.X, r.Y, r.X+r.Height, r.Y+r.Width)
	}
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// localMatrix maps page pixels relative to sourceRect().Min into the
// untrimmed sprite's local space (0..OriginalW, 0..OriginalH).
func (r TextureRegion) localMatrix() [6]float64 {
	m := identityTransform
	if r.Rotated {
		// Stored 90 degrees clockwise: rotate back by -90 degrees and shift
		// down by the visible height.
		m = [6]float64{0, -1, 1, 0, 0, float64(r.Height)}
	}
	m[4] += float64(r.OffsetX)
	m[5] += float64(r.OffsetY)
	return m
}

// parseAtlas parses TexturePacker JSON data into named regions. Supports both
// the hash format (single "frames" object) and the array format ("textures"
// array with per-page frame lists). Page indices are relative to the sheet.
func parseAtlas(jsonData []byte) (map[string]TextureRegion, error) {
	// Peek at the top-level keys to detect the format.
	var top struct {
		Frames   json.RawMessage `json:"frames"`
		Textures json.RawMessage `json:"textures"`
	}
	if err := json.Unmarshal(jsonData, &top); err != nil {
		return nil, fmt.Errorf("milun: failed to parse atlas JSON: %w", err)
	}

	regions := make(map[string]TextureRegion)

	switch {
	case top.Textures != nil:
		if err := parseArrayFormat(top.Textures, regions); err != nil {
			return nil, err
		}
	case top.Frames != nil:
		if err := parseHashFrames(top.Frames, 0, regions); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("milun: atlas JSON has neither \"frames\" nor \"textures\" key")
	}

	return regions, nil
}

// --- JSON structure types ---

type jsonRect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

type jsonSize struct {
	W int `json:"w"`
	H int `json:"h"`
}

type jsonFrame struct {
	Frame            jsonRect `json:"frame"`
	Rotated          bool     `json:"rotated"`
	Trimmed          bool     `json:"trimmed"`
	SpriteSourceSize jsonRect `json:"spriteSourceSize"`
	SourceSize       jsonSize `json:"sourceSize"`
}

type jsonTexturePage struct {
	Image  string               `json:"image"`
	Frames map[string]jsonFrame `json:"frames"`
}

// parseHashFrames parses the hash format: {"name": {frame...}, ...}
func parseHashFrames(raw json.RawMessage, page int, regions map[string]TextureRegion) error {
	var frames map[string]jsonFrame
	if err := json.Unmarshal(raw, &frames); err != nil {
		return fmt.Errorf("milun: failed to parse atlas frames: %w", err)
	}
	for name, f := range frames {
		regions[name] = frameToRegion(f, page)
	}
	return nil
}

// parseArrayFormat parses the array format: [{"image":"...", "frames":{...}}, ...]
func parseArrayFormat(raw json.RawMessage, regions map[string]TextureRegion) error {
	var textures []jsonTexturePage
	if err := json.Unmarshal(raw, &textures); err != nil {
		return fmt.Errorf("milun: failed to parse atlas textures array: %w", err)
	}
	for i, tex := range textures {
		for name, f := range tex.Frames {
			regions[name] = frameToRegion(f, i)
		}
	}
	return nil
}

func frameToRegion(f jsonFrame, page int) TextureRegion {
	r := TextureRegion{
		Page:      page,
		X:         f.Frame.X,
		Y:         f.Frame.Y,
		Width:     f.Frame.W,
		Height:    f.Frame.H,
		OriginalW: f.SourceSize.W,
		OriginalH: f.SourceSize.H,
		OffsetX:   f.SpriteSourceSize.X,
		OffsetY:   f.SpriteSourceSize.Y,
		Rotated:   f.Rotated,
	}
	// Untrimmed exports may omit sourceSize.
	if r.OriginalW == 0 && r.OriginalH == 0 {
		r.OriginalW, r.OriginalH = r.Width, r.Height
	}
	return r
}

// sortedRegionNames returns region names in lexical order, the order handles
// are minted in.
func sortedRegionNames(regions map[string]TextureRegion) []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
