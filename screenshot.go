package milun

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot queues a labeled capture of the back buffer. It is taken right
// after the current frame is presented (or the next frame, when called
// outside the callback) and written to Config.ScreenshotDir as
// <timestamp>_<label>.png.
func (r *Renderer) Screenshot(label string) {
	r.screenshotQueue = append(r.screenshotQueue, label)
}

// flushScreenshots writes one PNG per queued label. Failures are logged and
// never stop the loop.
func (r *Renderer) flushScreenshots() {
	if len(r.screenshotQueue) == 0 {
		return
	}
	defer func() { r.screenshotQueue = r.screenshotQueue[:0] }()

	dir := r.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		Logger().Warn("milun: screenshot: mkdir failed", "dir", dir, "error", err)
		return
	}

	img := unpremultiply(r.platform.Canvas().ReadPixels())
	stamp := time.Now().Format("20060102_150405")

	for _, label := range r.screenshotQueue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := writePNG(path, img); err != nil {
			Logger().Warn("milun: screenshot failed", "label", label, "error", err)
			continue
		}
		Logger().Debug("milun: screenshot written", "path", path, "frame", r.frame)
	}
}

// unpremultiply converts premultiplied RGBA to straight-alpha NRGBA.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
		out := img.Pix[y*img.Stride:]
		for i := 0; i < 4*w; i += 4 {
			r, g, bl, a := row[i], row[i+1], row[i+2], row[i+3]
			if a > 0 && a < 255 {
				r = uint8(min(int(r)*255/int(a), 255))
				g = uint8(min(int(g)*255/int(a), 255))
				bl = uint8(min(int(bl)*255/int(a), 255))
			}
			out[i], out[i+1], out[i+2], out[i+3] = r, g, bl, a
		}
	}
	return img
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
