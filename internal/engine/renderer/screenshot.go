package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Screenshot reads the back buffer and writes it as PNG into dir. It
// returns the written path.
func (r *Renderer) Screenshot(dir, prefix string) (string, error) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return "", fmt.Errorf("empty framebuffer %dx%d", r.width, r.height)
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	img, err := FlipRGBA(pixels, r.width, r.height)
	if err != nil {
		return "", err
	}
	return WritePNG(dir, prefix, time.Now(), img)
}

// FlipRGBA copies bottom-up GL pixel rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := range height {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}

// WritePNG saves img as <dir>/<prefix>_<timestamp>.png.
func WritePNG(dir, prefix string, at time.Time, img image.Image) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}
	name := filepath.Join(dir, fmt.Sprintf("%s_%s.png", prefix, at.Format("2006-01-02_15-04-05")))

	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, nil
}
