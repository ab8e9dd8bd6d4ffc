// Package imagesize reads raster dimensions from image headers so the
// engine can learn its clipping bounds without decoding pixels.
package imagesize

import (
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrUnknownFormat = errors.New("unknown image format")

type Size struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Decode reads the header from r.
func Decode(r io.Reader) (Size, error) {
	cfg, format, err := image.DecodeConfig(r)
	if errors.Is(err, image.ErrFormat) {
		return Size{}, ErrUnknownFormat
	}
	if err != nil {
		return Size{}, fmt.Errorf("read image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Size{}, fmt.Errorf("image has empty size %dx%d", cfg.Width, cfg.Height)
	}
	return Size{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}
