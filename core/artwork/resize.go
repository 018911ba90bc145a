package artwork

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// MaxDimension caps requested cover sizes.
const MaxDimension = 4096

// MaxPixels caps the stored image size accepted for decoding.
const MaxPixels = MaxDimension * MaxDimension

// ErrTooLarge is returned for images whose header declares more than
// MaxPixels.
var ErrTooLarge = errors.New("image too large")

// Resize scales the image read from r to fit width x height. A zero
// dimension keeps the aspect ratio; the image is never enlarged. The
// encoding follows name's extension (JPEG for unknown ones).
func Resize(r io.Reader, name string, width, height int) ([]byte, string, error) {
	if width < 0 || height < 0 || width > MaxDimension || height > MaxDimension {
		return nil, "", fmt.Errorf("invalid size %dx%d", width, height)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", fmt.Errorf("%dx%d: %w", cfg.Width, cfg.Height, ErrTooLarge)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := fit(img.Bounds(), width, height)
	if w != img.Bounds().Dx() || h != img.Bounds().Dy() {
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	format, err := imaging.FormatFromFilename(name)
	if err != nil || (format != imaging.PNG && format != imaging.GIF) {
		format = imaging.JPEG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(90)); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), contentType(format), nil
}

// fit computes the target size, preserving aspect ratio when one side is 0
// and clipping to the original size.
func fit(bounds image.Rectangle, width, height int) (int, int) {
	ow, oh := bounds.Dx(), bounds.Dy()
	if ow == 0 || oh == 0 {
		return ow, oh
	}
	if width == 0 && height == 0 {
		return ow, oh
	}
	if width == 0 {
		width = ow * height / oh
	}
	if height == 0 {
		height = oh * width / ow
	}
	if width > ow || height > oh {
		return ow, oh
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}

func contentType(format imaging.Format) string {
	switch format {
	case imaging.PNG:
		return "image/png"
	case imaging.GIF:
		return "image/gif"
	}
	return "image/jpeg"
}
