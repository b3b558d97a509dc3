package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	maxPhotoWidth  = 1024
	maxPhotoHeight = 1024

	// MaxPhotoBytes bounds the encoded size of an uploaded photo.
	MaxPhotoBytes = 10 << 20
	// MaxPhotoPixels bounds the declared dimensions of an uploaded photo.
	// Decoders allocate the full pixel buffer up front.
	MaxPhotoPixels = 40_000_000
)

// ErrPhotoTooLarge is returned by Normalize for photos over MaxPhotoBytes
// or MaxPhotoPixels.
var ErrPhotoTooLarge = errors.New("photo too large")

var contentTypes = map[imaging.Format]string{
	imaging.JPEG: "image/jpeg",
	imaging.PNG:  "image/png",
	imaging.GIF:  "image/gif",
}

// Normalize decodes an uploaded photo, applies EXIF orientation, shrinks it
// to fit 1024x1024 and re-encodes it in the format named by ext.
func Normalize(r io.Reader, ext string) ([]byte, string, error) {
	format, err := imaging.FormatFromExtension(strings.TrimPrefix(ext, "."))
	if err != nil {
		return nil, "", err
	}
	contentType, ok := contentTypes[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported photo format %q", ext)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read photo: %w", err)
	}
	if len(data) > MaxPhotoBytes {
		return nil, "", ErrPhotoTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode photo header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPhotoPixels {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrPhotoTooLarge, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode photo: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > maxPhotoWidth || b.Dy() > maxPhotoHeight {
		img = imaging.Fit(img, maxPhotoWidth, maxPhotoHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return nil, "", fmt.Errorf("failed to encode photo: %w", err)
	}
	return buf.Bytes(), contentType, nil
}
