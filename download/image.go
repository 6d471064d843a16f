package download

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	// Decoders registered with the image package.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/dustin/go-humanize"
)

// DefaultFormat is the extension used when an image's format is unknown.
const DefaultFormat = "png"

// MaxPixels bounds the dimensions of a decoded image. Decoders allocate the
// whole pixel buffer up front, so a tiny file can claim gigabytes.
const MaxPixels = 89478485

var (
	ErrTooLarge      = errors.New("image exceeds maximum size")
	ErrTooManyPixels = errors.New("image dimensions exceed limit")
)

func tooLarge(max int64) error {
	return fmt.Errorf("%w of %s", ErrTooLarge, humanize.IBytes(uint64(max)))
}

// DecodeImage parses b as an image. It returns the decoded image and the
// name of its native format (e.g., "jpeg", "png", "webp"). Images larger
// than MaxPixels are rejected before any pixel data is decoded.
func DecodeImage(b []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	if n := int64(cfg.Width) * int64(cfg.Height); n > MaxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d is %s pixels, limit is %s",
			ErrTooManyPixels, cfg.Width, cfg.Height, humanize.Comma(n), humanize.Comma(MaxPixels))
	}

	img, format, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("cannot identify image file: %w", err)
	}
	return img, format, nil
}

// FormatExt returns the file extension, without a dot, for the given image
// format name.
func FormatExt(format string) string {
	if format == "" {
		return DefaultFormat
	}
	return format
}
