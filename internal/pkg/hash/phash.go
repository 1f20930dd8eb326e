package hash

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/corona10/goimagehash"
)

// MaxImagePixels caps width*height of an upload before it is decoded.
const MaxImagePixels = 50_000_000

var (
	// ErrUnsupportedFormat is returned for images that decode but are neither JPEG nor PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrImageTooLarge is returned when the declared dimensions exceed MaxImagePixels.
	ErrImageTooLarge = errors.New("image dimensions too large")
)

// ImageInfo describes a decoded image upload.
type ImageInfo struct {
	Format      string // "jpeg" or "png"
	Width       int
	Height      int
	PHash       uint64 // DCT perceptual hash
	ContentHash string // hex sha256 of the raw bytes
}

// PHashString returns the perceptual hash as 16 hex digits.
func (i *ImageInfo) PHashString() string {
	return fmt.Sprintf("%016x", i.PHash)
}

// ImageInspector decodes uploads and computes their hashes.
type ImageInspector struct{}

// NewImageInspector creates a new ImageInspector.
func NewImageInspector() *ImageInspector {
	return &ImageInspector{}
}

// Inspect decodes data as JPEG or PNG. It fails for corrupt or truncated
// images, for any other format and for images larger than MaxImagePixels.
// The header is checked before the pixel data is decoded.
func (ii *ImageInspector) Inspect(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	if format != "jpeg" && format != "png" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	phash, err := ComputePHash(img)
	if err != nil {
		return nil, err
	}

	return &ImageInfo{
		Format:      format,
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		PHash:       phash,
		ContentHash: HashBytesSha256(data),
	}, nil
}

// ComputePHash computes the DCT-based perceptual hash of an image.
func ComputePHash(img image.Image) (uint64, error) {
	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return 0, fmt.Errorf("failed to compute pHash: %w", err)
	}
	return hash.GetHash(), nil
}
