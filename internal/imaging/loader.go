package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// DefaultMaxSide is the largest accepted width or height in pixels.
const DefaultMaxSide = 8192

var (
	// ErrInvalidImage is returned for data that is not a supported image.
	ErrInvalidImage = errors.New("failed to decode image")

	// ErrImageTooLarge is returned when an image exceeds the side limit.
	ErrImageTooLarge = errors.New("image too large")
)

// ImageInfo contains metadata about a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels, after orientation is applied.
	Width int `json:"width"`

	// Height is the image height in pixels, after orientation is applied.
	Height int `json:"height"`

	// Format is the detected format name: "png", "jpeg", "gif", "bmp" or "tiff".
	// Detection is based on file contents, not extension.
	Format string `json:"format"`

	// SizeBytes is the size of the encoded input.
	SizeBytes int64 `json:"size_bytes"`
}

// DecodeOptions controls decoding.
type DecodeOptions struct {
	// MaxSide rejects images wider or taller than this many pixels.
	// Zero means DefaultMaxSide.
	MaxSide int
}

// Decode reads an encoded image from r.
//
// Parameters:
//   - r: Encoded image data. It is read to the end.
//   - opts: Size limit. The header is checked before any pixel data is
//     decoded.
//
// Returns:
//   - image.Image: The decoded image with EXIF orientation applied.
//   - *ImageInfo: Dimensions, format and input size.
//   - error: Non-nil if the data cannot be read, is not a supported image
//     (wraps ErrInvalidImage), or exceeds the size limit (wraps
//     ErrImageTooLarge).
func Decode(r io.Reader, opts DecodeOptions) (image.Image, *ImageInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read image: %w", err)
	}
	return DecodeBytes(data, opts)
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, opts DecodeOptions) (image.Image, *ImageInfo, error) {
	if len(data) == 0 {
		return nil, nil, fmt.Errorf("%w: empty input", ErrInvalidImage)
	}

	maxSide := opts.MaxSide
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}
	if cfg.Width > maxSide || cfg.Height > maxSide {
		return nil, nil, fmt.Errorf("%w: %dx%d exceeds %d pixels per side", ErrImageTooLarge, cfg.Width, cfg.Height, maxSide)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	return img, &ImageInfo{
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Format:    format,
		SizeBytes: int64(len(data)),
	}, nil
}

// Load decodes the image file at path.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a supported image or is too large
func Load(path string, opts DecodeOptions) (image.Image, *ImageInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return Decode(f, opts)
}

// FlattenRGB composites img over an opaque white background, dropping any
// alpha channel. The result is a new image; img is not modified.
//
// Detectors are trained on opaque RGB photos, so uploads with transparency
// are flattened before detection.
func FlattenRGB(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// FitWithin returns img downscaled so neither side exceeds maxSide, and the
// factor that maps coordinates in the result back to img (always >= 1).
// Images already within the limit are returned unchanged with factor 1.
func FitWithin(img image.Image, maxSide int) (image.Image, float64) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img, 1.0
	}

	fitted := imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	scale := float64(w) / float64(fitted.Bounds().Dx())
	return fitted, scale
}
