package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

// Format is an output image format.
type Format string

const (
	JPEG Format = "jpeg"
	PNG  Format = "png"
)

// jpegQuality is used for every JPEG the advisor writes.
const jpegQuality = 92

// ParseFormat maps "jpeg", "jpg" and "png" (any case) to a Format. An empty
// string selects JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// FormatFromPath picks the output format from a file extension, defaulting
// to JPEG for unknown extensions.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return JPEG
	}
	return f
}

// MimeType returns the MIME type of f.
func (f Format) MimeType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/jpeg"
}

// Extension returns the conventional file extension of f, with the dot.
func (f Format) Extension() string {
	if f == PNG {
		return ".png"
	}
	return ".jpg"
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case PNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case JPEG, "":
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	default:
		return fmt.Errorf("unsupported output format: %s", f)
	}
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image) error {
	encoder := imgio.JPEGEncoder(jpegQuality)
	if FormatFromPath(path) == PNG {
		encoder = imgio.PNGEncoder()
	}
	if err := imgio.Save(path, img, encoder); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// ImagePayload is an encoded image ready for a JSON response.
type ImagePayload struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64 encodes img in format f and wraps it as an ImagePayload.
func EncodeBase64(img image.Image, f Format) (*ImagePayload, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &ImagePayload{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    f.MimeType(),
	}, nil
}
