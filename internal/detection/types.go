package detection

import (
	"context"
	"image"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Center returns the box midpoint using floor division.
func (b Box) Center() Point {
	return Point{
		X: floorDiv(b.X1+b.X2, 2),
		Y: floorDiv(b.Y1+b.Y2, 2),
	}
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Detection is one recognized piece of furniture.
type Detection struct {
	// Label is the canonical vocabulary label.
	Label string `json:"label"`

	// ClassID is the class reported by the detector, -1 for name-only backends.
	ClassID int `json:"class_id"`

	// Confidence is the detector score in [0,1]. Kept for display; the
	// adapter does not filter on it.
	Confidence float64 `json:"confidence"`

	// Box is the bounding box, clamped to the image.
	Box Box `json:"bbox"`

	// Center is the floor-divided midpoint of Box.
	Center Point `json:"center"`
}

// Set is the detections of one image, in detector order.
type Set []Detection

// Labels returns the distinct labels in order of first appearance.
func (s Set) Labels() []string {
	seen := make(map[string]bool, len(s))
	labels := make([]string, 0, len(s))
	for _, d := range s {
		if !seen[d.Label] {
			seen[d.Label] = true
			labels = append(labels, d.Label)
		}
	}
	return labels
}

// RawDetection is what a Detector reports before filtering.
type RawDetection struct {
	// ClassID is the model class index. Backends that only know class names
	// set it to -1 and fill ClassName.
	ClassID int

	// ClassName is the backend's own name for the class, if any.
	ClassName string

	Confidence float64
	Box        Box
}

// Detector is the external object detector. Implementations must be safe
// for concurrent use; one instance is shared by every request.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]RawDetection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, img image.Image) ([]RawDetection, error)

// Detect calls f.
func (f DetectorFunc) Detect(ctx context.Context, img image.Image) ([]RawDetection, error) {
	return f(ctx, img)
}

// floorDiv divides rounding toward negative infinity, unlike Go's /.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
