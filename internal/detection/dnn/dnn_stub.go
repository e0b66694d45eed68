//go:build !gocv

package dnn

import (
	"context"
	"image"

	"github.com/ironsheep/layout-advisor/internal/detection"
)

// Detector is unavailable in this build.
type Detector struct{}

// New always fails with ErrUnavailable in builds without the gocv tag.
func New(opts Options) (*Detector, error) {
	return nil, ErrUnavailable
}

// Detect always fails with ErrUnavailable.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	return nil, ErrUnavailable
}

// Close is a no-op.
func (d *Detector) Close() error { return nil }
