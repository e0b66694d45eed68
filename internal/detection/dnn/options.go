// Package dnn provides a Detector that runs a YOLOv8 ONNX export through
// OpenCV's DNN module (gocv).
//
// OpenCV is a cgo dependency, so the real implementation is only compiled
// with the "gocv" build tag:
//
//	go build -tags gocv ./...
//
// Without the tag, New returns ErrUnavailable and the binary can still use
// the other backends.
//
// The network is loaded once and shared by all requests. OpenCV's Net is
// not safe for concurrent Forward calls, so inference is serialized.
package dnn

import (
	"errors"
	"sort"

	"github.com/ironsheep/layout-advisor/internal/detection"
)

// ErrUnavailable is returned by New in builds without the gocv tag.
var ErrUnavailable = errors.New("dnn detector not available: build with -tags gocv")

const (
	DefaultInputSize     = 640
	DefaultMinConfidence = 0.25
	DefaultNMSThreshold  = 0.45
)

// Options configures the network.
type Options struct {
	// ModelPath is the ONNX file, e.g. yolov8n.onnx.
	ModelPath string

	// InputSize is the square network input side. Zero means 640.
	InputSize int

	// MinConfidence drops candidates below this class score. Zero means 0.25,
	// the usual YOLO default.
	MinConfidence float64

	// NMSThreshold is the IoU above which overlapping boxes of the same class
	// are suppressed. Zero means 0.45.
	NMSThreshold float64
}

func (o Options) withDefaults() Options {
	if o.InputSize <= 0 {
		o.InputSize = DefaultInputSize
	}
	if o.MinConfidence <= 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.NMSThreshold <= 0 {
		o.NMSThreshold = DefaultNMSThreshold
	}
	return o
}

// sortByConfidence orders detections the way YOLO's own post-processing
// reports them, highest score first. Ties fall back to class and position so
// the order is stable across runs.
func sortByConfidence(raw []detection.RawDetection) {
	sort.SliceStable(raw, func(i, j int) bool {
		a, b := raw[i], raw[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.ClassID != b.ClassID {
			return a.ClassID < b.ClassID
		}
		if a.Box.X1 != b.Box.X1 {
			return a.Box.X1 < b.Box.X1
		}
		return a.Box.Y1 < b.Box.Y1
	})
}
