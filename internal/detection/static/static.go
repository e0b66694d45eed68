// Package static provides a Detector that returns preconfigured detections.
//
// Scenes are keyed by image size, which lets tests and demos feed two
// different "photos" through the full pipeline without a model. A scene
// file is JSON:
//
//	{"scenes": [
//	  {"width": 640, "height": 480, "detections": [
//	    {"class_id": 56, "confidence": 0.9, "box": {"x1": 10, "y1": 10, "x2": 90, "y2": 120}}
//	  ]}
//	]}
package static

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/layout-advisor/internal/detection"
)

// Entry is one detection in a scene file. Entries with a class name are
// matched by name and their class id is ignored.
type Entry struct {
	ClassID    int           `json:"class_id"`
	ClassName  string        `json:"class_name,omitempty"`
	Confidence float64       `json:"confidence"`
	Box        detection.Box `json:"box"`
}

// Scene is the detections reported for images of one size.
type Scene struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Detections []Entry `json:"detections"`
}

// Detector returns the scene matching the image size, or nothing.
type Detector struct {
	scenes map[image.Point][]detection.RawDetection
}

// New builds a Detector from scenes. A later scene with the same size
// replaces an earlier one.
func New(scenes ...Scene) *Detector {
	d := &Detector{scenes: make(map[image.Point][]detection.RawDetection, len(scenes))}
	for _, s := range scenes {
		raw := make([]detection.RawDetection, len(s.Detections))
		for i, e := range s.Detections {
			classID := e.ClassID
			if e.ClassName != "" {
				classID = -1
			}
			raw[i] = detection.RawDetection{
				ClassID:    classID,
				ClassName:  e.ClassName,
				Confidence: e.Confidence,
				Box:        e.Box,
			}
		}
		d.scenes[image.Pt(s.Width, s.Height)] = raw
	}
	return d
}

// Load reads a scene file.
func Load(path string) (*Detector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	var f struct {
		Scenes []Scene `json:"scenes"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene file: %w", err)
	}
	return New(f.Scenes...), nil
}

// Detect returns a copy of the scene for img's size.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	raw := d.scenes[image.Pt(b.Dx(), b.Dy())]
	return append([]detection.RawDetection(nil), raw...), nil
}
