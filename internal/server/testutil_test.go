package server

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/layout-advisor/internal/advisor"
	"github.com/ironsheep/layout-advisor/internal/annotate"
	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/detection/static"
	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/suggest"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// Room and reference photos are told apart by size.
const (
	roomW, roomH = 400, 300
	refW, refH   = 420, 300
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "image.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// newTestServer returns a server whose detector reports a chair that must
// move right by 40px, and a couch that is already in place.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	det := static.New(
		static.Scene{Width: roomW, Height: roomH, Detections: []static.Entry{
			{ClassID: 56, Confidence: 0.9, Box: detection.Box{X1: 100, Y1: 100, X2: 140, Y2: 180}},
			{ClassID: 57, Confidence: 0.8, Box: detection.Box{X1: 200, Y1: 150, X2: 320, Y2: 250}},
		}},
		static.Scene{Width: refW, Height: refH, Detections: []static.Entry{
			{ClassID: 56, Confidence: 0.9, Box: detection.Box{X1: 140, Y1: 100, X2: 180, Y2: 180}},
			{ClassID: 57, Confidence: 0.8, Box: detection.Box{X1: 210, Y1: 150, X2: 330, Y2: 250}},
		}},
	)

	v := vocab.Default()
	log := logger.Discard()
	adv := advisor.New(
		detection.NewAdapter(det, v, detection.AdapterOptions{Logger: log}),
		suggest.NewEngine(v, suggest.Options{}),
		annotate.New(annotate.Style{}),
		advisor.Options{DetectorName: "static", Logger: log},
	)
	return New(adv, log, "test")
}
