// Package advisor runs one layout comparison end to end: decode the room
// and reference photos, detect furniture in both, generate suggestions and
// annotate the room photo.
//
// An Advisor is built once at startup around a long-lived detector and is
// safe for concurrent use. Every call allocates its own detections,
// suggestions and output image; nothing is cached between calls.
package advisor

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/layout-advisor/internal/annotate"
	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/suggest"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// DefaultDetectTimeout bounds each detector call.
const DefaultDetectTimeout = 30 * time.Second

// Options configures an Advisor.
type Options struct {
	// DetectTimeout bounds each detector call. Zero means
	// DefaultDetectTimeout.
	DetectTimeout time.Duration

	// Decode limits accepted uploads.
	Decode imaging.DecodeOptions

	// DetectorName is reported by health checks.
	DetectorName string

	Logger *logger.Logger
}

// Advisor wires the adapter, engine and annotator together.
type Advisor struct {
	adapter   *detection.Adapter
	engine    *suggest.Engine
	annotator *annotate.Annotator
	opts      Options
}

// New creates an Advisor.
func New(adapter *detection.Adapter, engine *suggest.Engine, annotator *annotate.Annotator, opts Options) *Advisor {
	if opts.DetectTimeout <= 0 {
		opts.DetectTimeout = DefaultDetectTimeout
	}
	return &Advisor{adapter: adapter, engine: engine, annotator: annotator, opts: opts}
}

// Analysis is the outcome of one comparison.
type Analysis struct {
	// ID identifies the comparison in logs.
	ID string `json:"id"`

	RoomDetections      detection.Set        `json:"room_detections"`
	ReferenceDetections detection.Set        `json:"reference_detections"`
	Suggestions         []suggest.Suggestion `json:"suggestions"`
	Messages            []string             `json:"messages"`

	RoomInfo      *imaging.ImageInfo `json:"room_image,omitempty"`
	ReferenceInfo *imaging.ImageInfo `json:"reference_image,omitempty"`

	// Annotated is the room image with boxes and movement segments.
	Annotated *image.NRGBA `json:"-"`
}

// DetectorName returns the configured backend name.
func (a *Advisor) DetectorName() string {
	return a.opts.DetectorName
}

// Vocabulary returns the active vocabulary.
func (a *Advisor) Vocabulary() *vocab.Vocabulary {
	return a.adapter.Vocabulary()
}

// Compare decodes both uploads and compares them. Undecodable input is a
// DetectionFailure for the image concerned.
func (a *Advisor) Compare(ctx context.Context, room, reference io.Reader) (*Analysis, error) {
	roomImg, roomInfo, err := imaging.Decode(room, a.opts.Decode)
	if err != nil {
		return nil, detection.Fail("room", err)
	}
	refImg, refInfo, err := imaging.Decode(reference, a.opts.Decode)
	if err != nil {
		return nil, detection.Fail("reference", err)
	}

	analysis, err := a.CompareImages(ctx, roomImg, refImg)
	if err != nil {
		return nil, err
	}
	analysis.RoomInfo = roomInfo
	analysis.ReferenceInfo = refInfo
	return analysis, nil
}

// CompareFiles is Compare for two image files.
func (a *Advisor) CompareFiles(ctx context.Context, roomPath, referencePath string) (*Analysis, error) {
	roomImg, roomInfo, err := imaging.Load(roomPath, a.opts.Decode)
	if err != nil {
		return nil, detection.Fail("room", err)
	}
	refImg, refInfo, err := imaging.Load(referencePath, a.opts.Decode)
	if err != nil {
		return nil, detection.Fail("reference", err)
	}

	analysis, err := a.CompareImages(ctx, roomImg, refImg)
	if err != nil {
		return nil, err
	}
	analysis.RoomInfo = roomInfo
	analysis.ReferenceInfo = refInfo
	return analysis, nil
}

// CompareImages detects furniture in both images concurrently, generates
// suggestions and annotates the room image.
func (a *Advisor) CompareImages(ctx context.Context, room, reference image.Image) (*Analysis, error) {
	id := uuid.NewString()
	started := time.Now()

	// Detectors see opaque RGB, and the annotation is drawn on the same
	// pixels the detector saw.
	roomRGB := imaging.FlattenRGB(room)
	refRGB := imaging.FlattenRGB(reference)

	var roomSet, refSet detection.Set
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roomSet, err = a.detect(gctx, "room", roomRGB)
		return err
	})
	g.Go(func() error {
		var err error
		refSet, err = a.detect(gctx, "reference", refRGB)
		return err
	})
	if err := g.Wait(); err != nil {
		a.opts.Logger.Warning("compare %s failed: %v", id, err)
		return nil, err
	}

	result := a.engine.Generate(roomSet, refSet)
	annotated := a.annotator.Annotate(roomRGB, roomSet, result.Suggestions)

	a.opts.Logger.Info("compare %s: %d room / %d reference detections, %d suggestions in %s",
		id, len(roomSet), len(refSet), len(result.Suggestions), time.Since(started).Round(time.Millisecond))

	return &Analysis{
		ID:                  id,
		RoomDetections:      roomSet,
		ReferenceDetections: refSet,
		Suggestions:         result.Suggestions,
		Messages:            result.Messages,
		Annotated:           annotated,
	}, nil
}

// Detect decodes one upload and returns its furniture.
func (a *Advisor) Detect(ctx context.Context, r io.Reader) (detection.Set, *imaging.ImageInfo, error) {
	img, info, err := imaging.Decode(r, a.opts.Decode)
	if err != nil {
		return nil, nil, detection.Fail("image", err)
	}
	set, err := a.detect(ctx, "image", imaging.FlattenRGB(img))
	if err != nil {
		return nil, nil, err
	}
	return set, info, nil
}

// DetectFile is Detect for an image file.
func (a *Advisor) DetectFile(ctx context.Context, path string) (detection.Set, *imaging.ImageInfo, error) {
	img, info, err := imaging.Load(path, a.opts.Decode)
	if err != nil {
		return nil, nil, detection.Fail("image", err)
	}
	set, err := a.detect(ctx, "image", imaging.FlattenRGB(img))
	if err != nil {
		return nil, nil, err
	}
	return set, info, nil
}

func (a *Advisor) detect(ctx context.Context, op string, img image.Image) (detection.Set, error) {
	ctx, cancel := context.WithTimeout(ctx, a.opts.DetectTimeout)
	defer cancel()

	set, err := a.adapter.DetectFurniture(ctx, img)
	if err != nil {
		return nil, detection.Fail(op, err)
	}
	a.opts.Logger.Debug("%s: %d furniture detections", op, len(set))
	return set, nil
}

// String describes the advisor for startup logs.
func (a *Advisor) String() string {
	return fmt.Sprintf("advisor(detector=%s, threshold=%dpx, timeout=%s)",
		a.opts.DetectorName, a.engine.Threshold(), a.opts.DetectTimeout)
}
