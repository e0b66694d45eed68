package detection

import (
	"context"
	"image"

	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// AdapterOptions configures an Adapter.
type AdapterOptions struct {
	// StrictBoxes rejects malformed boxes with ErrMalformedDetection instead
	// of dropping them.
	StrictBoxes bool

	// Logger receives warnings about dropped detections. May be nil.
	Logger *logger.Logger
}

// Adapter filters and normalizes detector output against a vocabulary.
type Adapter struct {
	detector Detector
	vocab    *vocab.Vocabulary
	opts     AdapterOptions
}

// NewAdapter creates an Adapter. A nil vocabulary means vocab.Default().
func NewAdapter(d Detector, v *vocab.Vocabulary, opts AdapterOptions) *Adapter {
	if v == nil {
		v = vocab.Default()
	}
	return &Adapter{detector: d, vocab: v, opts: opts}
}

// Vocabulary returns the vocabulary the adapter filters against.
func (a *Adapter) Vocabulary() *vocab.Vocabulary {
	return a.vocab
}

// DetectFurniture runs the detector on img once and returns the furniture
// it found.
//
// Parameters:
//   - ctx: Bounds the detector call. Cancellation or deadline expiry is
//     reported as a DetectionFailure.
//   - img: Decoded image. It is only read.
//
// Returns:
//   - Set: Whitelisted detections in detector order. Empty, not nil, when
//     nothing qualifies.
//   - error: *DetectionFailure if the detector failed, or
//     *MalformedDetectionError in strict mode.
func (a *Adapter) DetectFurniture(ctx context.Context, img image.Image) (Set, error) {
	if img == nil {
		return nil, Fail("", errNilImage)
	}
	if err := ctx.Err(); err != nil {
		return nil, Fail("", err)
	}

	raw, err := a.detector.Detect(ctx, img)
	if err != nil {
		return nil, Fail("", err)
	}
	// A detector that ignores ctx may still return after the deadline.
	if err := ctx.Err(); err != nil {
		return nil, Fail("", err)
	}

	return a.Normalize(img.Bounds(), raw)
}

// Normalize applies the whitelist, label canonicalization, box clamping and
// center computation to raw detections from an image with the given bounds.
func (a *Adapter) Normalize(bounds image.Rectangle, raw []RawDetection) (Set, error) {
	set := make(Set, 0, len(raw))
	for _, r := range raw {
		label, ok := a.label(r)
		if !ok {
			continue
		}

		box, reason := clampBox(r.Box, bounds)
		if reason != "" {
			merr := &MalformedDetectionError{Raw: r, Reason: reason}
			if a.opts.StrictBoxes {
				return nil, merr
			}
			a.opts.Logger.Warning("dropping %v", merr)
			continue
		}

		classID := r.ClassID
		if classID < 0 {
			classID = -1
		}
		set = append(set, Detection{
			Label:      label,
			ClassID:    classID,
			Confidence: r.Confidence,
			Box:        box,
			Center:     box.Center(),
		})
	}
	return set, nil
}

// label resolves a raw detection to a canonical label. Class ids are
// authoritative; names are only consulted for name-only backends.
func (a *Adapter) label(r RawDetection) (string, bool) {
	if r.ClassID >= 0 {
		return a.vocab.LabelForClass(r.ClassID)
	}
	if r.ClassName == "" {
		return "", false
	}
	return a.vocab.Canonical(r.ClassName)
}

// clampBox clamps b into bounds. It returns a non-empty reason when the box
// is inverted or does not overlap the image at all.
func clampBox(b Box, bounds image.Rectangle) (Box, string) {
	if b.X1 > b.X2 || b.Y1 > b.Y2 {
		return b, "inverted box"
	}
	if b.X2 < bounds.Min.X || b.Y2 < bounds.Min.Y || b.X1 > bounds.Max.X || b.Y1 > bounds.Max.Y {
		return b, "box outside image"
	}
	return Box{
		X1: clamp(b.X1, bounds.Min.X, bounds.Max.X),
		Y1: clamp(b.Y1, bounds.Min.Y, bounds.Max.Y),
		X2: clamp(b.X2, bounds.Min.X, bounds.Max.X),
		Y2: clamp(b.Y2, bounds.Min.Y, bounds.Max.Y),
	}, ""
}

func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
