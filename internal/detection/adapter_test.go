package detection

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/ironsheep/layout-advisor/internal/vocab"
)

// fixedDetector returns the same raw detections for every image and counts
// its calls.
type fixedDetector struct {
	raw   []RawDetection
	err   error
	calls int
}

func (d *fixedDetector) Detect(ctx context.Context, img image.Image) ([]RawDetection, error) {
	d.calls++
	return d.raw, d.err
}

func blankImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestDetectFurniture_Whitelist(t *testing.T) {
	det := &fixedDetector{raw: []RawDetection{
		{ClassID: 0, Confidence: 0.99, Box: Box{0, 0, 10, 10}},    // person
		{ClassID: 56, Confidence: 0.9, Box: Box{10, 20, 50, 81}},  // chair
		{ClassID: 62, Confidence: 0.5, Box: Box{0, 100, 200, 199}}, // carpet
		{ClassID: 2, Confidence: 0.7, Box: Box{5, 5, 6, 6}},        // car
	}}
	a := NewAdapter(det, nil, AdapterOptions{})

	set, err := a.DetectFurniture(context.Background(), blankImage(300, 200))
	if err != nil {
		t.Fatalf("DetectFurniture failed: %v", err)
	}
	if det.calls != 1 {
		t.Errorf("detector called %d times, want 1", det.calls)
	}
	if len(set) != 2 {
		t.Fatalf("got %d detections, want 2", len(set))
	}

	chair := set[0]
	if chair.Label != "chair" || chair.ClassID != 56 || chair.Confidence != 0.9 {
		t.Errorf("chair: got %+v", chair)
	}
	if chair.Center != (Point{30, 50}) {
		t.Errorf("chair center: got %+v, want {30 50}", chair.Center)
	}
	if set[1].Label != "carpet" {
		t.Errorf("second label: got %s, want carpet", set[1].Label)
	}
}

func TestDetectFurniture_NothingQualifies(t *testing.T) {
	det := &fixedDetector{raw: []RawDetection{{ClassID: 0, Box: Box{0, 0, 10, 10}}}}
	set, err := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(context.Background(), blankImage(50, 50))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set == nil || len(set) != 0 {
		t.Errorf("expected empty non-nil set, got %#v", set)
	}
}

func TestDetectFurniture_ByName(t *testing.T) {
	det := &fixedDetector{raw: []RawDetection{
		{ClassID: -1, ClassName: "Sofa", Box: Box{0, 0, 40, 20}},
		{ClassID: -1, ClassName: "Coffee Table", Box: Box{0, 0, 40, 20}},
		{ClassID: -1, ClassName: "Window", Box: Box{0, 0, 40, 20}},
		{ClassID: -1, Box: Box{0, 0, 40, 20}},
	}}
	set, err := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(context.Background(), blankImage(100, 100))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := set.Labels()
	if len(got) != 2 || got[0] != "couch" || got[1] != "table" {
		t.Errorf("labels: got %v, want [couch table]", got)
	}
	for _, d := range set {
		if d.ClassID != -1 {
			t.Errorf("%s: class id %d, want -1", d.Label, d.ClassID)
		}
	}
}

func TestDetectFurniture_ClassIDWinsOverName(t *testing.T) {
	det := &fixedDetector{raw: []RawDetection{
		{ClassID: 59, ClassName: "chair", Box: Box{0, 0, 10, 10}},
	}}
	set, _ := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(context.Background(), blankImage(20, 20))
	if len(set) != 1 || set[0].Label != "bed" {
		t.Errorf("got %+v, want one bed", set)
	}
}

func TestDetectFurniture_Clamp(t *testing.T) {
	det := &fixedDetector{raw: []RawDetection{
		{ClassID: 56, Box: Box{-20, -10, 120, 90}},
	}}
	set, err := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(context.Background(), blankImage(100, 80))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set[0].Box != (Box{0, 0, 100, 80}) {
		t.Errorf("box: got %+v, want {0 0 100 80}", set[0].Box)
	}
	if set[0].Center != (Point{50, 40}) {
		t.Errorf("center: got %+v", set[0].Center)
	}
}

func TestDetectFurniture_Malformed(t *testing.T) {
	raw := []RawDetection{
		{ClassID: 56, Box: Box{10, 10, 40, 40}},
		{ClassID: 57, Box: Box{50, 10, 20, 40}},     // inverted
		{ClassID: 59, Box: Box{500, 500, 600, 600}}, // outside
	}

	t.Run("dropped", func(t *testing.T) {
		set, err := NewAdapter(&fixedDetector{raw: raw}, nil, AdapterOptions{}).
			DetectFurniture(context.Background(), blankImage(100, 100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set) != 1 || set[0].Label != "chair" {
			t.Errorf("got %+v, want only the chair", set)
		}
	})

	t.Run("strict", func(t *testing.T) {
		_, err := NewAdapter(&fixedDetector{raw: raw}, nil, AdapterOptions{StrictBoxes: true}).
			DetectFurniture(context.Background(), blankImage(100, 100))
		if !errors.Is(err, ErrMalformedDetection) {
			t.Fatalf("got %v, want ErrMalformedDetection", err)
		}
		var merr *MalformedDetectionError
		if !errors.As(err, &merr) || merr.Reason != "inverted box" {
			t.Errorf("reason: got %+v", merr)
		}
	})
}

func TestDetectFurniture_Failures(t *testing.T) {
	backend := errors.New("model crashed")

	t.Run("detector error", func(t *testing.T) {
		_, err := NewAdapter(&fixedDetector{err: backend}, nil, AdapterOptions{}).
			DetectFurniture(context.Background(), blankImage(10, 10))
		if !errors.Is(err, ErrDetectionFailure) || !errors.Is(err, backend) {
			t.Errorf("got %v, want DetectionFailure wrapping backend error", err)
		}
	})

	t.Run("nil image", func(t *testing.T) {
		det := &fixedDetector{}
		_, err := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(context.Background(), nil)
		if !errors.Is(err, ErrDetectionFailure) {
			t.Errorf("got %v, want DetectionFailure", err)
		}
		if det.calls != 0 {
			t.Error("detector called for nil image")
		}
	})

	t.Run("canceled before call", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		det := &fixedDetector{}
		_, err := NewAdapter(det, nil, AdapterOptions{}).DetectFurniture(ctx, blankImage(10, 10))
		if !errors.Is(err, ErrDetectionFailure) || !errors.Is(err, context.Canceled) {
			t.Errorf("got %v", err)
		}
		if det.calls != 0 {
			t.Error("detector called after cancellation")
		}
	})

	t.Run("deadline passes during call", func(t *testing.T) {
		slow := DetectorFunc(func(ctx context.Context, img image.Image) ([]RawDetection, error) {
			time.Sleep(30 * time.Millisecond)
			return []RawDetection{{ClassID: 56, Box: Box{0, 0, 5, 5}}}, nil
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()
		_, err := NewAdapter(slow, nil, AdapterOptions{}).DetectFurniture(ctx, blankImage(10, 10))
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("got %v, want deadline exceeded", err)
		}
	})
}

func TestDetectFurniture_CustomVocabulary(t *testing.T) {
	v, err := vocab.New(vocab.File{Categories: []vocab.Category{{ClassID: 13, Label: "bench"}}})
	if err != nil {
		t.Fatalf("vocab.New: %v", err)
	}
	det := &fixedDetector{raw: []RawDetection{
		{ClassID: 13, Box: Box{0, 0, 10, 10}},
		{ClassID: 56, Box: Box{0, 0, 10, 10}},
	}}
	set, _ := NewAdapter(det, v, AdapterOptions{}).DetectFurniture(context.Background(), blankImage(20, 20))
	if len(set) != 1 || set[0].Label != "bench" {
		t.Errorf("got %+v, want one bench", set)
	}
}

func TestNormalize_OffsetBounds(t *testing.T) {
	a := NewAdapter(&fixedDetector{}, nil, AdapterOptions{})
	set, err := a.Normalize(image.Rect(100, 100, 200, 200), []RawDetection{
		{ClassID: 60, Box: Box{50, 150, 150, 250}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set[0].Box != (Box{100, 150, 150, 200}) {
		t.Errorf("box: got %+v", set[0].Box)
	}
}
