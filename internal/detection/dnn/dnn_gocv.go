//go:build gocv

package dnn

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/layout-advisor/internal/detection"
)

// yoloAttrs is the per-candidate row count before class scores: cx, cy, w, h.
const yoloAttrs = 4

// Detector runs the YOLOv8 network.
type Detector struct {
	mu   sync.Mutex
	net  gocv.Net
	opts Options
}

// New loads the ONNX model from opts.ModelPath.
func New(opts Options) (*Detector, error) {
	opts = opts.withDefaults()
	if _, err := os.Stat(opts.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %s: %w", opts.ModelPath, err)
	}

	net := gocv.ReadNetFromONNX(opts.ModelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", opts.ModelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set target: %w", err)
	}

	return &Detector{net: net, opts: opts}, nil
}

// Detect runs one forward pass on img.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	size := d.opts.InputSize
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	// YOLOv8 output is [1, 4+classes, candidates].
	dims := output.Size()
	if len(dims) != 3 || dims[1] <= yoloAttrs {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	rows, candidates := dims[1], dims[2]
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}

	sx := float64(mat.Cols()) / float64(size)
	sy := float64(mat.Rows()) / float64(size)

	byClass := make(map[int][]candidate)
	for i := 0; i < candidates; i++ {
		classID, score := -1, float32(0)
		for c := yoloAttrs; c < rows; c++ {
			if s := data[c*candidates+i]; s > score {
				classID, score = c-yoloAttrs, s
			}
		}
		if classID < 0 || float64(score) < d.opts.MinConfidence {
			continue
		}
		cx := float64(data[0*candidates+i])
		cy := float64(data[1*candidates+i])
		w := float64(data[2*candidates+i])
		h := float64(data[3*candidates+i])
		rect := image.Rect(
			int((cx-w/2)*sx), int((cy-h/2)*sy),
			int((cx+w/2)*sx), int((cy+h/2)*sy),
		)
		byClass[classID] = append(byClass[classID], candidate{rect: rect, score: score})
	}

	var raw []detection.RawDetection
	for classID, cands := range byClass {
		rects := make([]image.Rectangle, len(cands))
		scores := make([]float32, len(cands))
		for i, c := range cands {
			rects[i], scores[i] = c.rect, c.score
		}
		keep := gocv.NMSBoxes(rects, scores, float32(d.opts.MinConfidence), float32(d.opts.NMSThreshold))
		for _, k := range keep {
			r := rects[k]
			raw = append(raw, detection.RawDetection{
				ClassID:    classID,
				Confidence: float64(scores[k]),
				Box:        detection.Box{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
			})
		}
	}
	sortByConfidence(raw)
	return raw, nil
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

type candidate struct {
	rect  image.Rectangle
	score float32
}
