// Package remote provides a Detector backed by an HTTP inference service,
// typically a Python sidecar running the YOLO model.
//
// The image is posted as a multipart form (field "file", JPEG). The service
// answers with JSON:
//
//	{"detections": [
//	  {"class_id": 56, "class_name": "chair", "confidence": 0.91,
//	   "bbox": [x1, y1, x2, y2]}
//	]}
//
// Box coordinates are pixels of the uploaded image. Large images are
// downscaled before upload and boxes are scaled back to the original size.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
)

// DefaultUploadSide caps the longest side of uploaded images.
const DefaultUploadSide = 1280

// Options configures a Client.
type Options struct {
	// HTTPClient defaults to a client with a 60s timeout.
	HTTPClient *http.Client

	// MaxUploadSide caps the longest side sent to the service. Zero means
	// DefaultUploadSide, negative disables downscaling.
	MaxUploadSide int
}

// Client calls the inference service. It is safe for concurrent use.
type Client struct {
	url     string
	http    *http.Client
	maxSide int
}

// New creates a Client for the given predict endpoint.
func New(url string, opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 60 * time.Second}
	}
	maxSide := opts.MaxUploadSide
	if maxSide == 0 {
		maxSide = DefaultUploadSide
	}
	return &Client{url: url, http: hc, maxSide: maxSide}
}

type prediction struct {
	ClassID    *int      `json:"class_id"`
	ClassName  string    `json:"class_name"`
	Confidence float64   `json:"confidence"`
	BBox       []float64 `json:"bbox"`
}

type predictResponse struct {
	Detections []prediction `json:"detections"`
}

// Detect uploads img and returns the service's detections.
func (c *Client) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	upload, scale := imaging.FitWithin(img, c.maxSide)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, imaging.FlattenRGB(upload), imaging.JPEG); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("inference failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	raw := make([]detection.RawDetection, 0, len(result.Detections))
	for i, p := range result.Detections {
		if len(p.BBox) != 4 {
			return nil, fmt.Errorf("detection %d: bbox has %d values, want 4", i, len(p.BBox))
		}
		classID := -1
		if p.ClassID != nil {
			classID = *p.ClassID
		}
		raw = append(raw, detection.RawDetection{
			ClassID:    classID,
			ClassName:  p.ClassName,
			Confidence: p.Confidence,
			Box: detection.Box{
				X1: scaleCoord(p.BBox[0], scale),
				Y1: scaleCoord(p.BBox[1], scale),
				X2: scaleCoord(p.BBox[2], scale),
				Y2: scaleCoord(p.BBox[3], scale),
			},
		})
	}
	return raw, nil
}

// CheckHealth calls the service's /health endpoint.
func (c *Client) CheckHealth(ctx context.Context) error {
	url := strings.TrimSuffix(c.url, "/predict") + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// scaleCoord maps an upload coordinate back to the original image,
// truncating toward negative infinity.
func scaleCoord(v, scale float64) int {
	return int(math.Floor(v * scale))
}
