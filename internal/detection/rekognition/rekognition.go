// Package rekognition provides a Detector backed by AWS Rekognition
// DetectLabels.
//
// Rekognition reports label names ("Chair", "Couch", "Rug") rather than
// model class ids, so detections from this backend are matched against the
// vocabulary by name. Only label instances with a bounding box become
// detections. Boxes come back as ratios of the image size and are converted
// to pixels of the original image, so downscaling before upload does not
// move them.
package rekognition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
)

const (
	// DefaultUploadSide keeps encoded uploads well under the 5 MB
	// inline-bytes limit.
	DefaultUploadSide = 1920

	defaultMaxLabels     = 100
	defaultMinConfidence = 50
)

// API is the subset of the Rekognition client used here.
type API interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// Options configures a Detector.
type Options struct {
	// MinConfidence in percent (0-100). Zero means 50.
	MinConfidence float32

	// MaxLabels per request. Zero means 100.
	MaxLabels int32

	// MaxUploadSide caps the longest uploaded side. Zero means
	// DefaultUploadSide.
	MaxUploadSide int
}

// Detector calls Rekognition. It is safe for concurrent use.
type Detector struct {
	api  API
	opts Options
}

// New wraps an existing client.
func New(api API, opts Options) *Detector {
	if opts.MinConfidence <= 0 {
		opts.MinConfidence = defaultMinConfidence
	}
	if opts.MaxLabels <= 0 {
		opts.MaxLabels = defaultMaxLabels
	}
	if opts.MaxUploadSide <= 0 {
		opts.MaxUploadSide = DefaultUploadSide
	}
	return &Detector{api: api, opts: opts}
}

// NewFromEnv loads the default AWS configuration (environment, shared
// config, instance role) for region and creates a Detector.
func NewFromEnv(ctx context.Context, region string, opts Options) (*Detector, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return New(rekognition.NewFromConfig(cfg), opts), nil
}

// Detect sends img to DetectLabels.
func (d *Detector) Detect(ctx context.Context, img image.Image) ([]detection.RawDetection, error) {
	upload, _ := imaging.FitWithin(img, d.opts.MaxUploadSide)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.FlattenRGB(upload), imaging.JPEG); err != nil {
		return nil, err
	}

	out, err := d.api.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: buf.Bytes()},
		MaxLabels:     aws.Int32(d.opts.MaxLabels),
		MinConfidence: aws.Float32(d.opts.MinConfidence),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition DetectLabels: %w", err)
	}

	b := img.Bounds()
	return convertLabels(out.Labels, b.Dx(), b.Dy()), nil
}

// convertLabels turns label instances into raw detections in pixels of a
// width x height image.
func convertLabels(labels []types.Label, width, height int) []detection.RawDetection {
	var raw []detection.RawDetection
	for _, label := range labels {
		name := aws.ToString(label.Name)
		if name == "" {
			continue
		}
		for _, inst := range label.Instances {
			bb := inst.BoundingBox
			if bb == nil {
				continue
			}
			left := float64(aws.ToFloat32(bb.Left))
			top := float64(aws.ToFloat32(bb.Top))
			w := float64(aws.ToFloat32(bb.Width))
			h := float64(aws.ToFloat32(bb.Height))

			conf := inst.Confidence
			if conf == nil {
				conf = label.Confidence
			}

			raw = append(raw, detection.RawDetection{
				ClassID:    -1,
				ClassName:  name,
				Confidence: float64(aws.ToFloat32(conf)) / 100.0,
				Box: detection.Box{
					X1: int(math.Floor(left * float64(width))),
					Y1: int(math.Floor(top * float64(height))),
					X2: int(math.Floor((left + w) * float64(width))),
					Y2: int(math.Floor((top + h) * float64(height))),
				},
			})
		}
	}
	return raw
}
