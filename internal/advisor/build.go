package advisor

import (
	"context"
	"fmt"
	"io"

	"github.com/ironsheep/layout-advisor/internal/annotate"
	"github.com/ironsheep/layout-advisor/internal/config"
	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/detection/dnn"
	"github.com/ironsheep/layout-advisor/internal/detection/rekognition"
	"github.com/ironsheep/layout-advisor/internal/detection/remote"
	"github.com/ironsheep/layout-advisor/internal/detection/static"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/suggest"
	"github.com/ironsheep/layout-advisor/internal/vocab"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewDetector creates the backend named by cfg.Detector. The returned
// Closer releases native resources and must be called at shutdown.
func NewDetector(ctx context.Context, cfg *config.Config, log *logger.Logger) (detection.Detector, io.Closer, error) {
	switch cfg.Detector {
	case config.DetectorStatic:
		d, err := static.Load(cfg.SceneFile)
		if err != nil {
			return nil, nil, err
		}
		return d, nopCloser{}, nil

	case config.DetectorDNN:
		d, err := dnn.New(dnn.Options{
			ModelPath:     cfg.ModelPath,
			InputSize:     cfg.ModelInputSize,
			MinConfidence: cfg.MinConfidence,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("Detection network loaded from %s", cfg.ModelPath)
		return d, d, nil

	case config.DetectorRekognition:
		d, err := rekognition.NewFromEnv(ctx, cfg.AWSRegion, rekognition.Options{
			MinConfidence: float32(cfg.MinConfidence * 100),
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("Using AWS Rekognition in %s", cfg.AWSRegion)
		return d, nopCloser{}, nil

	case config.DetectorRemote:
		c := remote.New(cfg.InferenceURL, remote.Options{})
		if err := c.CheckHealth(ctx); err != nil {
			// The sidecar may start after us; requests fail until it is up.
			log.Warning("ML service not available: %v", err)
		}
		log.Info("Using inference service at %s", cfg.InferenceURL)
		return c, nopCloser{}, nil

	default:
		return nil, nil, fmt.Errorf("unknown detector %q", cfg.Detector)
	}
}

// FromConfig builds an Advisor and its detector from cfg.
func FromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Advisor, io.Closer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	v := vocab.Default()
	if cfg.VocabFile != "" {
		loaded, err := vocab.Load(cfg.VocabFile)
		if err != nil {
			return nil, nil, err
		}
		v = loaded
		log.Info("Loaded vocabulary from %s (%d categories)", cfg.VocabFile, len(v.Labels()))
	}

	style, err := annotate.StyleFromHex(cfg.BoxColor, cfg.ArrowColor)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid annotation color: %w", err)
	}

	det, closer, err := NewDetector(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize %s detector: %w", cfg.Detector, err)
	}

	a := New(
		detection.NewAdapter(det, v, detection.AdapterOptions{StrictBoxes: cfg.StrictBoxes, Logger: log}),
		suggest.NewEngine(v, suggest.Options{Threshold: cfg.Threshold}),
		annotate.New(style),
		Options{
			DetectTimeout: cfg.DetectTimeout,
			Decode:        imaging.DecodeOptions{MaxSide: cfg.MaxImageSide},
			DetectorName:  cfg.Detector,
			Logger:        log,
		},
	)
	return a, closer, nil
}
