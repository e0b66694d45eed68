// Package config loads runtime settings from the environment. A .env file
// in the working directory is read first if present; real environment
// variables take precedence over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Detector backend names.
const (
	DetectorStatic      = "static"
	DetectorDNN         = "dnn"
	DetectorRekognition = "rekognition"
	DetectorRemote      = "remote"
)

type Config struct {
	Detector       string
	ModelPath      string
	ModelInputSize int
	MinConfidence  float64
	InferenceURL   string
	AWSRegion      string
	SceneFile      string
	DetectTimeout  time.Duration

	Threshold   int
	VocabFile   string
	StrictBoxes bool
	BoxColor    string
	ArrowColor  string

	HTTPAddr     string
	MaxUploadMB  int
	MaxImageSide int

	LogLevel string
}

// Load reads the configuration. Malformed numeric or duration values fall
// back to their defaults; Validate reports semantic problems.
func Load() *Config {
	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	return &Config{
		Detector:       strings.ToLower(getEnv("LAYOUT_DETECTOR", DetectorRemote)),
		ModelPath:      getEnv("LAYOUT_MODEL_PATH", "yolov8n.onnx"),
		ModelInputSize: getEnvAsInt("LAYOUT_MODEL_INPUT", 640),
		MinConfidence:  getEnvAsFloat("LAYOUT_MIN_CONFIDENCE", 0.25),
		InferenceURL:   getEnv("LAYOUT_INFERENCE_URL", "http://localhost:8000/predict"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SceneFile:      getEnv("LAYOUT_SCENE_FILE", ""),
		DetectTimeout:  getEnvAsDuration("LAYOUT_DETECT_TIMEOUT", 30*time.Second),

		Threshold:   getEnvAsInt("LAYOUT_THRESHOLD", 30),
		VocabFile:   getEnv("LAYOUT_VOCAB_FILE", ""),
		StrictBoxes: getEnvAsBool("LAYOUT_STRICT_BOXES", false),
		BoxColor:    getEnv("LAYOUT_BOX_COLOR", "#FF0000"),
		ArrowColor:  getEnv("LAYOUT_ARROW_COLOR", "#0000FF"),

		HTTPAddr:     getEnv("LAYOUT_HTTP_ADDR", ":8080"),
		MaxUploadMB:  getEnvAsInt("LAYOUT_MAX_UPLOAD_MB", 20),
		MaxImageSide: getEnvAsInt("LAYOUT_MAX_IMAGE_SIDE", 8192),

		LogLevel: getEnv("LAYOUT_LOG_LEVEL", "info"),
	}
}

// Validate checks values that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Detector {
	case DetectorStatic, DetectorDNN, DetectorRekognition, DetectorRemote:
	default:
		return fmt.Errorf("unknown detector %q (want static, dnn, rekognition or remote)", c.Detector)
	}
	if c.Detector == DetectorRemote && c.InferenceURL == "" {
		return fmt.Errorf("LAYOUT_INFERENCE_URL is required for the remote detector")
	}
	if c.Detector == DetectorStatic && c.SceneFile == "" {
		return fmt.Errorf("LAYOUT_SCENE_FILE is required for the static detector")
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("LAYOUT_THRESHOLD must be positive, got %d", c.Threshold)
	}
	if c.DetectTimeout <= 0 {
		return fmt.Errorf("LAYOUT_DETECT_TIMEOUT must be positive, got %s", c.DetectTimeout)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("LAYOUT_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
