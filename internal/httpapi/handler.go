package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ironsheep/layout-advisor/internal/advisor"
	"github.com/ironsheep/layout-advisor/internal/detection"
	"github.com/ironsheep/layout-advisor/internal/imaging"
	"github.com/ironsheep/layout-advisor/internal/logger"
	"github.com/ironsheep/layout-advisor/internal/suggest"
)

// Handler serves the advisor endpoints.
type Handler struct {
	advisor *advisor.Advisor
	log     *logger.Logger
	opts    Options
}

func NewHandler(adv *advisor.Advisor, log *logger.Logger, opts Options) *Handler {
	return &Handler{advisor: adv, log: log, opts: opts}
}

type compareResponse struct {
	ID                  string                `json:"id"`
	Messages            []string              `json:"messages"`
	Suggestions         []suggest.Suggestion  `json:"suggestions"`
	RoomDetections      detection.Set         `json:"room_detections"`
	ReferenceDetections detection.Set         `json:"reference_detections"`
	RoomImage           *imaging.ImageInfo    `json:"room_image,omitempty"`
	ReferenceImage      *imaging.ImageInfo    `json:"reference_image,omitempty"`
	Annotated           *imaging.ImagePayload `json:"annotated_image"`
}

type detectResponse struct {
	Image      *imaging.ImageInfo `json:"image"`
	Detections detection.Set      `json:"detections"`
	Count      int                `json:"count"`
}

// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"detector": h.advisor.DetectorName(),
		"version":  h.opts.Version,
	})
}

// POST /api/v1/compare
func (h *Handler) Compare(c *gin.Context) {
	format, err := imaging.ParseFormat(c.DefaultQuery("format", string(imaging.JPEG)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, ok := h.compare(c)
	if !ok {
		return
	}

	payload, err := imaging.EncodeBase64(analysis.Annotated, format)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, compareResponse{
		ID:                  analysis.ID,
		Messages:            analysis.Messages,
		Suggestions:         analysis.Suggestions,
		RoomDetections:      analysis.RoomDetections,
		ReferenceDetections: analysis.ReferenceDetections,
		RoomImage:           analysis.RoomInfo,
		ReferenceImage:      analysis.ReferenceInfo,
		Annotated:           payload,
	})
}

// POST /api/v1/compare/image
func (h *Handler) CompareImage(c *gin.Context) {
	format, err := imaging.ParseFormat(c.DefaultQuery("format", string(imaging.JPEG)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis, ok := h.compare(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, analysis.Annotated, format); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=suggested_layout%s", format.Extension()))
	c.Data(http.StatusOK, format.MimeType(), buf.Bytes())
}

// POST /api/v1/detect
func (h *Handler) Detect(c *gin.Context) {
	f, ok := h.openUpload(c, "image")
	if !ok {
		return
	}
	defer f.Close()

	set, info, err := h.advisor.Detect(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detectResponse{Image: info, Detections: set, Count: len(set)})
}

func (h *Handler) compare(c *gin.Context) (*advisor.Analysis, bool) {
	room, ok := h.openUpload(c, "room")
	if !ok {
		return nil, false
	}
	defer room.Close()

	reference, ok := h.openUpload(c, "reference")
	if !ok {
		return nil, false
	}
	defer reference.Close()

	analysis, err := h.advisor.Compare(c.Request.Context(), room, reference)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return analysis, true
}

func (h *Handler) openUpload(c *gin.Context, field string) (multipart.File, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload too large"})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing upload field %q", field)})
		return nil, false
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to read upload %q: %v", field, err)})
		return nil, false
	}
	return f, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request %s: %v", requestID(c), err)
	} else {
		h.log.Warning("request %s: %v", requestID(c), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps advisor errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, imaging.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, imaging.ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, detection.ErrDetectionFailure), errors.Is(err, detection.ErrMalformedDetection):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
