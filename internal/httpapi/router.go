// Package httpapi exposes the layout advisor over HTTP with multipart
// uploads. It shares one Advisor with the other front ends.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/ironsheep/layout-advisor/internal/advisor"
	"github.com/ironsheep/layout-advisor/internal/logger"
)

// DefaultMaxUploadBytes limits a whole request body.
const DefaultMaxUploadBytes = 20 << 20

// Options configures the router.
type Options struct {
	// MaxUploadBytes limits the request body. Zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64

	// Version is reported by /healthz.
	Version string
}

// NewRouter builds the gin engine for adv.
func NewRouter(adv *advisor.Advisor, log *logger.Logger, opts Options) *gin.Engine {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadBytes
	r.Use(RequestID())
	r.Use(gin.LoggerWithWriter(log.Writer()))
	r.Use(gin.RecoveryWithWriter(log.Writer()))

	h := NewHandler(adv, log, opts)
	r.GET("/healthz", h.Health)

	v1 := r.Group("/api/v1")
	v1.Use(LimitBody(opts.MaxUploadBytes))
	{
		v1.POST("/compare", h.Compare)
		v1.POST("/compare/image", h.CompareImage)
		v1.POST("/detect", h.Detect)
	}

	return r
}
