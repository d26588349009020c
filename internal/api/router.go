// Package api is the HTTP boundary of the dashboard: routing, query and body
// parsing, error mapping and the alert stream.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"meme-token-dashboard/internal/dashboard"
	"meme-token-dashboard/internal/observability"
)

// Options configures the router.
type Options struct {
	// Prefix is prepended to every dashboard route, e.g. "/api".
	Prefix string
	// Logger receives access logs. Defaults to a no-op logger.
	Logger *zap.Logger
	// Hub serves GET {prefix}/alerts/stream when set.
	Hub *AlertHub
}

// NewRouter builds the gin engine serving the dashboard API plus /health and
// /metrics.
func NewRouter(svc *dashboard.Service, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("http")

	r := gin.New()
	r.Use(requestID(), accessLog(logger), recovery(logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(observability.Handler()))

	h := &handlers{svc: svc}
	g := r.Group(opts.Prefix)
	{
		g.GET("/tokens", h.listTokens)
		g.POST("/tokens", h.createToken)
		g.GET("/tokens/:id", h.getToken)
		g.PATCH("/tokens/:id", h.updateToken)

		g.GET("/alerts", h.listAlerts)
		g.POST("/alerts", h.createAlert)
		g.PATCH("/alerts/:id/read", h.markAlertRead)
		if opts.Hub != nil {
			g.GET("/alerts/stream", opts.Hub.Serve)
		}

		g.GET("/stats", h.stats)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorResponse{Message: "Not found"})
	})

	return r
}
