package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/video-summarizer/internal/infra/config"
	"github.com/yanqian/video-summarizer/internal/infra/ratelimit"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, limiter ratelimit.Store) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		requestIDMiddleware(),
		recoveryMiddleware(handler.logger),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Healthz)

	api := router.Group("/api")
	api.Use(
		rateLimitMiddleware(cfg.HTTP.RateLimit, limiter, handler.logger),
		tokenMiddleware(),
	)
	{
		api.POST("/summarize", handler.Summarize)
		api.POST("/v1/summaries", handler.Summarize)
		api.PUT("/summaries/:id", handler.UpdateSummary)
		api.DELETE("/summaries/:id", handler.DeleteSummary)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
