package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/transcript"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
)

// Handler wires the HTTP transport to the summarization pipeline.
type Handler struct {
	svc    pipeline.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc pipeline.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type summarizeRequest struct {
	VideoID string `json:"videoId"`
}

// Summarize runs the pipeline for one video and returns the stored summary.
func (h *Handler) Summarize(c *gin.Context) {
	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// the pipeline checks the session first and rejects the empty id afterwards
		h.logger.Debug("unreadable summarize body", "error", err)
		req = summarizeRequest{}
	}

	saved, err := h.svc.Run(c.Request.Context(), pipeline.Request{VideoID: normalizeVideoID(req.VideoID), Token: getToken(c)})
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved, "error": nil})
}

// normalizeVideoID extracts the id from YouTube URLs and passes anything else
// through trimmed.
func normalizeVideoID(raw string) string {
	if id, ok := transcript.ParseVideoID(raw); ok {
		return id
	}
	return strings.TrimSpace(raw)
}

// UpdateSummary edits the title or text of a stored summary.
func (h *Handler) UpdateSummary(c *gin.Context) {
	var req pipeline.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "Invalid request body", err))
		return
	}
	req.ID = c.Param("id")

	saved, err := h.svc.Update(c.Request.Context(), getToken(c), req)
	if err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": saved, "error": nil})
}

// DeleteSummary removes a stored summary.
func (h *Handler) DeleteSummary(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), getToken(c), id); err != nil {
		abortWithError(c, fromAppError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}, "error": nil})
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
