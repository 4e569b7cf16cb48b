package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventradar/internal/ingest"
)

type IngestHandler struct {
	Aggregator *ingest.Aggregator
	Logger     *zap.Logger
}

func (h *IngestHandler) Register(r *gin.Engine) {
	r.POST("/api/ingest/run", h.runIngest)
}

// @Summary Run an ingestion cycle now
// @Tags ingest
// @Param sources query string false "comma-separated adapter names; default all"
// @Param window_days query int false "fetch horizon override"
// @Success 200 {object} apiResponse
// @Router /api/ingest/run [post]
func (h *IngestHandler) runIngest(c *gin.Context) {
	if h.Aggregator == nil {
		Error(c, http.StatusInternalServerError, "aggregator unavailable", nil)
		return
	}

	var only []string
	if raw := strings.TrimSpace(c.Query("sources")); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				only = append(only, name)
			}
		}
	}
	windowDays := intQuery(c, "window_days", h.Aggregator.WindowDays)

	start := time.Now().UTC()
	end := start.AddDate(0, 0, windowDays)
	results := h.Aggregator.FetchAll(c.Request.Context(), start, end, only)

	h.Logger.Info("manual ingest completed", zap.Any("results", results))
	Ok(c, results, map[string]any{
		"start":       start,
		"end":         end,
		"window_days": windowDays,
	})
}
