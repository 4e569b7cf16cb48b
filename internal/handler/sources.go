package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventradar/internal/models"
	"eventradar/internal/repository"
	"eventradar/internal/source"
)

type SourcesHandler struct {
	Registry *source.Registry
	Repo     repository.Repository
	Logger   *zap.Logger
}

type sourceStatus struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Enabled bool                   `json:"enabled"`
	Health  *models.ProviderHealth `json:"health,omitempty"`
}

func (h *SourcesHandler) Register(r *gin.Engine) {
	r.GET("/api/sources", h.listSources)
}

// @Summary List data sources with health
// @Tags sources
// @Success 200 {object} apiResponse
// @Router /api/sources [get]
func (h *SourcesHandler) listSources(c *gin.Context) {
	health, err := h.Repo.ListProviderHealth(c.Request.Context())
	if err != nil {
		h.Logger.Warn("list provider health failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list sources failed", nil)
		return
	}
	byName := make(map[string]*models.ProviderHealth, len(health))
	for i := range health {
		byName[health[i].Name] = &health[i]
	}

	var out []sourceStatus
	for _, src := range h.Registry.All() {
		out = append(out, sourceStatus{
			Name:    src.Name(),
			Type:    src.SourceType(),
			Enabled: src.Enabled(),
			Health:  byName[src.Name()],
		})
	}
	Ok(c, out, nil)
}
