package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventradar/internal/alert"
	"eventradar/internal/repository"
)

type AlertsHandler struct {
	Monitor *alert.Monitor
	Repo    repository.Repository
	Logger  *zap.Logger
}

func (h *AlertsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/alerts")
	group.GET("", h.listAlerts)
	group.POST("/check", h.runCheck)
}

// @Summary List generated alerts
// @Tags alerts
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} apiResponse
// @Router /api/alerts [get]
func (h *AlertsHandler) listAlerts(c *gin.Context) {
	items, err := h.Repo.ListAlerts(c.Request.Context(), repository.ListAlertsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Since:  timeQueryPtr(c, "since"),
	})
	if err != nil {
		h.Logger.Warn("list alerts failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list alerts failed", nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Run the alert check now
// @Tags alerts
// @Success 200 {object} apiResponse
// @Router /api/alerts/check [post]
func (h *AlertsHandler) runCheck(c *gin.Context) {
	if h.Monitor == nil {
		Error(c, http.StatusInternalServerError, "monitor unavailable", nil)
		return
	}
	item, err := h.Monitor.RunOnce(c.Request.Context())
	if err != nil {
		h.Logger.Warn("alert check failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "alert check failed", nil)
		return
	}
	if item == nil {
		Ok(c, nil, map[string]any{"generated": false})
		return
	}
	Ok(c, item, map[string]any{"generated": true})
}
