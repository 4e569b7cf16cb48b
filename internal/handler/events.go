package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eventradar/internal/models"
	"eventradar/internal/repository"
)

type EventsHandler struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

func (h *EventsHandler) Register(r *gin.Engine) {
	group := r.Group("/api/events")
	group.GET("", h.listEvents)
	group.GET("/:id", h.getEvent)
	group.GET("/:id/history", h.getEventHistory)
	r.GET("/api/categories", h.listCategories)
}

// @Summary List categories
// @Tags events
// @Success 200 {object} apiResponse
// @Router /api/categories [get]
func (h *EventsHandler) listCategories(c *gin.Context) {
	items, err := h.Repo.ListCategories(c.Request.Context())
	if err != nil {
		h.Logger.Warn("list categories failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list categories failed", nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary List events
// @Tags events
// @Param status query string false "availability status filter"
// @Param category query string false "category slug"
// @Param venue query string false "venue name substring"
// @Param q query string false "title/description search"
// @Param from query string false "start date lower bound (RFC3339)"
// @Param to query string false "start date upper bound (RFC3339)"
// @Param featured query bool false "featured only"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} apiResponse
// @Router /api/events [get]
func (h *EventsHandler) listEvents(c *gin.Context) {
	params := repository.ListEventsParams{
		Limit:    intQuery(c, "limit", 100),
		Offset:   intQuery(c, "offset", 0),
		Category: strQueryPtr(c, "category"),
		Venue:    strQueryPtr(c, "venue"),
		Search:   strQueryPtr(c, "q"),
		From:     timeQueryPtr(c, "from"),
		To:       timeQueryPtr(c, "to"),
		Featured: boolQueryPtr(c, "featured"),
		OrderBy: parseOrder(c.Query("order_by"), map[string]string{
			"start_date":       "start_date",
			"created_at":       "created_at",
			"updated_at":       "updated_at",
			"first_seen_at":    "first_seen_at",
			"popularity_score": "popularity_score",
		}),
		Asc: boolQueryPtr(c, "asc"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := models.EventStatus(raw)
		if !status.Valid() {
			Error(c, http.StatusBadRequest, "invalid status", nil)
			return
		}
		params.Status = &status
	}

	ctx := c.Request.Context()
	items, err := h.Repo.ListEvents(ctx, params)
	if err != nil {
		h.Logger.Warn("list events failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "list events failed", nil)
		return
	}
	total, err := h.Repo.CountEvents(ctx, params)
	if err != nil {
		h.Logger.Warn("count events failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "count events failed", nil)
		return
	}
	Ok(c, items, map[string]any{
		"total":  total,
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

// @Summary Get one event by id or slug
// @Tags events
// @Param id path string true "event id or slug"
// @Success 200 {object} apiResponse
// @Router /api/events/{id} [get]
func (h *EventsHandler) getEvent(c *gin.Context) {
	key := c.Param("id")
	var item *models.Event
	var err error
	if id, perr := strconv.ParseUint(key, 10, 64); perr == nil {
		item, err = h.Repo.GetEventByID(c.Request.Context(), id)
	} else {
		item, err = h.Repo.GetEventBySlug(c.Request.Context(), key)
	}
	if err != nil {
		h.Logger.Warn("get event failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "get event failed", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "event not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary Availability history for one event
// @Tags events
// @Param id path int true "event id"
// @Param limit query int false "max rows"
// @Success 200 {object} apiResponse
// @Router /api/events/{id}/history [get]
func (h *EventsHandler) getEventHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid event id", nil)
		return
	}
	items, err := h.Repo.ListAvailabilityByEventID(c.Request.Context(), id, intQuery(c, "limit", 100))
	if err != nil {
		h.Logger.Warn("event history failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "event history failed", nil)
		return
	}
	Ok(c, items, nil)
}

// --- query helpers ----------------------------------------------------------

// parseOrder maps a requested sort key through an allow-map; anything
// outside it comes back empty so the repository falls back to its
// default column. Raw input never reaches the ORDER BY clause.
func parseOrder(value string, allow map[string]string) string {
	key := strings.TrimSpace(strings.ToLower(value))
	if key == "" {
		return ""
	}
	if mapped, ok := allow[key]; ok {
		return mapped
	}
	return ""
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func boolQueryPtr(c *gin.Context, key string) *bool {
	if val := c.Query(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return &b
		}
	}
	return nil
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func timeQueryPtr(c *gin.Context, key string) *time.Time {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", val); err == nil {
		return &t
	}
	return nil
}
