package filters

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

// Handler exposes the applied-filter store and its draft over HTTP.
type Handler struct {
	sessions *filter.Sessions
	metrics  *metrics.Metrics
}

func NewHandler(sessions *filter.Sessions, m *metrics.Metrics) *Handler {
	return &Handler{sessions: sessions, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	filters := r.Group("/filters")
	{
		filters.GET("", h.GetApplied)
		filters.GET("/draft", h.GetDraft)
		filters.PUT("/draft", h.UpdateDraft)
		filters.POST("/apply", h.Apply)
		filters.POST("/clear", h.Clear)
	}
}

type appliedResponse struct {
	Values      model.FilterValues `json:"values"`
	Version     uint64             `json:"version"`
	ActiveCount int                `json:"active_count"`
	Page        int                `json:"page"`
}

// GetApplied returns the currently applied filter values, the bulk
// version and the active-concept count driving the UI badge.
func (h *Handler) GetApplied(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	snap := sess.Store.Snapshot()

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appliedResponse{
		Values:      snap.Values,
		Version:     snap.Version,
		ActiveCount: sess.Store.ActiveFilterCount(),
		Page:        sess.Page(),
	}))
}

// GetDraft returns the uncommitted draft values.
func (h *Handler) GetDraft(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(sess.Draft.Values()))
}

// UpdateDraft merges a partial edit into the draft without touching the
// applied state.
func (h *Handler) UpdateDraft(c *gin.Context) {
	var patch model.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	sess := handler.SessionFrom(c, h.sessions)
	sess.Draft.Update(patch)

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sess.Draft.Values()))
}

// Apply commits the draft atomically and resets pagination.
func (h *Handler) Apply(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	sess.Apply()
	if h.metrics != nil {
		h.metrics.FiltersApplied.Inc()
	}

	snap := sess.Store.Snapshot()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appliedResponse{
		Values:      snap.Values,
		Version:     snap.Version,
		ActiveCount: sess.Store.ActiveFilterCount(),
		Page:        sess.Page(),
	}))
}

// Clear resets the applied filters directly, bypassing the draft; the
// draft resynchronizes through the store's version notification.
func (h *Handler) Clear(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	sess.Clear()
	if h.metrics != nil {
		h.metrics.FiltersCleared.Inc()
	}

	snap := sess.Store.Snapshot()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(appliedResponse{
		Values:      snap.Values,
		Version:     snap.Version,
		ActiveCount: sess.Store.ActiveFilterCount(),
		Page:        sess.Page(),
	}))
}
