package savedfilter

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/model"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/service/savedfilter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/httputil"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/metrics"
)

// Handler exposes saved-filter CRUD. Duplicate names are rejected here
// with a warning before the service is invoked; the store itself does
// not enforce uniqueness.
type Handler struct {
	service  savedfilter.Service
	sessions *filter.Sessions
	metrics  *metrics.Metrics
}

func NewHandler(service savedfilter.Service, sessions *filter.Sessions, m *metrics.Metrics) *Handler {
	return &Handler{service: service, sessions: sessions, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	saved := r.Group("/saved-filters")
	{
		saved.GET("", h.ListFilters)
		saved.POST("", h.CreateFilter)
		saved.GET("/:id", h.GetFilter)
		saved.PUT("/:id", h.UpdateFilter)
		saved.PATCH("/:id/name", h.RenameFilter)
		saved.DELETE("/:id", h.DeleteFilter)
		saved.POST("/:id/load", h.LoadFilter)
	}
}

type createRequest struct {
	Name    string                    `json:"name" binding:"required,notblank,max=100"`
	Filters model.SavedFilterSnapshot `json:"filters"`
}

type updateRequest struct {
	Name    string                    `json:"name" binding:"required,notblank,max=100"`
	Filters model.SavedFilterSnapshot `json:"filters"`
}

type renameRequest struct {
	Name string `json:"name" binding:"required,notblank,max=100"`
}

type savedFilterResponse struct {
	model.SavedFilter
	ActiveCount int `json:"active_count"`
}

func (h *Handler) respond(f model.SavedFilter) savedFilterResponse {
	return savedFilterResponse{
		SavedFilter: f,
		ActiveCount: h.service.CountActiveFilters(f.Filters),
	}
}

// ListFilters returns all saved filters, most recent first, each with
// its active-concept count.
func (h *Handler) ListFilters(c *gin.Context) {
	entries, err := h.service.ListFilters(c.Request.Context(), handler.NamespaceFrom(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	out := make([]savedFilterResponse, 0, len(entries))
	for _, f := range entries {
		out = append(out, h.respond(f))
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(out))
}

// CreateFilter saves a named snapshot and returns the generated id.
func (h *Handler) CreateFilter(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ns := handler.NamespaceFrom(c)
	exists, err := h.service.HasName(c.Request.Context(), ns, req.Name)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if exists {
		httputil.RespondWithWarning(c, "a saved filter with this name already exists")
		return
	}

	id, err := h.service.SaveFilter(c.Request.Context(), ns, req.Name, req.Filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SavedFilterOps.WithLabelValues("save").Inc()
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(gin.H{"id": id}))
}

// GetFilter returns one saved filter or 404.
func (h *Handler) GetFilter(c *gin.Context) {
	entry, err := h.service.GetFilter(c.Request.Context(), handler.NamespaceFrom(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("saved filter not found"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.respond(*entry)))
}

// UpdateFilter replaces name and values in place.
func (h *Handler) UpdateFilter(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ns := handler.NamespaceFrom(c)
	if err := h.service.UpdateFilter(c.Request.Context(), ns, c.Param("id"), req.Name, req.Filters); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SavedFilterOps.WithLabelValues("update").Inc()
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// RenameFilter updates only the name.
func (h *Handler) RenameFilter(c *gin.Context) {
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	ns := handler.NamespaceFrom(c)
	if err := h.service.RenameFilter(c.Request.Context(), ns, c.Param("id"), req.Name); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SavedFilterOps.WithLabelValues("rename").Inc()
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// DeleteFilter removes the entry; deleting an unknown id succeeds.
func (h *Handler) DeleteFilter(c *gin.Context) {
	if err := h.service.DeleteFilter(c.Request.Context(), handler.NamespaceFrom(c), c.Param("id")); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.SavedFilterOps.WithLabelValues("delete").Inc()
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

// LoadFilter writes a saved filter into the session draft, not the
// store, so the user can review and edit before applying.
func (h *Handler) LoadFilter(c *gin.Context) {
	entry, err := h.service.GetFilter(c.Request.Context(), handler.NamespaceFrom(c), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	if entry == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("saved filter not found"))
		return
	}

	sess := handler.SessionFrom(c, h.sessions)
	sess.Draft.LoadSaved(entry.Filters.Values())

	c.JSON(http.StatusOK, handler.NewSuccessResponse(sess.Draft.Values()))
}
