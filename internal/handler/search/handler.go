package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/filter"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/handler"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/internal/service/search"
	"github.com/bedriftsgrafen/bedriftsgrafen-api/pkg/httputil"
)

// Handler serves the company list, count and stats endpoints. All three
// run against the session's applied filters.
type Handler struct {
	service  search.Service
	sessions *filter.Sessions
}

func NewHandler(service search.Service, sessions *filter.Sessions) *Handler {
	return &Handler{service: service, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	companies := r.Group("/companies")
	{
		companies.GET("", h.ListCompanies)
		companies.GET("/count", h.CountCompanies)
		companies.GET("/stats", h.CompanyStats)
	}
	lookups := r.Group("/lookups")
	{
		lookups.GET("/organization-forms", h.OrganizationForms)
		lookups.GET("/municipalities", h.Municipalities)
	}
}

type listRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ListCompanies returns one page of matching companies.
func (h *Handler) ListCompanies(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	sess := handler.SessionFrom(c, h.sessions)
	result, err := h.service.Search(c.Request.Context(), sess, req.Page, req.PageSize)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithPagination(c, result.Companies, result.Page, result.PageSize, result.Total)
}

// CountCompanies returns the number of matching companies.
func (h *Handler) CountCompanies(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	result, err := h.service.Count(c.Request.Context(), sess)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// CompanyStats returns aggregate statistics for the matching companies.
func (h *Handler) CompanyStats(c *gin.Context) {
	sess := handler.SessionFrom(c, h.sessions)
	result, err := h.service.Stats(c.Request.Context(), sess)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

// OrganizationForms returns the registry's organization form codes.
func (h *Handler) OrganizationForms(c *gin.Context) {
	entries, err := h.service.OrganizationForms(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}

// Municipalities returns the registry's municipality codes.
func (h *Handler) Municipalities(c *gin.Context) {
	entries, err := h.service.Municipalities(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(entries))
}
