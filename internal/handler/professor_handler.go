package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MateoMinghi/via-alta-sub001/internal/models"
	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	"github.com/MateoMinghi/via-alta-sub001/pkg/response"
)

// ProfessorHandler exposes the professor directory.
type ProfessorHandler struct {
	service *service.ProfessorService
}

// NewProfessorHandler constructs handler.
func NewProfessorHandler(svc *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{service: svc}
}

// List godoc
// @Summary List professors
// @Tags Professors
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /professors [get]
func (h *ProfessorHandler) List(c *gin.Context) {
	var filter models.ProfessorFilter
	filter.Search = c.Query("search")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	professors, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, professors, pagination)
}

// Get godoc
// @Summary Get professor
// @Tags Professors
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id} [get]
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	professor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor, nil)
}
