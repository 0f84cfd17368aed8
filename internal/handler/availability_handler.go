package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MateoMinghi/via-alta-sub001/internal/dto"
	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
	"github.com/MateoMinghi/via-alta-sub001/pkg/response"
)

// AvailabilityHandler manages weekly availability grids.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Get godoc
// @Summary Get a professor's availability grid
// @Tags Availability
// @Produce json
// @Param id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Replace godoc
// @Summary Replace a professor's availability grid
// @Description The payload replaces the whole grid. Keys follow the
// @Description "{DAY}-{HH:MM}" slot format on half-hour boundaries.
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path int true "Professor ID"
// @Param payload body dto.ReplaceAvailabilityRequest true "Availability grid"
// @Success 200 {object} response.Envelope
// @Router /professors/{id}/availability [put]
func (h *AvailabilityHandler) Replace(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReplaceAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.ProfessorID != 0 && req.ProfessorID.Int64() != id {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "professorId in body does not match path"))
		return
	}

	preferences := make(map[string]int64, len(req.Preferences))
	for key, subjectID := range req.Preferences {
		preferences[key] = subjectID.Int64()
	}

	view, err := h.service.Replace(c.Request.Context(), service.ReplaceAvailabilityRequest{
		ProfessorID:  id,
		Availability: req.Availability,
		Preferences:  preferences,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
