package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
	"github.com/MateoMinghi/via-alta-sub001/pkg/response"
)

// ExportHandler streams rendered schedules.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ProfessorSchedule godoc
// @Summary Export a professor's weekly schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Professor ID"
// @Param format query string false "csv or pdf" default(csv)
// @Param cycleId query int false "Cycle ID, defaults to the latest cycle"
// @Success 200 {file} binary
// @Router /professors/{id}/schedule/export [get]
func (h *ExportHandler) ProfessorSchedule(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var cycleID *int64
	if raw := c.Query("cycleId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid cycleId query parameter"))
			return
		}
		cycleID = &parsed
	}

	result, err := h.service.ProfessorSchedule(c.Request.Context(), id, cycleID, c.DefaultQuery("format", service.FormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Data)
}
