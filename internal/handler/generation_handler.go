package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MateoMinghi/via-alta-sub001/internal/dto"
	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
	"github.com/MateoMinghi/via-alta-sub001/pkg/response"
)

// GenerationHandler drives batch group generation.
type GenerationHandler struct {
	service *service.GenerationService
}

// NewGenerationHandler constructs handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Generate godoc
// @Summary Generate groups in batch
// @Description Explicit mode processes paramsList tuple by tuple and reports
// @Description per-item outcomes. All-professors mode schedules one group per
// @Description (professor, subject) preference pair in the given classroom.
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateGroupsRequest true "Generation request"
// @Success 200 {object} response.Envelope
// @Router /generate-groups [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	mode := req.Mode
	if mode == "" {
		if len(req.ParamsList) > 0 {
			mode = dto.ModeExplicit
		} else {
			mode = dto.ModeAllProfessors
		}
	}

	switch mode {
	case dto.ModeExplicit:
		if len(req.ParamsList) == 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "paramsList is required in explicit mode"))
			return
		}
		items := make([]service.GenerationItemParams, 0, len(req.ParamsList))
		for _, params := range req.ParamsList {
			items = append(items, service.GenerationItemParams{
				SubjectID:   params.SubjectID.Int64(),
				ProfessorID: params.ProfessorID.Int64(),
				ClassroomID: params.ClassroomID.Ptr(),
				CycleID:     params.CycleID.Ptr(),
				GroupID:     params.GroupID.Ptr(),
			})
		}
		results := h.service.GenerateBatch(c.Request.Context(), items)
		response.JSON(c, http.StatusOK, gin.H{"mode": dto.ModeExplicit, "results": results}, nil)

	case dto.ModeAllProfessors:
		if req.IDSalon == nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "idSalon is required in all-professors mode"))
			return
		}
		summary, err := h.service.GenerateAllProfessors(c.Request.Context(), req.IDSalon.Int64(), req.IDCiclo.Ptr())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"mode": dto.ModeAllProfessors, "summary": summary}, nil)

	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "mode must be explicit or all-professors"))
	}
}
