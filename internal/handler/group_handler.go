package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MateoMinghi/via-alta-sub001/internal/dto"
	"github.com/MateoMinghi/via-alta-sub001/internal/service"
	appErrors "github.com/MateoMinghi/via-alta-sub001/pkg/errors"
	"github.com/MateoMinghi/via-alta-sub001/pkg/response"
)

// GroupHandler manages course-section group endpoints.
type GroupHandler struct {
	service *service.GroupService
}

// NewGroupHandler constructs handler.
func NewGroupHandler(svc *service.GroupService) *GroupHandler {
	return &GroupHandler{service: svc}
}

// Get godoc
// @Summary Get group
// @Tags Groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} response.Envelope
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	group, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// ListByCycle godoc
// @Summary List groups in a cycle
// @Tags Groups
// @Produce json
// @Param cycleId query int true "Cycle ID"
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) ListByCycle(c *gin.Context) {
	cycleID, err := strconv.ParseInt(c.Query("cycleId"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "cycleId query parameter is required"))
		return
	}
	groups, err := h.service.ListByCycle(c.Request.Context(), cycleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// NextID godoc
// @Summary Preview the next group id
// @Tags Groups
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/next-group-id [get]
func (h *GroupHandler) NextID(c *gin.Context) {
	next, err := h.service.NextGroupID(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"nextGroupId": next}, nil)
}

// Create godoc
// @Summary Create group
// @Tags Groups
// @Accept json
// @Produce json
// @Param payload body dto.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Create(c.Request.Context(), service.CreateGroupRequest{
		SubjectID:   req.SubjectID.Int64(),
		ProfessorID: req.ProfessorID.Int64(),
		ClassroomID: req.ClassroomID.Ptr(),
		CycleID:     req.CycleID.Ptr(),
		GroupID:     req.GroupID.Ptr(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param payload body dto.UpdateGroupRequest true "Group patch"
// @Success 200 {object} response.Envelope
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	group, err := h.service.Update(c.Request.Context(), id, service.UpdateGroupRequest{
		SubjectID:   req.SubjectID.Ptr(),
		ProfessorID: req.ProfessorID.Ptr(),
		ClassroomID: req.ClassroomID.Ptr(),
		CycleID:     req.CycleID.Ptr(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" path parameter")
	}
	return id, nil
}
