package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// ClassroomHandler 教室模块 HTTP 处理器
type ClassroomHandler struct {
	classroomSvc service.ClassroomService
}

// NewClassroomHandler 创建 ClassroomHandler
func NewClassroomHandler(classroomSvc service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{classroomSvc: classroomSvc}
}

// ListClassrooms GET /api/v1/classrooms?period=
func (h *ClassroomHandler) ListClassrooms(c *gin.Context) {
	var req dto.ClassroomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, err := h.classroomSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetClassroom GET /api/v1/classrooms/:id
func (h *ClassroomHandler) GetClassroom(c *gin.Context) {
	id, ok := MustGetParamID(c, "教室")
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, classroom)
}

// CreateClassroom POST /api/v1/classrooms
func (h *ClassroomHandler) CreateClassroom(c *gin.Context) {
	var req dto.CreateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.Created(c, classroom)
}

// UpdateClassroom PUT /api/v1/classrooms/:id
func (h *ClassroomHandler) UpdateClassroom(c *gin.Context) {
	id, ok := MustGetParamID(c, "教室")
	if !ok {
		return
	}

	var req dto.UpdateClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	classroom, err := h.classroomSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, classroom)
}

// DeleteClassroom DELETE /api/v1/classrooms/:id
func (h *ClassroomHandler) DeleteClassroom(c *gin.Context) {
	id, ok := MustGetParamID(c, "教室")
	if !ok {
		return
	}

	if err := h.classroomSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassroomError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ClassroomHandler) handleClassroomError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 17001, "教室不存在")
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 17002, "时段无效")
	case errors.Is(err, service.ErrClassroomExists):
		response.Conflict(c, 17003, "该时段下同名教室已存在")
	case errors.Is(err, service.ErrClassroomInUse):
		response.Conflict(c, 17004, "教室已有排课，不能删除或更换时段")
	default:
		response.InternalError(c)
	}
}
