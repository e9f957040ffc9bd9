package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// InstructorHandler 教师模块 HTTP 处理器
type InstructorHandler struct {
	instructorSvc service.InstructorService
}

// NewInstructorHandler 创建 InstructorHandler
func NewInstructorHandler(instructorSvc service.InstructorService) *InstructorHandler {
	return &InstructorHandler{instructorSvc: instructorSvc}
}

// ListInstructors GET /api/v1/instructors?keyword=
func (h *InstructorHandler) ListInstructors(c *gin.Context) {
	list, err := h.instructorSvc.List(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		h.handleInstructorError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetInstructor GET /api/v1/instructors/:id
func (h *InstructorHandler) GetInstructor(c *gin.Context) {
	id, ok := MustGetParamID(c, "教师")
	if !ok {
		return
	}

	instructor, err := h.instructorSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleInstructorError(c, err)
		return
	}
	response.OK(c, instructor)
}

// CreateInstructor POST /api/v1/instructors
func (h *InstructorHandler) CreateInstructor(c *gin.Context) {
	var req dto.CreateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	instructor, err := h.instructorSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleInstructorError(c, err)
		return
	}
	response.Created(c, instructor)
}

// UpdateInstructor PUT /api/v1/instructors/:id
func (h *InstructorHandler) UpdateInstructor(c *gin.Context) {
	id, ok := MustGetParamID(c, "教师")
	if !ok {
		return
	}

	var req dto.UpdateInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	instructor, err := h.instructorSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleInstructorError(c, err)
		return
	}
	response.OK(c, instructor)
}

// DeleteInstructor DELETE /api/v1/instructors/:id
func (h *InstructorHandler) DeleteInstructor(c *gin.Context) {
	id, ok := MustGetParamID(c, "教师")
	if !ok {
		return
	}

	if err := h.instructorSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleInstructorError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *InstructorHandler) handleInstructorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 16001, "教师不存在")
	case errors.Is(err, service.ErrInstructorCodeExists):
		response.Conflict(c, 16002, "教师代码已存在")
	case errors.Is(err, service.ErrInstructorInUse):
		response.Conflict(c, 16003, "教师已有排课，不能删除")
	default:
		response.InternalError(c)
	}
}
