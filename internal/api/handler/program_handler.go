package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// ProgramHandler 专业模块 HTTP 处理器
type ProgramHandler struct {
	programSvc service.ProgramService
}

// NewProgramHandler 创建 ProgramHandler
func NewProgramHandler(programSvc service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programSvc: programSvc}
}

// ListPrograms GET /api/v1/programs
func (h *ProgramHandler) ListPrograms(c *gin.Context) {
	list, err := h.programSvc.List(c.Request.Context())
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, gin.H{"list": list})
}

// GetProgram GET /api/v1/programs/:id
func (h *ProgramHandler) GetProgram(c *gin.Context) {
	id, ok := MustGetParamID(c, "专业")
	if !ok {
		return
	}

	program, err := h.programSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, program)
}

// CreateProgram POST /api/v1/programs
func (h *ProgramHandler) CreateProgram(c *gin.Context) {
	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	program, err := h.programSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.Created(c, program)
}

// UpdateProgram PUT /api/v1/programs/:id
func (h *ProgramHandler) UpdateProgram(c *gin.Context) {
	id, ok := MustGetParamID(c, "专业")
	if !ok {
		return
	}

	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	program, err := h.programSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, program)
}

// DeleteProgram DELETE /api/v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *gin.Context) {
	id, ok := MustGetParamID(c, "专业")
	if !ok {
		return
	}

	if err := h.programSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleProgramError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ProgramHandler) handleProgramError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProgramNotFound):
		response.NotFound(c, 18001, "专业不存在")
	case errors.Is(err, service.ErrProgramExists):
		response.Conflict(c, 18002, "专业名称已存在")
	case errors.Is(err, service.ErrProgramInUse):
		response.Conflict(c, 18003, "专业下仍有课程，不能删除")
	default:
		response.InternalError(c)
	}
}
