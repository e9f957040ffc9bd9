package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// ScheduleHandler 排课模块 HTTP 处理器
type ScheduleHandler struct {
	entrySvc     service.ScheduleEntryService
	timetableSvc service.TimetableService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(entrySvc service.ScheduleEntryService, timetableSvc service.TimetableService) *ScheduleHandler {
	return &ScheduleHandler{entrySvc: entrySvc, timetableSvc: timetableSvc}
}

// CheckConflict 冲突检测（单个或多个时间段，编辑时传 exclude_entry_id）
// POST /api/v1/schedules/check-conflict
func (h *ScheduleHandler) CheckConflict(c *gin.Context) {
	var req dto.CheckConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.entrySvc.CheckConflict(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// CreateBatch 批量排课，全部成功或全部失败
// POST /api/v1/schedules/batch
func (h *ScheduleHandler) CreateBatch(c *gin.Context) {
	var req dto.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.entrySvc.CreateBatch(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.Created(c, result)
}

// ListEntries 排课列表
// GET /api/v1/schedules?period=&day=&instructor_id=&classroom_id=&course_id=
func (h *ScheduleHandler) ListEntries(c *gin.Context) {
	var req dto.ScheduleEntryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	list, total, err := h.entrySvc.ListEntries(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetEntry 排课详情
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetEntry(c *gin.Context) {
	id, ok := MustGetParamID(c, "排课")
	if !ok {
		return
	}

	entry, err := h.entrySvc.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// UpdateEntry 编辑单条排课（检测时排除自身）
// PUT /api/v1/schedules/:id
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	id, ok := MustGetParamID(c, "排课")
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	entry, err := h.entrySvc.UpdateEntry(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteEntry 删除排课
// DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	id, ok := MustGetParamID(c, "排课")
	if !ok {
		return
	}

	if err := h.entrySvc.DeleteEntry(c.Request.Context(), id); err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Grid 课表网格
// GET /api/v1/schedules/grid?period=
func (h *ScheduleHandler) Grid(c *gin.Context) {
	var req dto.GridRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	grid, err := h.timetableSvc.Grid(c.Request.Context(), req.Period)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, grid)
}

// handleScheduleError 统一处理排课模块业务错误
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	// 检测到的冲突带完整明细
	var conflictErr *service.ConflictError
	if errors.As(err, &conflictErr) {
		response.ConflictWithData(c, 40901, "存在排课冲突", gin.H{"conflicts": conflictErr.Conflicts})
		return
	}

	switch {
	case errors.Is(err, service.ErrScheduleConflict):
		response.Conflict(c, 40902, "排课冲突，请重新检测后再提交")
	case errors.Is(err, service.ErrDuplicateEntry):
		response.Conflict(c, 40903, "相同的排课已存在")
	case errors.Is(err, service.ErrEntryVersionConflict):
		response.Conflict(c, 40904, "排课记录已被修改，请刷新后重试")
	case errors.Is(err, service.ErrReferenceChanged):
		response.Conflict(c, 40905, "关联数据已变更，请刷新后重试")

	case errors.Is(err, service.ErrScheduleEntryNotFound):
		response.NotFound(c, 20001, "排课记录不存在")
	case errors.Is(err, service.ErrInstructorNotFound):
		response.NotFound(c, 20002, "教师不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 20003, "课程不存在")
	case errors.Is(err, service.ErrClassroomNotFound):
		response.NotFound(c, 20004, "教室不存在")
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 20005, "时间段不存在")

	case errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidDay),
		errors.Is(err, service.ErrMissingReference),
		errors.Is(err, service.ErrDayNotInPeriod),
		errors.Is(err, service.ErrEmptyTimeSlots),
		errors.Is(err, service.ErrDuplicateTimeSlotIDs),
		errors.Is(err, service.ErrTooManyTimeSlots):
		response.BadRequest(c, 20010, err.Error())
	case errors.Is(err, service.ErrPeriodMismatch):
		response.BadRequest(c, 20011, "教室不属于该时段")
	case errors.Is(err, service.ErrTimeSlotUnavailable):
		response.BadRequest(c, 20012, "时间段在该时段或上课日不可用")
	default:
		response.InternalError(c)
	}
}
