package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"jadwal-kuliah/internal/api/middleware"
	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/service"
	"jadwal-kuliah/pkg/response"
)

// TimeSlotHandler 时间段目录 HTTP 处理器
type TimeSlotHandler struct {
	timeSlotSvc service.TimeSlotService
}

// NewTimeSlotHandler 创建 TimeSlotHandler
func NewTimeSlotHandler(timeSlotSvc service.TimeSlotService) *TimeSlotHandler {
	return &TimeSlotHandler{timeSlotSvc: timeSlotSvc}
}

// ListTimeSlots 获取时间段列表
// GET /api/v1/time-slots?period=&day=
func (h *TimeSlotHandler) ListTimeSlots(c *gin.Context) {
	var req dto.TimeSlotListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	slots, err := h.timeSlotSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": slots})
}

// ListDays 获取时段可排课的上课日
// GET /api/v1/days?period=
func (h *TimeSlotHandler) ListDays(c *gin.Context) {
	days, err := h.timeSlotSvc.AvailableDays(c.Query("period"))
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, gin.H{"list": days})
}

// GetTimeSlot 获取时间段详情
// GET /api/v1/time-slots/:id
func (h *TimeSlotHandler) GetTimeSlot(c *gin.Context) {
	id, ok := MustGetParamID(c, "时间段")
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// CreateTimeSlot 创建时间段
// POST /api/v1/time-slots
func (h *TimeSlotHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.Created(c, slot)
}

// UpdateTimeSlot 更新时间段
// PUT /api/v1/time-slots/:id
func (h *TimeSlotHandler) UpdateTimeSlot(c *gin.Context) {
	id, ok := MustGetParamID(c, "时间段")
	if !ok {
		return
	}

	var req dto.UpdateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	slot, err := h.timeSlotSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteTimeSlot 删除时间段（被排课引用时拒绝）
// DELETE /api/v1/time-slots/:id
func (h *TimeSlotHandler) DeleteTimeSlot(c *gin.Context) {
	id, ok := MustGetParamID(c, "时间段")
	if !ok {
		return
	}

	if err := h.timeSlotSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, nil)
}

// SeedTimeSlots 写入默认时间段目录
// POST /api/v1/time-slots/seed
func (h *TimeSlotHandler) SeedTimeSlots(c *gin.Context) {
	var req dto.SeedTimeSlotsRequest
	// 请求体可省略
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.timeSlotSvc.Seed(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, result)
}

// ImportTimeSlots 从 CSV / XLSX 导入时间段
// POST /api/v1/time-slots/import (multipart, 字段名 file)
func (h *TimeSlotHandler) ImportTimeSlots(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			respondBindError(c, err)
			return
		}
		response.BadRequest(c, 15010, "请上传文件（字段名 file）")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 15010, "无法读取上传文件")
		return
	}
	defer file.Close()

	rows, err := service.ParseImportFile(fileHeader.Filename, file)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	result, err := h.timeSlotSvc.ImportTimeSlots(c.Request.Context(), rows, callerID)
	if err != nil {
		h.handleTimeSlotError(c, err)
		return
	}

	response.OK(c, result)
}

// handleTimeSlotError 统一处理时间段模块业务错误
func (h *TimeSlotHandler) handleTimeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeSlotNotFound):
		response.NotFound(c, 15001, "时间段不存在")
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 15002, "时段无效")
	case errors.Is(err, service.ErrInvalidDay):
		response.BadRequest(c, 15003, "上课日无效")
	case errors.Is(err, service.ErrInvalidTimeFormat):
		response.BadRequest(c, 15004, "时间格式应为 HH:MM")
	case errors.Is(err, service.ErrInvalidTimeRange):
		response.BadRequest(c, 15005, "开始时间必须早于结束时间")
	case errors.Is(err, service.ErrDaySpecificNotAllowed):
		response.BadRequest(c, 15006, "仅 SORE 时段支持周六专用时间段")
	case errors.Is(err, service.ErrTimeSlotExists):
		response.Conflict(c, 15007, "相同的时间段已存在")
	case errors.Is(err, service.ErrTimeSlotInUse):
		response.Conflict(c, 15008, "时间段已被排课引用")
	case errors.Is(err, service.ErrImportUnsupported),
		errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows),
		errors.Is(err, service.ErrImportBadHeader),
		errors.Is(err, service.ErrImportParse):
		response.BadRequest(c, 15009, err.Error())
	default:
		response.InternalError(c)
	}
}
