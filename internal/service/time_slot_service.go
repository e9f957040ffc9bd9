package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
	"jadwal-kuliah/internal/repository"
	pkgerrors "jadwal-kuliah/pkg/errors"
	"jadwal-kuliah/pkg/validator"
)

// ── 时间段模块业务错误 ──

var (
	ErrTimeSlotNotFound      = errors.New("时间段不存在")
	ErrTimeSlotExists        = errors.New("相同的时间段已存在")
	ErrTimeSlotInUse         = errors.New("时间段已被排课引用，不能删除或修改时间")
	ErrInvalidTimeFormat     = errors.New("时间格式应为 HH:MM")
	ErrInvalidTimeRange      = errors.New("开始时间必须早于结束时间")
	ErrDaySpecificNotAllowed = errors.New("仅 SORE 时段支持周六专用时间段")
)

// TimeSlotService 时间段目录业务接口
type TimeSlotService interface {
	Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error)
	// List 给出 period 时按时段过滤，再给出 day 时经过可用性过滤
	List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string) error
	// AvailableDays 时段可排课的上课日
	AvailableDays(period string) ([]string, error)
	// Seed 写入默认目录，已存在的时间段跳过
	Seed(ctx context.Context, req *dto.SeedTimeSlotsRequest, callerID string) (*dto.SeedTimeSlotsResponse, error)
	// ImportTimeSlots 写入解析后的导入行
	ImportTimeSlots(ctx context.Context, rows []ImportTimeSlotRow, callerID string) (*dto.ImportTimeSlotsResponse, error)
}

type timeSlotService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeSlotService 创建 TimeSlotService 实例
func NewTimeSlotService(repo *repository.Repository, logger *zap.Logger) TimeSlotService {
	return &timeSlotService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeSlotService) Create(ctx context.Context, req *dto.CreateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error) {
	slot := &model.TimeSlot{
		DisplayText: req.DisplayText,
		Period:      model.Period(req.Period),
		DaySpecific: req.DaySpecific,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if err := validateTimeSlot(slot); err != nil {
		return nil, err
	}
	if slot.DisplayText == "" {
		slot.DisplayText = displayText(slot.StartTime, slot.EndTime)
	}

	if err := s.insert(ctx, slot, callerID); err != nil {
		return nil, err
	}
	return toTimeSlotResponse(slot), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeSlotService) GetByID(ctx context.Context, id string) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── List ──────────────────────

func (s *timeSlotService) List(ctx context.Context, req *dto.TimeSlotListRequest) ([]dto.TimeSlotResponse, error) {
	period := model.Period(req.Period)
	if period != "" && !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	slots, err := s.repo.TimeSlot.List(ctx, period)
	if err != nil {
		s.logger.Error("列出时间段失败", zap.Error(err))
		return nil, err
	}

	if period != "" {
		var day *model.Day
		if req.Day != "" {
			d := model.Day(req.Day)
			if !d.Valid() {
				return nil, ErrInvalidDay
			}
			if !IsDayAvailable(period, d) {
				return []dto.TimeSlotResponse{}, nil
			}
			day = &d
		}
		slots = AvailableTimeSlots(slots, period, day)
	} else {
		sortSlots(slots)
	}

	return toTimeSlotResponses(slots), nil
}

// ────────────────────── Update ──────────────────────

func (s *timeSlotService) Update(ctx context.Context, id string, req *dto.UpdateTimeSlotRequest, callerID string) (*dto.TimeSlotResponse, error) {
	slot, err := s.repo.TimeSlot.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	before := *slot
	if req.DisplayText != nil {
		slot.DisplayText = *req.DisplayText
	}
	if req.Period != nil {
		slot.Period = model.Period(*req.Period)
	}
	if req.DaySpecific != nil {
		slot.DaySpecific = *req.DaySpecific
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if err := validateTimeSlot(slot); err != nil {
		return nil, err
	}

	// 被引用的时间段只允许修改显示文本
	changed := slot.Period != before.Period || slot.DaySpecific != before.DaySpecific ||
		slot.StartTime != before.StartTime || slot.EndTime != before.EndTime
	if changed {
		refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefTimeSlot, id)
		if err != nil {
			s.logger.Error("统计时间段引用失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		if refs > 0 {
			return nil, ErrTimeSlotInUse
		}
	}

	slot.UpdatedBy = &callerID
	if err := s.repo.TimeSlot.Update(ctx, slot); err != nil {
		switch {
		case pkgerrors.IsUniqueViolation(err):
			return nil, ErrTimeSlotExists
		case pkgerrors.IsForeignKeyViolation(err):
			return nil, ErrTimeSlotInUse
		}
		s.logger.Error("更新时间段失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toTimeSlotResponse(slot), nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeSlotService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.TimeSlot.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeSlotNotFound
		}
		s.logger.Error("查询时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefTimeSlot, id)
	if err != nil {
		s.logger.Error("统计时间段引用失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if refs > 0 {
		return ErrTimeSlotInUse
	}

	if err := s.repo.TimeSlot.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrTimeSlotInUse
		}
		s.logger.Error("删除时间段失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── AvailableDays ──────────────────────

func (s *timeSlotService) AvailableDays(rawPeriod string) ([]string, error) {
	period := model.Period(rawPeriod)
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}
	days := AvailableDays(period)
	result := make([]string, 0, len(days))
	for _, d := range days {
		result = append(result, string(d))
	}
	return result, nil
}

// ────────────────────── Seed ──────────────────────

func (s *timeSlotService) Seed(ctx context.Context, req *dto.SeedTimeSlotsRequest, callerID string) (*dto.SeedTimeSlotsResponse, error) {
	resp := &dto.SeedTimeSlotsResponse{}

	if req.Clear {
		n, err := s.repo.TimeSlot.DeleteUnreferenced(ctx)
		if err != nil {
			s.logger.Error("清理时间段失败", zap.Error(err))
			return nil, err
		}
		resp.Cleared = int(n)
	}

	for _, slot := range DefaultTimeSlots() {
		slot := slot
		err := s.insert(ctx, &slot, callerID)
		switch {
		case err == nil:
			resp.Created++
		case errors.Is(err, ErrTimeSlotExists):
			resp.Skipped++
		default:
			return nil, err
		}
	}

	s.logger.Info("默认时间段初始化完成",
		zap.Int("cleared", resp.Cleared),
		zap.Int("created", resp.Created),
		zap.Int("skipped", resp.Skipped),
	)
	return resp, nil
}

// ── 内部辅助方法 ──

// insert 已存在相同 (period, day_specific, start, end) 时返回 ErrTimeSlotExists
func (s *timeSlotService) insert(ctx context.Context, slot *model.TimeSlot, callerID string) error {
	exists, err := s.repo.TimeSlot.Exists(ctx, slot.Period, slot.DaySpecific, slot.StartTime, slot.EndTime)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return err
	}
	if exists {
		return ErrTimeSlotExists
	}

	slot.CreatedBy = &callerID
	slot.UpdatedBy = &callerID
	if err := s.repo.TimeSlot.Create(ctx, slot); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return ErrTimeSlotExists
		}
		s.logger.Error("创建时间段失败", zap.Error(err))
		return err
	}
	return nil
}

// validateTimeSlot 校验时段、时间格式与 day_specific 规则
func validateTimeSlot(slot *model.TimeSlot) error {
	if !slot.Period.Valid() {
		return ErrInvalidPeriod
	}
	if !validator.IsHHMM(slot.StartTime) || !validator.IsHHMM(slot.EndTime) {
		return ErrInvalidTimeFormat
	}
	if slot.StartTime >= slot.EndTime {
		return ErrInvalidTimeRange
	}
	if slot.DaySpecific && slot.Period != model.PeriodSore {
		return ErrDaySpecificNotAllowed
	}
	return nil
}
