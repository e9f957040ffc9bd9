package service

import (
	"context"

	"go.uber.org/zap"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
	"jadwal-kuliah/internal/repository"
)

// ── TimetableService 接口 ──────────────────────────────────
//
// 课表网格：行 = 可用上课日 × 该日可用时间段，列 = 该时段全部教室，
// 单元格为 "课程代码/教师代码"，空闲为空串。
// ─────────────────────────────────────────────────────────────

// TimetableService 课表网格业务接口
type TimetableService interface {
	Grid(ctx context.Context, period string) (*dto.GridResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

func (s *timetableService) Grid(ctx context.Context, rawPeriod string) (*dto.GridResponse, error) {
	period := model.Period(rawPeriod)
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	classrooms, err := s.repo.Classroom.List(ctx, period)
	if err != nil {
		s.logger.Error("查询教室失败", zap.String("period", rawPeriod), zap.Error(err))
		return nil, err
	}
	catalog, err := s.repo.TimeSlot.List(ctx, period)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.String("period", rawPeriod), zap.Error(err))
		return nil, err
	}
	entries, _, err := s.repo.ScheduleEntry.List(ctx, repository.EntryFilter{Period: period}, 0, 0)
	if err != nil {
		s.logger.Error("查询排课记录失败", zap.String("period", rawPeriod), zap.Error(err))
		return nil, err
	}

	type cellKey struct {
		day         model.Day
		slotID      string
		classroomID string
	}
	cells := make(map[cellKey]string, len(entries))
	for i := range entries {
		e := &entries[i]
		cells[cellKey{e.Day, e.TimeSlotID, e.ClassroomID}] = cellText(e)
	}

	grid := &dto.GridResponse{
		Period:  rawPeriod,
		Columns: make([]dto.ClassroomBrief, 0, len(classrooms)),
		Rows:    []dto.GridRow{},
	}
	for i := range classrooms {
		grid.Columns = append(grid.Columns, toClassroomBrief(&classrooms[i]))
	}

	for _, day := range AvailableDays(period) {
		d := day
		for _, slot := range AvailableTimeSlots(catalog, period, &d) {
			row := dto.GridRow{
				Day:          string(day),
				TimeSlotID:   slot.TimeSlotID,
				TimeSlotText: slot.DisplayText,
				Cells:        make([]string, len(classrooms)),
			}
			for j := range classrooms {
				row.Cells[j] = cells[cellKey{day, slot.TimeSlotID, classrooms[j].ClassroomID}]
			}
			grid.Rows = append(grid.Rows, row)
		}
	}

	return grid, nil
}

// cellText "课程代码/教师代码"
func cellText(e *model.ScheduleEntry) string {
	course, instructor := "", ""
	if e.Course != nil {
		course = e.Course.Code
	}
	if e.Instructor != nil {
		instructor = e.Instructor.Code
	}
	return course + "/" + instructor
}
