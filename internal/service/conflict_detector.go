package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
	"jadwal-kuliah/internal/repository"
)

// ConflictError 检测到的排课冲突（带完整明细）
// errors.Is(err, ErrScheduleConflict) 为 true
type ConflictError struct {
	Conflicts []dto.ConflictItem
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("检测到 %d 处排课冲突", len(e.Conflicts))
}

// Is 与通用冲突错误等价，便于上层统一判断
func (e *ConflictError) Is(target error) bool {
	return target == ErrScheduleConflict
}

// ConflictQuery 冲突检测输入
type ConflictQuery struct {
	InstructorID   string
	ClassroomID    string
	Day            model.Day
	Period         model.Period
	TimeSlotIDs    []string
	ExcludeEntryID string
}

// ConflictReport 冲突检测结果，无冲突时 Conflicts 为空切片
type ConflictReport struct {
	Conflicts []dto.ConflictItem
	Entities  dto.ConflictEntities
}

// HasConflict 是否存在冲突
func (r *ConflictReport) HasConflict() bool {
	return len(r.Conflicts) > 0
}

// ConflictDetector 冲突检测器
// 单时间段与多时间段检测共用同一入口，单个时间段即长度为 1 的集合
type ConflictDetector struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(repo *repository.Repository, logger *zap.Logger) *ConflictDetector {
	return &ConflictDetector{repo: repo, logger: logger}
}

// Detect 一次性检测整个时间段集合
// 存储访问失败时返回错误，绝不返回"无冲突"
func (d *ConflictDetector) Detect(ctx context.Context, q ConflictQuery) (*ConflictReport, error) {
	clash := repository.ClashQuery{
		InstructorID: q.InstructorID,
		ClassroomID:  q.ClassroomID,
		Day:          q.Day,
		TimeSlotIDs:  q.TimeSlotIDs,
		ExcludeID:    q.ExcludeEntryID,
	}

	byInstructor, err := d.repo.ScheduleEntry.FindInstructorClashes(ctx, clash)
	if err != nil {
		d.logger.Error("查询教师冲突失败", zap.String("instructor_id", q.InstructorID), zap.Error(err))
		return nil, fmt.Errorf("查询教师冲突失败: %w", err)
	}
	byClassroom, err := d.repo.ScheduleEntry.FindClassroomClashes(ctx, clash)
	if err != nil {
		d.logger.Error("查询教室冲突失败", zap.String("classroom_id", q.ClassroomID), zap.Error(err))
		return nil, fmt.Errorf("查询教室冲突失败: %w", err)
	}

	type keyed struct {
		start string
		item  dto.ConflictItem
	}
	all := make([]keyed, 0, len(byInstructor)+len(byClassroom))
	for i := range byInstructor {
		e := &byInstructor[i]
		all = append(all, keyed{start: slotStart(e), item: newConflictItem(dto.ConflictTypeInstructor, e)})
	}
	for i := range byClassroom {
		e := &byClassroom[i]
		all = append(all, keyed{start: slotStart(e), item: newConflictItem(dto.ConflictTypeClassroom, e)})
	}

	// 固定顺序：时间段开始时间 → 类型（教师在前）→ 记录 ID
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		if all[i].item.Type != all[j].item.Type {
			return all[i].item.Type == dto.ConflictTypeInstructor
		}
		return all[i].item.EntryID < all[j].item.EntryID
	})

	report := &ConflictReport{Conflicts: make([]dto.ConflictItem, 0, len(all))}
	for _, k := range all {
		report.Conflicts = append(report.Conflicts, k.item)
	}

	entities, err := d.resolveEntities(ctx, q, byInstructor, byClassroom)
	if err != nil {
		return nil, err
	}
	report.Entities = *entities

	if report.HasConflict() {
		d.logger.Info("检测到排课冲突",
			zap.String("instructor_id", q.InstructorID),
			zap.String("classroom_id", q.ClassroomID),
			zap.String("day", string(q.Day)),
			zap.Int("instructor_conflicts", len(byInstructor)),
			zap.Int("classroom_conflicts", len(byClassroom)),
		)
	}

	return report, nil
}

// resolveEntities 加载渲染冲突提示所需的实体
// 时间段总是返回；教师与教室仅在存在冲突时返回（请求方 + 冲突对方）
func (d *ConflictDetector) resolveEntities(ctx context.Context, q ConflictQuery, byInstructor, byClassroom []model.ScheduleEntry) (*dto.ConflictEntities, error) {
	entities := &dto.ConflictEntities{
		Instructors: []dto.InstructorBrief{},
		Classrooms:  []dto.ClassroomBrief{},
	}

	slots, err := d.repo.TimeSlot.GetByIDs(ctx, q.TimeSlotIDs)
	if err != nil {
		d.logger.Error("查询时间段失败", zap.Error(err))
		return nil, fmt.Errorf("查询时间段失败: %w", err)
	}
	sortSlots(slots)
	entities.TimeSlots = toTimeSlotResponses(slots)

	if len(byInstructor) == 0 && len(byClassroom) == 0 {
		return entities, nil
	}

	instructorIDs := uniqueIDs(q.InstructorID)
	classroomIDs := uniqueIDs(q.ClassroomID)
	for _, e := range byInstructor {
		classroomIDs = appendUnique(classroomIDs, e.ClassroomID)
	}
	for _, e := range byClassroom {
		instructorIDs = appendUnique(instructorIDs, e.InstructorID)
	}

	instructors, err := d.repo.Instructor.GetByIDs(ctx, instructorIDs)
	if err != nil {
		d.logger.Error("查询教师失败", zap.Error(err))
		return nil, fmt.Errorf("查询教师失败: %w", err)
	}
	for i := range instructors {
		entities.Instructors = append(entities.Instructors, toInstructorBrief(&instructors[i]))
	}

	classrooms, err := d.repo.Classroom.GetByIDs(ctx, classroomIDs)
	if err != nil {
		d.logger.Error("查询教室失败", zap.Error(err))
		return nil, fmt.Errorf("查询教室失败: %w", err)
	}
	for i := range classrooms {
		entities.Classrooms = append(entities.Classrooms, toClassroomBrief(&classrooms[i]))
	}

	return entities, nil
}

func newConflictItem(kind string, e *model.ScheduleEntry) dto.ConflictItem {
	item := dto.ConflictItem{
		Type:         kind,
		EntryID:      e.EntryID,
		Day:          string(e.Day),
		TimeSlotID:   e.TimeSlotID,
		ClassroomID:  e.ClassroomID,
		InstructorID: e.InstructorID,
	}
	if e.TimeSlot != nil {
		item.TimeSlotText = e.TimeSlot.DisplayText
	}
	if e.Classroom != nil {
		item.ClassroomName = e.Classroom.Name
	}
	if e.Instructor != nil {
		item.InstructorName = e.Instructor.Name
		item.InstructorCode = e.Instructor.Code
	}
	if e.Course != nil {
		item.CourseCode = e.Course.Code
		item.CourseName = e.Course.Name
	}

	switch kind {
	case dto.ConflictTypeInstructor:
		item.Message = fmt.Sprintf("教师 %s 在 %s %s 已在教室 %s 授课",
			item.InstructorName, item.Day, item.TimeSlotText, item.ClassroomName)
	default:
		item.Message = fmt.Sprintf("教室 %s 在 %s %s 已被教师 %s (%s) 占用",
			item.ClassroomName, item.Day, item.TimeSlotText, item.InstructorName, item.InstructorCode)
	}
	return item
}

func slotStart(e *model.ScheduleEntry) string {
	if e.TimeSlot == nil {
		return ""
	}
	return e.TimeSlot.StartTime
}

func uniqueIDs(ids ...string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = appendUnique(out, id)
	}
	return out
}

func appendUnique(ids []string, id string) []string {
	if id == "" {
		return ids
	}
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
