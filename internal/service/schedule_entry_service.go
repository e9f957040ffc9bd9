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
)

// ── 排课模块业务错误 ──

var (
	ErrInvalidPeriod         = errors.New("时段无效")
	ErrInvalidDay            = errors.New("上课日无效")
	ErrMissingReference      = errors.New("教师、课程与教室均为必填")
	ErrDayNotInPeriod        = errors.New("该时段不在此上课日开放")
	ErrEmptyTimeSlots        = errors.New("至少选择一个时间段")
	ErrDuplicateTimeSlotIDs  = errors.New("时间段不能重复选择")
	ErrTooManyTimeSlots      = errors.New("单次提交的时间段数量超过上限")
	ErrPeriodMismatch        = errors.New("教室不属于该时段")
	ErrTimeSlotUnavailable   = errors.New("时间段在该时段或上课日不可用")
	ErrScheduleConflict      = errors.New("排课冲突，请重新检测后再提交")
	ErrDuplicateEntry        = errors.New("相同的排课已存在")
	ErrScheduleEntryNotFound = errors.New("排课记录不存在")
	ErrEntryVersionConflict  = errors.New("排课记录已被修改，请刷新后重试")
	ErrReferenceChanged      = errors.New("关联数据已变更，请刷新后重试")
)

// ScheduleEntryService 排课业务接口
type ScheduleEntryService interface {
	CheckConflict(ctx context.Context, req *dto.CheckConflictRequest) (*dto.CheckConflictResponse, error)
	CreateBatch(ctx context.Context, req *dto.CreateBatchRequest, callerID string) (*dto.CreateBatchResponse, error)
	GetEntry(ctx context.Context, id string) (*dto.ScheduleEntryResponse, error)
	ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, int64, error)
	UpdateEntry(ctx context.Context, id string, req *dto.UpdateEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error)
	DeleteEntry(ctx context.Context, id string) error
}

type scheduleEntryService struct {
	repo             *repository.Repository
	detector         *ConflictDetector
	stats            *StatsCache
	maxSlotsPerBatch int
	logger           *zap.Logger
}

// NewScheduleEntryService 创建 ScheduleEntryService 实例
func NewScheduleEntryService(repo *repository.Repository, detector *ConflictDetector, stats *StatsCache, maxSlotsPerBatch int, logger *zap.Logger) ScheduleEntryService {
	return &scheduleEntryService{
		repo:             repo,
		detector:         detector,
		stats:            stats,
		maxSlotsPerBatch: maxSlotsPerBatch,
		logger:           logger,
	}
}

// ────────────────────── CheckConflict ──────────────────────

func (s *scheduleEntryService) CheckConflict(ctx context.Context, req *dto.CheckConflictRequest) (*dto.CheckConflictResponse, error) {
	period, day, err := s.validateSlotRequest(req.InstructorID, req.ClassroomID, req.Day, req.Period, req.TimeSlotIDs)
	if err != nil {
		return nil, err
	}

	report, err := s.detector.Detect(ctx, ConflictQuery{
		InstructorID:   req.InstructorID,
		ClassroomID:    req.ClassroomID,
		Day:            day,
		Period:         period,
		TimeSlotIDs:    req.TimeSlotIDs,
		ExcludeEntryID: req.ExcludeEntryID,
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckConflictResponse{
		HasConflict: report.HasConflict(),
		Conflicts:   report.Conflicts,
		Entities:    report.Entities,
	}, nil
}

// ────────────────────── CreateBatch ──────────────────────

func (s *scheduleEntryService) CreateBatch(ctx context.Context, req *dto.CreateBatchRequest, callerID string) (*dto.CreateBatchResponse, error) {
	// 1. 参数校验（不访问存储）
	if req.CourseID == "" {
		return nil, ErrMissingReference
	}
	period, day, err := s.validateSlotRequest(req.InstructorID, req.ClassroomID, req.Day, req.Period, req.TimeSlotIDs)
	if err != nil {
		return nil, err
	}

	// 2. 目录校验
	refs, err := s.loadReferences(ctx, req.InstructorID, req.CourseID, req.ClassroomID, period, day, req.TimeSlotIDs)
	if err != nil {
		return nil, err
	}

	// 3. 整个时间段集合一次检测，有冲突则整体拒绝
	report, err := s.detector.Detect(ctx, ConflictQuery{
		InstructorID: req.InstructorID,
		ClassroomID:  req.ClassroomID,
		Day:          day,
		Period:       period,
		TimeSlotIDs:  req.TimeSlotIDs,
	})
	if err != nil {
		return nil, err
	}
	if report.HasConflict() {
		return nil, &ConflictError{Conflicts: report.Conflicts}
	}

	// 4. 完全相同的排课已存在
	if err := s.checkExact(ctx, req.InstructorID, req.ClassroomID, day, req.TimeSlotIDs, ""); err != nil {
		return nil, err
	}

	// 5. 单事务写入
	entries := make([]model.ScheduleEntry, 0, len(req.TimeSlotIDs))
	for _, slotID := range req.TimeSlotIDs {
		entry := model.ScheduleEntry{
			InstructorID: req.InstructorID,
			CourseID:     req.CourseID,
			ClassroomID:  req.ClassroomID,
			Day:          day,
			TimeSlotID:   slotID,
			Period:       period,
		}
		entry.Version = 1
		entry.CreatedBy = &callerID
		entry.UpdatedBy = &callerID
		entries = append(entries, entry)
	}

	if err := s.repo.ScheduleEntry.BatchCreate(ctx, entries); err != nil {
		return nil, s.mapWriteError("批量排课写入失败", err)
	}
	s.stats.Invalidate()

	resp := &dto.CreateBatchResponse{
		CreatedCount: len(entries),
		Entries:      make([]dto.ScheduleEntryResponse, 0, len(entries)),
	}
	for i := range entries {
		refs.attach(&entries[i])
		resp.Entries = append(resp.Entries, *toEntryResponse(&entries[i]))
	}

	s.logger.Info("批量排课成功",
		zap.String("instructor_id", req.InstructorID),
		zap.String("classroom_id", req.ClassroomID),
		zap.String("day", string(day)),
		zap.Int("count", len(entries)),
	)

	return resp, nil
}

// ────────────────────── GetEntry ──────────────────────

func (s *scheduleEntryService) GetEntry(ctx context.Context, id string) (*dto.ScheduleEntryResponse, error) {
	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		s.logger.Error("查询排课记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toEntryResponse(entry), nil
}

// ────────────────────── ListEntries ──────────────────────

func (s *scheduleEntryService) ListEntries(ctx context.Context, req *dto.ScheduleEntryListRequest) ([]dto.ScheduleEntryResponse, int64, error) {
	filter := repository.EntryFilter{
		Period:       model.Period(req.Period),
		Day:          model.Day(req.Day),
		InstructorID: req.InstructorID,
		ClassroomID:  req.ClassroomID,
		CourseID:     req.CourseID,
	}

	entries, total, err := s.repo.ScheduleEntry.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出排课记录失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ScheduleEntryResponse, 0, len(entries))
	for i := range entries {
		result = append(result, *toEntryResponse(&entries[i]))
	}
	return result, total, nil
}

// ────────────────────── UpdateEntry ──────────────────────

func (s *scheduleEntryService) UpdateEntry(ctx context.Context, id string, req *dto.UpdateEntryRequest, callerID string) (*dto.ScheduleEntryResponse, error) {
	// 请求本身的校验先于任何存储访问
	if req.CourseID == "" {
		return nil, ErrMissingReference
	}
	slotIDs := []string{req.TimeSlotID}
	period, day, err := s.validateSlotRequest(req.InstructorID, req.ClassroomID, req.Day, req.Period, slotIDs)
	if err != nil {
		return nil, err
	}

	entry, err := s.repo.ScheduleEntry.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleEntryNotFound
		}
		s.logger.Error("查询排课记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	refs, err := s.loadReferences(ctx, req.InstructorID, req.CourseID, req.ClassroomID, period, day, slotIDs)
	if err != nil {
		return nil, err
	}

	// 排除自身后检测
	report, err := s.detector.Detect(ctx, ConflictQuery{
		InstructorID:   req.InstructorID,
		ClassroomID:    req.ClassroomID,
		Day:            day,
		Period:         period,
		TimeSlotIDs:    slotIDs,
		ExcludeEntryID: id,
	})
	if err != nil {
		return nil, err
	}
	if report.HasConflict() {
		return nil, &ConflictError{Conflicts: report.Conflicts}
	}

	if err := s.checkExact(ctx, req.InstructorID, req.ClassroomID, day, slotIDs, id); err != nil {
		return nil, err
	}

	entry.InstructorID = req.InstructorID
	entry.CourseID = req.CourseID
	entry.ClassroomID = req.ClassroomID
	entry.Day = day
	entry.TimeSlotID = req.TimeSlotID
	entry.Period = period
	entry.Version = req.Version
	entry.UpdatedBy = &callerID

	if err := s.repo.ScheduleEntry.Update(ctx, entry); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEntryVersionConflict
		}
		return nil, s.mapWriteError("更新排课记录失败", err)
	}
	s.stats.Invalidate()

	refs.attach(entry)
	return toEntryResponse(entry), nil
}

// ────────────────────── DeleteEntry ──────────────────────

func (s *scheduleEntryService) DeleteEntry(ctx context.Context, id string) error {
	if err := s.repo.ScheduleEntry.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScheduleEntryNotFound
		}
		s.logger.Error("删除排课记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.stats.Invalidate()
	return nil
}

// ── 内部辅助方法 ──

// validateSlotRequest 校验必填字段与时段/上课日组合，不访问存储
func (s *scheduleEntryService) validateSlotRequest(instructorID, classroomID, rawDay, rawPeriod string, slotIDs []string) (model.Period, model.Day, error) {
	if instructorID == "" || classroomID == "" {
		return "", "", ErrMissingReference
	}
	period := model.Period(rawPeriod)
	if !period.Valid() {
		return "", "", ErrInvalidPeriod
	}
	day := model.Day(rawDay)
	if !day.Valid() {
		return "", "", ErrInvalidDay
	}
	if !IsDayAvailable(period, day) {
		return "", "", ErrDayNotInPeriod
	}
	if len(slotIDs) == 0 {
		return "", "", ErrEmptyTimeSlots
	}
	if s.maxSlotsPerBatch > 0 && len(slotIDs) > s.maxSlotsPerBatch {
		return "", "", ErrTooManyTimeSlots
	}
	seen := make(map[string]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		if id == "" {
			return "", "", ErrEmptyTimeSlots
		}
		if _, dup := seen[id]; dup {
			return "", "", ErrDuplicateTimeSlotIDs
		}
		seen[id] = struct{}{}
	}
	return period, day, nil
}

// entryRefs 已校验的关联实体，用于组装响应
type entryRefs struct {
	instructor *model.Instructor
	course     *model.Course
	classroom  *model.Classroom
	slots      map[string]*model.TimeSlot
}

func (r *entryRefs) attach(e *model.ScheduleEntry) {
	e.Instructor = r.instructor
	e.Course = r.course
	e.Classroom = r.classroom
	e.TimeSlot = r.slots[e.TimeSlotID]
}

// loadReferences 校验教师、课程、教室、时间段存在，且时间段在 (period, day) 下可用
func (s *scheduleEntryService) loadReferences(ctx context.Context, instructorID, courseID, classroomID string, period model.Period, day model.Day, slotIDs []string) (*entryRefs, error) {
	instructor, err := s.repo.Instructor.GetByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", instructorID), zap.Error(err))
		return nil, err
	}

	course, err := s.repo.Course.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", courseID), zap.Error(err))
		return nil, err
	}

	classroom, err := s.repo.Classroom.GetByID(ctx, classroomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", classroomID), zap.Error(err))
		return nil, err
	}
	if classroom.Period != period {
		return nil, ErrPeriodMismatch
	}

	slots, err := s.repo.TimeSlot.GetByIDs(ctx, slotIDs)
	if err != nil {
		s.logger.Error("查询时间段失败", zap.Error(err))
		return nil, err
	}
	if len(slots) != len(slotIDs) {
		return nil, ErrTimeSlotNotFound
	}

	refs := &entryRefs{
		instructor: instructor,
		course:     course,
		classroom:  classroom,
		slots:      make(map[string]*model.TimeSlot, len(slots)),
	}
	for i := range slots {
		// 防御客户端过期状态：时间段必须在 (period, day) 的可用集合内
		if !IsSlotAvailable(slots[i], period, day) {
			return nil, ErrTimeSlotUnavailable
		}
		refs.slots[slots[i].TimeSlotID] = &slots[i]
	}
	return refs, nil
}

// checkExact 完全相同的 (教师, 教室, 上课日, 时间段) 已存在时返回 ErrDuplicateEntry
func (s *scheduleEntryService) checkExact(ctx context.Context, instructorID, classroomID string, day model.Day, slotIDs []string, excludeID string) error {
	exact, err := s.repo.ScheduleEntry.FindExact(ctx, repository.ClashQuery{
		InstructorID: instructorID,
		ClassroomID:  classroomID,
		Day:          day,
		TimeSlotIDs:  slotIDs,
		ExcludeID:    excludeID,
	})
	if err != nil {
		s.logger.Error("查询重复排课失败", zap.Error(err))
		return err
	}
	if len(exact) > 0 {
		return ErrDuplicateEntry
	}
	return nil
}

// mapWriteError 写入阶段的存储错误归类
// 唯一索引冲突说明检测之后有并发写入，按通用冲突返回
func (s *scheduleEntryService) mapWriteError(msg string, err error) error {
	switch {
	case pkgerrors.IsUniqueViolation(err):
		s.logger.Warn("写入时触发唯一约束，按并发冲突处理",
			zap.String("constraint", pkgerrors.ConstraintName(err)), zap.Error(err))
		return ErrScheduleConflict
	case pkgerrors.IsForeignKeyViolation(err):
		s.logger.Warn("写入时关联数据已不存在",
			zap.String("constraint", pkgerrors.ConstraintName(err)), zap.Error(err))
		return ErrReferenceChanged
	default:
		s.logger.Error(msg, zap.Error(err))
		return err
	}
}
