package repository

import (
	"context"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
	pkgerrors "jadwal-kuliah/pkg/errors"
)

// ClashQuery 冲突查询条件：同一上课日、时间段集合内的既有排课
type ClashQuery struct {
	InstructorID string
	ClassroomID  string
	Day          model.Day
	TimeSlotIDs  []string
	ExcludeID    string // 编辑模式下排除自身
}

// EntryFilter 排课列表过滤条件
type EntryFilter struct {
	Period       model.Period
	Day          model.Day
	InstructorID string
	ClassroomID  string
	CourseID     string
}

// EntryRef 排课记录引用的外键列
type EntryRef string

const (
	RefInstructor EntryRef = "dosen_id"
	RefCourse     EntryRef = "mata_kuliah_id"
	RefClassroom  EntryRef = "kelas_id"
	RefTimeSlot   EntryRef = "time_slot_id"
)

// GroupCount 分组计数
type GroupCount struct {
	Key   string
	Count int64
}

// RankedCount 排行计数
type RankedCount struct {
	ID    string
	Name  string
	Code  string
	Count int64
}

// ScheduleEntryRepository 排课记录数据访问接口
type ScheduleEntryRepository interface {
	// FindInstructorClashes 同教师、同日、时间段命中且教室不同的记录
	FindInstructorClashes(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error)
	// FindClassroomClashes 同教室、同日、时间段命中且教师不同的记录
	FindClassroomClashes(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error)
	// FindExact 教师与教室都相同的记录（重复提交）
	FindExact(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error)

	BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error
	GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.ScheduleEntry, error)
	// List limit <= 0 时不分页；按上课日、时间段开始时间排序
	List(ctx context.Context, filter EntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error)
	Update(ctx context.Context, entry *model.ScheduleEntry) error
	// Delete 未命中任何记录时返回 gorm.ErrRecordNotFound
	Delete(ctx context.Context, id string) error
	CountByRef(ctx context.Context, ref EntryRef, id string) (int64, error)

	// ── 统计 ──
	Count(ctx context.Context) (int64, error)
	CountByPeriod(ctx context.Context) ([]GroupCount, error)
	CountByDay(ctx context.Context) ([]GroupCount, error)
	TopInstructors(ctx context.Context, limit int) ([]RankedCount, error)
	TopClassrooms(ctx context.Context, limit int) ([]RankedCount, error)
}

type scheduleEntryRepo struct {
	db *gorm.DB
}

// NewScheduleEntryRepo 创建 ScheduleEntryRepository 实例
func NewScheduleEntryRepo(db *gorm.DB) ScheduleEntryRepository {
	return &scheduleEntryRepo{db: db}
}

// dayOrderSQL 上课日排序表达式（周一在前）
const dayOrderSQL = "CASE jadwal.hari WHEN 'SENIN' THEN 1 WHEN 'SELASA' THEN 2 WHEN 'RABU' THEN 3 " +
	"WHEN 'KAMIS' THEN 4 WHEN 'JUMAT' THEN 5 WHEN 'SABTU' THEN 6 ELSE 7 END"

func (r *scheduleEntryRepo) withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Instructor").
		Preload("Course").
		Preload("Classroom").
		Preload("TimeSlot")
}

func (r *scheduleEntryRepo) clashBase(ctx context.Context, q ClashQuery) *gorm.DB {
	db := r.db.WithContext(ctx).
		Where("jadwal.hari = ? AND jadwal.time_slot_id IN ?", q.Day, q.TimeSlotIDs)
	if q.ExcludeID != "" {
		db = db.Where("jadwal.id <> ?", q.ExcludeID)
	}
	return db
}

func (r *scheduleEntryRepo) FindInstructorClashes(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if len(q.TimeSlotIDs) == 0 {
		return entries, nil
	}
	err := r.withDetails(r.clashBase(ctx, q)).
		Where("jadwal.dosen_id = ? AND jadwal.kelas_id <> ?", q.InstructorID, q.ClassroomID).
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) FindClassroomClashes(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if len(q.TimeSlotIDs) == 0 {
		return entries, nil
	}
	err := r.withDetails(r.clashBase(ctx, q)).
		Where("jadwal.kelas_id = ? AND jadwal.dosen_id <> ?", q.ClassroomID, q.InstructorID).
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) FindExact(ctx context.Context, q ClashQuery) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if len(q.TimeSlotIDs) == 0 {
		return entries, nil
	}
	err := r.withDetails(r.clashBase(ctx, q)).
		Where("jadwal.dosen_id = ? AND jadwal.kelas_id = ?", q.InstructorID, q.ClassroomID).
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) BatchCreate(ctx context.Context, entries []model.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	// 全部写入或全部回滚
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Instructor", "Course", "Classroom", "TimeSlot").Create(&entries).Error
	})
}

func (r *scheduleEntryRepo) GetByID(ctx context.Context, id string) (*model.ScheduleEntry, error) {
	var entry model.ScheduleEntry
	err := r.withDetails(r.db.WithContext(ctx)).
		Where("jadwal.id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleEntryRepo) GetByIDs(ctx context.Context, ids []string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	if len(ids) == 0 {
		return entries, nil
	}
	err := r.withDetails(r.db.WithContext(ctx)).
		Joins("JOIN time_slots ts ON ts.id = jadwal.time_slot_id").
		Where("jadwal.id IN ?", ids).
		Order("ts.start_time ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleEntryRepo) List(ctx context.Context, filter EntryFilter, offset, limit int) ([]model.ScheduleEntry, int64, error) {
	var entries []model.ScheduleEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&model.ScheduleEntry{})
	if filter.Period != "" {
		db = db.Where("jadwal.period = ?", filter.Period)
	}
	if filter.Day != "" {
		db = db.Where("jadwal.hari = ?", filter.Day)
	}
	if filter.InstructorID != "" {
		db = db.Where("jadwal.dosen_id = ?", filter.InstructorID)
	}
	if filter.ClassroomID != "" {
		db = db.Where("jadwal.kelas_id = ?", filter.ClassroomID)
	}
	if filter.CourseID != "" {
		db = db.Where("jadwal.mata_kuliah_id = ?", filter.CourseID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	db = r.withDetails(db).
		Joins("JOIN time_slots ts ON ts.id = jadwal.time_slot_id").
		Order(dayOrderSQL).
		Order("ts.start_time ASC").
		Order("jadwal.id ASC")
	if limit > 0 {
		db = db.Offset(offset).Limit(limit)
	}

	err := db.Find(&entries).Error
	return entries, total, err
}

func (r *scheduleEntryRepo) Update(ctx context.Context, entry *model.ScheduleEntry) error {
	oldVersion := entry.Version
	result := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("id = ? AND version = ?", entry.EntryID, oldVersion).
		Updates(map[string]interface{}{
			"dosen_id":       entry.InstructorID,
			"mata_kuliah_id": entry.CourseID,
			"kelas_id":       entry.ClassroomID,
			"hari":           entry.Day,
			"time_slot_id":   entry.TimeSlotID,
			"period":         entry.Period,
			"updated_by":     entry.UpdatedBy,
			"updated_at":     gorm.Expr("NOW()"),
			"version":        oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	entry.Version = oldVersion + 1
	return nil
}

func (r *scheduleEntryRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ScheduleEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *scheduleEntryRepo) CountByRef(ctx context.Context, ref EntryRef, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where(string(ref)+" = ?", id).
		Count(&count).Error
	return count, err
}

// ── 统计 ──

func (r *scheduleEntryRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ScheduleEntry{}).Count(&count).Error
	return count, err
}

func (r *scheduleEntryRepo) CountByPeriod(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Select("period AS key, COUNT(*) AS count").
		Group("period").
		Scan(&rows).Error
	return rows, err
}

func (r *scheduleEntryRepo) CountByDay(ctx context.Context) ([]GroupCount, error) {
	var rows []GroupCount
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Select("hari AS key, COUNT(*) AS count").
		Group("hari").
		Scan(&rows).Error
	return rows, err
}

func (r *scheduleEntryRepo) TopInstructors(ctx context.Context, limit int) ([]RankedCount, error) {
	var rows []RankedCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT d.id AS id, d.nama AS name, d.kode AS code, COUNT(*) AS count
		FROM jadwal j
		JOIN dosen d ON d.id = j.dosen_id
		GROUP BY d.id, d.nama, d.kode
		ORDER BY count DESC, d.nama ASC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

func (r *scheduleEntryRepo) TopClassrooms(ctx context.Context, limit int) ([]RankedCount, error) {
	var rows []RankedCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT k.id AS id, k.nama AS name, COUNT(*) AS count
		FROM jadwal j
		JOIN kelas k ON k.id = j.kelas_id
		GROUP BY k.id, k.nama
		ORDER BY count DESC, k.nama ASC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}
