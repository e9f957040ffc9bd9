package repository

import (
	"context"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
)

// TimeSlotRepository 时间段目录数据访问接口
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *model.TimeSlot) error
	GetByID(ctx context.Context, id string) (*model.TimeSlot, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.TimeSlot, error)
	// List period 为空时返回全部，按开始时间升序
	List(ctx context.Context, period model.Period) ([]model.TimeSlot, error)
	// Exists 按 (period, day_specific, start, end) 判断是否已存在
	Exists(ctx context.Context, period model.Period, daySpecific bool, start, end string) (bool, error)
	Update(ctx context.Context, slot *model.TimeSlot) error
	Delete(ctx context.Context, id string) error
	// DeleteUnreferenced 删除所有未被排课引用的时间段，返回删除条数
	DeleteUnreferenced(ctx context.Context) (int64, error)
}

type timeSlotRepo struct {
	db *gorm.DB
}

// NewTimeSlotRepo 创建 TimeSlotRepository 实例
func NewTimeSlotRepo(db *gorm.DB) TimeSlotRepository {
	return &timeSlotRepo{db: db}
}

func (r *timeSlotRepo) Create(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *timeSlotRepo) GetByID(ctx context.Context, id string) (*model.TimeSlot, error) {
	var slot model.TimeSlot
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepo) GetByIDs(ctx context.Context, ids []string) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	if len(ids) == 0 {
		return slots, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("start_time ASC").
		Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) List(ctx context.Context, period model.Period) ([]model.TimeSlot, error) {
	var slots []model.TimeSlot
	db := r.db.WithContext(ctx)
	if period != "" {
		db = db.Where("period = ?", period)
	}
	err := db.Order("start_time ASC, day_specific ASC").Find(&slots).Error
	return slots, err
}

func (r *timeSlotRepo) Exists(ctx context.Context, period model.Period, daySpecific bool, start, end string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TimeSlot{}).
		Where("period = ? AND day_specific = ? AND start_time = ? AND end_time = ?", period, daySpecific, start, end).
		Count(&count).Error
	return count > 0, err
}

func (r *timeSlotRepo) Update(ctx context.Context, slot *model.TimeSlot) error {
	return r.db.WithContext(ctx).
		Model(slot).
		Where("id = ?", slot.TimeSlotID).
		Updates(map[string]interface{}{
			"display_text": slot.DisplayText,
			"period":       slot.Period,
			"day_specific": slot.DaySpecific,
			"start_time":   slot.StartTime,
			"end_time":     slot.EndTime,
			"updated_by":   slot.UpdatedBy,
		}).Error
}

func (r *timeSlotRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.TimeSlot{}).Error
}

func (r *timeSlotRepo) DeleteUnreferenced(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM jadwal j WHERE j.time_slot_id = time_slots.id)").
		Delete(&model.TimeSlot{})
	return result.RowsAffected, result.Error
}
