package repository

import (
	"context"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
)

// ClassroomRepository 教室数据访问接口
type ClassroomRepository interface {
	Create(ctx context.Context, classroom *model.Classroom) error
	GetByID(ctx context.Context, id string) (*model.Classroom, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Classroom, error)
	// List period 为空时返回全部
	List(ctx context.Context, period model.Period) ([]model.Classroom, error)
	Update(ctx context.Context, classroom *model.Classroom) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type classroomRepo struct {
	db *gorm.DB
}

// NewClassroomRepo 创建 ClassroomRepository 实例
func NewClassroomRepo(db *gorm.DB) ClassroomRepository {
	return &classroomRepo{db: db}
}

func (r *classroomRepo) Create(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).Create(classroom).Error
}

func (r *classroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	var classroom model.Classroom
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&classroom).Error
	if err != nil {
		return nil, err
	}
	return &classroom, nil
}

func (r *classroomRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Classroom, error) {
	var list []model.Classroom
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("nama ASC").Find(&list).Error
	return list, err
}

func (r *classroomRepo) List(ctx context.Context, period model.Period) ([]model.Classroom, error) {
	var list []model.Classroom
	db := r.db.WithContext(ctx)
	if period != "" {
		db = db.Where("period = ?", period)
	}
	err := db.Order("period ASC, nama ASC").Find(&list).Error
	return list, err
}

func (r *classroomRepo) Update(ctx context.Context, classroom *model.Classroom) error {
	return r.db.WithContext(ctx).
		Model(classroom).
		Where("id = ?", classroom.ClassroomID).
		Updates(map[string]interface{}{
			"nama":       classroom.Name,
			"period":     classroom.Period,
			"updated_by": classroom.UpdatedBy,
		}).Error
}

func (r *classroomRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Classroom{}).Error
}

func (r *classroomRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Classroom{}).Count(&count).Error
	return count, err
}
