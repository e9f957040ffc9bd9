package repository

import (
	"context"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
)

// InstructorRepository 教师数据访问接口
type InstructorRepository interface {
	Create(ctx context.Context, instructor *model.Instructor) error
	GetByID(ctx context.Context, id string) (*model.Instructor, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Instructor, error)
	List(ctx context.Context, keyword string) ([]model.Instructor, error)
	Update(ctx context.Context, instructor *model.Instructor) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type instructorRepo struct {
	db *gorm.DB
}

// NewInstructorRepo 创建 InstructorRepository 实例
func NewInstructorRepo(db *gorm.DB) InstructorRepository {
	return &instructorRepo{db: db}
}

func (r *instructorRepo) Create(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).Create(instructor).Error
}

func (r *instructorRepo) GetByID(ctx context.Context, id string) (*model.Instructor, error) {
	var instructor model.Instructor
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&instructor).Error
	if err != nil {
		return nil, err
	}
	return &instructor, nil
}

func (r *instructorRepo) GetByIDs(ctx context.Context, ids []string) ([]model.Instructor, error) {
	var list []model.Instructor
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("kode ASC").Find(&list).Error
	return list, err
}

func (r *instructorRepo) List(ctx context.Context, keyword string) ([]model.Instructor, error) {
	var list []model.Instructor
	db := r.db.WithContext(ctx)
	if keyword != "" {
		like := "%" + keyword + "%"
		db = db.Where("nama ILIKE ? OR kode ILIKE ?", like, like)
	}
	err := db.Order("nama ASC").Find(&list).Error
	return list, err
}

func (r *instructorRepo) Update(ctx context.Context, instructor *model.Instructor) error {
	return r.db.WithContext(ctx).
		Model(instructor).
		Where("id = ?", instructor.InstructorID).
		Updates(map[string]interface{}{
			"nama":       instructor.Name,
			"kode":       instructor.Code,
			"updated_by": instructor.UpdatedBy,
		}).Error
}

func (r *instructorRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Instructor{}).Error
}

func (r *instructorRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Instructor{}).Count(&count).Error
	return count, err
}
