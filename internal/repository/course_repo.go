package repository

import (
	"context"

	"gorm.io/gorm"

	"jadwal-kuliah/internal/model"
)

// CourseFilter 课程列表过滤条件
type CourseFilter struct {
	ProgramID string
	Semester  int
	Keyword   string
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByProgram(ctx context.Context, programID string) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, filter CourseFilter, offset, limit int) ([]model.Course, int64, error) {
	var list []model.Course
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Course{})
	if filter.ProgramID != "" {
		db = db.Where("prodi_id = ?", filter.ProgramID)
	}
	if filter.Semester > 0 {
		db = db.Where("semester = ?", filter.Semester)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		db = db.Where("nama ILIKE ? OR kode ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Program").
		Order("semester ASC, kode ASC").
		Offset(offset).Limit(limit).
		Find(&list).Error
	return list, total, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).
		Model(course).
		Where("id = ?", course.CourseID).
		Updates(map[string]interface{}{
			"nama":       course.Name,
			"kode":       course.Code,
			"sks":        course.Credits,
			"jam":        course.Hours,
			"semester":   course.Semester,
			"prodi_id":   course.ProgramID,
			"updated_by": course.UpdatedBy,
		}).Error
}

func (r *courseRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{}).Error
}

func (r *courseRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Count(&count).Error
	return count, err
}

func (r *courseRepo) CountByProgram(ctx context.Context, programID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Course{}).Where("prodi_id = ?", programID).Count(&count).Error
	return count, err
}
