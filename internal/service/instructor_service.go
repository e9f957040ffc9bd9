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

// ── 教师模块业务错误 ──

var (
	ErrInstructorNotFound   = errors.New("教师不存在")
	ErrInstructorCodeExists = errors.New("教师代码已存在")
	ErrInstructorInUse      = errors.New("教师已有排课，不能删除")
)

// InstructorService 教师业务接口
type InstructorService interface {
	Create(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*dto.InstructorResponse, error)
	GetByID(ctx context.Context, id string) (*dto.InstructorResponse, error)
	List(ctx context.Context, keyword string) ([]dto.InstructorResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateInstructorRequest, callerID string) (*dto.InstructorResponse, error)
	Delete(ctx context.Context, id string) error
}

type instructorService struct {
	repo   *repository.Repository
	stats  *StatsCache
	logger *zap.Logger
}

// NewInstructorService 创建 InstructorService 实例
// stats 为 nil 时不做缓存失效
func NewInstructorService(repo *repository.Repository, stats *StatsCache, logger *zap.Logger) InstructorService {
	return &instructorService{repo: repo, stats: stats, logger: logger}
}

func (s *instructorService) Create(ctx context.Context, req *dto.CreateInstructorRequest, callerID string) (*dto.InstructorResponse, error) {
	instructor := &model.Instructor{
		Name: req.Name,
		Code: req.Code,
	}
	instructor.CreatedBy = &callerID
	instructor.UpdatedBy = &callerID

	if err := s.repo.Instructor.Create(ctx, instructor); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrInstructorCodeExists
		}
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate()
	return toInstructorResponse(instructor), nil
}

func (s *instructorService) GetByID(ctx context.Context, id string) (*dto.InstructorResponse, error) {
	instructor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInstructorResponse(instructor), nil
}

func (s *instructorService) List(ctx context.Context, keyword string) ([]dto.InstructorResponse, error) {
	list, err := s.repo.Instructor.List(ctx, keyword)
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.InstructorResponse, 0, len(list))
	for i := range list {
		result = append(result, *toInstructorResponse(&list[i]))
	}
	return result, nil
}

func (s *instructorService) Update(ctx context.Context, id string, req *dto.UpdateInstructorRequest, callerID string) (*dto.InstructorResponse, error) {
	instructor, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		instructor.Name = *req.Name
	}
	if req.Code != nil {
		instructor.Code = *req.Code
	}
	instructor.UpdatedBy = &callerID

	if err := s.repo.Instructor.Update(ctx, instructor); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrInstructorCodeExists
		}
		s.logger.Error("更新教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate()
	return toInstructorResponse(instructor), nil
}

func (s *instructorService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefInstructor, id)
	if err != nil {
		s.logger.Error("统计教师排课失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if refs > 0 {
		return ErrInstructorInUse
	}

	if err := s.repo.Instructor.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrInstructorInUse
		}
		s.logger.Error("删除教师失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.stats.Invalidate()
	return nil
}

func (s *instructorService) get(ctx context.Context, id string) (*model.Instructor, error) {
	instructor, err := s.repo.Instructor.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInstructorNotFound
		}
		s.logger.Error("查询教师失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return instructor, nil
}

func toInstructorResponse(i *model.Instructor) *dto.InstructorResponse {
	return &dto.InstructorResponse{
		ID:        i.InstructorID,
		Name:      i.Name,
		Code:      i.Code,
		CreatedAt: i.CreatedAt.Format(timeLayout),
		UpdatedAt: i.UpdatedAt.Format(timeLayout),
	}
}
