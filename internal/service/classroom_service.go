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

// ── 教室模块业务错误 ──

var (
	ErrClassroomNotFound = errors.New("教室不存在")
	ErrClassroomExists   = errors.New("该时段下同名教室已存在")
	ErrClassroomInUse    = errors.New("教室已有排课，不能删除或更换时段")
)

// ClassroomService 教室业务接口
type ClassroomService interface {
	Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error)
	List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error)
	Delete(ctx context.Context, id string) error
}

type classroomService struct {
	repo   *repository.Repository
	stats  *StatsCache
	logger *zap.Logger
}

// NewClassroomService 创建 ClassroomService 实例
// stats 为 nil 时不做缓存失效
func NewClassroomService(repo *repository.Repository, stats *StatsCache, logger *zap.Logger) ClassroomService {
	return &classroomService{repo: repo, stats: stats, logger: logger}
}

func (s *classroomService) Create(ctx context.Context, req *dto.CreateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	period := model.Period(req.Period)
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	classroom := &model.Classroom{
		Name:   req.Name,
		Period: period,
	}
	classroom.CreatedBy = &callerID
	classroom.UpdatedBy = &callerID

	if err := s.repo.Classroom.Create(ctx, classroom); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrClassroomExists
		}
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate()
	return toClassroomResponse(classroom), nil
}

func (s *classroomService) GetByID(ctx context.Context, id string) (*dto.ClassroomResponse, error) {
	classroom, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toClassroomResponse(classroom), nil
}

func (s *classroomService) List(ctx context.Context, req *dto.ClassroomListRequest) ([]dto.ClassroomResponse, error) {
	period := model.Period(req.Period)
	if period != "" && !period.Valid() {
		return nil, ErrInvalidPeriod
	}

	list, err := s.repo.Classroom.List(ctx, period)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassroomResponse, 0, len(list))
	for i := range list {
		result = append(result, *toClassroomResponse(&list[i]))
	}
	return result, nil
}

func (s *classroomService) Update(ctx context.Context, id string, req *dto.UpdateClassroomRequest, callerID string) (*dto.ClassroomResponse, error) {
	classroom, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		classroom.Name = *req.Name
	}
	if req.Period != nil {
		period := model.Period(*req.Period)
		if !period.Valid() {
			return nil, ErrInvalidPeriod
		}
		// 已有排课的教室更换时段会破坏排课与教室时段一致
		if period != classroom.Period {
			refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefClassroom, id)
			if err != nil {
				s.logger.Error("统计教室排课失败", zap.String("id", id), zap.Error(err))
				return nil, err
			}
			if refs > 0 {
				return nil, ErrClassroomInUse
			}
		}
		classroom.Period = period
	}
	classroom.UpdatedBy = &callerID

	if err := s.repo.Classroom.Update(ctx, classroom); err != nil {
		switch {
		case pkgerrors.IsUniqueViolation(err):
			return nil, ErrClassroomExists
		case pkgerrors.IsForeignKeyViolation(err):
			return nil, ErrClassroomInUse
		}
		s.logger.Error("更新教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate()
	return toClassroomResponse(classroom), nil
}

func (s *classroomService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefClassroom, id)
	if err != nil {
		s.logger.Error("统计教室排课失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if refs > 0 {
		return ErrClassroomInUse
	}

	if err := s.repo.Classroom.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrClassroomInUse
		}
		s.logger.Error("删除教室失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.stats.Invalidate()
	return nil
}

func (s *classroomService) get(ctx context.Context, id string) (*model.Classroom, error) {
	classroom, err := s.repo.Classroom.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassroomNotFound
		}
		s.logger.Error("查询教室失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return classroom, nil
}

func toClassroomResponse(c *model.Classroom) *dto.ClassroomResponse {
	return &dto.ClassroomResponse{
		ID:        c.ClassroomID,
		Name:      c.Name,
		Period:    string(c.Period),
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
}
