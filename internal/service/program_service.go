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

// ── 专业模块业务错误 ──

var (
	ErrProgramNotFound = errors.New("专业不存在")
	ErrProgramExists   = errors.New("专业名称已存在")
	ErrProgramInUse    = errors.New("专业下仍有课程，不能删除")
)

// ProgramService 专业业务接口
type ProgramService interface {
	Create(ctx context.Context, req *dto.CreateProgramRequest, callerID string) (*dto.ProgramResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error)
	List(ctx context.Context) ([]dto.ProgramResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateProgramRequest, callerID string) (*dto.ProgramResponse, error)
	Delete(ctx context.Context, id string) error
}

type programService struct {
	repo   *repository.Repository
	stats  *StatsCache
	logger *zap.Logger
}

// NewProgramService 创建 ProgramService 实例
// stats 为 nil 时不做缓存失效
func NewProgramService(repo *repository.Repository, stats *StatsCache, logger *zap.Logger) ProgramService {
	return &programService{repo: repo, stats: stats, logger: logger}
}

func (s *programService) Create(ctx context.Context, req *dto.CreateProgramRequest, callerID string) (*dto.ProgramResponse, error) {
	program := &model.Program{Name: req.Name}
	program.CreatedBy = &callerID
	program.UpdatedBy = &callerID

	if err := s.repo.Program.Create(ctx, program); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrProgramExists
		}
		s.logger.Error("创建专业失败", zap.Error(err))
		return nil, err
	}
	s.stats.Invalidate()
	return toProgramResponse(program), nil
}

func (s *programService) GetByID(ctx context.Context, id string) (*dto.ProgramResponse, error) {
	program, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProgramResponse(program), nil
}

func (s *programService) List(ctx context.Context) ([]dto.ProgramResponse, error) {
	list, err := s.repo.Program.List(ctx)
	if err != nil {
		s.logger.Error("列出专业失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProgramResponse, 0, len(list))
	for i := range list {
		result = append(result, *toProgramResponse(&list[i]))
	}
	return result, nil
}

func (s *programService) Update(ctx context.Context, id string, req *dto.UpdateProgramRequest, callerID string) (*dto.ProgramResponse, error) {
	program, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		program.Name = *req.Name
	}
	program.UpdatedBy = &callerID

	if err := s.repo.Program.Update(ctx, program); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrProgramExists
		}
		s.logger.Error("更新专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	s.stats.Invalidate()
	return toProgramResponse(program), nil
}

func (s *programService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	courses, err := s.repo.Course.CountByProgram(ctx, id)
	if err != nil {
		s.logger.Error("统计专业课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if courses > 0 {
		return ErrProgramInUse
	}

	if err := s.repo.Program.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrProgramInUse
		}
		s.logger.Error("删除专业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.stats.Invalidate()
	return nil
}

func (s *programService) get(ctx context.Context, id string) (*model.Program, error) {
	program, err := s.repo.Program.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return program, nil
}

func toProgramResponse(p *model.Program) *dto.ProgramResponse {
	return &dto.ProgramResponse{
		ID:        p.ProgramID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(timeLayout),
		UpdatedAt: p.UpdatedAt.Format(timeLayout),
	}
}
