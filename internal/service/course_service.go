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

// ── 课程模块业务错误 ──

var (
	ErrCourseNotFound   = errors.New("课程不存在")
	ErrCourseCodeExists = errors.New("课程代码已存在")
	ErrCourseInUse      = errors.New("课程已有排课，不能删除")
)

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	stats  *StatsCache
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
// stats 为 nil 时不做缓存失效
func NewCourseService(repo *repository.Repository, stats *StatsCache, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, stats: stats, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	program, err := s.repo.Program.GetByID(ctx, req.ProgramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		s.logger.Error("查询专业失败", zap.String("id", req.ProgramID), zap.Error(err))
		return nil, err
	}

	course := &model.Course{
		Name:      req.Name,
		Code:      req.Code,
		Credits:   req.Credits,
		Hours:     req.Hours,
		Semester:  req.Semester,
		ProgramID: req.ProgramID,
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	course.Program = program
	s.stats.Invalidate()
	return toCourseResponse(course), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── List ──────────────────────

func (s *courseService) List(ctx context.Context, req *dto.CourseListRequest) ([]dto.CourseResponse, int64, error) {
	filter := repository.CourseFilter{
		ProgramID: req.ProgramID,
		Semester:  req.Semester,
		Keyword:   req.Keyword,
	}

	list, total, err := s.repo.Course.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.CourseResponse, 0, len(list))
	for i := range list {
		result = append(result, *toCourseResponse(&list[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ProgramID != nil && *req.ProgramID != course.ProgramID {
		program, err := s.repo.Program.GetByID(ctx, *req.ProgramID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProgramNotFound
			}
			s.logger.Error("查询专业失败", zap.String("id", *req.ProgramID), zap.Error(err))
			return nil, err
		}
		course.ProgramID = program.ProgramID
		course.Program = program
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Code != nil {
		course.Code = *req.Code
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}
	if req.Hours != nil {
		course.Hours = *req.Hours
	}
	if req.Semester != nil {
		course.Semester = *req.Semester
	}
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.stats.Invalidate()
	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	refs, err := s.repo.ScheduleEntry.CountByRef(ctx, repository.RefCourse, id)
	if err != nil {
		s.logger.Error("统计课程排课失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if refs > 0 {
		return ErrCourseInUse
	}

	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if pkgerrors.IsForeignKeyViolation(err) {
			return ErrCourseInUse
		}
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	s.stats.Invalidate()
	return nil
}

// ── 内部辅助方法 ──

func (s *courseService) get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

func toCourseResponse(c *model.Course) *dto.CourseResponse {
	resp := &dto.CourseResponse{
		ID:        c.CourseID,
		Name:      c.Name,
		Code:      c.Code,
		Credits:   c.Credits,
		Hours:     c.Hours,
		Semester:  c.Semester,
		ProgramID: c.ProgramID,
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
	if c.Program != nil {
		resp.Program = toProgramResponse(c.Program)
	}
	return resp
}
