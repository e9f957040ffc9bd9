package service

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
	"jadwal-kuliah/internal/repository"
)

const (
	statsCacheKey = "stats:overview"
	statsTopLimit = 5
)

// StatsCache 统计结果的进程内缓存，排课与目录（教师、教室、专业、课程）写入后失效
type StatsCache struct {
	cache *cache.Cache
}

// NewStatsCache 创建统计缓存；ttl <= 0 时不缓存
func NewStatsCache(ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		return &StatsCache{}
	}
	return &StatsCache{cache: cache.New(ttl, 2*ttl)}
}

// Get 读取缓存
func (c *StatsCache) Get() (*dto.StatsResponse, bool) {
	if c == nil || c.cache == nil {
		return nil, false
	}
	v, ok := c.cache.Get(statsCacheKey)
	if !ok {
		return nil, false
	}
	stats, ok := v.(*dto.StatsResponse)
	if !ok {
		return nil, false
	}
	return cloneStats(stats), true
}

// Set 写入缓存（使用默认过期时间）；读写两侧都是副本，调用方修改结果不影响缓存
func (c *StatsCache) Set(stats *dto.StatsResponse) {
	if c == nil || c.cache == nil || stats == nil {
		return
	}
	c.cache.SetDefault(statsCacheKey, cloneStats(stats))
}

func cloneStats(src *dto.StatsResponse) *dto.StatsResponse {
	dst := *src
	dst.ByPeriod = maps.Clone(src.ByPeriod)
	dst.ByDay = maps.Clone(src.ByDay)
	dst.TopInstructors = slices.Clone(src.TopInstructors)
	dst.TopClassrooms = slices.Clone(src.TopClassrooms)
	return &dst
}

// Invalidate 使缓存失效
func (c *StatsCache) Invalidate() {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.Delete(statsCacheKey)
}

// StatsService 排课统计业务接口
type StatsService interface {
	Overview(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	repo   *repository.Repository
	cache  *StatsCache
	logger *zap.Logger
}

// NewStatsService 创建 StatsService 实例
func NewStatsService(repo *repository.Repository, cache *StatsCache, logger *zap.Logger) StatsService {
	return &statsService{repo: repo, cache: cache, logger: logger}
}

func (s *statsService) Overview(ctx context.Context) (*dto.StatsResponse, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	var err error
	stats := &dto.StatsResponse{
		ByPeriod: make(map[string]int64, len(model.AllPeriods)),
		ByDay:    make(map[string]int64, len(model.AllDays)),
	}

	if stats.TotalEntries, err = s.repo.ScheduleEntry.Count(ctx); err != nil {
		return nil, s.fail("统计排课总数失败", err)
	}
	if stats.TotalInstructors, err = s.repo.Instructor.Count(ctx); err != nil {
		return nil, s.fail("统计教师总数失败", err)
	}
	if stats.TotalClassrooms, err = s.repo.Classroom.Count(ctx); err != nil {
		return nil, s.fail("统计教室总数失败", err)
	}
	if stats.TotalCourses, err = s.repo.Course.Count(ctx); err != nil {
		return nil, s.fail("统计课程总数失败", err)
	}
	if stats.TotalPrograms, err = s.repo.Program.Count(ctx); err != nil {
		return nil, s.fail("统计专业总数失败", err)
	}

	// 没有记录的时段 / 上课日补 0，前端无需判空
	for _, p := range model.AllPeriods {
		stats.ByPeriod[string(p)] = 0
	}
	for _, d := range model.AllDays {
		stats.ByDay[string(d)] = 0
	}

	byPeriod, err := s.repo.ScheduleEntry.CountByPeriod(ctx)
	if err != nil {
		return nil, s.fail("按时段统计失败", err)
	}
	for _, row := range byPeriod {
		stats.ByPeriod[row.Key] = row.Count
	}

	byDay, err := s.repo.ScheduleEntry.CountByDay(ctx)
	if err != nil {
		return nil, s.fail("按上课日统计失败", err)
	}
	for _, row := range byDay {
		stats.ByDay[row.Key] = row.Count
	}

	topInstructors, err := s.repo.ScheduleEntry.TopInstructors(ctx, statsTopLimit)
	if err != nil {
		return nil, s.fail("统计教师排行失败", err)
	}
	stats.TopInstructors = toNamedCounts(topInstructors)

	topClassrooms, err := s.repo.ScheduleEntry.TopClassrooms(ctx, statsTopLimit)
	if err != nil {
		return nil, s.fail("统计教室排行失败", err)
	}
	stats.TopClassrooms = toNamedCounts(topClassrooms)

	s.cache.Set(stats)
	return stats, nil
}

func (s *statsService) fail(msg string, err error) error {
	s.logger.Error(msg, zap.Error(err))
	return err
}

func toNamedCounts(rows []repository.RankedCount) []dto.NamedCount {
	result := make([]dto.NamedCount, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.NamedCount{ID: r.ID, Name: r.Name, Code: r.Code, Count: r.Count})
	}
	return result
}
