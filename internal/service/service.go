package service

import (
	"go.uber.org/zap"

	"jadwal-kuliah/config"
	"jadwal-kuliah/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	TimeSlot      TimeSlotService
	Instructor    InstructorService
	Classroom     ClassroomService
	Program       ProgramService
	Course        CourseService
	ScheduleEntry ScheduleEntryService
	Timetable     TimetableService
	Stats         StatsService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	statsCache := NewStatsCache(cfg.Cache.StatsTTL)
	detector := NewConflictDetector(repo, logger)

	return &Service{
		TimeSlot:      NewTimeSlotService(repo, logger),
		Instructor:    NewInstructorService(repo, statsCache, logger),
		Classroom:     NewClassroomService(repo, statsCache, logger),
		Program:       NewProgramService(repo, statsCache, logger),
		Course:        NewCourseService(repo, statsCache, logger),
		ScheduleEntry: NewScheduleEntryService(repo, detector, statsCache, cfg.Schedule.MaxSlotsPerBatch, logger),
		Timetable:     NewTimetableService(repo, logger),
		Stats:         NewStatsService(repo, statsCache, logger),
	}
}
