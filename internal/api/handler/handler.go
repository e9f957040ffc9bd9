package handler

import "jadwal-kuliah/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	TimeSlot   *TimeSlotHandler
	Instructor *InstructorHandler
	Classroom  *ClassroomHandler
	Program    *ProgramHandler
	Course     *CourseHandler
	Schedule   *ScheduleHandler
	Stats      *StatsHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		TimeSlot:   NewTimeSlotHandler(svc.TimeSlot),
		Instructor: NewInstructorHandler(svc.Instructor),
		Classroom:  NewClassroomHandler(svc.Classroom),
		Program:    NewProgramHandler(svc.Program),
		Course:     NewCourseHandler(svc.Course),
		Schedule:   NewScheduleHandler(svc.ScheduleEntry, svc.Timetable),
		Stats:      NewStatsHandler(svc.Stats),
	}
}
