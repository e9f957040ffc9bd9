package service

import (
	"jadwal-kuliah/internal/dto"
	"jadwal-kuliah/internal/model"
)

const timeLayout = "2006-01-02T15:04:05Z"

func toTimeSlotResponse(slot *model.TimeSlot) *dto.TimeSlotResponse {
	return &dto.TimeSlotResponse{
		ID:          slot.TimeSlotID,
		DisplayText: slot.DisplayText,
		Period:      string(slot.Period),
		DaySpecific: slot.DaySpecific,
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		CreatedAt:   slot.CreatedAt.Format(timeLayout),
		UpdatedAt:   slot.UpdatedAt.Format(timeLayout),
	}
}

func toTimeSlotResponses(slots []model.TimeSlot) []dto.TimeSlotResponse {
	result := make([]dto.TimeSlotResponse, 0, len(slots))
	for i := range slots {
		result = append(result, *toTimeSlotResponse(&slots[i]))
	}
	return result
}

func toInstructorBrief(i *model.Instructor) dto.InstructorBrief {
	if i == nil {
		return dto.InstructorBrief{}
	}
	return dto.InstructorBrief{ID: i.InstructorID, Name: i.Name, Code: i.Code}
}

func toClassroomBrief(c *model.Classroom) dto.ClassroomBrief {
	if c == nil {
		return dto.ClassroomBrief{}
	}
	return dto.ClassroomBrief{ID: c.ClassroomID, Name: c.Name, Period: string(c.Period)}
}

func toCourseBrief(c *model.Course) dto.CourseBrief {
	if c == nil {
		return dto.CourseBrief{}
	}
	return dto.CourseBrief{ID: c.CourseID, Name: c.Name, Code: c.Code}
}

func toEntryResponse(e *model.ScheduleEntry) *dto.ScheduleEntryResponse {
	resp := &dto.ScheduleEntryResponse{
		ID:         e.EntryID,
		Day:        string(e.Day),
		Period:     string(e.Period),
		Version:    e.Version,
		Instructor: toInstructorBrief(e.Instructor),
		Course:     toCourseBrief(e.Course),
		Classroom:  toClassroomBrief(e.Classroom),
		CreatedAt:  e.CreatedAt.Format(timeLayout),
		UpdatedAt:  e.UpdatedAt.Format(timeLayout),
	}
	// 关联未加载时至少保留 ID
	if e.Instructor == nil {
		resp.Instructor.ID = e.InstructorID
	}
	if e.Course == nil {
		resp.Course.ID = e.CourseID
	}
	if e.Classroom == nil {
		resp.Classroom.ID = e.ClassroomID
	}
	if e.TimeSlot != nil {
		resp.TimeSlot = toTimeSlotResponse(e.TimeSlot)
	}
	return resp
}
