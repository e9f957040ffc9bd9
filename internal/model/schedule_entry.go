package model

// ScheduleEntry 排课记录，对应 jadwal
// 一条记录占用一个 (教师, 上课日, 时间段) 与一个 (教室, 上课日, 时间段)
type ScheduleEntry struct {
	EntryID      string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	InstructorID string `gorm:"column:dosen_id;type:uuid;not null"                       json:"instructor_id"`
	CourseID     string `gorm:"column:mata_kuliah_id;type:uuid;not null"                 json:"course_id"`
	ClassroomID  string `gorm:"column:kelas_id;type:uuid;not null"                       json:"classroom_id"`
	Day          Day    `gorm:"column:hari;type:varchar(10);not null"                    json:"day"`
	TimeSlotID   string `gorm:"column:time_slot_id;type:uuid;not null"                   json:"time_slot_id"`
	Period       Period `gorm:"type:varchar(10);not null"                                json:"period"`
	VersionedModel

	// 关联
	Instructor *Instructor `gorm:"foreignKey:InstructorID;references:InstructorID" json:"instructor,omitempty"`
	Course     *Course     `gorm:"foreignKey:CourseID;references:CourseID"         json:"course,omitempty"`
	Classroom  *Classroom  `gorm:"foreignKey:ClassroomID;references:ClassroomID"   json:"classroom,omitempty"`
	TimeSlot   *TimeSlot   `gorm:"foreignKey:TimeSlotID;references:TimeSlotID"     json:"time_slot,omitempty"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "jadwal" }
