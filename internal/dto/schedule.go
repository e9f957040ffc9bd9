package dto

// ── 排课模块 DTO ──

// CheckConflictRequest 冲突检测请求（单个或多个时间段）
type CheckConflictRequest struct {
	InstructorID   string   `json:"instructor_id"    binding:"required,uuid"`
	ClassroomID    string   `json:"classroom_id"     binding:"required,uuid"`
	Day            string   `json:"day"              binding:"required,day"`
	Period         string   `json:"period"           binding:"required,period"`
	TimeSlotIDs    []string `json:"time_slot_ids"    binding:"dive,uuid"`
	ExcludeEntryID string   `json:"exclude_entry_id" binding:"omitempty,uuid"` // 编辑模式下排除自身
}

// CreateBatchRequest 批量排课请求
// 同一教师、课程、教室、上课日下一次提交多个时间段，全部成功或全部失败
type CreateBatchRequest struct {
	InstructorID string   `json:"instructor_id" binding:"required,uuid"`
	CourseID     string   `json:"course_id"     binding:"required,uuid"`
	ClassroomID  string   `json:"classroom_id"  binding:"required,uuid"`
	Day          string   `json:"day"           binding:"required,day"`
	Period       string   `json:"period"        binding:"required,period"`
	TimeSlotIDs  []string `json:"time_slot_ids" binding:"dive,uuid"`
}

// UpdateEntryRequest 编辑单条排课请求
type UpdateEntryRequest struct {
	InstructorID string `json:"instructor_id" binding:"required,uuid"`
	CourseID     string `json:"course_id"     binding:"required,uuid"`
	ClassroomID  string `json:"classroom_id"  binding:"required,uuid"`
	Day          string `json:"day"           binding:"required,day"`
	Period       string `json:"period"        binding:"required,period"`
	TimeSlotID   string `json:"time_slot_id"  binding:"required,uuid"`
	Version      int    `json:"version"       binding:"required,min=1"`
}

// ScheduleEntryListRequest 排课列表查询参数
type ScheduleEntryListRequest struct {
	PaginationRequest
	Period       string `form:"period"        binding:"omitempty,period"`
	Day          string `form:"day"           binding:"omitempty,day"`
	InstructorID string `form:"instructor_id" binding:"omitempty,uuid"`
	ClassroomID  string `form:"classroom_id"  binding:"omitempty,uuid"`
	CourseID     string `form:"course_id"     binding:"omitempty,uuid"`
}

// ── 冲突明细 ──

const (
	ConflictTypeInstructor = "instructor" // 教师在该时间段已在其他教室授课
	ConflictTypeClassroom  = "classroom"  // 教室在该时间段已被其他教师占用
)

// ConflictItem 单条冲突
// 教师冲突看 Classroom* 字段，教室冲突看 Instructor* 字段
type ConflictItem struct {
	Type           string `json:"type"`
	EntryID        string `json:"entry_id"`
	Day            string `json:"day"`
	TimeSlotID     string `json:"time_slot_id"`
	TimeSlotText   string `json:"time_slot_text"`
	ClassroomID    string `json:"classroom_id"`
	ClassroomName  string `json:"classroom_name"`
	InstructorID   string `json:"instructor_id"`
	InstructorName string `json:"instructor_name"`
	InstructorCode string `json:"instructor_code"`
	CourseCode     string `json:"course_code,omitempty"`
	CourseName     string `json:"course_name,omitempty"`
	Message        string `json:"message"`
}

// InstructorBrief 教师简要信息
type InstructorBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ClassroomBrief 教室简要信息
type ClassroomBrief struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Period string `json:"period"`
}

// CourseBrief 课程简要信息
type CourseBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// ConflictEntities 渲染冲突提示所需的实体
type ConflictEntities struct {
	Instructors []InstructorBrief  `json:"instructors"`
	Classrooms  []ClassroomBrief   `json:"classrooms"`
	TimeSlots   []TimeSlotResponse `json:"time_slots"`
}

// CheckConflictResponse 冲突检测响应
type CheckConflictResponse struct {
	HasConflict bool             `json:"has_conflict"`
	Conflicts   []ConflictItem   `json:"conflicts"`
	Entities    ConflictEntities `json:"entities"`
}

// ── 排课记录 ──

// ScheduleEntryResponse 排课记录响应
type ScheduleEntryResponse struct {
	ID         string            `json:"id"`
	Day        string            `json:"day"`
	Period     string            `json:"period"`
	Version    int               `json:"version"`
	Instructor InstructorBrief   `json:"instructor"`
	Course     CourseBrief       `json:"course"`
	Classroom  ClassroomBrief    `json:"classroom"`
	TimeSlot   *TimeSlotResponse `json:"time_slot,omitempty"`
	CreatedAt  string            `json:"created_at"`
	UpdatedAt  string            `json:"updated_at"`
}

// CreateBatchResponse 批量排课成功响应
type CreateBatchResponse struct {
	CreatedCount int                     `json:"created_count"`
	Entries      []ScheduleEntryResponse `json:"entries"`
}

// ── 课表网格 ──

// GridRequest 课表网格查询参数
type GridRequest struct {
	Period string `form:"period" binding:"required,period"`
}

// GridRow 网格一行：某天的某个时间段
type GridRow struct {
	Day          string   `json:"day"`
	TimeSlotID   string   `json:"time_slot_id"`
	TimeSlotText string   `json:"time_slot_text"`
	Cells        []string `json:"cells"` // 与 Columns 一一对应，"MKCODE/DOSENCODE"，空串表示空闲
}

// GridResponse 某时段的课表网格
type GridResponse struct {
	Period  string           `json:"period"`
	Columns []ClassroomBrief `json:"columns"`
	Rows    []GridRow        `json:"rows"`
}

// ── 统计 ──

// NamedCount 名称 + 计数
type NamedCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Count int64  `json:"count"`
}

// StatsResponse 排课统计
type StatsResponse struct {
	TotalEntries     int64            `json:"total_entries"`
	TotalInstructors int64            `json:"total_instructors"`
	TotalClassrooms  int64            `json:"total_classrooms"`
	TotalCourses     int64            `json:"total_courses"`
	TotalPrograms    int64            `json:"total_programs"`
	ByPeriod         map[string]int64 `json:"by_period"`
	ByDay            map[string]int64 `json:"by_day"`
	TopInstructors   []NamedCount     `json:"top_instructors"`
	TopClassrooms    []NamedCount     `json:"top_classrooms"`
}
