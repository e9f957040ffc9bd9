package dto

// ── 教师 ──

// CreateInstructorRequest 创建教师请求
type CreateInstructorRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
	Code string `json:"code" binding:"required,min=1,max=20"`
}

// UpdateInstructorRequest 更新教师请求
type UpdateInstructorRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=100"`
	Code *string `json:"code" binding:"omitempty,min=1,max=20"`
}

// InstructorResponse 教师信息响应
type InstructorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 教室 ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	Name   string `json:"name"   binding:"required,min=1,max=50"`
	Period string `json:"period" binding:"required,period"`
}

// UpdateClassroomRequest 更新教室请求
type UpdateClassroomRequest struct {
	Name   *string `json:"name"   binding:"omitempty,min=1,max=50"`
	Period *string `json:"period" binding:"omitempty,period"`
}

// ClassroomListRequest 教室列表查询参数
type ClassroomListRequest struct {
	Period string `form:"period" binding:"omitempty,period"`
}

// ClassroomResponse 教室信息响应
type ClassroomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Period    string `json:"period"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 专业 ──

// CreateProgramRequest 创建专业请求
type CreateProgramRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// UpdateProgramRequest 更新专业请求
type UpdateProgramRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=100"`
}

// ProgramResponse 专业信息响应
type ProgramResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ── 课程 ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=150"`
	Code      string `json:"code"       binding:"required,min=1,max=20"`
	Credits   int    `json:"credits"    binding:"required,min=1,max=24"`
	Hours     int    `json:"hours"      binding:"required,min=1,max=48"`
	Semester  int    `json:"semester"   binding:"required,min=1,max=14"`
	ProgramID string `json:"program_id" binding:"required,uuid"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=2,max=150"`
	Code      *string `json:"code"       binding:"omitempty,min=1,max=20"`
	Credits   *int    `json:"credits"    binding:"omitempty,min=1,max=24"`
	Hours     *int    `json:"hours"      binding:"omitempty,min=1,max=48"`
	Semester  *int    `json:"semester"   binding:"omitempty,min=1,max=14"`
	ProgramID *string `json:"program_id" binding:"omitempty,uuid"`
}

// CourseListRequest 课程列表查询参数
type CourseListRequest struct {
	PaginationRequest
	ProgramID string `form:"program_id" binding:"omitempty,uuid"`
	Semester  int    `form:"semester"   binding:"omitempty,min=1,max=14"`
	Keyword   string `form:"keyword"    binding:"omitempty,max=50"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Code      string           `json:"code"`
	Credits   int              `json:"credits"`
	Hours     int              `json:"hours"`
	Semester  int              `json:"semester"`
	ProgramID string           `json:"program_id"`
	Program   *ProgramResponse `json:"program,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}
