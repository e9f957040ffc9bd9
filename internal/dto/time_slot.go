package dto

// ── 时间段模块 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	DisplayText string `json:"display_text" binding:"omitempty,max=20"` // 为空时按 "07.00-07.50" 生成
	Period      string `json:"period"       binding:"required,period"`
	DaySpecific bool   `json:"day_specific"`
	StartTime   string `json:"start_time"   binding:"required,hhmm"` // "07:00"
	EndTime     string `json:"end_time"     binding:"required,hhmm"` // "07:50"
}

// UpdateTimeSlotRequest 更新时间段请求
type UpdateTimeSlotRequest struct {
	DisplayText *string `json:"display_text" binding:"omitempty,max=20"`
	Period      *string `json:"period"       binding:"omitempty,period"`
	DaySpecific *bool   `json:"day_specific"`
	StartTime   *string `json:"start_time"   binding:"omitempty,hhmm"`
	EndTime     *string `json:"end_time"     binding:"omitempty,hhmm"`
}

// TimeSlotListRequest 时间段列表查询参数
// 同时给出 period 与 day 时经过可用性过滤
type TimeSlotListRequest struct {
	Period string `form:"period" binding:"omitempty,period"`
	Day    string `form:"day"    binding:"omitempty,day"`
}

// SeedTimeSlotsRequest 初始化默认时间段请求
type SeedTimeSlotsRequest struct {
	Clear bool `json:"clear"` // true 时先删除未被引用的时间段
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID          string `json:"id"`
	DisplayText string `json:"display_text"`
	Period      string `json:"period"`
	DaySpecific bool   `json:"day_specific"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// TimeSlotImportRow 导入文件中的一行（CSV 表头 / XLSX 首行）
type TimeSlotImportRow struct {
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	DisplayText string `csv:"display_text"`
	Period      string `csv:"period"`
	DaySpecific string `csv:"day_specific"` // true/false/1/0/ya
}

// ImportRowError 导入失败的行
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportTimeSlotsResponse 导入结果
type ImportTimeSlotsResponse struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"` // 已存在的时间段
	Errors  []ImportRowError `json:"errors"`
}

// SeedTimeSlotsResponse 初始化结果
type SeedTimeSlotsResponse struct {
	Cleared int `json:"cleared"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}
