package model

// TimeSlot 时间段目录，对应 time_slots
// StartTime / EndTime 为补零的 "HH:MM"，字符串比较即时间先后
type TimeSlot struct {
	TimeSlotID  string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"time_slot_id"`
	DisplayText string `gorm:"type:varchar(20);not null"                                json:"display_text"`
	Period      Period `gorm:"type:varchar(10);not null"                                json:"period"`
	DaySpecific bool   `gorm:"not null;default:false"                                   json:"day_specific"` // 仅 SORE 有意义：true 表示周六专用
	StartTime   string `gorm:"type:varchar(5);not null"                                 json:"start_time"`
	EndTime     string `gorm:"type:varchar(5);not null"                                 json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }
