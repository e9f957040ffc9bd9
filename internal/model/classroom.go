package model

// Classroom 教室，对应 kelas
// 每间教室只归属一个时段
type Classroom struct {
	ClassroomID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	Name        string `gorm:"column:nama;type:varchar(50);not null"                    json:"name"`
	Period      Period `gorm:"type:varchar(10);not null"                                json:"period"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "kelas" }
