package model

// Instructor 授课教师，对应 dosen
type Instructor struct {
	InstructorID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"instructor_id"`
	Name         string `gorm:"column:nama;type:varchar(100);not null"                   json:"name"`
	Code         string `gorm:"column:kode;type:varchar(20);not null"                    json:"code"`
	BaseModel
}

// TableName 指定表名
func (Instructor) TableName() string { return "dosen" }
