package model

// Program 专业，对应 prodi
type Program struct {
	ProgramID string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"program_id"`
	Name      string `gorm:"column:nama;type:varchar(100);not null"                   json:"name"`
	BaseModel
}

// TableName 指定表名
func (Program) TableName() string { return "prodi" }
