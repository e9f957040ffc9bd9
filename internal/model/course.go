package model

// Course 课程，对应 mata_kuliah
type Course struct {
	CourseID  string `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name      string `gorm:"column:nama;type:varchar(150);not null"                   json:"name"`
	Code      string `gorm:"column:kode;type:varchar(20);not null"                    json:"code"`
	Credits   int    `gorm:"column:sks;type:smallint;not null"                        json:"credits"`
	Hours     int    `gorm:"column:jam;type:smallint;not null"                        json:"hours"`
	Semester  int    `gorm:"column:semester;type:smallint;not null"                   json:"semester"`
	ProgramID string `gorm:"column:prodi_id;type:uuid;not null"                       json:"program_id"`
	BaseModel

	// 关联
	Program *Program `gorm:"foreignKey:ProgramID;references:ProgramID" json:"program,omitempty"`
}

// TableName 指定表名
func (Course) TableName() string { return "mata_kuliah" }
