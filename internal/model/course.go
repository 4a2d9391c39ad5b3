package model

type Course struct {
	BaseModel
	OrgID     uint   `gorm:"index;not null" json:"orgId"`
	TeacherID uint   `gorm:"index;not null" json:"teacherId"`
	Name      string `gorm:"size:255;not null" json:"name"`
}

func (Course) TableName() string {
	return "courses"
}

// Timing is an exam slot label such as "09:00 - 10:00".
type Timing struct {
	BaseModel
	OrgID     uint   `gorm:"index;not null" json:"orgId"`
	TeacherID uint   `gorm:"index;not null" json:"teacherId"`
	Slot      string `gorm:"size:100;not null" json:"slot"`
}

func (Timing) TableName() string {
	return "timings"
}
