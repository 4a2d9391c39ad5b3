package model

type Teacher struct {
	BaseModel
	OrgID    uint   `gorm:"index;not null" json:"orgId"`
	Username string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:100;not null" json:"-"`
	FullName string `gorm:"size:255;not null" json:"fullName"`
	Status   Status `gorm:"size:20;default:'active'" json:"status"`
}

func (Teacher) TableName() string {
	return "teachers"
}
