package model

// Organization is the tenant boundary; every other row carries its id.
type Organization struct {
	BaseModel
	Code   string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Status Status `gorm:"size:20;default:'active'" json:"status"`
}

func (Organization) TableName() string {
	return "organizations"
}

func (o *Organization) IsActive() bool {
	return o.Status == StatusActive
}
