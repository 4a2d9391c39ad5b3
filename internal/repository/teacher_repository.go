package repository

import (
	"exam_system_backend/internal/model"

	"gorm.io/gorm"
)

type TeacherRepository struct {
	DB *gorm.DB
}

func NewTeacherRepository(db *gorm.DB) *TeacherRepository {
	return &TeacherRepository{DB: db}
}

// TeacherWithOrg is a teacher row joined with its organization name.
type TeacherWithOrg struct {
	model.Teacher
	OrgName string `json:"orgName"`
}

func (r *TeacherRepository) Create(teacher *model.Teacher) error {
	return r.DB.Create(teacher).Error
}

// FindActiveByUsername requires both the teacher and the organization to be active.
func (r *TeacherRepository) FindActiveByUsername(username string) (*TeacherWithOrg, error) {
	var row TeacherWithOrg
	err := r.DB.Table("teachers t").
		Select("t.*, o.name AS org_name").
		Joins("JOIN organizations o ON t.org_id = o.id").
		Where("t.username = ? AND t.status = ? AND o.status = ?", username, model.StatusActive, model.StatusActive).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *TeacherRepository) FindByID(id uint) (*model.Teacher, error) {
	var teacher model.Teacher
	if err := r.DB.First(&teacher, id).Error; err != nil {
		return nil, err
	}
	return &teacher, nil
}
