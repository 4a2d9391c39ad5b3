package repository

import (
	"exam_system_backend/internal/model"

	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(org *model.Organization) error {
	return r.DB.Create(org).Error
}

// FindActiveByCode only returns organizations whose status is active.
func (r *OrganizationRepository) FindActiveByCode(code string) (*model.Organization, error) {
	var org model.Organization
	err := r.DB.Where("code = ? AND status = ?", code, model.StatusActive).First(&org).Error
	if err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) FindByID(id uint) (*model.Organization, error) {
	var org model.Organization
	if err := r.DB.First(&org, id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
