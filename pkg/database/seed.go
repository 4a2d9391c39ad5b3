package database

import (
	"exam_system_backend/internal/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	DemoOrgCode         = "ORG_A"
	DemoTeacherUsername = "teacher1"
	DemoTeacherPassword = "teacher123"
)

// Seed inserts a demo tenant when the organizations table is empty.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Organization{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoTeacherPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		org := &model.Organization{Code: DemoOrgCode, Name: "Organization A", Status: model.StatusActive}
		if err := tx.Create(org).Error; err != nil {
			return err
		}

		teacher := &model.Teacher{
			OrgID:    org.ID,
			Username: DemoTeacherUsername,
			Password: string(hashed),
			FullName: "Demo Teacher",
			Status:   model.StatusActive,
		}
		if err := tx.Create(teacher).Error; err != nil {
			return err
		}

		courses := []model.Course{
			{OrgID: org.ID, TeacherID: teacher.ID, Name: "Computer Fundamentals"},
			{OrgID: org.ID, TeacherID: teacher.ID, Name: "English Language"},
		}
		if err := tx.Create(&courses).Error; err != nil {
			return err
		}

		timings := []model.Timing{
			{OrgID: org.ID, TeacherID: teacher.ID, Slot: "09:00 AM - 11:00 AM"},
			{OrgID: org.ID, TeacherID: teacher.ID, Slot: "02:00 PM - 04:00 PM"},
		}
		return tx.Create(&timings).Error
	})
	if err != nil {
		return err
	}

	log.Println("Demo organization seeded")
	return nil
}
