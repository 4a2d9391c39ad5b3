package repository

import (
	"exam_system_backend/internal/model"

	"gorm.io/gorm"
)

// CourseRepository serves both per-organization lookup lists: courses and timings.
type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) CreateCourse(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) CreateTiming(timing *model.Timing) error {
	return r.DB.Create(timing).Error
}

func (r *CourseRepository) ListCoursesByOrg(orgID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("org_id = ?", orgID).Order("name asc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListCoursesByTeacher(orgID, teacherID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("org_id = ? AND teacher_id = ?", orgID, teacherID).Order("name asc").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CountCoursesByTeacher(orgID, teacherID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Where("org_id = ? AND teacher_id = ?", orgID, teacherID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) FindCourseInOrg(orgID, courseID uint) (*model.Course, error) {
	var course model.Course
	if err := r.DB.Where("id = ? AND org_id = ?", courseID, orgID).First(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) ListTimingsByOrg(orgID uint) ([]model.Timing, error) {
	var timings []model.Timing
	err := r.DB.Where("org_id = ?", orgID).Order("id asc").Find(&timings).Error
	return timings, err
}

func (r *CourseRepository) FindTimingInOrg(orgID, timingID uint) (*model.Timing, error) {
	var timing model.Timing
	if err := r.DB.Where("id = ? AND org_id = ?", timingID, orgID).First(&timing).Error; err != nil {
		return nil, err
	}
	return &timing, nil
}
