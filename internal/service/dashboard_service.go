package service

import (
	"exam_system_backend/internal/repository"
	"fmt"
)

type DashboardStats struct {
	TotalQuestions int64 `json:"totalQuestions"`
	TotalCourses   int64 `json:"totalCourses"`
	TotalExams     int64 `json:"totalExams"`
}

type DashboardService struct {
	QuestionRepo *repository.QuestionRepository
	CourseRepo   *repository.CourseRepository
	ExamRepo     *repository.ExamRepository
}

func NewDashboardService(questionRepo *repository.QuestionRepository, courseRepo *repository.CourseRepository, examRepo *repository.ExamRepository) *DashboardService {
	return &DashboardService{QuestionRepo: questionRepo, CourseRepo: courseRepo, ExamRepo: examRepo}
}

func (s *DashboardService) Stats(o Owner) (*DashboardStats, error) {
	var stats DashboardStats
	var err error

	if stats.TotalQuestions, err = s.QuestionRepo.CountByTeacher(o.OrgID, o.TeacherID); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if stats.TotalCourses, err = s.CourseRepo.CountCoursesByTeacher(o.OrgID, o.TeacherID); err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	if stats.TotalExams, err = s.ExamRepo.CountByTeacherCourses(o.OrgID, o.TeacherID); err != nil {
		return nil, fmt.Errorf("count exams: %w", err)
	}
	return &stats, nil
}
