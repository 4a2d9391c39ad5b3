package service

import (
	"errors"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/monitoring"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// StudentLoginInput is the student login form.
type StudentLoginInput struct {
	StudentID   string `form:"student_id" json:"studentId"`
	StudentName string `form:"student_name" json:"studentName"`
	CourseID    uint   `form:"course_id" json:"courseId"`
	TimingID    uint   `form:"timing_id" json:"timingId"`
	Month       int    `form:"month" json:"month"`
}

// ExamTicket is what a successful login hands to the session.
type ExamTicket struct {
	StudentID   string
	StudentName string
	OrgID       uint
	CourseID    uint
	TimingID    uint
	Month       int
	StartedAt   time.Time
}

type StudentService struct {
	CourseRepo   *repository.CourseRepository
	QuestionRepo *repository.QuestionRepository
	ExamRepo     *repository.ExamRepository
	Settings     *ExamSettings
	Now          func() time.Time
}

func NewStudentService(courseRepo *repository.CourseRepository, questionRepo *repository.QuestionRepository, examRepo *repository.ExamRepository, settings *ExamSettings) *StudentService {
	return &StudentService{
		CourseRepo:   courseRepo,
		QuestionRepo: questionRepo,
		ExamRepo:     examRepo,
		Settings:     settings,
		Now:          time.Now,
	}
}

// LoginOptions are the select lists of the login form.
type LoginOptions struct {
	Courses []model.Course
	Timings []model.Timing
	Months  []int
}

func (s *StudentService) LoginOptions(orgID uint) (*LoginOptions, error) {
	courses, err := s.CourseRepo.ListCoursesByOrg(orgID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	timings, err := s.CourseRepo.ListTimingsByOrg(orgID)
	if err != nil {
		return nil, fmt.Errorf("list timings: %w", err)
	}
	return &LoginOptions{Courses: courses, Timings: timings, Months: s.Settings.Months()}, nil
}

// Start validates the login form, refuses repeat attempts and empty question
// pools, and stamps the exam start time.
func (s *StudentService) Start(orgID uint, in StudentLoginInput) (*ExamTicket, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.StudentName = strings.TrimSpace(in.StudentName)

	if in.StudentID == "" || in.StudentName == "" || in.CourseID == 0 || in.TimingID == 0 || in.Month == 0 {
		return nil, util.NewValidationError("All fields are required")
	}
	if len(in.StudentID) > 64 || len(in.StudentName) > 255 {
		return nil, util.NewValidationError("Student ID or name is too long")
	}
	if !s.Settings.ValidMonth(in.Month) {
		return nil, util.NewValidationError("Invalid month selected")
	}

	if _, err := s.CourseRepo.FindCourseInOrg(orgID, in.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("Invalid course selected")
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	if _, err := s.CourseRepo.FindTimingInOrg(orgID, in.TimingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("Invalid timing selected")
		}
		return nil, fmt.Errorf("find timing: %w", err)
	}

	exists, err := s.ExamRepo.ExistsAttempt(orgID, in.StudentID, in.CourseID, in.Month)
	if err != nil {
		return nil, fmt.Errorf("check attempt: %w", err)
	}
	if exists {
		return nil, util.ErrAlreadyAttempted
	}

	now := s.Now()
	available, err := s.QuestionRepo.CountAvailable(orgID, in.CourseID, in.Month, s.Settings.Day(now))
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	if available == 0 {
		return nil, util.ErrNoQuestions
	}

	monitoring.ExamStarts.Inc()
	return &ExamTicket{
		StudentID:   in.StudentID,
		StudentName: in.StudentName,
		OrgID:       orgID,
		CourseID:    in.CourseID,
		TimingID:    in.TimingID,
		Month:       in.Month,
		StartedAt:   now,
	}, nil
}
