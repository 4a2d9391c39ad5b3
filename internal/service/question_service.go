package service

import (
	"errors"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Owner scopes teacher operations to one teacher of one organization.
type Owner struct {
	OrgID     uint
	TeacherID uint
}

// QuestionInput is the add/edit form. Dates are YYYY-MM-DD or empty.
type QuestionInput struct {
	CourseID      uint   `form:"course_id" json:"courseId"`
	Month         int    `form:"month" json:"month"`
	Text          string `form:"question_text" json:"text"`
	OptionA       string `form:"option_a" json:"optionA"`
	OptionB       string `form:"option_b" json:"optionB"`
	OptionC       string `form:"option_c" json:"optionC"`
	OptionD       string `form:"option_d" json:"optionD"`
	CorrectAnswer string `form:"correct_answer" json:"correctAnswer"`
	UnlockDate    string `form:"unlock_date" json:"unlockDate"`
	LockDate      string `form:"lock_date" json:"lockDate"`
}

type QuestionService struct {
	Repo       *repository.QuestionRepository
	CourseRepo *repository.CourseRepository
	Settings   *ExamSettings
}

func NewQuestionService(repo *repository.QuestionRepository, courseRepo *repository.CourseRepository, settings *ExamSettings) *QuestionService {
	return &QuestionService{Repo: repo, CourseRepo: courseRepo, Settings: settings}
}

func (s *QuestionService) List(o Owner) ([]repository.QuestionListRow, error) {
	return s.Repo.ListByTeacher(o.OrgID, o.TeacherID)
}

func (s *QuestionService) Courses(o Owner) ([]model.Course, error) {
	return s.CourseRepo.ListCoursesByTeacher(o.OrgID, o.TeacherID)
}

func (s *QuestionService) Get(o Owner, id uint) (*model.Question, error) {
	q, err := s.Repo.FindOwned(id, o.OrgID, o.TeacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}

func (s *QuestionService) Create(o Owner, in QuestionInput) (*model.Question, error) {
	q, err := s.build(o, in)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

func (s *QuestionService) Update(o Owner, id uint, in QuestionInput) (*model.Question, error) {
	q, err := s.build(o, in)
	if err != nil {
		return nil, err
	}
	q.ID = id
	affected, err := s.Repo.UpdateOwned(q)
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	if affected == 0 {
		// Updates reports 0 rows when nothing changed on some drivers.
		if _, err := s.Get(o, id); err != nil {
			return nil, err
		}
	}
	return s.Get(o, id)
}

func (s *QuestionService) Delete(o Owner, id uint) error {
	affected, err := s.Repo.DeleteOwned(id, o.OrgID, o.TeacherID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if affected == 0 {
		return util.ErrQuestionNotFound
	}
	return nil
}

func (s *QuestionService) build(o Owner, in QuestionInput) (*model.Question, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.OptionA = strings.TrimSpace(in.OptionA)
	in.OptionB = strings.TrimSpace(in.OptionB)
	in.OptionC = strings.TrimSpace(in.OptionC)
	in.OptionD = strings.TrimSpace(in.OptionD)
	in.CorrectAnswer = strings.ToUpper(strings.TrimSpace(in.CorrectAnswer))

	if in.CourseID == 0 || in.Text == "" || in.OptionA == "" || in.OptionB == "" || in.OptionC == "" || in.OptionD == "" {
		return nil, util.NewValidationError("Course, question text and all four options are required")
	}
	if !s.Settings.ValidMonth(in.Month) {
		return nil, util.NewValidationError("Invalid month selected")
	}
	if !model.IsAnswerLetter(in.CorrectAnswer) {
		return nil, util.NewValidationError("Correct answer must be A, B, C or D")
	}

	unlock, err := parseDate(in.UnlockDate, "unlock")
	if err != nil {
		return nil, err
	}
	lock, err := parseDate(in.LockDate, "lock")
	if err != nil {
		return nil, err
	}
	if unlock != nil && lock != nil && *unlock > *lock {
		return nil, util.NewValidationError("Unlock date must not be after lock date")
	}

	course, err := s.CourseRepo.FindCourseInOrg(o.OrgID, in.CourseID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && course.TeacherID != o.TeacherID) {
		return nil, util.NewValidationError("Invalid course selected")
	}
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}

	return &model.Question{
		OrgID:         o.OrgID,
		TeacherID:     o.TeacherID,
		CourseID:      in.CourseID,
		Month:         in.Month,
		Text:          in.Text,
		OptionA:       in.OptionA,
		OptionB:       in.OptionB,
		OptionC:       in.OptionC,
		OptionD:       in.OptionD,
		CorrectAnswer: in.CorrectAnswer,
		UnlockDate:    unlock,
		LockDate:      lock,
	}, nil
}

func parseDate(raw, name string) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(util.DateFormat, raw)
	if err != nil {
		return nil, util.NewValidationError(fmt.Sprintf("Invalid %s date, expected YYYY-MM-DD", name))
	}
	v := d.Format(util.DateFormat)
	return &v, nil
}
