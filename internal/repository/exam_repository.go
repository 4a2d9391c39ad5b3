package repository

import (
	"exam_system_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) WithTx(tx *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: tx}
}

// ResultFilter scopes the results list to one teacher's courses.
// Month and CourseID are ignored when zero.
type ResultFilter struct {
	OrgID     uint
	TeacherID uint
	Month     int
	CourseID  uint
}

// ResultRow is an exam joined with course name and timing slot.
type ResultRow struct {
	model.Exam
	CourseName string `json:"courseName"`
	TimingSlot string `json:"timingSlot"`
}

func (r *ExamRepository) Create(exam *model.Exam) error {
	return r.DB.Create(exam).Error
}

func (r *ExamRepository) CreateAnswers(answers []model.ExamAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	return r.DB.Create(&answers).Error
}

func (r *ExamRepository) UpdateResult(examID uint, total, correct int, score float64, endTime time.Time, timedOut bool) error {
	return r.DB.Model(&model.Exam{}).
		Where("id = ?", examID).
		Updates(map[string]interface{}{
			"total_questions": total,
			"correct_answers": correct,
			"score":           score,
			"end_time":        endTime,
			"timed_out":       timedOut,
		}).Error
}

func (r *ExamRepository) ExistsAttempt(orgID uint, studentID string, courseID uint, month int) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Exam{}).
		Where("org_id = ? AND student_id = ? AND course_id = ? AND month = ?", orgID, studentID, courseID, month).
		Count(&count).Error
	return count > 0, err
}

func (r *ExamRepository) FindByID(id uint) (*model.Exam, error) {
	var exam model.Exam
	if err := r.DB.First(&exam, id).Error; err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *ExamRepository) ListAnswers(examID uint) ([]model.ExamAnswer, error) {
	var answers []model.ExamAnswer
	err := r.DB.Where("exam_id = ?", examID).Order("id asc").Find(&answers).Error
	return answers, err
}

// CountByTeacherCourses counts attempts in the organization for courses the teacher owns.
func (r *ExamRepository) CountByTeacherCourses(orgID, teacherID uint) (int64, error) {
	var count int64
	sub := r.DB.Model(&model.Course{}).Select("id").Where("teacher_id = ?", teacherID)
	err := r.DB.Model(&model.Exam{}).
		Where("org_id = ? AND course_id IN (?)", orgID, sub).
		Count(&count).Error
	return count, err
}

func (r *ExamRepository) ListResults(f ResultFilter) ([]ResultRow, error) {
	query := r.DB.Table("exams e").
		Select("e.*, c.name AS course_name, t.slot AS timing_slot").
		Joins("JOIN courses c ON e.course_id = c.id").
		Joins("JOIN timings t ON e.timing_id = t.id").
		Where("e.org_id = ? AND c.teacher_id = ?", f.OrgID, f.TeacherID)

	if f.Month > 0 {
		query = query.Where("e.month = ?", f.Month)
	}
	if f.CourseID > 0 {
		query = query.Where("e.course_id = ?", f.CourseID)
	}

	var rows []ResultRow
	err := query.Order("e.start_time desc, e.id desc").Scan(&rows).Error
	return rows, err
}
