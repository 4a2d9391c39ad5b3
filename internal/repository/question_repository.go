package repository

import (
	"exam_system_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) WithTx(tx *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: tx}
}

// QuestionListRow is a question joined with its course name.
type QuestionListRow struct {
	model.Question
	CourseName string `json:"courseName"`
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

// UpdateOwned rewrites the editable columns only when the question belongs to
// the given organization and teacher. It returns the affected row count.
func (r *QuestionRepository) UpdateOwned(q *model.Question) (int64, error) {
	res := r.DB.Model(&model.Question{}).
		Where("id = ? AND org_id = ? AND teacher_id = ?", q.ID, q.OrgID, q.TeacherID).
		Updates(map[string]interface{}{
			"course_id":      q.CourseID,
			"month":          q.Month,
			"text":           q.Text,
			"option_a":       q.OptionA,
			"option_b":       q.OptionB,
			"option_c":       q.OptionC,
			"option_d":       q.OptionD,
			"correct_answer": q.CorrectAnswer,
			"unlock_date":    q.UnlockDate,
			"lock_date":      q.LockDate,
		})
	return res.RowsAffected, res.Error
}

func (r *QuestionRepository) DeleteOwned(id, orgID, teacherID uint) (int64, error) {
	res := r.DB.Where("id = ? AND org_id = ? AND teacher_id = ?", id, orgID, teacherID).
		Delete(&model.Question{})
	return res.RowsAffected, res.Error
}

func (r *QuestionRepository) FindOwned(id, orgID, teacherID uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("id = ? AND org_id = ? AND teacher_id = ?", id, orgID, teacherID).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByTeacher(orgID, teacherID uint) ([]QuestionListRow, error) {
	var rows []QuestionListRow
	err := r.DB.Table("questions q").
		Select("q.*, c.name AS course_name").
		Joins("JOIN courses c ON q.course_id = c.id").
		Where("q.org_id = ? AND q.teacher_id = ?", orgID, teacherID).
		Order("q.created_at desc, q.id desc").
		Scan(&rows).Error
	return rows, err
}

func (r *QuestionRepository) CountByTeacher(orgID, teacherID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).
		Where("org_id = ? AND teacher_id = ?", orgID, teacherID).
		Count(&count).Error
	return count, err
}

// openOn limits a query to questions whose inclusive window contains day.
// Dates are stored as YYYY-MM-DD so string comparison is date order.
func openOn(db *gorm.DB, day string) *gorm.DB {
	return db.
		Where("(unlock_date IS NULL OR unlock_date = '' OR unlock_date <= ?)", day).
		Where("(lock_date IS NULL OR lock_date = '' OR lock_date >= ?)", day)
}

func (r *QuestionRepository) CountAvailable(orgID, courseID uint, month int, day string) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Question{}).
		Where("org_id = ? AND course_id = ? AND month = ?", orgID, courseID, month)
	err := openOn(query, day).Count(&count).Error
	return count, err
}

// ListAvailableIDs returns the drawable pool in id order; callers shuffle.
func (r *QuestionRepository) ListAvailableIDs(orgID, courseID uint, month int, day string) ([]uint, error) {
	var ids []uint
	query := r.DB.Model(&model.Question{}).
		Where("org_id = ? AND course_id = ? AND month = ?", orgID, courseID, month)
	err := openOn(query, day).Order("id asc").Pluck("id", &ids).Error
	return ids, err
}

// FindByIDs loads questions of one organization keyed by id.
func (r *QuestionRepository) FindByIDs(orgID uint, ids []uint) (map[uint]model.Question, error) {
	out := make(map[uint]model.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var qs []model.Question
	if err := r.DB.Where("org_id = ? AND id IN ?", orgID, ids).Find(&qs).Error; err != nil {
		return nil, err
	}
	for _, q := range qs {
		out[q.ID] = q
	}
	return out, nil
}
