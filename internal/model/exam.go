package model

import "time"

const ExamStatusCompleted = "completed"

// Exam is one student attempt. The unique index makes a second attempt for
// the same org, student, course and month fail at the database.
type Exam struct {
	BaseModel
	OrgID          uint       `gorm:"uniqueIndex:idx_exam_attempt,priority:1;not null" json:"orgId"`
	StudentID      string     `gorm:"size:64;uniqueIndex:idx_exam_attempt,priority:2;not null" json:"studentId"`
	CourseID       uint       `gorm:"uniqueIndex:idx_exam_attempt,priority:3;not null" json:"courseId"`
	Month          int        `gorm:"uniqueIndex:idx_exam_attempt,priority:4;not null" json:"month"`
	StudentName    string     `gorm:"size:255;not null" json:"studentName"`
	TimingID       uint       `gorm:"index;not null" json:"timingId"`
	TotalQuestions int        `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers int        `gorm:"default:0" json:"correctAnswers"`
	Score          float64    `gorm:"default:0" json:"score"`
	Status         string     `gorm:"size:20;default:'completed'" json:"status"`
	TimedOut       bool       `gorm:"default:false" json:"timedOut"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime"`
}

func (Exam) TableName() string {
	return "exams"
}

type ExamAnswer struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ExamID         uint    `gorm:"uniqueIndex:idx_exam_answer,priority:1;not null" json:"examId"`
	QuestionID     uint    `gorm:"uniqueIndex:idx_exam_answer,priority:2;not null" json:"questionId"`
	SelectedAnswer *string `gorm:"size:1" json:"selectedAnswer"`
	IsCorrect      bool    `gorm:"default:false" json:"isCorrect"`
}

func (ExamAnswer) TableName() string {
	return "exam_answers"
}

// ScorePercent is correct/total*100, zero for an empty exam.
func ScorePercent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

// Grade maps a percentage to the letter shown to students and teachers.
func Grade(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	}
	return "F"
}

// GradeRemark is the phrase printed next to the grade on the result page.
func GradeRemark(grade string) string {
	switch grade {
	case "A":
		return "Excellent!"
	case "B":
		return "Good"
	case "C":
		return "Average"
	}
	return "Needs Improvement"
}
