package model

// AnswerLetters are the option keys of every question, in display order.
var AnswerLetters = []string{"A", "B", "C", "D"}

func IsAnswerLetter(s string) bool {
	for _, l := range AnswerLetters {
		if s == l {
			return true
		}
	}
	return false
}

// Question belongs to one month bucket of a course. UnlockDate and LockDate
// are inclusive YYYY-MM-DD bounds; nil means unbounded.
type Question struct {
	BaseModel
	OrgID         uint    `gorm:"index:idx_question_pool,priority:1;not null" json:"orgId"`
	CourseID      uint    `gorm:"index:idx_question_pool,priority:2;not null" json:"courseId"`
	Month         int     `gorm:"index:idx_question_pool,priority:3;not null" json:"month"`
	TeacherID     uint    `gorm:"index;not null" json:"teacherId"`
	Text          string  `gorm:"type:text;not null" json:"text"`
	OptionA       string  `gorm:"size:500;not null" json:"optionA"`
	OptionB       string  `gorm:"size:500;not null" json:"optionB"`
	OptionC       string  `gorm:"size:500;not null" json:"optionC"`
	OptionD       string  `gorm:"size:500;not null" json:"optionD"`
	CorrectAnswer string  `gorm:"size:1;not null" json:"correctAnswer"`
	UnlockDate    *string `gorm:"size:10" json:"unlockDate"`
	LockDate      *string `gorm:"size:10" json:"lockDate"`
}

func (Question) TableName() string {
	return "questions"
}

// Option returns the text for an answer letter.
func (q *Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// IsOpenOn reports whether the question is drawable on the given YYYY-MM-DD day.
func (q *Question) IsOpenOn(day string) bool {
	if q.UnlockDate != nil && *q.UnlockDate > day {
		return false
	}
	if q.LockDate != nil && *q.LockDate < day {
		return false
	}
	return true
}
