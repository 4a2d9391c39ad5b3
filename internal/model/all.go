package model

// All lists every table for AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Organization{},
		&Teacher{},
		&Course{},
		&Timing{},
		&Question{},
		&Exam{},
		&ExamAnswer{},
	}
}
