package service_test

import (
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/testutil"
	"testing"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	tn       *testutil.Tenant
	settings *service.ExamSettings
	student  *service.StudentService
	exam     *service.ExamService
	question *service.QuestionService
	result   *service.ResultService
	auth     *service.AuthService
	examRepo *repository.ExamRepository
}

func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.OpenDB(t)
	tn := testutil.Seed(t, db)
	cfg := testutil.Config()

	settings := service.NewExamSettings(cfg.Exam)
	courses := repository.NewCourseRepository(db)
	questions := repository.NewQuestionRepository(db)
	exams := repository.NewExamRepository(db)

	f := &fixture{
		db:       db,
		tn:       tn,
		settings: settings,
		student:  service.NewStudentService(courses, questions, exams, settings),
		exam:     service.NewExamService(db, questions, exams, settings),
		question: service.NewQuestionService(questions, courses, settings),
		result:   service.NewResultService(exams, &service.StorageService{}, settings),
		auth:     service.NewAuthService(repository.NewTeacherRepository(db), cfg),
		examRepo: exams,
	}
	f.student.Now = testutil.Clock
	f.exam.Now = testutil.Clock
	f.exam.Shuffle = reverse
	f.result.Now = testutil.Clock
	return f
}

func (f *fixture) owner() service.Owner {
	return service.Owner{OrgID: f.tn.Org.ID, TeacherID: f.tn.Teacher.ID}
}
