// Package testutil builds in-memory databases and tenants for tests.
package testutil

import (
	"exam_system_backend/internal/config"
	"exam_system_backend/internal/model"
	"exam_system_backend/pkg/database"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	OrgCode         = "ORG_A"
	InactiveOrgCode = "ORG_OFF"
	TeacherUsername = "teacher1"
	TeacherPassword = "teacher123"
	OtherUsername   = "teacher2"
)

// Now is the fixed clock used by tests: 10 March 2026, 10:00 UTC.
var Now = time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)

func Clock() time.Time { return Now }

// Config is a complete config for an in-process app backed by sqlite and memstore.
func Config() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:      config.JWTConfig{Secret: "test-jwt-secret-test-jwt-secret-0123", ExpireTime: time.Hour},
		Session: config.SessionConfig{
			Store:      "memory",
			CookieName: "exam_session",
			Secret:     "test-session-secret-test-session-0123",
			MaxAge:     3600,
		},
		Exam: config.ExamConfig{
			Duration:       30 * time.Minute,
			MonthCount:     4,
			DefaultOrgCode: OrgCode,
			Timezone:       "UTC",
		},
		Storage: config.StorageConfig{Type: "none"},
	}
}

// OpenDB returns a migrated in-memory sqlite database. A single connection
// keeps every query on the same in-memory database.
func OpenDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.InitDB(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Tenant is the data Seed creates.
type Tenant struct {
	Org          model.Organization
	InactiveOrg  model.Organization
	Teacher      model.Teacher
	OtherTeacher model.Teacher
	Course1      model.Course // owned by Teacher, no questions
	Course2      model.Course // owned by Teacher, five month-1 questions
	OtherCourse  model.Course // owned by OtherTeacher
	Timing       model.Timing
	Questions    []model.Question // Course2, month 1, answers A B C D A
}

func mustCreate(t testing.TB, db *gorm.DB, v interface{}) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("create %T: %v", v, err)
	}
}

// Seed inserts one active organization with two teachers, three courses, a
// timing and five open questions, plus an inactive organization.
func Seed(t testing.TB, db *gorm.DB) *Tenant {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TeacherPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	tn := &Tenant{}
	tn.Org = model.Organization{Code: OrgCode, Name: "Organization A", Status: model.StatusActive}
	mustCreate(t, db, &tn.Org)
	tn.InactiveOrg = model.Organization{Code: InactiveOrgCode, Name: "Closed Org", Status: model.StatusInactive}
	mustCreate(t, db, &tn.InactiveOrg)

	tn.Teacher = model.Teacher{OrgID: tn.Org.ID, Username: TeacherUsername, Password: string(hash), FullName: "Teacher One", Status: model.StatusActive}
	mustCreate(t, db, &tn.Teacher)
	tn.OtherTeacher = model.Teacher{OrgID: tn.Org.ID, Username: OtherUsername, Password: string(hash), FullName: "Teacher Two", Status: model.StatusActive}
	mustCreate(t, db, &tn.OtherTeacher)

	tn.Course1 = model.Course{OrgID: tn.Org.ID, TeacherID: tn.Teacher.ID, Name: "Computer Fundamentals"}
	mustCreate(t, db, &tn.Course1)
	tn.Course2 = model.Course{OrgID: tn.Org.ID, TeacherID: tn.Teacher.ID, Name: "English Language"}
	mustCreate(t, db, &tn.Course2)
	tn.OtherCourse = model.Course{OrgID: tn.Org.ID, TeacherID: tn.OtherTeacher.ID, Name: "Mathematics"}
	mustCreate(t, db, &tn.OtherCourse)

	tn.Timing = model.Timing{OrgID: tn.Org.ID, TeacherID: tn.Teacher.ID, Slot: "09:00 AM - 11:00 AM"}
	mustCreate(t, db, &tn.Timing)

	for i, answer := range []string{"A", "B", "C", "D", "A"} {
		q := model.Question{
			OrgID:         tn.Org.ID,
			TeacherID:     tn.Teacher.ID,
			CourseID:      tn.Course2.ID,
			Month:         1,
			Text:          "Question " + string(rune('1'+i)),
			OptionA:       "first",
			OptionB:       "second",
			OptionC:       "third",
			OptionD:       "fourth",
			CorrectAnswer: answer,
		}
		mustCreate(t, db, &q)
		tn.Questions = append(tn.Questions, q)
	}
	return tn
}

func StrPtr(s string) *string { return &s }
