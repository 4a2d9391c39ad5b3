package service_test

import (
	"errors"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/testutil"
	"exam_system_backend/internal/util"
	"testing"
)

func TestLogin(t *testing.T) {
	f := newFixture(t)

	teacher, err := f.auth.Login(service.LoginInput{Username: testutil.TeacherUsername, Password: testutil.TeacherPassword})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if teacher.ID != f.tn.Teacher.ID || teacher.OrgName != f.tn.Org.Name {
		t.Errorf("teacher = %+v", teacher)
	}

	token, err := f.auth.IssueToken(teacher)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := util.ParseJWT(token, f.auth.Cfg.JWT.Secret)
	if err != nil || claims.TeacherID != teacher.ID || claims.OrgID != teacher.OrgID {
		t.Fatalf("claims = %+v, %v", claims, err)
	}
}

func TestLoginFailures(t *testing.T) {
	f := newFixture(t)

	cases := []service.LoginInput{
		{Username: testutil.TeacherUsername, Password: "wrong"},
		{Username: "nobody", Password: testutil.TeacherPassword},
	}
	for _, in := range cases {
		if _, err := f.auth.Login(in); !errors.Is(err, util.ErrInvalidCredentials) {
			t.Errorf("Login(%q) err = %v", in.Username, err)
		}
	}
	if _, err := f.auth.Login(service.LoginInput{Username: " "}); !errors.Is(err, util.ErrValidation) {
		t.Errorf("blank login err = %v", err)
	}
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	if _, err := f.auth.Register(f.tn.Org.ID, "teacher3", "secret99", "Teacher Three"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := f.auth.Login(service.LoginInput{Username: "teacher3", Password: "secret99"}); err != nil {
		t.Fatalf("login new teacher: %v", err)
	}
	if _, err := f.auth.Register(f.tn.Org.ID, "teacher3", "x", "Dup"); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("duplicate username err = %v", err)
	}
}
