package service_test

import (
	"errors"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/util"
	"testing"
)

func questionInput(f *fixture) service.QuestionInput {
	return service.QuestionInput{
		CourseID:      f.tn.Course1.ID,
		Month:         2,
		Text:          "  What is 2 + 2?  ",
		OptionA:       "3",
		OptionB:       "4",
		OptionC:       "5",
		OptionD:       "22",
		CorrectAnswer: "b",
		UnlockDate:    "2026-03-01",
	}
}

func TestQuestionCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)
	owner := f.owner()

	q, err := f.question.Create(owner, questionInput(f))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if q.Text != "What is 2 + 2?" || q.CorrectAnswer != "B" {
		t.Errorf("not normalized: %q %q", q.Text, q.CorrectAnswer)
	}
	if q.UnlockDate == nil || *q.UnlockDate != "2026-03-01" || q.LockDate != nil {
		t.Errorf("dates = %v %v", q.UnlockDate, q.LockDate)
	}

	in := questionInput(f)
	in.Text = "What is 3 + 3?"
	in.UnlockDate = ""
	updated, err := f.question.Update(owner, q.ID, in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Text != "What is 3 + 3?" || updated.UnlockDate != nil {
		t.Errorf("update not applied: %+v", updated)
	}

	// Saving identical content is not a "not found".
	if _, err := f.question.Update(owner, q.ID, in); err != nil {
		t.Fatalf("no-op update: %v", err)
	}

	if err := f.question.Delete(owner, q.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.question.Delete(owner, q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestQuestionForeignOwner(t *testing.T) {
	f := newFixture(t)
	other := service.Owner{OrgID: f.tn.Org.ID, TeacherID: f.tn.OtherTeacher.ID}
	target := f.tn.Questions[0].ID

	in := questionInput(f)
	in.CourseID = f.tn.OtherCourse.ID
	if _, err := f.question.Update(other, target, in); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("foreign update err = %v", err)
	}
	if err := f.question.Delete(other, target); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("foreign delete err = %v", err)
	}
}

func TestQuestionValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		mutate func(in *service.QuestionInput)
	}{
		{"missing option", func(in *service.QuestionInput) { in.OptionC = " " }},
		{"bad letter", func(in *service.QuestionInput) { in.CorrectAnswer = "E" }},
		{"month zero", func(in *service.QuestionInput) { in.Month = 0 }},
		{"month too large", func(in *service.QuestionInput) { in.Month = 5 }},
		{"bad date", func(in *service.QuestionInput) { in.LockDate = "10/03/2026" }},
		{"unlock after lock", func(in *service.QuestionInput) { in.UnlockDate, in.LockDate = "2026-04-01", "2026-03-01" }},
		{"course of another teacher", func(in *service.QuestionInput) { in.CourseID = f.tn.OtherCourse.ID }},
		{"unknown course", func(in *service.QuestionInput) { in.CourseID = 999 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := questionInput(f)
			c.mutate(&in)
			_, err := f.question.Create(f.owner(), in)
			if !errors.Is(err, util.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
		})
	}
}
