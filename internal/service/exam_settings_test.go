package service

import (
	"exam_system_backend/internal/config"
	"testing"
	"time"
)

func TestExamSettingsTiming(t *testing.T) {
	s := NewExamSettings(config.ExamConfig{Duration: 30 * time.Minute, MonthCount: 4, Timezone: "UTC"})
	start := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	if got := s.Remaining(start, start.Add(10*time.Minute)); got != 20*time.Minute {
		t.Errorf("Remaining = %s", got)
	}
	if got := s.Remaining(start, start.Add(time.Hour)); got != 0 {
		t.Errorf("Remaining after expiry = %s", got)
	}
	if s.Expired(start, start.Add(30*time.Minute)) {
		t.Error("exactly at the limit is not expired")
	}
	if !s.Expired(start, start.Add(30*time.Minute+time.Second)) {
		t.Error("past the limit should be expired")
	}
}

func TestExamSettingsApply(t *testing.T) {
	s := NewExamSettings(config.ExamConfig{Duration: time.Minute, MonthCount: 4, Timezone: "UTC"})
	if !s.ValidMonth(4) || s.ValidMonth(5) || s.ValidMonth(0) {
		t.Fatal("month range wrong before reload")
	}

	s.Apply(config.ExamConfig{Duration: 2 * time.Minute, MonthCount: 6, Timezone: "UTC"})
	if s.Duration() != 2*time.Minute || !s.ValidMonth(6) || len(s.Months()) != 6 {
		t.Fatalf("reload not applied: %s %v", s.Duration(), s.Months())
	}
}

func TestExamSettingsDayUsesTimezone(t *testing.T) {
	loc := time.FixedZone("PKT", 5*3600)
	s := &ExamSettings{duration: time.Minute, monthCount: 4, loc: loc}

	// 21:00 UTC on the 9th is already the 10th at UTC+5.
	if got := s.Day(time.Date(2026, 3, 9, 21, 0, 0, 0, time.UTC)); got != "2026-03-10" {
		t.Errorf("Day = %s, want 2026-03-10", got)
	}
}
