package service

import (
	"exam_system_backend/internal/config"
	"exam_system_backend/internal/util"
	"sync"
	"time"
)

// ExamSettings holds the exam knobs that may change on config reload.
type ExamSettings struct {
	mu         sync.RWMutex
	duration   time.Duration
	monthCount int
	loc        *time.Location
}

func NewExamSettings(cfg config.ExamConfig) *ExamSettings {
	s := &ExamSettings{}
	s.Apply(cfg)
	return s
}

func (s *ExamSettings) Apply(cfg config.ExamConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duration = cfg.Duration
	s.monthCount = cfg.MonthCount
	s.loc = cfg.Location()
}

func (s *ExamSettings) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.duration
}

func (s *ExamSettings) MonthCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.monthCount
}

func (s *ExamSettings) Location() *time.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loc
}

func (s *ExamSettings) Months() []int {
	n := s.MonthCount()
	months := make([]int, n)
	for i := range months {
		months[i] = i + 1
	}
	return months
}

func (s *ExamSettings) ValidMonth(m int) bool {
	return m >= 1 && m <= s.MonthCount()
}

// Day is the calendar date of t in the exam timezone, YYYY-MM-DD.
func (s *ExamSettings) Day(t time.Time) string {
	return t.In(s.Location()).Format(util.DateFormat)
}

// Remaining is the time left on an exam started at start; never negative.
func (s *ExamSettings) Remaining(start, now time.Time) time.Duration {
	left := s.Duration() - now.Sub(start)
	if left < 0 {
		return 0
	}
	return left
}

func (s *ExamSettings) Expired(start, now time.Time) bool {
	return now.Sub(start) > s.Duration()
}
