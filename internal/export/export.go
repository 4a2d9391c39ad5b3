// Package export renders exam result rows as downloadable files.
package export

import (
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"fmt"
	"time"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Header is the column order of every export.
var Header = []string{
	"Student ID", "Student Name", "Course", "Timing", "Month",
	"Total Questions", "Correct Answers", "Score (%)", "Start Time", "End Time",
}

// Filename is exam_results_YYYY-MM-DD.<ext> for the given day.
func Filename(day time.Time, format string) string {
	return fmt.Sprintf("exam_results_%s.%s", day.Format(util.DateFormat), format)
}

func MonthLabel(m int) string {
	return fmt.Sprintf("Month %d", m)
}

// FormatScore always prints two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

func formatTime(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format(util.TimeFormat)
}

// Record flattens one result into Header order.
func Record(r repository.ResultRow, loc *time.Location) []string {
	start := r.StartTime
	return []string{
		r.StudentID,
		r.StudentName,
		r.CourseName,
		r.TimingSlot,
		MonthLabel(r.Month),
		fmt.Sprintf("%d", r.TotalQuestions),
		fmt.Sprintf("%d", r.CorrectAnswers),
		FormatScore(r.Score),
		formatTime(&start, loc),
		formatTime(r.EndTime, loc),
	}
}
