package export

import (
	"bytes"
	"encoding/csv"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"strings"
	"testing"
	"time"
)

func row(student string, correct, total int, end *time.Time) repository.ResultRow {
	return repository.ResultRow{
		Exam: model.Exam{
			StudentID:      student,
			StudentName:    "Name, with comma",
			Month:          3,
			TotalQuestions: total,
			CorrectAnswers: correct,
			Score:          model.ScorePercent(correct, total),
			StartTime:      time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC),
			EndTime:        end,
		},
		CourseName: "English",
		TimingSlot: "09:00 - 10:00",
	}
}

func TestRecordFormatting(t *testing.T) {
	loc := time.FixedZone("PKT", 5*3600)
	rec := Record(row("S9", 2, 3, nil), loc)

	if len(rec) != len(Header) {
		t.Fatalf("record has %d columns, header %d", len(rec), len(Header))
	}
	if rec[4] != "Month 3" || rec[7] != "66.67" {
		t.Errorf("month %q score %q", rec[4], rec[7])
	}
	if rec[8] != "2026-03-10 10:00:00" {
		t.Errorf("start time not in exam timezone: %q", rec[8])
	}
	if rec[9] != "" {
		t.Errorf("missing end time rendered as %q", rec[9])
	}
}

func TestFormatScoreAlwaysTwoDecimals(t *testing.T) {
	for in, want := range map[float64]string{100: "100.00", 0: "0.00", 60: "60.00", 100.0 / 3: "33.33"} {
		if got := FormatScore(in); got != want {
			t.Errorf("FormatScore(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestCSVRowCountAndQuoting(t *testing.T) {
	end := time.Date(2026, 3, 10, 5, 20, 0, 0, time.UTC)
	rows := []repository.ResultRow{row("S1", 3, 5, &end), row("S2", 5, 5, &end)}

	data, err := CSV(rows, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("records = %d", len(records))
	}
	if records[1][1] != "Name, with comma" {
		t.Errorf("name = %q", records[1][1])
	}
	if records[2][7] != "100.00" {
		t.Errorf("score = %q", records[2][7])
	}

	empty, _ := CSV(nil, time.UTC)
	if strings.Count(string(empty), "\n") != 1 {
		t.Errorf("empty export should be header only: %q", empty)
	}
}

func TestPDF(t *testing.T) {
	var rows []repository.ResultRow
	for i := 0; i < 60; i++ {
		rows = append(rows, row("S", i%5, 5, nil))
	}
	data, err := PDF("Exam Results - Month 3", rows, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("not a pdf: %q", data[:8])
	}
}

func TestFilename(t *testing.T) {
	day := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	if got := Filename(day, FormatCSV); got != "exam_results_2026-01-02.csv" {
		t.Errorf("Filename = %q", got)
	}
}
