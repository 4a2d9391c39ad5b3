package service

import (
	"context"
	"exam_system_backend/internal/export"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"exam_system_backend/pkg/tracing"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResultQuery is the optional month/course filter of the results page.
type ResultQuery struct {
	Month    int    `form:"month" json:"month"`
	CourseID uint   `form:"course_id" json:"courseId"`
	Format   string `form:"format" json:"format"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type ResultService struct {
	ExamRepo *repository.ExamRepository
	Storage  *StorageService
	Settings *ExamSettings
	Now      func() time.Time
}

func NewResultService(examRepo *repository.ExamRepository, storage *StorageService, settings *ExamSettings) *ResultService {
	return &ResultService{
		ExamRepo: examRepo,
		Storage:  storage,
		Settings: settings,
		Now:      time.Now,
	}
}

func (s *ResultService) List(o Owner, q ResultQuery) ([]repository.ResultRow, error) {
	if q.Month != 0 && !s.Settings.ValidMonth(q.Month) {
		return nil, util.NewValidationError("Invalid month selected")
	}
	rows, err := s.ExamRepo.ListResults(repository.ResultFilter{
		OrgID:     o.OrgID,
		TeacherID: o.TeacherID,
		Month:     q.Month,
		CourseID:  q.CourseID,
	})
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return rows, nil
}

// Export renders the filtered results as CSV (default) or PDF and archives
// a copy. Archive failures are logged only.
func (s *ResultService) Export(ctx context.Context, o Owner, q ResultQuery) (*ExportFile, error) {
	format := strings.ToLower(strings.TrimSpace(q.Format))
	if format == "" {
		format = export.FormatCSV
	}
	if format != export.FormatCSV && format != export.FormatPDF {
		return nil, util.NewValidationError("Unsupported export format")
	}

	ctx, span := tracing.StartSpan(ctx, "results.export", attribute.String("export.format", format))
	defer span.End()

	rows, err := s.List(o, q)
	if err != nil {
		return nil, err
	}

	loc := s.Settings.Location()
	now := s.Now().In(loc)
	file := &ExportFile{Filename: export.Filename(now, format), Rows: len(rows)}

	switch format {
	case export.FormatPDF:
		title := "Exam Results"
		if q.Month > 0 {
			title += " - " + export.MonthLabel(q.Month)
		}
		file.ContentType = util.MimePDF
		file.Data, err = export.PDF(title, rows, loc)
	default:
		file.ContentType = util.MimeCSV
		file.Data, err = export.CSV(rows, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s export: %w", format, err)
	}

	s.archive(ctx, o, format, file)
	return file, nil
}

func (s *ResultService) archive(ctx context.Context, o Owner, format string, file *ExportFile) {
	if !s.Storage.Enabled() {
		return
	}
	key := fmt.Sprintf("exports/%d/%d/%s.%s", o.OrgID, o.TeacherID, model.GenerateUUID(), format)
	location, err := s.Storage.Archive(ctx, key, file.Data, file.ContentType)
	if err != nil {
		logger.Log.Warn("export archive failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Log.Info("export archived",
		zap.Uint("org_id", o.OrgID),
		zap.Uint("teacher_id", o.TeacherID),
		zap.String("location", location),
		zap.Int("rows", file.Rows))
}
