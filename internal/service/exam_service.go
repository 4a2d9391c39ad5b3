package service

import (
	"context"
	"errors"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/repository"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"exam_system_backend/pkg/monitoring"
	"exam_system_backend/pkg/tracing"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExamOption is one answer choice shown to the student.
type ExamOption struct {
	Letter string
	Text   string
}

// ExamQuestion is a question as delivered; it never carries the correct answer.
type ExamQuestion struct {
	ID      uint
	Text    string
	Options []ExamOption
}

// SubmitResult is what the student sees after grading.
type SubmitResult struct {
	ExamID      uint
	StudentName string
	Total       int
	Correct     int
	Score       float64
	Grade       string
	TimedOut    bool
}

type ExamService struct {
	DB           *gorm.DB
	QuestionRepo *repository.QuestionRepository
	ExamRepo     *repository.ExamRepository
	Settings     *ExamSettings
	Now          func() time.Time
	Shuffle      func(n int, swap func(i, j int))
}

func NewExamService(db *gorm.DB, questionRepo *repository.QuestionRepository, examRepo *repository.ExamRepository, settings *ExamSettings) *ExamService {
	return &ExamService{
		DB:           db,
		QuestionRepo: questionRepo,
		ExamRepo:     examRepo,
		Settings:     settings,
		Now:          time.Now,
		Shuffle:      rand.Shuffle,
	}
}

// Draw picks every currently unlocked question of the pool in random order.
// The caller pins the result so later page loads reuse it.
func (s *ExamService) Draw(t *ExamTicket) ([]uint, error) {
	day := s.Settings.Day(s.Now())
	ids, err := s.QuestionRepo.ListAvailableIDs(t.OrgID, t.CourseID, t.Month, day)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	if len(ids) == 0 {
		return nil, util.ErrNoQuestions
	}
	s.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids, nil
}

// Questions loads the pinned draw in pinned order. Questions deleted since
// the draw are left out of the page but still graded as unanswered.
func (s *ExamService) Questions(orgID uint, ids []uint) ([]ExamQuestion, error) {
	bank, err := s.QuestionRepo.FindByIDs(orgID, ids)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	out := make([]ExamQuestion, 0, len(ids))
	for _, id := range ids {
		q, ok := bank[id]
		if !ok {
			continue
		}
		eq := ExamQuestion{ID: q.ID, Text: q.Text}
		for _, l := range model.AnswerLetters {
			eq.Options = append(eq.Options, ExamOption{Letter: l, Text: q.Option(l)})
		}
		out = append(out, eq)
	}
	return out, nil
}

// NormalizeAnswer keeps A-D (case-insensitive) and drops everything else.
func NormalizeAnswer(raw string) *string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	if !model.IsAnswerLetter(v) {
		return nil
	}
	return &v
}

// Submit grades the pinned draw against the posted answers in a single
// transaction: the exam row, one answer row per question and the final
// score commit together or not at all. timeout only gets recorded.
func (s *ExamService) Submit(ctx context.Context, t *ExamTicket, ids []uint, answers map[uint]string, timeout bool) (*SubmitResult, error) {
	if len(ids) == 0 {
		return nil, util.ErrExamNotStarted
	}

	ctx, span := tracing.StartSpan(ctx, "exam.submit",
		attribute.Int("exam.questions", len(ids)),
		attribute.Bool("exam.timeout", timeout))
	defer span.End()

	now := s.Now()
	timedOut := timeout || s.Settings.Expired(t.StartedAt, now)
	result := &SubmitResult{StudentName: t.StudentName, TimedOut: timedOut}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exams := s.ExamRepo.WithTx(tx)
		questions := s.QuestionRepo.WithTx(tx)

		exists, err := exams.ExistsAttempt(t.OrgID, t.StudentID, t.CourseID, t.Month)
		if err != nil {
			return err
		}
		if exists {
			return util.ErrAlreadyAttempted
		}

		exam := &model.Exam{
			OrgID:       t.OrgID,
			StudentID:   t.StudentID,
			StudentName: t.StudentName,
			CourseID:    t.CourseID,
			TimingID:    t.TimingID,
			Month:       t.Month,
			Status:      model.ExamStatusCompleted,
			StartTime:   t.StartedAt,
		}
		if err := exams.Create(exam); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return util.ErrAlreadyAttempted
			}
			return err
		}

		bank, err := questions.FindByIDs(t.OrgID, ids)
		if err != nil {
			return err
		}

		seen := make(map[uint]bool, len(ids))
		rows := make([]model.ExamAnswer, 0, len(ids))
		correct := 0
		for _, qid := range ids {
			if seen[qid] {
				continue
			}
			seen[qid] = true

			selected := NormalizeAnswer(answers[qid])
			q, ok := bank[qid]
			isCorrect := ok && selected != nil && *selected == q.CorrectAnswer
			if isCorrect {
				correct++
			}
			rows = append(rows, model.ExamAnswer{
				ExamID:         exam.ID,
				QuestionID:     qid,
				SelectedAnswer: selected,
				IsCorrect:      isCorrect,
			})
		}

		if err := exams.CreateAnswers(rows); err != nil {
			return err
		}

		total := len(rows)
		score := model.ScorePercent(correct, total)
		if err := exams.UpdateResult(exam.ID, total, correct, score, now, timedOut); err != nil {
			return err
		}

		result.ExamID = exam.ID
		result.Total = total
		result.Correct = correct
		result.Score = score
		result.Grade = model.Grade(score)
		return nil
	})

	if err != nil {
		if errors.Is(err, util.ErrAlreadyAttempted) {
			monitoring.ExamSubmissions.WithLabelValues("duplicate").Inc()
			logger.Log.Warn("duplicate exam attempt rejected",
				logger.Attempt(t.OrgID, t.StudentID, t.CourseID, t.Month))
			return nil, err
		}
		monitoring.ExamSubmissions.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("submit exam: %w", err)
	}

	monitoring.ExamSubmissions.WithLabelValues("completed").Inc()
	monitoring.ExamScores.Observe(result.Score)
	logger.Log.Info("exam submitted",
		zap.Uint("exam_id", result.ExamID),
		logger.Attempt(t.OrgID, t.StudentID, t.CourseID, t.Month),
		zap.Int("total", result.Total),
		zap.Int("correct", result.Correct),
		zap.Float64("score", result.Score),
		zap.Bool("timed_out", timedOut))

	return result, nil
}
