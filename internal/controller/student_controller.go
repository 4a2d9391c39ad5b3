package controller

import (
	"errors"
	"exam_system_backend/internal/middleware"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/session"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgAlreadyAttempted = "You have already attempted this exam. Re-attempt is not allowed."
	msgNoQuestions      = "No questions available for this exam or exam is locked."
)

type StudentController struct {
	OrgService     *service.OrganizationService
	StudentService *service.StudentService
	ExamService    *service.ExamService
	Settings       *service.ExamSettings
	DefaultOrgCode string
}

func NewStudentController(orgService *service.OrganizationService, studentService *service.StudentService, examService *service.ExamService, settings *service.ExamSettings, defaultOrgCode string) *StudentController {
	return &StudentController{
		OrgService:     orgService,
		StudentService: studentService,
		ExamService:    examService,
		Settings:       settings,
		DefaultOrgCode: defaultOrgCode,
	}
}

func (c *StudentController) resolveOrg(ctx *gin.Context) (*model.Organization, bool) {
	code := strings.TrimSpace(ctx.Query("org"))
	if code == "" {
		code = c.DefaultOrgCode
	}
	org, err := c.OrgService.ResolveByCode(ctx.Request.Context(), code)
	if errors.Is(err, util.ErrOrgNotFound) {
		renderError(ctx, http.StatusNotFound, "Organization not found",
			"Invalid organization or organization is inactive.", "")
		return nil, false
	}
	if err != nil {
		fatal(ctx, err)
		return nil, false
	}
	return org, true
}

func (c *StudentController) renderLogin(ctx *gin.Context, status int, org *model.Organization, form service.StudentLoginInput, message string) {
	opts, err := c.StudentService.LoginOptions(org.ID)
	if err != nil {
		fatal(ctx, err)
		return
	}
	ctx.HTML(status, "student_login.html", gin.H{
		"Title":           "Student Login - " + org.Name,
		"Org":             org,
		"Options":         opts,
		"Form":            form,
		"Error":           message,
		"DurationMinutes": int(c.Settings.Duration().Minutes()),
	})
}

// ShowLogin GET /student/
func (c *StudentController) ShowLogin(ctx *gin.Context) {
	if _, ok := session.GetStudent(ctx); ok {
		ctx.Redirect(http.StatusFound, "/student/exam")
		return
	}
	org, ok := c.resolveOrg(ctx)
	if !ok {
		return
	}
	c.renderLogin(ctx, http.StatusOK, org, service.StudentLoginInput{}, "")
}

// Login POST /student/
func (c *StudentController) Login(ctx *gin.Context) {
	// a running exam keeps its identity, draw and start time
	if _, ok := session.GetStudent(ctx); ok {
		ctx.Redirect(http.StatusFound, "/student/exam")
		return
	}
	org, ok := c.resolveOrg(ctx)
	if !ok {
		return
	}

	var form service.StudentLoginInput
	if err := ctx.ShouldBind(&form); err != nil {
		c.renderLogin(ctx, http.StatusBadRequest, org, form, "All fields are required")
		return
	}

	ticket, err := c.StudentService.Start(org.ID, form)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.As(err, &ve):
			c.renderLogin(ctx, http.StatusBadRequest, org, form, ve.Message)
		case errors.Is(err, util.ErrAlreadyAttempted):
			c.renderLogin(ctx, http.StatusConflict, org, form, msgAlreadyAttempted)
		case errors.Is(err, util.ErrNoQuestions):
			c.renderLogin(ctx, http.StatusUnprocessableEntity, org, form, msgNoQuestions)
		default:
			fatal(ctx, err)
		}
		return
	}

	st := &session.Student{
		StudentID: ticket.StudentID,
		Name:      ticket.StudentName,
		OrgID:     ticket.OrgID,
		CourseID:  ticket.CourseID,
		TimingID:  ticket.TimingID,
		Month:     ticket.Month,
		StartedAt: ticket.StartedAt.Unix(),
	}
	if err := session.SetStudent(ctx, st); err != nil {
		fatal(ctx, fmt.Errorf("save student session: %w", err))
		return
	}
	ctx.Redirect(http.StatusFound, "/student/exam")
}

func ticketFor(st *session.Student) *service.ExamTicket {
	return &service.ExamTicket{
		StudentID:   st.StudentID,
		StudentName: st.Name,
		OrgID:       st.OrgID,
		CourseID:    st.CourseID,
		TimingID:    st.TimingID,
		Month:       st.Month,
		StartedAt:   st.StartTime(),
	}
}

// Exam GET /student/exam
func (c *StudentController) Exam(ctx *gin.Context) {
	st := middleware.CurrentStudent(ctx)
	ticket := ticketFor(st)

	ids, pinned := session.GetDraw(ctx)
	if !pinned {
		var err error
		ids, err = c.ExamService.Draw(ticket)
		if errors.Is(err, util.ErrNoQuestions) {
			renderError(ctx, http.StatusUnprocessableEntity, "Exam unavailable", "No questions available", "/student/")
			return
		}
		if err != nil {
			fatal(ctx, err)
			return
		}
		if err := session.SetDraw(ctx, ids); err != nil {
			fatal(ctx, fmt.Errorf("pin draw: %w", err))
			return
		}
	}

	now := c.ExamService.Now()
	if c.Settings.Expired(ticket.StartedAt, now) {
		ctx.Redirect(http.StatusFound, "/student/submit?timeout=1")
		return
	}

	questions, err := c.ExamService.Questions(st.OrgID, ids)
	if err != nil {
		fatal(ctx, err)
		return
	}
	if len(questions) == 0 {
		renderError(ctx, http.StatusUnprocessableEntity, "Exam unavailable", "No questions available", "/student/")
		return
	}

	ctx.HTML(http.StatusOK, "exam.html", gin.H{
		"Title":            "Exam in Progress",
		"BodyClass":        "exam-mode",
		"Student":          st,
		"Questions":        questions,
		"RemainingSeconds": int(c.Settings.Remaining(ticket.StartedAt, now).Seconds()),
	})
}

// Submit POST /student/submit, and GET /student/submit?timeout=1 from the exam page.
func (c *StudentController) Submit(ctx *gin.Context) {
	st := middleware.CurrentStudent(ctx)
	ids, ok := session.GetDraw(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, "/student/exam")
		return
	}

	answers := make(map[uint]string, len(ids))
	for _, id := range ids {
		answers[id] = ctx.PostForm("answer_" + strconv.FormatUint(uint64(id), 10))
	}
	timeout := ctx.Query("timeout") == "1" || ctx.PostForm("timeout") == "1"

	result, err := c.ExamService.Submit(ctx.Request.Context(), ticketFor(st), ids, answers, timeout)
	if err != nil {
		if errors.Is(err, util.ErrAlreadyAttempted) {
			if err := session.Clear(ctx); err != nil {
				logger.Log.Warn("clear student session",
					logger.Attempt(st.OrgID, st.StudentID, st.CourseID, st.Month), zap.Error(err))
			}
			renderError(ctx, http.StatusConflict, "Exam already submitted", msgAlreadyAttempted, "/student/")
			return
		}
		fatal(ctx, err)
		return
	}

	if err := session.Clear(ctx); err != nil {
		logger.Log.Warn("clear student session", zap.Uint("exam_id", result.ExamID), zap.Error(err))
	}
	ctx.HTML(http.StatusOK, "result.html", gin.H{
		"Title":  "Exam Submitted",
		"Result": result,
	})
}
