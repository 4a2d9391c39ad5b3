package controller

import (
	"errors"
	"exam_system_backend/internal/middleware"
	"exam_system_backend/internal/model"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	Settings        *service.ExamSettings
}

func NewQuestionController(questionService *service.QuestionService, settings *service.ExamSettings) *QuestionController {
	return &QuestionController{QuestionService: questionService, Settings: settings}
}

type questionPage struct {
	status  int
	form    service.QuestionInput
	editing uint
	success string
	err     string
}

func formFor(q *model.Question) service.QuestionInput {
	in := service.QuestionInput{
		CourseID:      q.CourseID,
		Month:         q.Month,
		Text:          q.Text,
		OptionA:       q.OptionA,
		OptionB:       q.OptionB,
		OptionC:       q.OptionC,
		OptionD:       q.OptionD,
		CorrectAnswer: q.CorrectAnswer,
	}
	if q.UnlockDate != nil {
		in.UnlockDate = *q.UnlockDate
	}
	if q.LockDate != nil {
		in.LockDate = *q.LockDate
	}
	return in
}

func (c *QuestionController) render(ctx *gin.Context, p questionPage) {
	t := middleware.CurrentTeacher(ctx)
	owner := ownerOf(t)

	questions, err := c.QuestionService.List(owner)
	if err != nil {
		fatal(ctx, err)
		return
	}
	courses, err := c.QuestionService.Courses(owner)
	if err != nil {
		fatal(ctx, err)
		return
	}
	if p.status == 0 {
		p.status = http.StatusOK
	}
	ctx.HTML(p.status, "questions.html", gin.H{
		"Title":     "Manage Questions",
		"Teacher":   t,
		"Questions": questions,
		"Courses":   courses,
		"Months":    c.Settings.Months(),
		"Letters":   model.AnswerLetters,
		"Form":      p.form,
		"Editing":   p.editing,
		"Success":   p.success,
		"Error":     p.err,
	})
}

// Page GET /teacher/questions[?edit=ID]
func (c *QuestionController) Page(ctx *gin.Context) {
	p := questionPage{form: service.QuestionInput{Month: 1}}
	if raw := ctx.Query("edit"); raw != "" {
		id, _ := strconv.ParseUint(raw, 10, 64)
		q, err := c.QuestionService.Get(ownerOf(middleware.CurrentTeacher(ctx)), uint(id))
		switch {
		case err == nil:
			p.form = formFor(q)
			p.editing = q.ID
		case errors.Is(err, util.ErrQuestionNotFound):
			p.status = http.StatusNotFound
			p.err = "Question not found"
		default:
			fatal(ctx, err)
			return
		}
	}
	c.render(ctx, p)
}

// Action POST /teacher/questions with action=add|edit|delete.
func (c *QuestionController) Action(ctx *gin.Context) {
	owner := ownerOf(middleware.CurrentTeacher(ctx))
	id, _ := strconv.ParseUint(ctx.PostForm("id"), 10, 64)

	var in service.QuestionInput
	var err error
	var success string

	switch ctx.PostForm("action") {
	case "add":
		if err = ctx.ShouldBind(&in); err != nil {
			err = util.NewValidationError("Invalid form input")
			break
		}
		_, err = c.QuestionService.Create(owner, in)
		success = "Question added successfully"
	case "edit":
		if err = ctx.ShouldBind(&in); err != nil {
			err = util.NewValidationError("Invalid form input")
			break
		}
		_, err = c.QuestionService.Update(owner, uint(id), in)
		success = "Question updated successfully"
	case "delete":
		err = c.QuestionService.Delete(owner, uint(id))
		success = "Question deleted successfully"
	default:
		err = util.NewValidationError("Unknown action")
	}

	if err == nil {
		c.render(ctx, questionPage{form: service.QuestionInput{Month: 1}, success: success})
		return
	}

	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		p := questionPage{status: http.StatusBadRequest, form: in, err: ve.Message}
		if ctx.PostForm("action") == "edit" {
			p.editing = uint(id)
		}
		c.render(ctx, p)
	case errors.Is(err, util.ErrQuestionNotFound):
		c.render(ctx, questionPage{status: http.StatusNotFound, form: service.QuestionInput{Month: 1}, err: "Question not found"})
	default:
		fatal(ctx, err)
	}
}
