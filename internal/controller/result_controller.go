package controller

import (
	"errors"
	"exam_system_backend/internal/middleware"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResultController struct {
	ResultService   *service.ResultService
	QuestionService *service.QuestionService
	Settings        *service.ExamSettings
}

func NewResultController(resultService *service.ResultService, questionService *service.QuestionService, settings *service.ExamSettings) *ResultController {
	return &ResultController{
		ResultService:   resultService,
		QuestionService: questionService,
		Settings:        settings,
	}
}

// Page GET /teacher/results[?month=N&course_id=C]
func (c *ResultController) Page(ctx *gin.Context) {
	t := middleware.CurrentTeacher(ctx)
	owner := ownerOf(t)

	var q service.ResultQuery
	status := http.StatusOK
	message := ""
	if err := ctx.ShouldBindQuery(&q); err != nil {
		q = service.ResultQuery{}
	}

	rows, err := c.ResultService.List(owner, q)
	var ve *util.ValidationError
	if errors.As(err, &ve) {
		status, message = http.StatusBadRequest, ve.Message
		q = service.ResultQuery{}
		rows, err = c.ResultService.List(owner, q)
	}
	if err != nil {
		fatal(ctx, err)
		return
	}

	courses, err := c.QuestionService.Courses(owner)
	if err != nil {
		fatal(ctx, err)
		return
	}

	ctx.HTML(status, "results.html", gin.H{
		"Title":   "Exam Results",
		"Teacher": t,
		"Results": rows,
		"Courses": courses,
		"Months":  c.Settings.Months(),
		"Query":   q,
		"Error":   message,
	})
}

// Export GET /teacher/results/export?month=N[&course_id=C][&format=csv|pdf]
func (c *ResultController) Export(ctx *gin.Context) {
	owner := ownerOf(middleware.CurrentTeacher(ctx))

	var q service.ResultQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		ctx.String(http.StatusBadRequest, "Invalid filter")
		return
	}

	file, err := c.ResultService.Export(ctx.Request.Context(), owner, q)
	if err != nil {
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			ctx.String(http.StatusBadRequest, ve.Message)
			return
		}
		fatal(ctx, err)
		return
	}
	sendFile(ctx, file)
}

func sendFile(ctx *gin.Context, file *service.ExportFile) {
	ctx.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
