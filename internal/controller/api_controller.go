package controller

import (
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// APIController is the bearer-token JSON surface of the teacher portal.
type APIController struct {
	AuthService      *service.AuthService
	DashboardService *service.DashboardService
	QuestionService  *service.QuestionService
	ResultService    *service.ResultService
}

func NewAPIController(authService *service.AuthService, dashboardService *service.DashboardService, questionService *service.QuestionService, resultService *service.ResultService) *APIController {
	return &APIController{
		AuthService:      authService,
		DashboardService: dashboardService,
		QuestionService:  questionService,
		ResultService:    resultService,
	}
}

func apiOwner(ctx *gin.Context) (service.Owner, bool) {
	claims := util.GetClaimsFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return service.Owner{}, false
	}
	return service.Owner{OrgID: claims.OrgID, TeacherID: claims.TeacherID}, true
}

func idParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// Login POST /api/teacher/login
func (c *APIController) Login(ctx *gin.Context) {
	var in service.LoginInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}

	teacher, err := c.AuthService.Login(in)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	token, err := c.AuthService.IssueToken(teacher)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"teacher": gin.H{
			"id":       teacher.ID,
			"username": teacher.Username,
			"fullName": teacher.FullName,
			"orgId":    teacher.OrgID,
			"orgName":  teacher.OrgName,
		},
	})
}

// Dashboard GET /api/teacher/dashboard
func (c *APIController) Dashboard(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	stats, err := c.DashboardService.Stats(owner)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// ListQuestions GET /api/teacher/questions
func (c *APIController) ListQuestions(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	questions, err := c.QuestionService.List(owner)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// CreateQuestion POST /api/teacher/questions
func (c *APIController) CreateQuestion(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	q, err := c.QuestionService.Create(owner, in)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Created(ctx, q)
}

// UpdateQuestion PUT /api/teacher/questions/:id
func (c *APIController) UpdateQuestion(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx)
	if !ok {
		return
	}
	var in service.QuestionInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "invalid request body")
		return
	}
	q, err := c.QuestionService.Update(owner, id, in)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, q)
}

// DeleteQuestion DELETE /api/teacher/questions/:id
func (c *APIController) DeleteQuestion(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	id, ok := idParam(ctx)
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(owner, id); err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": id})
}

// Results GET /api/teacher/results
func (c *APIController) Results(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	var q service.ResultQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, "invalid filter")
		return
	}
	rows, err := c.ResultService.List(owner, q)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// ExportResults GET /api/teacher/results/export
func (c *APIController) ExportResults(ctx *gin.Context) {
	owner, ok := apiOwner(ctx)
	if !ok {
		return
	}
	var q service.ResultQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, "invalid filter")
		return
	}
	file, err := c.ResultService.Export(ctx.Request.Context(), owner, q)
	if err != nil {
		util.FromError(ctx, err)
		return
	}
	sendFile(ctx, file)
}
