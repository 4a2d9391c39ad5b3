package controller

import (
	"errors"
	"exam_system_backend/internal/middleware"
	"exam_system_backend/internal/service"
	"exam_system_backend/internal/session"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const msgInvalidCredentials = "Invalid username or password"

type TeacherController struct {
	AuthService      *service.AuthService
	DashboardService *service.DashboardService
}

func NewTeacherController(authService *service.AuthService, dashboardService *service.DashboardService) *TeacherController {
	return &TeacherController{
		AuthService:      authService,
		DashboardService: dashboardService,
	}
}

func ownerOf(t *session.Teacher) service.Owner {
	return service.Owner{OrgID: t.OrgID, TeacherID: t.TeacherID}
}

func (c *TeacherController) renderLogin(ctx *gin.Context, status int, username, message string) {
	ctx.HTML(status, "teacher_login.html", gin.H{
		"Title":    "Teacher Login",
		"Username": username,
		"Error":    message,
	})
}

// ShowLogin GET /teacher/
func (c *TeacherController) ShowLogin(ctx *gin.Context) {
	if _, ok := session.GetTeacher(ctx); ok {
		ctx.Redirect(http.StatusFound, "/teacher/dashboard")
		return
	}
	c.renderLogin(ctx, http.StatusOK, "", "")
}

// Login POST /teacher/
func (c *TeacherController) Login(ctx *gin.Context) {
	var in service.LoginInput
	_ = ctx.ShouldBind(&in)

	teacher, err := c.AuthService.Login(in)
	if err != nil {
		var ve *util.ValidationError
		switch {
		case errors.As(err, &ve):
			c.renderLogin(ctx, http.StatusBadRequest, in.Username, ve.Message)
		case errors.Is(err, util.ErrInvalidCredentials):
			logger.Log.Info("teacher login failed", zap.String("username", in.Username), zap.String("ip", ctx.ClientIP()))
			c.renderLogin(ctx, http.StatusOK, in.Username, msgInvalidCredentials)
		default:
			fatal(ctx, err)
		}
		return
	}

	err = session.SetTeacher(ctx, &session.Teacher{
		TeacherID: teacher.ID,
		FullName:  teacher.FullName,
		OrgID:     teacher.OrgID,
		OrgName:   teacher.OrgName,
	})
	if err != nil {
		fatal(ctx, fmt.Errorf("save teacher session: %w", err))
		return
	}
	ctx.Redirect(http.StatusFound, "/teacher/dashboard")
}

// Logout GET /teacher/logout
func (c *TeacherController) Logout(ctx *gin.Context) {
	if err := session.Clear(ctx); err != nil {
		logger.Log.Warn("clear teacher session", zap.Error(err))
	}
	ctx.Redirect(http.StatusFound, "/teacher/")
}

// Dashboard GET /teacher/dashboard
func (c *TeacherController) Dashboard(ctx *gin.Context) {
	t := middleware.CurrentTeacher(ctx)
	stats, err := c.DashboardService.Stats(ownerOf(t))
	if err != nil {
		fatal(ctx, err)
		return
	}
	ctx.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Title":   "Dashboard",
		"Teacher": t,
		"Stats":   stats,
	})
}
