package app

import (
	"exam_system_backend/internal/config"
	"exam_system_backend/internal/middleware"
	"exam_system_backend/internal/web"
	"exam_system_backend/pkg/monitoring"
	"exam_system_backend/pkg/security"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, store sessions.Store, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())
	router.StaticFS("/static", web.Static())
	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/student/")
	})

	loginLimiter := security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute)
	sessionMW := sessionMiddleware(cfg, store)

	// 1. Student pages
	a.registerStudentRoutes(router, c, sessionMW, loginLimiter)

	// 2. Teacher pages
	a.registerTeacherRoutes(router, c, sessionMW, loginLimiter)

	// 3. JSON API
	a.registerAPIRoutes(router, c, loginLimiter, cfg)
}

func (a *App) registerStudentRoutes(router *gin.Engine, c *controllers, sessionMW, loginLimiter gin.HandlerFunc) {
	student := router.Group("/student", security.NoStore(), sessionMW)
	{
		student.GET("/", c.student.ShowLogin)
		student.POST("/", loginLimiter, c.student.Login)

		exam := student.Group("/")
		exam.Use(middleware.RequireStudent())
		{
			exam.GET("/exam", c.student.Exam)
			exam.POST("/submit", c.student.Submit)
			exam.GET("/submit", c.student.Submit)
		}
	}
}

func (a *App) registerTeacherRoutes(router *gin.Engine, c *controllers, sessionMW, loginLimiter gin.HandlerFunc) {
	teacher := router.Group("/teacher", security.NoStore(), sessionMW)
	{
		teacher.GET("/", c.teacher.ShowLogin)
		teacher.POST("/", loginLimiter, c.teacher.Login)
		teacher.GET("/logout", c.teacher.Logout)

		authorized := teacher.Group("/")
		authorized.Use(middleware.RequireTeacher())
		{
			authorized.GET("/dashboard", c.teacher.Dashboard)
			authorized.GET("/questions", c.question.Page)
			authorized.POST("/questions", c.question.Action)
			authorized.GET("/results", c.result.Page)
			authorized.GET("/results/export", c.result.Export)
		}
	}
}

func (a *App) registerAPIRoutes(router *gin.Engine, c *controllers, loginLimiter gin.HandlerFunc, cfg *config.Config) {
	api := router.Group("/api", security.CORS(cfg.CORS.AllowedOrigins))
	{
		api.OPTIONS("/*path", func(ctx *gin.Context) { ctx.Status(http.StatusNoContent) })
		api.GET("/health", c.health.HealthCheck)
		api.POST("/teacher/login", loginLimiter, c.api.Login)

		authorized := api.Group("/teacher")
		authorized.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
		{
			authorized.GET("/dashboard", c.api.Dashboard)
			authorized.GET("/questions", c.api.ListQuestions)
			authorized.POST("/questions", c.api.CreateQuestion)
			authorized.PUT("/questions/:id", c.api.UpdateQuestion)
			authorized.DELETE("/questions/:id", c.api.DeleteQuestion)
			authorized.GET("/results", c.api.Results)
			authorized.GET("/results/export", c.api.ExportResults)
		}
	}
}
