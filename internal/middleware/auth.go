package middleware

import (
	"exam_system_backend/internal/session"
	"exam_system_backend/internal/util"
	"exam_system_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	StudentKey = "student"
	TeacherKey = "teacher"
)

// AuthMiddleware guards the JSON API with a bearer token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, secret)
		if err != nil {
			logger.Log.Debug("rejected api token", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// RequireStudent sends visitors without a student session back to the login page.
func RequireStudent() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := session.GetStudent(c)
		if !ok {
			c.Redirect(http.StatusFound, "/student/")
			c.Abort()
			return
		}
		c.Set(StudentKey, st)
		c.Next()
	}
}

// RequireTeacher sends visitors without a teacher session back to the login page.
func RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, ok := session.GetTeacher(c)
		if !ok {
			c.Redirect(http.StatusFound, "/teacher/")
			c.Abort()
			return
		}
		c.Set(TeacherKey, t)
		c.Next()
	}
}

func CurrentStudent(c *gin.Context) *session.Student {
	v, ok := c.Get(StudentKey)
	if !ok {
		return nil
	}
	st, _ := v.(*session.Student)
	return st
}

func CurrentTeacher(c *gin.Context) *session.Teacher {
	v, ok := c.Get(TeacherKey)
	if !ok {
		return nil
	}
	t, _ := v.(*session.Teacher)
	return t
}
