package controller

import (
	"exam_system_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// renderError shows the inline error page.
func renderError(ctx *gin.Context, status int, title, message, back string) {
	ctx.HTML(status, "error.html", gin.H{
		"Title": title,
		"Error": message,
		"Back":  back,
	})
}

// fatal logs err and answers with a bare 500 page.
func fatal(ctx *gin.Context, err error) {
	logger.Log.Error("request failed",
		zap.String("path", ctx.Request.URL.Path),
		zap.Error(err))
	ctx.String(http.StatusInternalServerError, "Internal server error")
}
