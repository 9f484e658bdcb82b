package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "screening/internal/errors"
)

// errorHandler renders the last handler error, mapping its category to a status.
func errorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		appErr := apperrors.ToAppError(c.Errors.Last().Err)
		logError(logger, c, appErr)
		c.JSON(appErr.HTTPStatus, gin.H{
			"error":    appErr.Message(),
			"category": appErr.Category,
			"details":  apperrors.Details(appErr),
		})
	}
}

func logError(logger *zap.Logger, c *gin.Context, err *apperrors.AppError) {
	fields := []zap.Field{
		zap.String("category", string(err.Category)),
		zap.Int("status", err.HTTPStatus),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	}
	if cause := err.Unwrap(); cause != nil {
		fields = append(fields, zap.NamedError("cause", cause))
	}
	switch err.Category {
	case apperrors.CategoryInternal:
		logger.Error(err.Message(), fields...)
	case apperrors.CategoryModelUnavailable:
		logger.Warn(err.Message(), fields...)
	default:
		logger.Info(err.Message(), fields...)
	}
}

// requestLogger replaces gin's default logger with zap.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

// apiKeyMiddleware requires X-API-Key to match key. An empty key disables the check.
func apiKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := c.GetHeader("X-API-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
