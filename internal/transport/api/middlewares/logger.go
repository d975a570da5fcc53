package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет в лог каждый запрос: метод, путь, статус и длительность. Приватные ошибки запроса
// попадают в лог, но не клиенту.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			"clientIP": c.ClientIP(),
		}
		if userID, ok := c.Get(CurrentUserIDKey); ok {
			fields["userID"] = userID
		}
		reqLog := entry.WithFields(fields)

		switch {
		case c.Writer.Status() >= 500: //nolint:mnd
			reqLog.WithField("errors", c.Errors.String()).Error("request failed")
		case len(c.Errors) > 0:
			reqLog.WithField("errors", c.Errors.String()).Warn("request rejected")
		default:
			reqLog.Info("request")
		}
	}
}
