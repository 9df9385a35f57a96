package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pca-portal/backend/internal/api/session"
)

// HealthPath liveness route; logged at debug level
const HealthPath = "/health"

// Logger access log. Runs outside the session middleware, so the signed-in
// login is read after the handler chain returns.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", loggedPath(c)),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if id := session.Identity(c); id != nil {
			fields = append(fields, zap.String("login", id.Login))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.Strings("errors", errs.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("falha ao processar requisição", fields...)
		case status == http.StatusUnauthorized, status == http.StatusForbidden, status == http.StatusTooManyRequests:
			logger.Warn("acesso recusado", fields...)
		case status >= http.StatusBadRequest:
			logger.Info("requisição rejeitada", fields...)
		case c.FullPath() == HealthPath:
			logger.Debug("verificação de saúde", fields...)
		default:
			logger.Info("requisição concluída", fields...)
		}
	}
}

// loggedPath logs the route template instead of the path when the path
// carries a recovery token
func loggedPath(c *gin.Context) string {
	if route := c.FullPath(); strings.Contains(route, ":token") {
		return route
	}
	return c.Request.URL.Path
}
