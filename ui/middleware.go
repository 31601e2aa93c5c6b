package ui

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hannaerdza/titanic-visualization/internal"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger))

	staticFS, err := fs.Sub(s.assets, "static")
	if err != nil {
		s.logger.Error("[setupMiddleware] Error creating static filesystem: %v", err)
		return
	}
	s.router.StaticFS("/static", http.FS(staticFS))
}

// requestLogger logs one line per request through the application logger
func requestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(started))
		case status >= http.StatusBadRequest:
			logger.Warn("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(started))
		default:
			logger.Debug("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path, status, time.Since(started))
		}
	}
}
