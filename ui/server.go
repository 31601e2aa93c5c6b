package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/dashboard"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
	"github.com/hannaerdza/titanic-visualization/ports"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
	sweepInterval     = time.Minute
)

// ServerConfig carries the settings the web server needs
type ServerConfig struct {
	MaxUploadBytes     int64
	DefaultRowsPerPage int
	SessionTTL         time.Duration
}

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	templates *template.Template
	assets    embed.FS
	api       ports.PassengerAPI
	sessions  *SessionRegistry
	metrics   *metrics.Metrics
	logger    *internal.Logger
	config    ServerConfig
}

// NewServer creates the web server and parses its templates
func NewServer(api ports.PassengerAPI, config ServerConfig, m *metrics.Metrics, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &Server{
		router:  gin.New(),
		assets:  Assets,
		api:     api,
		metrics: m,
		logger:  logger,
		config:  config,
	}
	s.sessions = NewSessionRegistry(s.newStore, config.SessionTTL, m)

	templatesFS, err := fs.Sub(s.assets, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	s.templates, err = template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html", "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.logger.Debug("[TemplateInit] loaded templates: %s", s.templates.DefinedTemplates())

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) newStore() *dashboard.Store {
	return dashboard.NewStore(s.api,
		dashboard.WithMetrics(s.metrics),
		dashboard.WithLogger(s.logger),
		dashboard.WithRowsPerPage(s.config.DefaultRowsPerPage),
	)
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	page := s.router.Group("/", s.sessionMiddleware())
	page.GET("/", s.handleIndex)

	page.GET("/passengers", s.handlePassengers)
	page.POST("/passengers/filters", s.handleChangeFilter)
	page.POST("/passengers/filters/reset", s.handleResetFilters)
	page.POST("/passengers/page", s.handleSetPage)
	page.POST("/passengers/rows-per-page", s.handleSetRowsPerPage)

	page.GET("/statistics", s.handleStatistics)
	page.POST("/upload", s.handleUpload)
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.sessions.Run(ctx, sweepInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server] dashboard listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("[Server] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
