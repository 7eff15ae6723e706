package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/anmol3478/podverification/internal/config"
	"github.com/anmol3478/podverification/internal/dataset"
	"github.com/anmol3478/podverification/internal/faults"
	"github.com/anmol3478/podverification/internal/fonts"
	"github.com/anmol3478/podverification/internal/imagesource"
	"github.com/anmol3478/podverification/internal/logging"
	"github.com/anmol3478/podverification/internal/report"
	"github.com/anmol3478/podverification/internal/viewer"
)

const component = "server"

// Options collects the dependencies the dashboard serves from.
type Options struct {
	Config *config.Config
	Table  *dataset.Table
	Loader *imagesource.Loader
	Face   fonts.Face
	Store  *report.Store
	Logger *slog.Logger
}

// Server exposes the review dashboard and its JSON API over HTTP. A file lock
// under the reports directory enforces a single dashboard per report store.
type Server struct {
	cfg     *config.Config
	table   *dataset.Table
	loader  *imagesource.Loader
	face    fonts.Face
	store   *report.Store
	session *viewer.Session
	logger  *slog.Logger

	router   *gin.Engine
	lockPath string
	lock     *flock.Flock

	listener net.Listener
	http     *http.Server
}

// New assembles the dashboard routes around the loaded dataset.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Table == nil {
		return nil, errors.New("server requires config and dataset")
	}
	loader := opts.Loader
	if loader == nil {
		loader = imagesource.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(opts.Config.Reports.Dir, "serve.lock")
	srv := &Server{
		cfg:      opts.Config,
		table:    opts.Table,
		loader:   loader,
		face:     opts.Face,
		store:    opts.Store,
		session:  viewer.NewSession(opts.Table, opts.Config.Scoring.Threshold),
		logger:   logger,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(srv.requestLogger(), gin.Recovery())
	srv.registerRoutes(router)
	srv.router = router

	srv.http = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/", s.handleHome)
	router.GET("/healthz", s.handleHealthz)

	api := router.Group("/api")
	{
		api.GET("/dataset", s.handleDataset)
		api.GET("/rows/:index", s.handleRow)
		api.GET("/rows/:index/image", s.handleRowImage)
		api.GET("/rows/:index/annotated", s.handleRowAnnotated)
		api.GET("/stats", s.handleStats)

		api.GET("/session", s.handleSession)
		session := api.Group("/session")
		{
			session.POST("/next", s.handleSessionNext)
			session.POST("/previous", s.handleSessionPrevious)
			session.POST("/select", s.handleSessionSelect)
			session.POST("/mode", s.handleSessionMode)
			session.POST("/threshold", s.handleSessionThreshold)
		}
	}
}

// Handler exposes the route tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start acquires the dashboard lock and begins serving until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire serve lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another podverify dashboard is already running (lock %s)", s.lockPath)
	}

	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Bind, err)
	}
	s.listener = listener

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("dashboard server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.log().Info("dashboard listening",
		"address", listener.Addr().String(),
		"dataset", s.table.Path,
		"rows", s.table.RowCount())
	return nil
}

// Addr reports the bound address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the dashboard lock.
func (s *Server) Stop() {
	if s.http != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	if err := s.lock.Unlock(); err != nil {
		s.log().Warn("failed to release serve lock", "error", err)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.NewString()[:8]
		c.Request = c.Request.WithContext(faults.WithRequestID(c.Request.Context(), rid))

		start := time.Now()
		c.Next()
		s.log().Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			logging.FieldRequestID, rid)
	}
}

func (s *Server) log() *slog.Logger {
	return s.logger.With(logging.FieldComponent, component)
}
