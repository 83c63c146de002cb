package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/madun-it/portfolio/internal/config"
	"github.com/madun-it/portfolio/internal/contact"
	"github.com/madun-it/portfolio/internal/content"
	"github.com/madun-it/portfolio/internal/store"
	"github.com/madun-it/portfolio/web"
)

// Metrics is the part of the store the handlers use.
type Metrics interface {
	HashIP(ip string) string
	TrackVisit(ctx context.Context, ip, userAgent, path string) error
	CleanupVisits(ctx context.Context, retention time.Duration) (int64, error)
	RecordSubmission(ctx context.Context, visitorID, status, errMsg string) (store.Submission, error)
	Stats(ctx context.Context) (*store.Stats, error)
}

type Options struct {
	Version      string
	Port         string
	Portfolio    *content.Portfolio
	Sessions     *contact.Sessions
	Metrics      Metrics
	Logger       *zap.Logger
	NavThreshold int
	ResetAfter   time.Duration
	Admin        config.AdminConfig
}

type Server struct {
	version      string
	portfolio    *content.Portfolio
	sessions     *contact.Sessions
	metrics      Metrics
	log          *zap.Logger
	navThreshold int
	resetAfter   time.Duration
	admin        config.AdminConfig
	adminToken   string

	engine *gin.Engine
	server *http.Server
}

func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ResetAfter <= 0 {
		opts.ResetAfter = contact.DefaultResetAfter
	}

	s := &Server{
		version:      opts.Version,
		portfolio:    opts.Portfolio,
		sessions:     opts.Sessions,
		metrics:      opts.Metrics,
		log:          opts.Logger,
		navThreshold: opts.NavThreshold,
		resetAfter:   opts.ResetAfter,
		admin:        opts.Admin,
		adminToken:   generateToken(),
	}

	tmpl, err := template.New("").ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	s.engine = gin.New()
	s.engine.SetHTMLTemplate(tmpl)
	s.setupRoutes(http.FS(static))

	s.server = &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves HTTP and the background sweepers until ctx is done, then
// shuts the listener down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("Started server", zap.String("listen_addr", s.server.Addr), zap.String("version", s.version))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return s.sessions.Run(ctx, time.Minute)
	})

	g.Go(func() error {
		s.cleanupVisitors(ctx)
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.cleanupVisitors(ctx)
			}
		}
	})

	return g.Wait()
}

// cleanupVisitors drops visitor rows past the retention window.
func (s *Server) cleanupVisitors(ctx context.Context) {
	n, err := s.metrics.CleanupVisits(ctx, store.Retention)
	if err != nil {
		s.log.Error("Error cleaning up old visitor data", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("Privacy cleanup: removed old visitor records", zap.Int64("count", n))
	}
}

func FormatBuildVersion(version string) string {
	return fmt.Sprintf("Go Version: %s\nVersion: %s\nOS/Arch: %s/%s", runtime.Version(), version, runtime.GOOS, runtime.GOARCH)
}
