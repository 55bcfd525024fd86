package webui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/spigell/assessment-finder/internal/finder"
	"github.com/spigell/assessment-finder/internal/logger"
)

// ServerConfig holds the web UI server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	// RatePerMinute bounds searches per client address. Zero uses the default.
	RatePerMinute  int
	AllowedOrigins []string
	// TrustProxy takes the client address from X-Real-IP/X-Forwarded-For.
	// Enable it only behind a reverse proxy that sets these headers.
	TrustProxy bool
}

// DefaultServerConfig returns the default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Host:            "localhost",
		Port:            8501,
		ReadTimeout:     30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RatePerMinute:   60,
		AllowedOrigins:  []string{"*"},
	}
}

// Server represents the web UI server
type Server struct {
	config       *ServerConfig
	flow         *finder.Flow
	defaults     Defaults
	templates    *TemplateManager
	limiter      *clientLimiter
	logger       *zap.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
}

// NewServer creates a new web UI server
func NewServer(cfg *ServerConfig, flow *finder.Flow, defaults Defaults, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	if flow == nil {
		return nil, errors.New("finder flow is required")
	}

	templates, err := NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}

	defaults.Theme = normalizeTheme(defaults.Theme, ThemeLight)

	return &Server{
		config:    cfg,
		flow:      flow,
		defaults:  defaults,
		templates: templates,
		limiter:   newClientLimiter(cfg.RatePerMinute),
		logger:    logger.WithFields(log),
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.With(s.rateLimit).Post("/", s.handleFind)
	r.Post("/theme", s.handleTheme)
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.config.AllowedOrigins,
			AllowedMethods: []string{"POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
		r.With(s.rateLimit).Post("/search", s.handleAPISearch)
	})

	return r
}

// Run starts the server and blocks until context is cancelled
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Host, s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting web ui", zap.String("address", "http://"+s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.shutdown()
	case err := <-errChan:
		return err
	}
}

func (s *Server) shutdown() error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.logger.Info("shutting down web ui")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
	})
	return shutdownErr
}
