package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/config"
	"github.com/pageza/feastcraft/backend/internal/api"
	"github.com/pageza/feastcraft/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a new server instance with the middleware chain and routes registered
func New(cfg *config.Config, logger *zap.Logger, deps api.Dependencies) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mode := cfg.Environment.GinMode(); gin.Mode() != mode {
		gin.SetMode(mode)
	}

	router := gin.New()
	// ClientIP keys the rate limiters, so forwarded headers count only from listed proxies
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		logger.Warn("Ignoring trusted proxies", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestLogger(logger),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)

	if deps.Logger == nil {
		deps.Logger = logger
	}
	api.RegisterRoutes(router, deps)

	return &Server{
		router: router,
		logger: logger.Named("server"),
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server")
	return s.http.Shutdown(ctx)
}
