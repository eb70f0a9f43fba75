// Package http provides the HTTP server and route wiring.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/metrics"
	"github.com/allisson/tokengate/internal/session"
	tokenDomain "github.com/allisson/tokengate/internal/token/domain"
	tokenHTTP "github.com/allisson/tokengate/internal/token/http"
	tokenUseCase "github.com/allisson/tokengate/internal/token/usecase"
)

// Server represents the main HTTP server.
type Server struct {
	cfg           *config.Config
	db            *sql.DB
	router        *gin.Engine
	server        *http.Server
	logger        *slog.Logger
	authHandler   *tokenHTTP.AuthHandler
	tokenHandler  *tokenHTTP.TokenHandler
	authenticator tokenUseCase.Authenticator
	sessions      session.Store
	meterProvider metric.MeterProvider
}

// NewServer creates a new HTTP server. The meter provider is optional; pass
// nil to disable per-request HTTP metrics.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	authHandler *tokenHTTP.AuthHandler,
	tokenHandler *tokenHTTP.TokenHandler,
	authenticator tokenUseCase.Authenticator,
	sessions session.Store,
	meterProvider metric.MeterProvider,
) *Server {
	return &Server{
		cfg:           cfg,
		db:            db,
		logger:        logger,
		authHandler:   authHandler,
		tokenHandler:  tokenHandler,
		authenticator: authenticator,
		sessions:      sessions,
		meterProvider: meterProvider,
	}
}

// SetupRouter builds the Gin engine with all middlewares and routes.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(s.cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(
		s.cfg.CORSEnabled,
		s.cfg.CORSAllowOrigins,
		s.cfg.TokenHeaderName,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	if s.cfg.RateLimitLoginEnabled {
		auth.POST(
			"/login",
			tokenHTTP.LoginRateLimitMiddleware(
				s.cfg.RateLimitLoginRequestsPerSec,
				s.cfg.RateLimitLoginBurst,
				s.logger,
			),
			s.authHandler.LoginHandler,
		)
	} else {
		auth.POST("/login", s.authHandler.LoginHandler)
	}
	auth.POST("/logout", s.authHandler.LogoutHandler)
	auth.GET(
		"/me",
		tokenHTTP.RequireLevel(s.authenticator, s.cfg, s.sessions, tokenDomain.AnyRole(), s.logger),
		s.authHandler.MeHandler,
	)

	v1.POST("/tokens/regenerate", s.tokenHandler.RegenerateTokenHandler)

	admin := v1.Group("/admin")
	admin.Use(tokenHTTP.RequireLevel(
		s.authenticator,
		s.cfg,
		s.sessions,
		tokenDomain.ExactlyRole(s.cfg.AdminLevelID),
		s.logger,
	))
	admin.POST("/tokens/sweep", s.tokenHandler.SweepTokensHandler)

	s.router = router
	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// its backing components.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.db == nil {
		components["database"] = "error"
		ready = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := s.db.PingContext(ctx); err != nil {
			components["database"] = "error"
			ready = false
		} else {
			components["database"] = "ok"
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter()
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.ServerHost, s.cfg.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
