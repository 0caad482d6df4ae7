// Package api provides the HTTP surface of the recommender service.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/prescripto/health-recommender/internal/domain"
	"github.com/prescripto/health-recommender/internal/history"
	"github.com/prescripto/health-recommender/internal/middleware"
	"github.com/prescripto/health-recommender/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager domain.ConfigManager
	logger        *logrus.Logger
	predictor     *service.PredictionService
	store         history.Store
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance. store may be nil when no
// history backend is configured.
func NewServer(
	configManager domain.ConfigManager,
	logger *logrus.Logger,
	predictor *service.PredictionService,
	store history.Store,
) *Server {
	cfg := configManager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.AuditLogger())
	router.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger)
	router.Use(rateLimiter.Middleware())

	server := &Server{
		configManager: configManager,
		logger:        logger,
		predictor:     predictor,
		store:         store,
		router:        router,
	}

	server.setupRoutes()

	return server
}

// Router exposes the underlying gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/symptoms", s.handleListSymptoms)
		v1.POST("/predict", s.handlePredict)
		v1.GET("/diseases/:name", s.handleGetDisease)
		v1.GET("/history", s.handleListHistory)
		v1.GET("/history/:id", s.handleGetHistory)
		v1.GET("/report/:id", s.handleGetReport)
	}
}
