package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
)

// Server represents the HTTP API server
type Server struct {
	router  *gin.Engine
	server  *http.Server
	manager *exchange.Manager
	logger  *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Port    int
	Manager *exchange.Manager
	Logger  *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))
	router.Use(corsMiddleware())

	s := &Server{
		router:  router,
		manager: cfg.Manager,
		logger:  cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		// Group endpoints
		v1.POST("/groups", s.handleCreateGroup)
		v1.GET("/groups/:id", s.handleGetGroup)
		v1.POST("/groups/join", s.handleJoinGroup)
		v1.POST("/groups/:id/exclusions", s.handleAddExclusion)
		v1.DELETE("/groups/:id/exclusions", s.handleRemoveExclusion)
		v1.PUT("/groups/:id/budget", s.handleSetBudget)
		v1.PUT("/groups/:id/participants/:pid/wishlist", s.handleUpdateWishlist)

		// Draw endpoints
		v1.GET("/groups/:id/draw/check", s.handleCheckDraw)
		v1.POST("/groups/:id/draw", s.handleRunDraw)
		v1.GET("/groups/:id/participants/:pid/assignment", s.handleGetAssignment)
	}
}

// Router exposes the underlying gin engine, primarily for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// SetupWebSocket adds WebSocket handler to the server
func (s *Server) SetupWebSocket(handler interface {
	HandleGroupStream(*gin.Context)
}) {
	s.router.GET("/api/v1/groups/:id/ws", handler.HandleGroupStream)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
