// Package apiserver provides the pure JSON API server (no templates).
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/blankbase/blankbase/internal/infrastructure/config"
)

// Server is the JSON API HTTP server.
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	engine  *gin.Engine
	server  *http.Server
	metrics *Metrics
	members *MemberHandlers
}

// NewServer creates the API server and wires its routes.
func NewServer(cfg *config.Config, log *zap.Logger, members MemberLister) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:  cfg,
		logger:  log.Named("api"),
		metrics: NewMetrics(),
	}
	s.members = NewMemberHandlers(members, s.metrics, s.logger)
	s.engine = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.APIPort),
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(gin.Recovery())
	r.Use(s.metrics.Middleware())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", s.metrics.Handler())

	v1 := r.Group("/api/v1")
	{
		v1.GET("/members", s.members.ListMembers)
	}

	return r
}

// requestLogger logs one structured line per request.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   s.config.App.Name,
		"version":   s.config.App.Version,
		"timestamp": time.Now().Unix(),
	})
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("starting JSON API server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down JSON API server")
	return s.server.Shutdown(ctx)
}
