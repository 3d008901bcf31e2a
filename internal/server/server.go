package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fridgechef/backend/config"
	"github.com/pageza/fridgechef/backend/internal/api"
	"github.com/pageza/fridgechef/backend/internal/logger"
	"github.com/pageza/fridgechef/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router with the middleware chain and every API route
func New(cfg config.ServerConfig, svc api.Services) *Server {
	router := gin.New()
	router.Use(
		middleware.Recovery(),
		requestid.New(),
		middleware.RequestLogger(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	api.SetupAPI(router, svc)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
			Handler: router,
		},
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Stop is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
