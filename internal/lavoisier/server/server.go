// ============================================================================
// Lavoisier - Chemical Equation Balancer
// ============================================================================
//
// Package:     server
// Description: gRPC, REST and WebSocket frontends of the balancing service
// Author:      Mike Stoffels
// Created:     2025-12-12
// License:     MIT
// ============================================================================

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	coregrpc "github.com/msto63/lavoisier/pkg/core/grpc"
	"github.com/msto63/lavoisier/pkg/core/health"
	"github.com/msto63/lavoisier/pkg/core/logging"
	"github.com/msto63/lavoisier/pkg/core/version"
)

// Server runs the gRPC and HTTP listeners of one balancing service
type Server struct {
	grpcServer *coregrpc.Server
	httpServer *http.Server
	service    *service.Service
	health     *health.Registry
	logger     *logging.Logger
	config     Config
}

// Config holds server configuration
type Config struct {
	Host           string
	GRPCPort       int
	HTTPPort       int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string // CORS and WebSocket origins, nil disables CORS
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:         "0.0.0.0",
		GRPCPort:     9310,
		HTTPPort:     8310,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// New creates a new Lavoisier server around svc
func New(cfg Config, svc *service.Service) (*Server, error) {
	if svc == nil {
		return nil, mdwerror.New("service is required").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("server.New")
	}
	logger := logging.New("lavoisier-server")

	// Health checks
	registry := health.NewRegistry("lavoisier", version.Application)
	registry.Register("solver", health.Ping(svc.SelfTest))
	if svc.HistoryEnabled() {
		registry.Register("history", health.Ping(svc.Ping))
	}
	registry.Register("cache", func(ctx context.Context) health.CheckResult {
		size, hits, misses := svc.CacheStats()
		return health.CheckResult{
			Status:  health.StatusHealthy,
			Message: fmt.Sprintf("%d entries", size),
			Details: map[string]interface{}{"size": size, "hits": hits, "misses": misses},
		}
	})

	// gRPC
	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.Host
	grpcCfg.Port = cfg.GRPCPort
	grpcCfg.Logger = logging.New("lavoisier-grpc")
	grpcServer := coregrpc.NewServer(grpcCfg)
	RegisterBalancerServer(grpcServer.GRPCServer(), NewGRPCService(svc))

	// HTTP
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      NewHTTPHandler(cfg, svc, registry, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		grpcServer: grpcServer,
		httpServer: httpServer,
		service:    svc,
		health:     registry,
		logger:     logger,
		config:     cfg,
	}, nil
}

// NewHTTPHandler assembles the REST and WebSocket routes with request ID,
// CORS and logging middleware
func NewHTTPHandler(cfg Config, svc *service.Service, registry *health.Registry, logger *logging.Logger) http.Handler {
	h := NewHandler(svc, registry, cfg.WriteTimeout)
	wsHandler := NewWebSocketHandler(svc, cfg.AllowedOrigins)

	mux := http.NewServeMux()

	// WebSocket route
	mux.Handle("/api/v1/balance/ws", wsHandler)

	// API routes
	mux.Handle("/api/v1/", h)
	mux.Handle("/health", h)
	mux.Handle("/version", h)

	var handler http.Handler = mux
	if len(cfg.AllowedOrigins) > 0 {
		handler = corsMiddleware(cfg.AllowedOrigins, handler)
	}
	return requestIDMiddleware(loggingMiddleware(logger, handler))
}

// Start serves gRPC and HTTP until one of them fails or Stop is called
func (s *Server) Start() error {
	s.logger.Info("Starting Lavoisier server",
		"host", s.config.Host,
		"grpc_port", s.config.GRPCPort,
		"http_port", s.config.HTTPPort,
	)

	grpcListener, err := net.Listen("tcp", s.grpcServer.Address())
	if err != nil {
		return mdwerror.Wrap(err, "failed to listen for gRPC").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("server.Start")
	}
	httpListener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		grpcListener.Close()
		return mdwerror.Wrap(err, "failed to listen for HTTP").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("server.Start")
	}
	return s.Serve(grpcListener, httpListener)
}

// Serve serves on existing listeners and returns when the first of them
// stops. A clean shutdown returns nil.
func (s *Server) Serve(grpcListener, httpListener net.Listener) error {
	errCh := make(chan error, 2)
	go func() {
		errCh <- s.grpcServer.Serve(grpcListener)
	}()
	go func() {
		if err := s.httpServer.Serve(httpListener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	s.logger.Info("Lavoisier server listening",
		"grpc", grpcListener.Addr().String(),
		"http", httpListener.Addr().String(),
	)
	return <-errCh
}

// Stop gracefully stops both listeners and closes the service
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping Lavoisier server")

	s.grpcServer.StopWithTimeout(ctx)
	err := s.httpServer.Shutdown(ctx)

	if cerr := s.service.Close(); cerr != nil {
		s.logger.Warn("Error closing service", "error", cerr)
	}
	return err
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// GRPCAddress returns the gRPC listen address
func (s *Server) GRPCAddress() string {
	return s.grpcServer.Address()
}

// HTTPAddress returns the HTTP listen address
func (s *Server) HTTPAddress() string {
	return s.httpServer.Addr
}
