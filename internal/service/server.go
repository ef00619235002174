package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type Server struct {
	name       string
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(name, addr string, handler http.Handler, logger *zap.Logger) *Server {
	s := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{name: name, httpServer: s, logger: logger}
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Starting "+s.name+" HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping " + s.name + " HTTP server")
	return s.httpServer.Shutdown(ctx)
}
