package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"fileupload/internal/config"
	"fileupload/internal/file"
	"fileupload/internal/sink"
	"fileupload/pkg/utils"
)

const shutdownTimeout = 5 * time.Second

// ServerApp runs the receiving sink until its context ends
type ServerApp struct {
	config      *config.Config
	fileService file.Service
}

// NewServerApp creates a new sink application
func NewServerApp(cfg *config.Config, fileService file.Service) *ServerApp {
	return &ServerApp{
		config:      cfg,
		fileService: fileService,
	}
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *ServerApp) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves the sink on listener until ctx is cancelled
func (s *ServerApp) Serve(ctx context.Context, listener net.Listener) error {
	dir, err := utils.ResolveDestinationPath(s.config.Server.Dir)
	if err != nil {
		listener.Close()
		return err
	}

	serverCfg := s.config.Server
	serverCfg.Dir = dir
	httpServer := &http.Server{
		Handler:           sink.NewServer(serverCfg, s.fileService).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Accepting uploads on http://%s%s, storing in %s", listener.Addr(), serverCfg.Path, dir)

	// Single exit channel for all termination conditions
	exitCh := make(chan error, 1)
	go func() {
		exitCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-exitCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down sink: %w", err)
	}
	log.Println("Sink stopped")
	return nil
}
