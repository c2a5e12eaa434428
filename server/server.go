package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/caasmo/tokengate/config"
	"golang.org/x/sync/errgroup"
)

// Daemon is a long-running component whose lifecycle is tied to the server,
// like the job scheduler. Start must not block; Stop must respect ctx.
type Daemon interface {
	Name() string
	Start() error
	Stop(ctx context.Context) error
}

type Server struct {
	configProvider *config.Provider
	handler        http.Handler
	logger         *slog.Logger
	reloadFunc     func() error
	daemons        []Daemon

	// exitFunc is os.Exit, replaceable in tests.
	exitFunc func(code int)
}

func NewServer(provider *config.Provider, handler http.Handler, logger *slog.Logger, reloadFunc func() error) *Server {
	return &Server{
		configProvider: provider,
		handler:        handler,
		logger:         logger,
		reloadFunc:     reloadFunc,
		exitFunc:       os.Exit,
	}
}

// AddDaemon registers a daemon to be started with the server and stopped
// during graceful shutdown. Must be called before Run.
func (s *Server) AddDaemon(d Daemon) {
	s.daemons = append(s.daemons, d)
}

// Run starts the HTTP server and all registered daemons, then blocks until a
// termination signal arrives or the server fails. SIGHUP triggers the reload
// function instead of terminating. Run does not return; it exits the process
// through exitFunc.
func (s *Server) Run() {
	cfg := s.configProvider.Get().Server

	s.logger.Info("server configuration",
		"addr", cfg.Addr,
		"read_timeout", cfg.ReadTimeout.Duration,
		"read_header_timeout", cfg.ReadHeaderTimeout.Duration,
		"write_timeout", cfg.WriteTimeout.Duration,
		"idle_timeout", cfg.IdleTimeout.Duration,
		"shutdown_timeout", cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	started := make([]Daemon, 0, len(s.daemons))
	var startErr error
	for _, d := range s.daemons {
		s.logger.Info("starting daemon", "name", d.Name())
		if err := d.Start(); err != nil {
			s.logger.Error("daemon failed to start", "name", d.Name(), "err", err)
			startErr = err
			break
		}
		started = append(started, d)
	}
	if startErr != nil {
		s.shutdown(srv, started)
		s.exitFunc(1)
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	exitCode := 0
loop:
	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				s.logger.Info("received SIGHUP, reloading configuration")
				if err := s.reloadFunc(); err != nil {
					s.logger.Error("configuration reload failed", "err", err)
				}
				continue
			}
			s.logger.Info("received shutdown signal", "signal", sig)
			break loop
		case err := <-serverError:
			s.logger.Error("HTTP server error, initiating shutdown", "err", err)
			exitCode = 1
			break loop
		}
	}

	if err := s.shutdown(srv, started); err != nil {
		exitCode = 1
	}
	s.exitFunc(exitCode)
}

// shutdown stops the HTTP server and the given daemons concurrently, bounded
// by the configured graceful timeout.
func (s *Server) shutdown(srv *http.Server, daemons []Daemon) error {
	gracefulCtx, cancel := context.WithTimeout(context.Background(), s.configProvider.Get().Server.ShutdownGracefulTimeout.Duration)
	defer cancel()

	g, _ := errgroup.WithContext(gracefulCtx)

	g.Go(func() error {
		s.logger.Info("shutting down HTTP server")
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("HTTP server shutdown error", "err", err)
			return err
		}
		return nil
	})

	for _, d := range daemons {
		g.Go(func() error {
			s.logger.Info("stopping daemon", "name", d.Name())
			if err := d.Stop(gracefulCtx); err != nil {
				s.logger.Error("daemon shutdown error", "name", d.Name(), "err", err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("all components stopped gracefully")
	return nil
}
