package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/common/logger"
)

type Config struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	DrainTimeout      time.Duration
}

func DefaultConfig(port string) Config {
	return Config{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
		ShutdownTimeout:   constants.ShutdownTimeout,
		DrainTimeout:      constants.DrainTimeout,
	}
}

// ShutdownHook runs after the listener stops taking keep-alive traffic and
// before in-flight requests are awaited.
type ShutdownHook func(ctx context.Context) error

type Server struct {
	http *http.Server
	cfg  Config
	name string
	log  *logger.Logger
}

func New(name string, cfg Config, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		cfg:  cfg,
		name: name,
		log:  log,
	}
}

// Run serves until ctx is cancelled or the listener fails, then drains.
// A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, hooks ...ShutdownHook) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("%s service listening on %s", s.name, s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("%s service: %w", s.name, err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.shutdown(hooks)
}

func (s *Server) shutdown(hooks []ShutdownHook) error {
	s.log.Infof("shutting down %s service", s.name)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.http.SetKeepAlivesEnabled(false)

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, s.cfg.DrainTimeout)
	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			s.log.Errorf("%s service: shutdown hook %d failed: %v", s.name, i, err)
		}
	}
	drainCancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("%s service forced to shutdown: %v", s.name, err)
		return err
	}
	s.log.Infof("%s service stopped gracefully", s.name)
	return nil
}
