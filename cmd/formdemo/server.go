package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dmitrymomot/formkit/pkg/logger"
)

var (
	errStart    = errors.New("failed to start HTTP server")
	errShutdown = errors.New("failed to shutdown HTTP server gracefully")
)

// server runs an http.Server until its context is cancelled, then shuts it
// down within the configured timeout and runs the stop hooks.
type server struct {
	srv             *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
	stopHooks       []func(context.Context) error
}

func newServer(cfg ServerConfig, h http.Handler, log *slog.Logger, stopHooks ...func(context.Context) error) *server {
	return &server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
		log:             log,
		shutdownTimeout: cfg.ShutdownTimeout,
		stopHooks:       stopHooks,
	}
}

// run listens on the configured address.
func (s *server) run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Join(errStart, err)
	}
	return s.serve(ctx, ln)
}

func (s *server) serve(ctx context.Context, ln net.Listener) error {
	// Streams end with the base context, not only with their connections.
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()
	s.log.Info("server started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Join(errStart, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, errors.Join(errShutdown, err))
	}
	for _, hook := range s.stopHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("server stopped with errors", logger.Error(err))
		return err
	}
	s.log.Info("server stopped")
	return nil
}
