package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/france-explorer/internal/bootstrap"
	"github.com/baechuer/france-explorer/internal/logger"
)

// generation calls may still be in flight when the signal arrives
const shutdownTimeout = 45 * time.Second

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
	Close() error
	Addr() string
}

type realServer struct{ *http.Server }

func (r realServer) Addr() string { return r.Server.Addr }

type serverBuilder func() (httpServer, func(), error)

// Run serves until a signal or a serve error, then drains in-flight
// requests. It returns the process exit code.
func Run(build serverBuilder, sigCh <-chan os.Signal, lg zerolog.Logger) int {
	srv, cleanup, err := build()
	if err != nil {
		lg.Error().Err(err).Msg("bootstrap failed")
		return 1
	}
	defer cleanup()

	serveErr := make(chan error, 1)
	go func() {
		lg.Info().Str("addr", srv.Addr()).Msg("listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if isServeFailure(err) {
			lg.Error().Err(err).Msg("server crashed")
			return 1
		}
		return 0
	case sig := <-sigCh:
		lg.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	code := drain(srv, lg)

	// ListenAndServe has already returned ErrServerClosed by now.
	if err := <-serveErr; isServeFailure(err) {
		lg.Error().Err(err).Msg("server stopped with error")
	}
	lg.Info().Int("exit_code", code).Msg("shutdown complete")
	return code
}

func drain(srv httpServer, lg zerolog.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lg.Error().Err(err).Msg("graceful shutdown failed, closing")
		_ = srv.Close()
		return 1
	}
	return 0
}

func isServeFailure(err error) bool {
	return err != nil && !errors.Is(err, http.ErrServerClosed)
}

func buildFromBootstrap() (httpServer, func(), error) {
	srv, cleanup, err := bootstrap.NewServer()
	if err != nil {
		return nil, nil, err
	}
	return realServer{srv}, cleanup, nil
}

func main() {
	logger.Init()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	code := Run(buildFromBootstrap, sigCh, zlog.Logger)
	signal.Stop(sigCh)
	os.Exit(code)
}
