package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/smallyu/go-btc-visual/internal/config"
	"github.com/smallyu/go-btc-visual/internal/logx"
	"github.com/smallyu/go-btc-visual/internal/server"
)

// serve runs the HTTP server on ln until ctx is cancelled.
func serve(ctx context.Context, ln net.Listener, cfg *config.Config, logger *slog.Logger) error {
	srv := &http.Server{
		Handler:           server.NewRouter(cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	logger.Info("server_listening", "addr", ln.Addr().String())

	errc := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", "err", err)
			errc <- err
		}
		close(errc)
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown_error", "err", err)
		return err
	}
	logger.Info("server_stopped")
	return nil
}

// run wires config, logger, listener and serving loop together.
func run(ctx context.Context, cfg *config.Config) error {
	logger := logx.New(cfg.LogLevel)
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Error("listen_error", "err", err, "addr", cfg.Addr)
		return err
	}
	defer ln.Close()
	return serve(ctx, ln, cfg, logger)
}
