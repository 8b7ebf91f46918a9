package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

type runtimeConfig struct {
	handler         http.Handler
	logger          *slog.Logger
	baseCtx         context.Context
	address         string
	workers         []workerHooks
	startupHooks    []func(context.Context) error
	shutdownHooks   []func(context.Context) error
	shutdownTimeout time.Duration
}

func runServer(cfg runtimeConfig) error {
	if cfg.address == "" {
		cfg.address = ":8080"
	}
	if cfg.shutdownTimeout <= 0 {
		cfg.shutdownTimeout = defaultShutdownTimeout
	}
	if cfg.baseCtx == nil {
		cfg.baseCtx = context.Background()
	}
	log := cfg.logger

	server := &http.Server{
		Addr:              cfg.address,
		Handler:           cfg.handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	ctx, cancel := signal.NotifyContext(cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return errors.Join(fmt.Errorf("listen %s: %w", server.Addr, err), shutdown(cfg, log, nil, 0))
	}

	// Hooks outlive the signal: workers are stopped by their shutdown hook.
	hookCtx := context.WithoutCancel(ctx)
	started := 0
	for _, w := range cfg.workers {
		if err := w.start(hookCtx); err != nil {
			_ = ln.Close()
			return errors.Join(fmt.Errorf("startup hook: %w", err), shutdown(cfg, log, nil, started))
		}
		started++
	}
	for _, hook := range cfg.startupHooks {
		if err := hook(hookCtx); err != nil {
			_ = ln.Close()
			return errors.Join(fmt.Errorf("startup hook: %w", err), shutdown(cfg, log, nil, started))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Join(err, shutdown(cfg, log, nil, started))
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	return shutdown(cfg, log, server, started)
}

// shutdown stops the first started workers, then runs every run-level
// shutdown hook. Workers that never started are not stopped.
func shutdown(cfg runtimeConfig, log *slog.Logger, server *http.Server, started int) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	hooks := make([]func(context.Context) error, 0, started+len(cfg.shutdownHooks))
	for _, w := range cfg.workers[:started] {
		hooks = append(hooks, w.stop)
	}
	hooks = append(hooks, cfg.shutdownHooks...)

	for _, hook := range hooks {
		if err := hook(ctx); err != nil {
			log.Error("shutdown hook failed", slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}
	log.Info("shutdown completed")
	return nil
}
