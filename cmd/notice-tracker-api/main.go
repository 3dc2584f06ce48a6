// Copyright The Notice Tracker Authors.
// SPDX-License-Identifier: MIT

// The notice-tracker-api command runs the HTTP API, the NATS reconcile
// trigger subscriptions and the periodic reconciliation loop.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/practicedesk/notice-tracker-service/cmd/notice-tracker-api/service"
	"github.com/practicedesk/notice-tracker-service/pkg/log"
)

const gracefulShutdownSeconds = 25

func main() {
	log.InitStructureLogConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := service.AppConfig()
	var wg sync.WaitGroup

	if err := handleHTTPServer(ctx, config, &wg); err != nil {
		slog.ErrorContext(ctx, "failed to start HTTP server", "error", err)
		os.Exit(1)
	}

	if err := handleReconcileSync(ctx, &wg); err != nil {
		slog.ErrorContext(ctx, "failed to start reconcile subscriptions", "error", err)
		os.Exit(1)
	}

	handleReconcileScheduler(ctx, config, &wg)

	// Block until a termination signal arrives, then stop everything.
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	slog.InfoContext(ctx, "received shutdown signal", "signal", sig.String())

	cancel()
	wg.Wait()

	if natsClient := service.NATSClient(ctx); natsClient != nil {
		if err := natsClient.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close NATS client", "error", err)
		}
	}

	slog.InfoContext(ctx, "shutdown complete")
}

// handleHTTPServer sets up the router and starts the HTTP server, registering
// a graceful shutdown goroutine on the wait group.
func handleHTTPServer(ctx context.Context, config service.Config, wg *sync.WaitGroup) error {
	router := mux.NewRouter()
	newHTTPHandler(ctx).registerRoutes(router)

	server := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.InfoContext(ctx, "starting HTTP server", "port", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "HTTP server failed", "error", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(ctx, "HTTP server shutdown failed", "error", err)
		}
	}()

	return nil
}

// handleReconcileScheduler runs the periodic full reconciliation pass. A zero
// or negative interval disables the loop.
func handleReconcileScheduler(ctx context.Context, config service.Config, wg *sync.WaitGroup) {
	if config.ReconcileInterval <= 0 {
		slog.InfoContext(ctx, "periodic reconciliation disabled")
		return
	}

	reconciler := service.Reconciler(ctx)

	wg.Add(1)
	go func() {
		defer wg.Done()

		slog.InfoContext(ctx, "starting periodic reconciliation",
			"interval", config.ReconcileInterval)

		ticker := time.NewTicker(config.ReconcileInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "stopping periodic reconciliation")
				return
			case <-ticker.C:
				count, err := reconciler.ReconcileAll(ctx)
				if err != nil {
					slog.ErrorContext(ctx, "periodic reconciliation had failures",
						"error", err,
						"updated", count,
					)
					continue
				}
				slog.InfoContext(ctx, "periodic reconciliation completed", "updated", count)
			}
		}
	}()
}
