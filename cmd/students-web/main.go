// Command students-web serves the registration page that browsers use. It
// keeps no state of its own; every page load calls the students API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (environment, optional YAML, .env)
//  2. Initialise the logger
//  3. Build the API client and the page handlers
//  4. Serve until SIGINT/SIGTERM, then drain in-flight requests
//
// The API does not need to be up when this service starts. Until it is,
// the page renders with an "unavailable" banner.
//
// RUNNING THE SERVER:
//
//	HTTP_SERVER_ADDR=:3000 API_BASE_URL=http://localhost:8082 go run ./cmd/students-web
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/students-registration/internal/client"
	"github.com/aanand-mishra/students-registration/internal/config"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/web"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// Only the HTTP server settings and the API base URL are needed here;
	// database settings belong to students-api.
	cfg := config.MustLoadWeb()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := logger.Setup(cfg.Env)
	log.Info("starting students-web",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 3. Build the Handlers ─────────────────────────────────────────────
	// client.New bounds every API call with API_TIMEOUT so a hung API turns
	// into an error banner instead of a hung browser tab.
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      web.New(client.New(cfg.API.BaseURL, cfg.API.Timeout), log),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 4. Serve and Wait for a Signal ────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", logger.Err(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping server")

	// Let in-flight page renders finish before exiting.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server gracefully", logger.Err(err))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
