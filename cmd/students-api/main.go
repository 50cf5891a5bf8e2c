// Command students-api serves the student registration REST API.
//
// STARTUP SEQUENCE:
//  1. Load configuration (environment, optional YAML, .env)
//  2. Initialise the logger
//  3. Connect to the data store, retrying while it comes up, and migrate
//  4. Register the routes and build the HTTP server
//  5. Start the HTTP server in a separate goroutine
//  6. Block until the server fails or SIGINT/SIGTERM arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
// Locally against SQLite:
//
//	HTTP_SERVER_ADDR=:8082 DB_DRIVER=sqlite STORAGE_PATH=storage/students.db go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/students-registration/internal/config"
	"github.com/aanand-mishra/students-registration/internal/http/router"
	"github.com/aanand-mishra/students-registration/internal/logger"
	"github.com/aanand-mishra/students-registration/internal/storage/orm"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad exits the process on a missing or invalid setting, so past
	// this line every field has been checked.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// Text output in dev, JSON in staging and prod. Setup also installs the
	// logger as slog's default so library code logs the same way.
	log := logger.Setup(cfg.Env)
	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("db_driver", cfg.Database.Driver))

	// ctx is cancelled on Ctrl+C or `docker stop`. It is created before the
	// store so a signal also interrupts the connect retries below.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 3. Initialise Storage ─────────────────────────────────────────────
	// orm.Open retries until the data store accepts connections or
	// DB_CONNECT_TIMEOUT runs out, then creates the students table if it
	// is missing. Everything past this point sees only storage.Storage.
	store, err := orm.Open(ctx, cfg.Database, log)
	if err != nil {
		log.Error("failed to initialise storage", logger.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised")

	// ── 4. Register Routes and Build the Server ───────────────────────────
	// router.New owns the route table and the middleware chain:
	//
	//	GET  /api/users  → list every student
	//	POST /api/users  → register a student
	//	GET  /healthz    → data store reachability
	//
	// The server timeouts guard against slow or stalled clients.
	server := &http.Server{
		Addr: cfg.HTTPServer.Addr,
		Handler: router.New(store, log, router.Options{
			QueryTimeout:   cfg.Database.QueryTimeout,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Start Serving ──────────────────────────────────────────────────
	// ListenAndServe blocks, so it runs in its own goroutine. A failure to
	// bind is reported on serveErr; ErrServerClosed is the normal result of
	// Shutdown and is not an error.
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// ── 6. Wait ───────────────────────────────────────────────────────────
	// Block until either the listener dies or a shutdown signal arrives.
	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("server encountered an error", logger.Err(err))
			stop()
			store.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	// Shutdown stops accepting connections and waits for in-flight requests
	// up to ShutdownTimeout. The deferred store.Close runs after it returns.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shut down server gracefully", logger.Err(err))
		return
	}

	log.Info("server stopped gracefully")
}
