package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	gitadapter "github.com/ericfisherdev/wikireview/internal/adapter/driven/git"
	openaiadapter "github.com/ericfisherdev/wikireview/internal/adapter/driven/openai"
	sqliteadapter "github.com/ericfisherdev/wikireview/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/wikireview/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/wikireview/internal/adapter/driving/web"
	"github.com/ericfisherdev/wikireview/internal/application"
	"github.com/ericfisherdev/wikireview/internal/config"
	"github.com/ericfisherdev/wikireview/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing or bogus repo path).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"repo_path", cfg.RepoPath,
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"path_filters", len(cfg.PathFilters),
		"summaries_enabled", cfg.SummariesEnabled(),
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on the writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	gateway := gitadapter.NewGateway(cfg.RepoPath)
	summaryStore := sqliteadapter.NewSummaryRepo(db)
	settingsStore := sqliteadapter.NewSettingsRepo(db)

	var summarizer driven.Summarizer
	if cfg.SummariesEnabled() {
		summarizer = openaiadapter.NewSummarizer(cfg.OpenAIAPIKey, cfg.SummaryModel)
		slog.Info("summarizer created", "model", cfg.SummaryModel)
	} else {
		slog.Info("no API key configured, summaries disabled")
	}

	// 6. Create application services.
	changeSvc := application.NewChangeService(gateway, cfg.PathFilters, cfg.DocExtensions, slog.Default())
	summarySvc := application.NewSummaryService(changeSvc, summaryStore, summarizer, slog.Default())

	// 7. Create handlers and register routes.
	apiHandler := httphandler.NewHandler(changeSvc, summarySvc, settingsStore, cfg.DefaultWeekday, cfg.DefaultTime, slog.Default())
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// A change listing blocks on git round trips for every group; give
		// large review windows room to finish.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("wikireview started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
