package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/zeronista/retailops/internal/config"
	"github.com/zeronista/retailops/internal/dataset"
	"github.com/zeronista/retailops/internal/proxy"
	"github.com/zeronista/retailops/internal/scheduler"
	"github.com/zeronista/retailops/internal/server"
	"github.com/zeronista/retailops/internal/service"
	"github.com/zeronista/retailops/internal/store"
	"github.com/zeronista/retailops/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting retailops")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	cancel()

	pgStore := store.NewPostgres(db)
	if err := pgStore.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	loader := dataset.NewLoader(log)
	cache := dataset.NewCache(loader, cfg.CacheTTL, log)
	svc := service.New(cache, log)

	px := proxy.New(cfg, log)
	for _, cat := range proxy.Categories() {
		if base, ok := px.BaseURL(cat); ok {
			log.Info().Str("category", string(cat)).Str("url", base).Msg("Proxy upstream configured")
		} else {
			log.Warn().Str("category", string(cat)).Msg("Proxy upstream disabled")
		}
	}

	refreshJob := scheduler.NewRefreshJob(cache, pgStore, log)
	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Failed to register refresh job")
	}

	// Warm the cache once on startup. A missing data file is
	// non-fatal; requests will retry the probe paths.
	if err := sched.RunNow(refreshJob); err != nil {
		log.Error().Err(err).Msg("Initial dataset load failed")
	}
	sched.Start()

	srv := server.New(cfg, cache, svc, pgStore, px, log)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	<-done
	log.Info().Msg("Shutting down")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}
