package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"axolotary/internal/adapters/auth/jwtauth"
	"axolotary/internal/adapters/notify/logsink"
	"axolotary/internal/adapters/notify/webhook"
	"axolotary/internal/adapters/storage/sqlstore"
	"axolotary/internal/config"
	"axolotary/internal/platform/logger"
	"axolotary/internal/platform/metrics"
	"axolotary/internal/ports/notify"
	"axolotary/internal/reminders"
	"axolotary/internal/router"
)

// @title Axolotary API
// @version 1.0
// @description Registro de ajolotarios, ajolotes y eventos de reproducción.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	startedAt := time.Now()

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.App.Name,
	})
	m := metrics.New()

	var db *sqlstore.DB
	if cfg.Storage.Driver != config.DriverMemory {
		db, err = sqlstore.Open(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			log.Error("failed to open database", map[string]any{"driver": cfg.Storage.Driver, "error": err.Error()})
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(migrateCtx)
		cancel()
		if err != nil {
			log.Error("failed to run migrations", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}

	var notifier notify.Notifier = logsink.New(log)
	if cfg.Notify.WebhookURL != "" {
		wh, err := webhook.New(webhook.Config{URL: cfg.Notify.WebhookURL, Timeout: cfg.Notify.Timeout}, log)
		if err != nil {
			log.Error("failed to init webhook notifier", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		notifier = wh
	}

	var tokens *jwtauth.Manager
	if cfg.DevAuth() {
		log.Warn("JWT_SECRET not set: dev auth enabled (X-Debug-User-ID, ephemeral tokens)", nil)
		tokens = jwtauth.NewEphemeral(cfg.Auth.TokenTTL)
	} else {
		tokens = jwtauth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	}

	app := router.New(router.Options{
		AuthVerifier: tokens,
		Tokens:       tokens,
		DevMode:      cfg.DevAuth(),
		DB:           db,
		Logger:       log,
		Notifier:     notifier,
		Metrics:      m,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		StartedAt:    startedAt,
	})

	sched := reminders.New(app.Users, app.Breeding, reminders.Options{
		Schedule: cfg.Reminders.Cron,
		Window:   cfg.Reminders.Window,
		Notifier: notifier,
		Logger:   log,
	})
	if err := sched.Start(); err != nil {
		log.Error("failed to start reminders", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("starting server", map[string]any{"port": cfg.Server.Port, "storage": cfg.Storage.Driver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
}
