// Package main provides the entry point for the edge-detection engine.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rift-edge/internal/alert"
	"github.com/yourusername/rift-edge/internal/config"
	"github.com/yourusername/rift-edge/internal/database"
	"github.com/yourusername/rift-edge/internal/edge"
	"github.com/yourusername/rift-edge/internal/engine"
	"github.com/yourusername/rift-edge/internal/fairodds"
	"github.com/yourusername/rift-edge/internal/health"
	"github.com/yourusername/rift-edge/internal/logger"
	"github.com/yourusername/rift-edge/internal/metrics"
	"github.com/yourusername/rift-edge/internal/provider"
	"github.com/yourusername/rift-edge/internal/repository"
	"github.com/yourusername/rift-edge/internal/scheduler"
	"github.com/yourusername/rift-edge/internal/stats"
)

func main() {
	configPath := os.Getenv("RIFT_EDGE_CONFIG")

	// Load configuration
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"provider":    cfg.Provider.Name,
	}).Info("Rift Edge engine starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	quoteRepo := repository.NewPostgresQuoteRepository(db)
	estimateRepo := repository.NewPostgresEstimateRepository(db)
	alertRepo := repository.NewPostgresAlertRepository(db)

	// Initialize odds provider
	oddsProvider, err := provider.NewFromConfig(cfg, appLog)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create odds provider")
	}

	// Initialize stats loading
	var downloader *stats.Downloader
	if cfg.Stats.Mode == "download" {
		httpClient := provider.NewRateLimitedHTTPClient(provider.DefaultHTTPClientConfig(), appLog)
		defer httpClient.Close()
		downloader = stats.NewDownloader(
			cfg.Stats.DownloadURL,
			cfg.Stats.LocalDir,
			time.Duration(cfg.Stats.DownloadTimeoutSecs)*time.Second,
			httpClient,
			appLog,
		)
	}
	loader := stats.NewLoader(cfg.Stats, downloader, appLog)

	// Initialize the fair-odds model
	calculator, err := fairodds.NewCalculator(cfg.Model.MatchDurationMinutes)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create fair-odds calculator")
	}
	estimator := fairodds.NewEstimator(calculator, cfg.Model.MinGamesPlayed, 10*cfg.Engine.PollInterval())
	evaluator := edge.NewEvaluator(cfg.Engine.EdgeThreshold)

	// Initialize notification channel
	var notifier alert.Notifier
	if cfg.Notification.TelegramToken != "" {
		notifier, err = alert.NewTelegramNotifier(cfg.Notification.TelegramToken, cfg.Notification.TelegramChatID, appLog)
		if err != nil {
			appLog.WithError(err).Fatal("Failed to create Telegram notifier")
		}
	} else {
		appLog.Warn("No Telegram token configured, alerts go to the log only")
		notifier = alert.NewLogNotifier(appLog)
	}
	dispatcher := alert.NewDispatcher(alertRepo, notifier, appLog)

	// Create the engine
	eng := engine.New(
		cfg.Engine,
		oddsProvider,
		loader,
		estimator,
		evaluator,
		dispatcher,
		quoteRepo,
		estimateRepo,
		appLog,
	)

	// Load the initial stats snapshot; without one the model cannot price anything
	if err := eng.RefreshStats(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to load initial stats snapshot")
	}

	// Start metrics server
	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle(cfg.Metrics.Path, metrics.Handler())
			srv := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
				Handler:      mux,
				ReadTimeout:  5 * time.Second,
				WriteTimeout: 10 * time.Second,
			}
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// Start health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Port:        cfg.Health.Port,
		Logger:      appLog,
		DB:          db,
		Snapshot:    eng,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	// Schedule periodic stats refresh
	sched := scheduler.NewScheduler(appLog)
	if err := sched.ScheduleStatsRefresh(cfg.Stats.RefreshCron, eng.RefreshStats); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule stats refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	appLog.WithField("next_refresh", sched.NextRun().Format(time.RFC3339)).Info("Stats refresh scheduled")

	// Run the poll loop until a shutdown signal arrives
	engineDone := make(chan error, 1)
	go func() {
		engineDone <- eng.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case err := <-engineDone:
		if err != nil && err != context.Canceled {
			appLog.WithError(err).Error("Engine stopped unexpectedly")
		}
	}

	// Graceful shutdown
	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error during scheduler shutdown")
	}

	// Let the in-flight cycle finish logging
	select {
	case <-engineDone:
	case <-time.After(5 * time.Second):
	}

	appLog.Info("Rift Edge engine shut down")
}
