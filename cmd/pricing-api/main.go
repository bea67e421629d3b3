// Package main provides the entry point for the pricing API server.
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

	"github.com/ChrisJamesShevlin/snooker/internal/api"
	"github.com/ChrisJamesShevlin/snooker/internal/config"
	"github.com/ChrisJamesShevlin/snooker/internal/database"
	"github.com/ChrisJamesShevlin/snooker/internal/engine"
	"github.com/ChrisJamesShevlin/snooker/internal/health"
	"github.com/ChrisJamesShevlin/snooker/internal/logger"
	"github.com/ChrisJamesShevlin/snooker/internal/metrics"
	"github.com/ChrisJamesShevlin/snooker/internal/notify"
	"github.com/ChrisJamesShevlin/snooker/internal/repository"
	"github.com/ChrisJamesShevlin/snooker/internal/scheduler"
	"github.com/ChrisJamesShevlin/snooker/internal/service"
	"github.com/ChrisJamesShevlin/snooker/internal/stream"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv("SNOOKER_CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
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
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Snooker pricing service starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	appLog.Info("Database connection established")

	// Initialize repositories
	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Build the pricing engine from config
	engineCfg, err := engine.FromConfig(&cfg.Engine)
	if err != nil {
		appLog.WithError(err).Fatal("Invalid engine configuration")
	}
	evaluator, err := engine.NewEvaluator(engineCfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to create evaluator")
	}

	evalCache := service.NewEvaluationCache(
		cfg.GetCacheTTL(),
		time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
		cfg.Cache.MaxSize,
	)

	pricingService := service.NewPricingService(db, repos, evaluator, evalCache, cfg.Staking, appLog)

	// Websocket stream hub
	hub := stream.NewHub(cfg.Server.AllowedOrigins, appLog)
	go hub.Run(ctx)
	pricingService.SetBroadcaster(hub)

	// Tip webhook notifier
	if cfg.Notify.Enabled && cfg.Notify.WebhookURL != "" {
		notifier := notify.NewWebhookNotifier(cfg.Notify, appLog)
		pricingService.SetNotifier(notifier)
		appLog.WithField("webhook_url", cfg.Notify.WebhookURL).Info("Tip webhook notifier enabled")

		// Sweep tips that were issued but never delivered, e.g.
		// after a crash between persist and notify
		go func() {
			sweepCtx, sweepCancel := context.WithTimeout(ctx, time.Minute)
			defer sweepCancel()
			if redelivered, err := pricingService.RedeliverPending(sweepCtx, 100); err != nil {
				appLog.WithError(err).Warn("Startup tip redelivery sweep failed")
			} else if redelivered > 0 {
				appLog.WithField("redelivered", redelivered).Info("Startup tip redelivery sweep completed")
			}
		}()
	} else {
		appLog.Info("Tip webhook notifier disabled")
	}

	// Background jobs
	baselineService := service.NewBaselineService(repos.Player, pricingService, appLog)
	maintenanceService := service.NewMaintenanceService(repos.Evaluation, repos.Tip, appLog)

	schedLog := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(baselineService, maintenanceService, schedLog)
	if err := sched.ScheduleBaselineRefresh(cfg.Scheduler.BaselineRefreshSchedule); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule baseline refresh")
	}
	if err := sched.ScheduleRetentionPurge(cfg.Scheduler.RetentionSchedule, cfg.Scheduler.RetentionDays); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule retention purge")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Health check server
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
	})
	healthServer.RegisterCheck("database", db.Ping)
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}

	// Standalone metrics listener for scrape isolation
	var metricsServer *http.Server
	if cfg.Metrics.Enabled && cfg.Metrics.Port != cfg.Server.Port {
		metricsMux := http.NewServeMux()
		metricsMux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: metricsMux,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// HTTP API server
	handler := api.NewHandler(pricingService, repos.Player, repos.Match, appLog)
	router := api.NewRouter(handler, hub, cfg.Server.AllowedOrigins, appLog)

	apiServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLog.WithField("address", apiServer.Addr).Info("API server starting")
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("API server error")
		}
	}()

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"notify_enabled":  cfg.Notify.Enabled,
		"metrics_enabled": cfg.Metrics.Enabled,
		"cache_ttl":       cfg.GetCacheTTL().String(),
		"next_job_run":    sched.GetNextRun().Format(time.RFC3339),
	}).Info("Pricing service is running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	// Graceful shutdown
	healthServer.SetReady(false)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Error("API server shutdown error")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Metrics server shutdown error")
		}
	}
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Scheduler shutdown error")
	}

	appLog.Info("Snooker pricing service shut down successfully")
}
