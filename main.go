package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"dealsniper/config"
	"dealsniper/helpers"
	"dealsniper/internal/match"
	"dealsniper/internal/pricing"
	"dealsniper/internal/scan"
	"dealsniper/internal/schedule"
	"dealsniper/internal/server"
	"dealsniper/internal/source"
	"dealsniper/logger"
	"dealsniper/services/cache"
	"dealsniper/services/notifier"
	"dealsniper/services/proxy"
	"dealsniper/services/settings"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("listen_addr", cfg.ListenAddr).
		Str("cron", cfg.CronSpec).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Shared transport services
	rotator := proxy.NewRotator(cfg.ProxyURLs)
	limiter := cache.NewRateLimiter(cache.NewMemcacheService(cfg.MemcacheAddr))
	fetcher := helpers.NewFetcher(limiter, rotator, cfg.SourceTimeout)

	// Scan pipeline
	resolver := pricing.NewResolver(pricing.NewTCGPlayerFetcher(cfg.TCGPlayerSearchURL, fetcher))

	registry := source.NewRegistry(
		source.WithTimeout(cfg.SourceTimeout),
		source.WithStagger(cfg.StaggerMin, cfg.StaggerMax),
	)
	registry.Register(source.NewEbayCollector(cfg.EbaySearchURL, fetcher))
	registry.Register(source.NewWalmartCollector(cfg.WalmartSearchURL, rotator, cfg.SourceTimeout))

	filter := match.NewFilter(match.NewTokenScorer(), cfg.SimilarityThreshold)

	stageLog := logger.ForComponent("scan")
	orchestrator := scan.NewOrchestrator(resolver, registry, filter, func(s scan.Stage) {
		stageLog.Debug().Str("stage", string(s)).Msg("Stage transition")
	})

	// Notifiers
	notifiers := []notifier.Notifier{
		notifier.NewRedisNotifier(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLen),
	}
	if cfg.SMTPHost != "" && cfg.MailTo != "" {
		notifiers = append(notifiers, notifier.NewMailNotifier(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.MailTo,
		))
		log.Info().Str("to", cfg.MailTo).Msg("Mail alerts enabled")
	}
	defer func() {
		for _, n := range notifiers {
			n.Close()
		}
	}()

	// Scheduled re-scan of tracked terms
	store := settings.NewStore(cfg.SearchOptions)
	scheduler := schedule.NewScheduler(orchestrator, store, notifiers, cfg.DefaultThresholdPct)
	if err := scheduler.Start(ctx, cfg.CronSpec); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer scheduler.Stop()

	// HTTP API
	srv := server.NewServer(orchestrator, store, cfg.WebDir)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Routes(),
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		serverDone <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}
