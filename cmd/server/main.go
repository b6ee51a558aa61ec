package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/mirchandani-mohnish/ytanalytics/internal/config"
	"github.com/mirchandani-mohnish/ytanalytics/internal/handler"
	"github.com/mirchandani-mohnish/ytanalytics/internal/middleware"
	"github.com/mirchandani-mohnish/ytanalytics/internal/router"
	"github.com/mirchandani-mohnish/ytanalytics/internal/service"
	"github.com/mirchandani-mohnish/ytanalytics/internal/youtube"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "ytanalytics")
	log := middleware.Logger

	handler.InitMetrics()
	service.RegisterMetrics()

	if cfg.YouTubeAPIKey == "" {
		log.Warn().Msg("YOUTUBE_API_KEY is not set; upstream calls will fail")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	yt := youtube.NewClient(cfg.YouTubeBaseURL, cfg.YouTubeAPIKey)
	enricher := service.NewEnricher(yt, cache, cfg.ItemTimeout)

	registry := service.NewRegistry(service.CoordinatorConfig{
		RefreshPeriod:    cfg.RefreshPeriod,
		CycleTimeout:     cfg.CycleTimeout,
		AggregateTimeout: cfg.AggregateTimeout,
		IdleEvictAfter:   cfg.IdleEvictAfter,
		MaxResults:       cfg.StreamMaxResults,
	}, yt, enricher, log)
	defer registry.Close()

	searchSvc := service.NewSearchService(yt, enricher, cfg.AggregateTimeout, cfg.MaxResults)

	app := fiber.New(fiber.Config{
		AppName:      "YTAnalytics API",
		ServerHeader: "YTAnalytics",
	})

	router.Setup(app, &router.Handlers{
		Search:    handler.NewSearchHandler(searchSvc),
		Stream:    handler.NewStreamHandler(registry),
		WordStats: handler.NewWordStatsHandler(searchSvc),
		Stats:     handler.NewStatsHandler(registry),
		Health:    handler.NewHealthHandler(cache.Client(), cfg.YouTubeAPIKey != ""),
	}, cfg.CORSOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Environment).
			Dur("refresh_period", cfg.RefreshPeriod).
			Msg("ytanalytics backend starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
