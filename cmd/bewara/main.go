package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/bewara-landslide-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/bewara-landslide-service/internal/adapter/kafka"
	"github.com/couchcryptid/bewara-landslide-service/internal/adapter/openweather"
	"github.com/couchcryptid/bewara-landslide-service/internal/catalog"
	"github.com/couchcryptid/bewara-landslide-service/internal/config"
	"github.com/couchcryptid/bewara-landslide-service/internal/dashboard"
	"github.com/couchcryptid/bewara-landslide-service/internal/domain"
	"github.com/couchcryptid/bewara-landslide-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	}
	stats := cat.Stats()
	metrics.CatalogFeatures.WithLabelValues(catalog.KindZone).Set(float64(stats.Zones))
	metrics.CatalogFeatures.WithLabelValues(catalog.KindPoint).Set(float64(stats.Points))
	metrics.CatalogFeatures.WithLabelValues(catalog.KindBoundary).Set(float64(stats.Boundaries))
	logger.Info("catalog loaded", "zones", stats.Zones, "points", stats.Points, "boundaries", stats.Boundaries)

	monitored := domain.Coordinate{Lat: cfg.MonitorLat, Lon: cfg.MonitorLon}
	provider := openweather.NewClient(cfg.OWMAPIKey, cfg.OWMBaseURL, cfg.OWMLang, cfg.OWMTimeout, metrics, logger)

	// Publishing is opt-in (KAFKA_ENABLED).
	var (
		publisher dashboard.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("assessment publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaAssessmentTopic)
	} else {
		logger.Info("assessment publishing disabled")
	}

	session := dashboard.NewSession(provider, monitored, cat, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, session, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
