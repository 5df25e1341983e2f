package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/wind-extremes-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wind-extremes-service/internal/adapter/kafka"
	"github.com/couchcryptid/wind-extremes-service/internal/config"
	"github.com/couchcryptid/wind-extremes-service/internal/observability"
	"github.com/couchcryptid/wind-extremes-service/internal/report"
	"github.com/couchcryptid/wind-extremes-service/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Fit-event publishing is feature-flagged via KAFKA_ENABLED.
	var publisher session.FitPublisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("fit event publishing enabled", "topic", cfg.KafkaFitTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("fit event publishing disabled")
	}

	sess := session.New(logger, metrics, publisher)
	sweeps := report.NewGenerator(cfg.SweepCacheSize, cfg.SweepMaxPoints, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, sess, sweeps, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
