package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/relaykit/contact-relay/internal/api/router"
	"github.com/relaykit/contact-relay/internal/app/bootstrap"
	appconfig "github.com/relaykit/contact-relay/internal/config"
	"github.com/relaykit/contact-relay/internal/contacts"
	"github.com/relaykit/contact-relay/internal/http/handlers"
	"github.com/relaykit/contact-relay/internal/observability/metrics"
	"github.com/relaykit/contact-relay/internal/pipeline"
	"github.com/relaykit/contact-relay/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting contact-relay API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	pipelineMetrics := metrics.NewPipelineMetrics(nil)
	dispatcher := bootstrap.BuildDispatcher(cfg, logger, pipelineMetrics)
	if dispatcher == nil {
		logger.Warn("messaging gateway not configured, send endpoint disabled")
	}
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	enricher := bootstrap.BuildEnricher(ctx, cfg, redisClient, logger)

	p := pipeline.New(dispatcher, enricher, pipelineMetrics, logger.Logger)

	defaultPlan := contacts.PlanFromPrefix(cfg.DialPrefix, contacts.DefaultDialPlan)
	defaultPlan.MarkerDigit = cfg.MarkerDigit()

	batchHandler := handlers.NewBatchHandler(p, defaultPlan, logger)
	r := router.New(&router.Config{
		Logger:         logger,
		BatchHandler:   batchHandler,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
