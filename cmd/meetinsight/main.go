package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"meetinsight-server/pkg/ai"
	"meetinsight-server/pkg/config"
	http_server "meetinsight-server/pkg/http"
	"meetinsight-server/pkg/messaging"
	"meetinsight-server/pkg/metrics"
	"meetinsight-server/pkg/pipeline"
	"meetinsight-server/pkg/transcript"
)

var logger = logrus.New()

func main() {
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLevel(cfg.LogLevel)

	metrics.StartMetrics(logger, cfg.MetricsEnabled)

	adapter := buildAdapter(cfg)

	publisher := buildPublisher(cfg)
	if publisher != nil {
		defer publisher.Disconnect()
	}

	processor := pipeline.NewProcessor(logger, pipeline.Options{
		Segmenter:        transcript.NewSegmenter(logger, cfg.PauseThreshold),
		Adapter:          adapter,
		Publisher:        publisher,
		ReferenceSpeaker: cfg.ReferenceSpeaker,
		CompanyValues:    cfg.CompanyValues,
	})

	httpConfig := http_server.DefaultConfig()
	httpConfig.Port = cfg.HTTPPort
	server := http_server.NewServer(logger, httpConfig, processor)
	server.Start()

	logger.WithFields(logrus.Fields{
		"port":      cfg.HTTPPort,
		"providers": adapter.AvailableProviders(),
	}).Info("Server started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown failed")
	}

	logger.Info("Server stopped")
}

// buildAdapter assembles the provider chain from configured credentials.
// Registration order sets the auto-selection order.
func buildAdapter(cfg *config.Config) *ai.Adapter {
	var providers []ai.Provider

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, ai.NewOpenAIProvider(logger, cfg.OpenAIAPIKey))
	}
	if cfg.GeminiAPIKey != "" {
		providers = append(providers, ai.NewGeminiProvider(logger, cfg.GeminiAPIKey))
	}
	if cfg.EnableMockProvider {
		providers = append(providers, ai.NewMockProvider(logger))
	}

	return ai.NewAdapter(logger, cfg.ProviderPreference, providers...)
}

// buildPublisher connects to AMQP when configured. A connection failure is
// not fatal; analysis results are still returned to HTTP callers.
func buildPublisher(cfg *config.Config) messaging.Publisher {
	if cfg.AMQPUrl == "" {
		logger.Info("AMQP_URL not set, intelligence records will not be published")
		return nil
	}

	publisher := messaging.NewAMQPPublisher(logger, messaging.AMQPConfig{
		URL:       cfg.AMQPUrl,
		QueueName: cfg.AMQPQueueName,
	})
	if err := publisher.Connect(); err != nil {
		logger.WithError(err).Warn("Failed to connect to AMQP, continuing without publishing")
		return nil
	}

	logger.WithField("queue", cfg.AMQPQueueName).Info("Connected to AMQP broker")
	return publisher
}
