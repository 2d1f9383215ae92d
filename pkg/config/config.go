package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config defines the structure for storing application configuration
type Config struct {
	// Segmentation configuration
	PauseThreshold   float64
	ReferenceSpeaker string

	// Analysis configuration
	CompanyValues      []string
	ProviderPreference string
	OpenAIAPIKey       string
	GeminiAPIKey       string
	EnableMockProvider bool

	// Downstream persistence (AMQP) configuration
	AMQPUrl       string
	AMQPQueueName string

	// HTTP server configuration
	HTTPPort       int
	MetricsEnabled bool

	// Logging
	LogLevel logrus.Level
}

// Load loads the application configuration from environment variables. A
// missing .env file is not an error; the process environment still applies.
func Load(logger *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using process environment")
	}

	config := &Config{}

	threshold := getEnvFloat(logger, "PAUSE_THRESHOLD", 1.5)
	if threshold <= 0 {
		return nil, fmt.Errorf("PAUSE_THRESHOLD must be positive, got %v", threshold)
	}
	config.PauseThreshold = threshold

	config.ReferenceSpeaker = os.Getenv("REFERENCE_SPEAKER")

	valuesEnv := os.Getenv("COMPANY_VALUES")
	if valuesEnv == "" {
		config.CompanyValues = []string{}
	} else {
		for _, value := range strings.Split(valuesEnv, ",") {
			value = strings.TrimSpace(value)
			if value != "" {
				config.CompanyValues = append(config.CompanyValues, value)
			}
		}
	}

	config.ProviderPreference = os.Getenv("AI_PROVIDER")
	if config.ProviderPreference == "" {
		config.ProviderPreference = "auto"
		logger.Info("No AI_PROVIDER specified, defaulting to auto-selection")
	}

	config.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.EnableMockProvider = os.Getenv("ENABLE_MOCK_PROVIDER") == "true"

	if config.OpenAIAPIKey == "" && config.GeminiAPIKey == "" && !config.EnableMockProvider {
		logger.Warn("No analysis provider configured. Set OPENAI_API_KEY, GEMINI_API_KEY, or ENABLE_MOCK_PROVIDER")
	}

	config.AMQPUrl = os.Getenv("AMQP_URL")
	config.AMQPQueueName = os.Getenv("AMQP_QUEUE_NAME")
	if config.AMQPQueueName == "" {
		config.AMQPQueueName = "meetinsight_records"
	}

	port := getEnvInt(logger, "HTTP_PORT", 8080)
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", port)
	}
	config.HTTPPort = port

	config.MetricsEnabled = os.Getenv("METRICS_ENABLED") != "false"

	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		config.LogLevel = logrus.InfoLevel
	} else {
		level, err := logrus.ParseLevel(levelStr)
		if err != nil {
			logger.WithField("log_level", levelStr).Warn("Invalid LOG_LEVEL, defaulting to info")
			config.LogLevel = logrus.InfoLevel
		} else {
			config.LogLevel = level
		}
	}

	return config, nil
}

func getEnvFloat(logger *logrus.Logger, key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":   key,
			"value": raw,
		}).Warnf("Invalid float value, defaulting to %v", fallback)
		return fallback
	}
	return value
}

func getEnvInt(logger *logrus.Logger, key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"key":   key,
			"value": raw,
		}).Warnf("Invalid integer value, defaulting to %d", fallback)
		return fallback
	}
	return value
}
