package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	stockapp "github.com/Apurer/youstockit/internal/domains/stock/application"
	"github.com/Apurer/youstockit/internal/platform/rabbitmq"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	AMQPURL           string
	AMQPExchange      string
	SuppliersFile     string
	ManagerEmail      string
	MaxAttempts       int
	RetryDelay        time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
		AMQPExchange:      envDefault("AMQP_EXCHANGE", rabbitmq.DefaultExchange),
		SuppliersFile:     strings.TrimSpace(os.Getenv("SUPPLIERS_FILE")),
		ManagerEmail:      envDefault("MANAGER_EMAIL", "manager@youstockit.local"),
		MaxAttempts:       stockapp.DefaultMaxAttempts,
		RetryDelay:        stockapp.DefaultRetryDelay,
	}
	if raw := strings.TrimSpace(os.Getenv("REPLENISH_MAX_ATTEMPTS")); raw != "" {
		attempts, err := strconv.Atoi(raw)
		if err != nil || attempts <= 0 {
			return Config{}, fmt.Errorf("REPLENISH_MAX_ATTEMPTS must be a positive integer")
		}
		cfg.MaxAttempts = attempts
	}
	if raw := strings.TrimSpace(os.Getenv("REPLENISH_RETRY_DELAY")); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil || delay < 0 {
			return Config{}, fmt.Errorf("REPLENISH_RETRY_DELAY must be a non-negative duration such as 5s")
		}
		cfg.RetryDelay = delay
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
