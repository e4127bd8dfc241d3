package config

import (
	"os"
	"strconv"
	"strings"
)

// GatewayConfig holds the connection settings for one advertising platform
// API.
type GatewayConfig struct {
	BaseURL           string
	AccessToken       string
	RequestsPerSecond float64
}

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	Facebook GatewayConfig
	TikTok   GatewayConfig
	Google   GatewayConfig

	EnableOutboxRelay bool
	OutboxBatchSize   int
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "adpilot"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		Facebook: gatewayConfig("FACEBOOK", "https://graph.facebook.com/v19.0"),
		TikTok:   gatewayConfig("TIKTOK", "https://business-api.tiktok.com/open_api/v1.3"),
		Google:   gatewayConfig("GOOGLE", "https://googleads.googleapis.com/v16"),

		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
		OutboxBatchSize:   envInt("OUTBOX_BATCH_SIZE", 100),
	}, nil
}

func gatewayConfig(prefix, defaultBaseURL string) GatewayConfig {
	base := os.Getenv(prefix + "_API_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	rps := 5.0
	if raw := strings.TrimSpace(os.Getenv(prefix + "_REQUESTS_PER_SECOND")); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			rps = value
		}
	}
	return GatewayConfig{
		BaseURL:           base,
		AccessToken:       os.Getenv(prefix + "_ACCESS_TOKEN"),
		RequestsPerSecond: rps,
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
