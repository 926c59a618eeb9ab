// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Configuration is the full service configuration, read once at startup.
type Configuration struct {
	Service       ServiceConfig
	Recall        RecallConfig
	Webhook       WebhookConfig
	AI            AIConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds the HTTP listener settings.
type ServiceConfig struct {
	Port      string
	Principal string
}

// RecallConfig holds recording-provider API settings.
type RecallConfig struct {
	APIKey  string
	Region  string
	Timeout time.Duration
}

// WebhookConfig holds the shared secret for provider webhook verification.
type WebhookConfig struct {
	Secret string
}

// AIConfig holds generative-language provider settings. BaseURL points at an
// OpenAI-compatible endpoint.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// KafkaConfig holds optional webhook event forwarding settings.
type KafkaConfig struct {
	Enabled   bool
	Brokers   []string
	Topic     string
	Principal string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsPort string
}

// Load reads configuration from environment variables, falling back to
// defaults on missing or invalid values.
func Load() *Configuration {
	principal := envOrDefault("SERVICE_PRINCIPAL", "svc-meeting-assistant")

	return &Configuration{
		Service: ServiceConfig{
			Port:      envOrDefault("PORT", "8080"),
			Principal: principal,
		},
		Recall: RecallConfig{
			APIKey:  os.Getenv("RECALL_API_KEY"),
			Region:  envOrDefault("RECALL_REGION", "us-west-2"),
			Timeout: envOrDefaultDuration("RECALL_TIMEOUT", 30*time.Second),
		},
		Webhook: WebhookConfig{
			Secret: os.Getenv("WEBHOOK_SECRET"),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			BaseURL:     envOrDefault("AI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
			Model:       envOrDefault("AI_MODEL", "gemini-2.0-flash"),
			MaxTokens:   envOrDefaultInt("AI_MAX_TOKENS", 500),
			Temperature: envOrDefaultFloat("AI_TEMPERATURE", 0.7),
		},
		Kafka: KafkaConfig{
			Enabled:   envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:   envOrDefaultSlice("KAFKA_BROKERS", nil),
			Topic:     envOrDefault("KAFKA_TOPIC", "meeting.webhook.events"),
			Principal: envOrDefault("KAFKA_PRINCIPAL", principal),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return def
	}
	return b
}

func envOrDefaultInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envOrDefaultFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envOrDefaultSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
