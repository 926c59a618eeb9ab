// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "meeting_assistant"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Bot lifecycle metrics
	BotsCreated        prometheus.Counter
	BotCreateFailures  prometheus.Counter
	BotFetchesTotal    prometheus.Counter
	BotFetchesComplete prometheus.Counter

	// Provider API metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec

	// Artifact download metrics
	ArtifactDownloads *prometheus.CounterVec

	// Webhook metrics
	WebhookEventsTotal   *prometheus.CounterVec
	WebhookRejectedTotal prometheus.Counter

	// Assistant metrics
	AssistantRequests prometheus.Counter
	AssistantErrors   prometheus.Counter
	AssistantLatency  prometheus.Histogram

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		BotsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bots_created_total",
			Help:      "Total number of recording bots created",
		}),
		BotCreateFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_create_failures_total",
			Help:      "Total number of failed bot creations",
		}),
		BotFetchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_fetches_total",
			Help:      "Total number of bot data fetches",
		}),
		BotFetchesComplete: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bot_fetches_complete_total",
			Help:      "Total number of bot data fetches that returned a complete recording",
		}),

		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total number of recording provider API requests",
		}, []string{"endpoint", "outcome"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_latency_seconds",
			Help:      "Recording provider API request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"endpoint"}),

		ArtifactDownloads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artifact_downloads_total",
			Help:      "Total number of artifact download attempts by outcome",
		}, []string{"artifact", "outcome"}),

		WebhookEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Total number of webhook events received by type",
		}, []string{"event"}),
		WebhookRejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_rejected_total",
			Help:      "Total number of webhook deliveries rejected for invalid signatures",
		}),

		AssistantRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_requests_total",
			Help:      "Total number of AI chat assistant requests",
		}),
		AssistantErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_errors_total",
			Help:      "Total number of failed AI chat assistant requests",
		}),
		AssistantLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assistant_latency_seconds",
			Help:      "AI chat assistant request latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordBotCreated records a bot creation attempt.
func (m *Metrics) RecordBotCreated(err error) {
	if err != nil {
		m.BotCreateFailures.Inc()
		return
	}
	m.BotsCreated.Inc()
}

// RecordBotFetch records a bot data fetch.
func (m *Metrics) RecordBotFetch(complete bool) {
	m.BotFetchesTotal.Inc()
	if complete {
		m.BotFetchesComplete.Inc()
	}
}

// RecordProviderRequest records a provider API request.
func (m *Metrics) RecordProviderRequest(endpoint string, err error, latencySeconds float64) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderLatency.WithLabelValues(endpoint).Observe(latencySeconds)
}

// RecordArtifactDownload records an artifact download attempt.
// Outcome is one of "fetched", "absent", "failed".
func (m *Metrics) RecordArtifactDownload(artifact, outcome string) {
	m.ArtifactDownloads.WithLabelValues(artifact, outcome).Inc()
}

// RecordWebhookEvent records a verified webhook event.
func (m *Metrics) RecordWebhookEvent(event string) {
	m.WebhookEventsTotal.WithLabelValues(event).Inc()
}

// RecordWebhookRejected records a webhook delivery with an invalid signature.
func (m *Metrics) RecordWebhookRejected() {
	m.WebhookRejectedTotal.Inc()
}

// RecordAssistantRequest records an AI chat request.
func (m *Metrics) RecordAssistantRequest(err error, latencySeconds float64) {
	m.AssistantRequests.Inc()
	m.AssistantLatency.Observe(latencySeconds)
	if err != nil {
		m.AssistantErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
