// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "medical_audio_processor"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Audio metrics
	AudioBytesReceived prometheus.Counter
	ConversionsTotal   *prometheus.CounterVec

	// Transcription metrics
	TranscriptionsTotal  *prometheus.CounterVec
	TranscriptionLatency *prometheus.HistogramVec

	// LLM metrics
	LLMCallsTotal *prometheus.CounterVec
	LLMLatency    *prometheus.HistogramVec

	// NER metrics
	EntityExtractionsTotal *prometheus.CounterVec
	EntitiesExtracted      prometheus.Counter

	// Agent action metrics
	ActionsTotal *prometheus.CounterVec

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
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		}, []string{"endpoint", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "End-to-end request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"endpoint"}),

		AudioBytesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_bytes_received_total",
			Help:      "Total uploaded audio bytes received",
		}),
		ConversionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_conversions_total",
			Help:      "Total audio normalization attempts",
		}, []string{"status"}),

		TranscriptionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Total transcription attempts",
		}, []string{"provider", "status"}),
		TranscriptionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_latency_seconds",
			Help:      "Speech-to-text latency in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"provider"}),

		LLMCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Total LLM invocations",
		}, []string{"operation", "status"}),
		LLMLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_latency_seconds",
			Help:      "LLM call latency in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"operation"}),

		EntityExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entity_extractions_total",
			Help:      "Total NER extraction calls",
		}, []string{"status"}),
		EntitiesExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_extracted_total",
			Help:      "Total entities returned by the NER model",
		}),

		ActionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "agent_actions_total",
			Help:      "Total agent actions executed on plan approval",
		}, []string{"action", "status"}),

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

// RecordRequest records a handled HTTP request.
func (m *Metrics) RecordRequest(endpoint, status string, durationSeconds float64) {
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordAudioReceived records uploaded audio bytes.
func (m *Metrics) RecordAudioReceived(bytes int64) {
	m.AudioBytesReceived.Add(float64(bytes))
}

// RecordConversion records an audio normalization attempt.
func (m *Metrics) RecordConversion(status string) {
	m.ConversionsTotal.WithLabelValues(status).Inc()
}

// RecordTranscription records a transcription attempt.
func (m *Metrics) RecordTranscription(provider string, err error, latencySeconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.TranscriptionsTotal.WithLabelValues(provider, status).Inc()
	m.TranscriptionLatency.WithLabelValues(provider).Observe(latencySeconds)
}

// RecordLLMCall records an LLM invocation.
func (m *Metrics) RecordLLMCall(operation string, err error, latencySeconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.LLMCallsTotal.WithLabelValues(operation, status).Inc()
	m.LLMLatency.WithLabelValues(operation).Observe(latencySeconds)
}

// RecordEntityExtraction records a NER extraction call.
func (m *Metrics) RecordEntityExtraction(err error, count int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.EntityExtractionsTotal.WithLabelValues(status).Inc()
	if err == nil {
		m.EntitiesExtracted.Add(float64(count))
	}
}

// RecordAction records an agent action outcome.
func (m *Metrics) RecordAction(action, status string) {
	m.ActionsTotal.WithLabelValues(action, status).Inc()
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
