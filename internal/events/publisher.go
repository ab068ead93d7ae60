// Package events provides event publishing functionality.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"medical-audio-processor/internal/observability/metrics"
	"medical-audio-processor/internal/schema"
)

// Publisher publishes pipeline events to separate Kafka topics.
type Publisher struct {
	writerNote     *kafka.Writer
	writerApproval *kafka.Writer
	principal      string
	topicNote      string
	topicApproval  string
	enabled        bool
	metrics        *metrics.Metrics
	validator      *schema.Validator
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicNote     string
	TopicApproval string
	Principal     string
	Enabled       bool
}

// New creates a Kafka event publisher with separate topics for created
// notes and approved plans. When disabled it runs in log-only mode.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled:   false,
			metrics:   m,
			validator: schema.New(),
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:     cfg.Principal,
			topicNote:     cfg.TopicNote,
			topicApproval: cfg.TopicApproval,
			enabled:       false,
			metrics:       m,
			validator:     schema.New(),
		}
	}

	// Custom dialer with longer timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerNote := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicNote,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerApproval := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicApproval,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicNote", cfg.TopicNote).
		Str("topicApproval", cfg.TopicApproval).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerNote:     writerNote,
		writerApproval: writerApproval,
		principal:      cfg.Principal,
		topicNote:      cfg.TopicNote,
		topicApproval:  cfg.TopicApproval,
		enabled:        true,
		metrics:        m,
		validator:      schema.New(),
	}
}

// PublishNoteCreated publishes a note-created event keyed by session id.
func (p *Publisher) PublishNoteCreated(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerNote, p.topicNote, "note", key, event)
}

// PublishPlanApproved publishes a plan-approved event keyed by session id.
func (p *Publisher) PublishPlanApproved(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerApproval, p.topicApproval, "approval", key, event)
}

// publish is the internal method that writes to a specific Kafka writer.
func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	if err := p.validator.Validate(key, event); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Event failed validation")
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerNote != nil {
		if e := p.writerNote.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing note writer")
			err = e
		}
	}
	if p.writerApproval != nil {
		if e := p.writerApproval.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing approval writer")
			err = e
		}
	}
	return err
}
