// Package kafka publishes fit events to a Kafka topic for downstream
// reporting services. Publishing is feature-flagged; the session treats the
// publisher as optional and best-effort.
package kafka

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/wind-extremes-service/internal/config"
	"github.com/couchcryptid/wind-extremes-service/internal/session"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces fit events to a Kafka topic.
// It implements session.FitPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured fit topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaFitTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishFit serializes and publishes one fit event.
func (p *Publisher) PublishFit(ctx context.Context, event session.FitEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a fit event into a Kafka message keyed by a
// deterministic fit ID, so replayed publishes are idempotent downstream.
func serializeToMessage(event session.FitEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize fit event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fitID(event)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "observation_count", Value: []byte(fmt.Sprintf("%d", event.ObservationCount))},
			{Key: "fitted_at", Value: []byte(event.FittedAt.Format(time.RFC3339))},
		},
	}, nil
}

// fitID produces a deterministic ID from the event's key fields, so the
// same fit always maps to the same message key.
func fitID(event session.FitEvent) string {
	input := fmt.Sprintf("%.17g|%.17g|%d|%d",
		event.Params.Location, event.Params.Scale,
		event.ObservationCount, event.FittedAt.UnixNano())
	hash := sha256.Sum256([]byte(input))
	return "fit-" + hex.EncodeToString(hash[:8])
}
