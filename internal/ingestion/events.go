package ingestion

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"poultryqa/internal/config"
)

// IngestedEvent is published once a document has been chunked and
// persisted, so downstream consumers (analytics, cache warmers) learn
// about newly available knowledge without polling.
type IngestedEvent struct {
	DocumentID    string    `json:"document_id"`
	SourceID      string    `json:"source_id"`
	ChunksWritten int       `json:"chunks_written"`
	Language      string    `json:"language"`
	IngestedAt    time.Time `json:"ingested_at"`
}

// EventPublisher emits ingestion events. Implementations must tolerate a
// nil receiver so ingestion works the same whether or not Kafka is
// configured.
type EventPublisher interface {
	PublishIngested(ctx context.Context, ev IngestedEvent) error
}

// KafkaEventPublisher publishes IngestedEvent to the configured topic.
type KafkaEventPublisher struct {
	writer *kafka.Writer
}

// NewKafkaEventPublisher builds a publisher when Kafka brokers are
// configured; returns (nil, nil) otherwise so callers can pass the result
// straight into Service without a conditional.
func NewKafkaEventPublisher(cfg config.KafkaConfig) (*KafkaEventPublisher, error) {
	if cfg.Brokers == "" {
		return nil, nil
	}
	acks := kafka.RequireOne
	switch cfg.RequiredAcks {
	case 0:
		acks = kafka.RequireNone
	case -1:
		acks = kafka.RequireAll
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.IngestedTopic,
		Balancer: &kafka.LeastBytes{},
		Async:    cfg.AsyncProducing,
		RequiredAcks: acks,
	}
	return &KafkaEventPublisher{writer: writer}, nil
}

func (p *KafkaEventPublisher) PublishIngested(ctx context.Context, ev IngestedEvent) error {
	if p == nil || p.writer == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(ev.DocumentID), Value: payload, Time: time.Now()})
}

// Close shuts down the underlying writer.
func (p *KafkaEventPublisher) Close() {
	if p == nil || p.writer == nil {
		return
	}
	if err := p.writer.Close(); err != nil {
		log.Warn().Err(err).Msg("kafka_ingested_writer_close_failed")
	}
}
