package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"tourbook/internal/shared/config"
	"tourbook/pkg/logger"
)

// Publisher emits reservation lifecycle events. Implementations must be safe
// for concurrent use.
type Publisher interface {
	PublishReservationEvent(ctx context.Context, event ReservationEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewKafkaPublisher builds a sync producer with idempotent writes and hash
// partitioning on the reservation code, so events for one reservation stay
// ordered within a partition.
func NewKafkaPublisher(cfg *config.Config, log *logger.Logger) (Publisher, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		topic:    cfg.Kafka.Topic,
		log:      log,
	}, nil
}

func (p *kafkaPublisher) PublishReservationEvent(ctx context.Context, event ReservationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal reservation event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.ReservationCode),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to publish reservation event: %w", err)
	}

	p.log.DebugContext(ctx, "reservation event published",
		"type", event.Type,
		"reservation_code", event.ReservationCode,
		"partition", partition,
		"offset", offset,
	)
	return nil
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher is used when Kafka is disabled by config.
type NoopPublisher struct{}

func (NoopPublisher) PublishReservationEvent(context.Context, ReservationEvent) error { return nil }
func (NoopPublisher) Close() error                                                    { return nil }
