package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"tripvia/internal/shared/config"
)

// Producer publishes email messages to the notification topic.
type Producer interface {
	Publish(ctx context.Context, message *EmailMessage) error
	Close() error
}

// KafkaProducer is the sarama-backed Producer.
type KafkaProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaProducer(cfg config.KafkaConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Compression = sarama.CompressionSnappy
	saramaConfig.Producer.Retry.Max = 3
	saramaConfig.Producer.Timeout = 10 * time.Second
	saramaConfig.Producer.Idempotent = true
	saramaConfig.Net.MaxOpenRequests = 1

	// Hash partitioner keeps per-recipient ordering
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka notification producer connected to %v", cfg.Brokers)
	return &KafkaProducer{
		producer: producer,
		topic:    cfg.NotificationTopic,
	}, nil
}

func (kp *KafkaProducer) Publish(ctx context.Context, message *EmailMessage) error {
	messageBytes, err := message.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: kp.topic,
		Key:   sarama.StringEncoder(message.PartitionKey()),
		Value: sarama.ByteEncoder(messageBytes),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(message.ID.String())},
			{Key: []byte("notification_type"), Value: []byte(message.Type)},
			{Key: []byte("booking_id"), Value: []byte(message.BookingID.String())},
			{Key: []byte("created_at"), Value: []byte(message.CreatedAt.Format(time.RFC3339))},
		},
		Timestamp: message.CreatedAt,
	}

	partition, offset, err := kp.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send notification to Kafka: %w", err)
	}

	log.Printf("Notification published - Topic: %s, Partition: %d, Offset: %d, Type: %s",
		kp.topic, partition, offset, message.Type)
	return nil
}

func (kp *KafkaProducer) Close() error {
	if kp.producer != nil {
		if err := kp.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}

// NopProducer is used when Kafka is disabled; notifications are still
// persisted, only the email pipeline is skipped.
type NopProducer struct{}

func (NopProducer) Publish(ctx context.Context, message *EmailMessage) error { return nil }
func (NopProducer) Close() error                                             { return nil }
