package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"tripvia/internal/shared/config"
)

// Consumer drains the notification topic and hands messages to the
// email service.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	topics        []string
	emailService  EmailService
	maxRetries    int
	cancel        context.CancelFunc
}

func NewKafkaConsumer(cfg config.KafkaConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = 30 * time.Second
	saramaConfig.Consumer.Group.Heartbeat.Interval = 3 * time.Second
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		topics:        []string{cfg.NotificationTopic},
		emailService:  emailService,
		maxRetries:    3,
	}, nil
}

func (kc *kafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	ctx, kc.cancel = context.WithCancel(ctx)

	log.Printf("Starting %d notification consumer workers for topics: %v", numWorkers, kc.topics)

	go func() {
		for err := range kc.consumerGroup.Errors() {
			log.Printf("Consumer group error: %v", err)
		}
	}()

	for i := 0; i < numWorkers; i++ {
		go kc.runWorker(ctx, i)
	}

	return nil
}

func (kc *kafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &consumerGroupHandler{
		workerID:     workerID,
		emailService: kc.emailService,
		maxRetries:   kc.maxRetries,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("Notification worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.topics, handler); err != nil {
				log.Printf("Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *kafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	log.Println("Notification consumer stopped")
	return nil
}

type consumerGroupHandler struct {
	workerID     int
	emailService EmailService
	maxRetries   int
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}

			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("Worker %d: error processing message: %v", h.workerID, err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *consumerGroupHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var email EmailMessage
	if err := json.Unmarshal(message.Value, &email); err != nil {
		return fmt.Errorf("failed to unmarshal notification message: %w", err)
	}

	return h.sendWithRetry(ctx, &email)
}

func (h *consumerGroupHandler) sendWithRetry(ctx context.Context, email *EmailMessage) error {
	backoff := time.Second

	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		err := h.emailService.Send(ctx, email)
		if err == nil {
			return nil
		}

		if attempt == h.maxRetries {
			return fmt.Errorf("failed to send notification after %d attempts: %w", h.maxRetries, err)
		}

		delay := backoff * time.Duration(1<<attempt)
		log.Printf("Worker %d: retry %d for %s after %v", h.workerID, attempt+1, email.RecipientEmail, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}
