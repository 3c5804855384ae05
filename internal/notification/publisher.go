package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	model "github.com/budisantoso88/shipbid-app/internal/models"
	"github.com/budisantoso88/shipbid-app/utils"

	"github.com/segmentio/kafka-go"
)

// kafkaBatchTimeout bounds how long the writer waits to fill a batch.
// kafka-go's default of one second would cap a synchronous caller at one write per second.
const kafkaBatchTimeout = 10 * time.Millisecond

// KafkaPublisher writes notifications to a Kafka topic, keyed by recipient
// so one user's notifications stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchSize:              DefaultEmitterConfig.BatchSize,
			BatchTimeout:           kafkaBatchTimeout,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish sends a batch of notifications in one write
func (p *KafkaPublisher) Publish(ctx context.Context, batch []model.Notification) error {
	msgs, err := toMessages(batch)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d notifications to kafka: %w", len(msgs), err)
	}
	return nil
}

func toMessages(batch []model.Notification) ([]kafka.Message, error) {
	msgs := make([]kafka.Message, 0, len(batch))
	for _, n := range batch {
		payload, err := json.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("marshal notification %s: %w", n.NotificationID, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(n.UserID),
			Value: payload,
			Time:  n.CreatedAt,
			Headers: []kafka.Header{
				{Key: "type", Value: []byte(n.Type)},
			},
		})
	}
	return msgs, nil
}

// Close flushes and closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher writes notifications to the application log
type LogPublisher struct{}

// Publish logs each notification of the batch
func (LogPublisher) Publish(_ context.Context, batch []model.Notification) error {
	for _, n := range batch {
		utils.Info("notification emitted", map[string]any{
			"notification_id": n.NotificationID,
			"user_id":         n.UserID,
			"type":            n.Type,
			"title":           n.Title,
		})
	}
	return nil
}

// Close is a no-op
func (LogPublisher) Close() error { return nil }
