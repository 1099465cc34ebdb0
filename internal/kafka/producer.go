package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	headerNotificationID   = "notification-id"
	headerNotificationKind = "notification-kind"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	brokers []string
	writer  MessageWriter
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func NewProducerWithWriter(writer MessageWriter) *Producer {
	return &Producer{writer: writer}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}, headers ...kafka.Header) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
		Time:    time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ReadPartitions(); err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}
	return nil
}

// NotificationPublisher hands lifecycle notifications to the worker through a topic.
// Messages are keyed by booking id so one booking's notifications stay ordered.
type NotificationPublisher struct {
	producer *Producer
	topic    string
	timeout  time.Duration
}

func NewNotificationPublisher(producer *Producer, topic string, timeout time.Duration) *NotificationPublisher {
	return &NotificationPublisher{producer: producer, topic: topic, timeout: timeout}
}

func (p *NotificationPublisher) Dispatch(ctx context.Context, n domain.Notification) error {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.producer.Publish(ctx, p.topic, n.BookingID, n,
		kafka.Header{Key: headerNotificationID, Value: []byte(n.ID)},
		kafka.Header{Key: headerNotificationKind, Value: []byte(n.Kind)},
	)
}
