package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Consumer struct {
	reader MessageReader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func NewConsumerWithReader(reader MessageReader) *Consumer {
	return &Consumer{reader: reader}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is cancelled or the handler fails. A cancelled context is
// not reported as an error.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
}

type NotificationSender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// NotificationHandler decodes notifications and passes them to the sender. Undecodable
// messages and failed deliveries are logged and skipped so the partition keeps moving.
func NotificationHandler(sender NotificationSender, log zerolog.Logger) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, msg kafka.Message) error {
		n, err := DecodeNotification(msg)
		if err != nil {
			log.Error().Err(err).Int64("offset", msg.Offset).Msg("decode notification")
			return nil
		}
		if err := sender.Send(ctx, n); err != nil {
			log.Error().
				Err(err).
				Str("notification_id", n.ID).
				Str("booking_id", n.BookingID).
				Msg("failed to deliver notification")
		}
		return nil
	}
}

func DecodeNotification(msg kafka.Message) (domain.Notification, error) {
	var n domain.Notification
	if err := json.Unmarshal(msg.Value, &n); err != nil {
		return domain.Notification{}, fmt.Errorf("unmarshal notification: %w", err)
	}
	if n.Kind == "" || n.Email == "" {
		return domain.Notification{}, fmt.Errorf("notification %q is missing kind or email", n.ID)
	}
	return n, nil
}
