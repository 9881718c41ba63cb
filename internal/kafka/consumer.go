package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	reader *kafka.Reader
	log    *logrus.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *logrus.Logger) *Consumer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log,
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads messages until ctx is cancelled or the reader fails. A
// handler failure skips the message; the offset is already committed by the
// consumer group, so returning would drop the rest of the partition with it.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"topic":     msg.Topic,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Warn("message handler failed")
		}
	}
}
