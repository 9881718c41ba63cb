package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// ReservationEvent is published when a draft is submitted as a reservation.
type ReservationEvent struct {
	Type            string    `json:"type"`
	BookingCode     string    `json:"booking_code"`
	DraftID         string    `json:"draft_id"`
	TotalPrice      int64     `json:"total_price"`
	PaymentRequired bool      `json:"payment_required"`
	Email           string    `json:"email"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// CheckinEvent covers check-in completion and the seat-change lifecycle.
type CheckinEvent struct {
	Type        string    `json:"type"`
	BookingCode string    `json:"booking_code"`
	PassengerID int64     `json:"passenger_id"`
	SegmentID   int64     `json:"segment_id"`
	SeatID      int64     `json:"seat_id"`
	Charge      int64     `json:"charge"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Producer struct {
	writer *kafka.Writer
	log    *logrus.Logger
}

func NewProducer(brokers []string, log *logrus.Logger) *Producer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &Producer{writer: writer, log: log}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.log.WithFields(logrus.Fields{"topic": topic, "key": key}).Debug("published event")
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
