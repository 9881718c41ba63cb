// Package notify delivers user-facing notifications for reservation and
// check-in events consumed from the notifications topic.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/internal/kafka"
)

type Sender struct {
	log *logrus.Logger
}

func NewSender(log *logrus.Logger) *Sender {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sender{log: log}
}

// Send routes a raw notification payload by its event type. Unknown
// payloads are logged and dropped rather than failing the consumer.
func (s *Sender) Send(ctx context.Context, payload []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		s.log.WithError(err).Warn("undecodable notification payload")
		return nil
	}

	switch {
	case strings.HasPrefix(probe.Type, "reservation_"):
		var event kafka.ReservationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return s.sendReservation(event)
	case probe.Type != "":
		var event kafka.CheckinEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		return s.sendCheckin(event)
	default:
		s.log.Warn("notification payload without type")
		return nil
	}
}

func (s *Sender) sendReservation(event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s for booking %s (total %d, payment required: %t)\n",
		event.Email, event.Type, event.BookingCode, event.TotalPrice, event.PaymentRequired)
	return nil
}

func (s *Sender) sendCheckin(event kafka.CheckinEvent) error {
	fmt.Printf("notify booking %s about %s for passenger %d on segment %d\n",
		event.BookingCode, event.Type, event.PassengerID, event.SegmentID)
	return nil
}
