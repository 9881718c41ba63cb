package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSend_ReservationEvent(t *testing.T) {
	sender := NewSender(nil)

	payload := []byte(`{"type":"reservation_submitted","booking_code":"AB12CD","email":"lead@example.com","total_price":2000000,"payment_required":true}`)
	err := sender.Send(context.Background(), payload)

	assert.NoError(t, err)
}

func TestSend_CheckinEvent(t *testing.T) {
	sender := NewSender(nil)

	payload := []byte(`{"type":"seat_change_committed","booking_code":"AB12CD","passenger_id":1,"segment_id":10,"seat_id":102}`)
	err := sender.Send(context.Background(), payload)

	assert.NoError(t, err)
}

func TestSend_MalformedPayloadDropped(t *testing.T) {
	sender := NewSender(nil)

	err := sender.Send(context.Background(), []byte("not json"))

	assert.NoError(t, err)
}

func TestSend_MissingTypeDropped(t *testing.T) {
	sender := NewSender(nil)

	err := sender.Send(context.Background(), []byte(`{"booking_code":"AB12CD"}`))

	assert.NoError(t, err)
}
