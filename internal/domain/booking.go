package domain

import "time"

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

// Booking is a submitted reservation, keyed by its short booking code.
type Booking struct {
	ID           int64         `json:"id"`
	Code         string        `json:"code"`
	Status       BookingStatus `json:"status"`
	TripType     TripType      `json:"trip_type"`
	TotalPrice   int64         `json:"total_price"`
	ContactEmail string        `json:"contact_email"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
