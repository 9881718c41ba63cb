package domain

import "time"

// CheckinStatus is the server-asserted classification of a passenger/segment
// pair. The core derives nothing from it beyond the time-window gate.
type CheckinStatus string

const (
	CheckinStatusPending             CheckinStatus = "PENDING"
	CheckinStatusEligible            CheckinStatus = "ELIGIBLE"
	CheckinStatusAlreadyCheckedIn    CheckinStatus = "ALREADY_CHECKED_IN"
	CheckinStatusBookingNotConfirmed CheckinStatus = "BOOKING_NOT_CONFIRMED"
	CheckinStatusPaymentPending      CheckinStatus = "PAYMENT_PENDING"
	CheckinStatusBookingCancelled    CheckinStatus = "BOOKING_CANCELLED"
	CheckinStatusNotAvailable        CheckinStatus = "NOT_AVAILABLE"
	CheckinStatusCompleted           CheckinStatus = "COMPLETED"
)

// Segment is one flown leg of a submitted booking.
type Segment struct {
	ID             int64     `json:"id"`
	BookingCode    string    `json:"booking_code"`
	FlightID       int64     `json:"flight_id"`
	CabinClassID   int64     `json:"cabin_class_id"`
	CabinClassName string    `json:"cabin_class_name"`
	FromAirport    string    `json:"from_airport"`
	ToAirport      string    `json:"to_airport"`
	DepartureTime  time.Time `json:"departure_time"`
}

type CheckinRecord struct {
	PassengerID   int64         `json:"passenger_id"`
	SegmentID     int64         `json:"segment_id"`
	PassengerName string        `json:"passenger_name"`
	LastName      string        `json:"last_name"`
	SeatID        int64         `json:"seat_id"`
	Status        CheckinStatus `json:"status"`
}

// SeatChangeCalculation is the quote for moving a checked-in passenger to a
// different seat. Ephemeral: computed on demand, discarded after commit or
// cancellation.
type SeatChangeCalculation struct {
	OldSeatCategory SeatCategory `json:"old_seat_category"`
	NewSeatCategory SeatCategory `json:"new_seat_category"`
	OldPrice        int64        `json:"old_price"`
	NewPrice        int64        `json:"new_price"`
	PriceDifference int64        `json:"price_difference"`
	TotalCharge     int64        `json:"total_charge"`
	RequiresPayment bool         `json:"requires_payment"`
}

type ProposalStatus string

const (
	ProposalStatusProposed  ProposalStatus = "PROPOSED"
	ProposalStatusCommitted ProposalStatus = "COMMITTED"
	ProposalStatusCancelled ProposalStatus = "CANCELLED"
	ProposalStatusExpired   ProposalStatus = "EXPIRED"
)

// SeatChangeProposal is a seat change awaiting payment confirmation. The
// original seat stays in place until the proposal is committed; expiry
// abandons the change.
type SeatChangeProposal struct {
	ID            int64          `json:"id"`
	BookingCode   string         `json:"booking_code"`
	PassengerID   int64          `json:"passenger_id"`
	SegmentID     int64          `json:"segment_id"`
	CurrentSeatID int64          `json:"current_seat_id"`
	NewSeatID     int64          `json:"new_seat_id"`
	Charge        int64          `json:"charge"`
	Status        ProposalStatus `json:"status"`
	ExpiresAt     time.Time      `json:"expires_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
