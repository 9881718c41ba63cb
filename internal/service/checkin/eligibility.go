package checkin

import (
	"time"

	"github.com/skyfare/booking/internal/domain"
)

// Reason tells the caller why a pair (or the whole booking) is not
// actionable, so the UI can render a precise message instead of a generic
// "unavailable".
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonWindowNotOpen       Reason = "WINDOW_NOT_OPEN"
	ReasonWindowClosed        Reason = "WINDOW_CLOSED"
	ReasonAlreadyCheckedIn    Reason = "ALREADY_CHECKED_IN"
	ReasonBookingNotConfirmed Reason = "BOOKING_NOT_CONFIRMED"
	ReasonPaymentPending      Reason = "PAYMENT_PENDING"
	ReasonBookingCancelled    Reason = "BOOKING_CANCELLED"
	ReasonNotAvailable        Reason = "NOT_AVAILABLE"
)

// PairReadiness is the evaluator's verdict for one passenger/segment pair.
type PairReadiness struct {
	PassengerID   int64                `json:"passenger_id"`
	SegmentID     int64                `json:"segment_id"`
	PassengerName string               `json:"passenger_name"`
	Status        domain.CheckinStatus `json:"status"`
	WindowOpen    bool                 `json:"window_open"`
	Actionable    bool                 `json:"actionable"`
	Reason        Reason               `json:"reason,omitempty"`
}

// Summary classifies the whole booking. A round trip with only the outbound
// processed is a valid, non-terminal state: pairs stay independent and the
// caller may re-enter the flow for the remaining segment.
type Summary struct {
	Pairs              []PairReadiness `json:"pairs"`
	Actionable         bool            `json:"actionable"`
	FullyCheckedIn     bool            `json:"fully_checked_in"`
	PartiallyCheckedIn bool            `json:"partially_checked_in"`
	Reason             Reason          `json:"reason,omitempty"`
}

// CanCheckIn is the time-window gate, independent of server status:
// now must fall within [departure - window, departure).
func CanCheckIn(segment domain.Segment, now time.Time, window time.Duration) bool {
	opens := segment.DepartureTime.Add(-window)
	return !now.Before(opens) && now.Before(segment.DepartureTime)
}

// Evaluate classifies every passenger/segment pair. A pair is actionable
// iff the server-reported status is ELIGIBLE or PENDING and the segment's
// check-in window is open.
func Evaluate(segments []domain.Segment, records []domain.CheckinRecord, now time.Time, window time.Duration) Summary {
	segmentsByID := make(map[int64]domain.Segment, len(segments))
	for _, seg := range segments {
		segmentsByID[seg.ID] = seg
	}

	summary := Summary{Pairs: make([]PairReadiness, 0, len(records))}
	checkedIn := 0
	for _, rec := range records {
		pair := PairReadiness{
			PassengerID:   rec.PassengerID,
			SegmentID:     rec.SegmentID,
			PassengerName: rec.PassengerName,
			Status:        rec.Status,
		}

		seg, segKnown := segmentsByID[rec.SegmentID]
		if segKnown {
			pair.WindowOpen = CanCheckIn(seg, now, window)
		}

		switch rec.Status {
		case domain.CheckinStatusEligible, domain.CheckinStatusPending:
			switch {
			case !segKnown:
				pair.Reason = ReasonNotAvailable
			case pair.WindowOpen:
				pair.Actionable = true
			case now.Before(seg.DepartureTime):
				pair.Reason = ReasonWindowNotOpen
			default:
				pair.Reason = ReasonWindowClosed
			}
		case domain.CheckinStatusAlreadyCheckedIn, domain.CheckinStatusCompleted:
			pair.Reason = ReasonAlreadyCheckedIn
			checkedIn++
		case domain.CheckinStatusBookingNotConfirmed:
			pair.Reason = ReasonBookingNotConfirmed
		case domain.CheckinStatusPaymentPending:
			pair.Reason = ReasonPaymentPending
		case domain.CheckinStatusBookingCancelled:
			pair.Reason = ReasonBookingCancelled
		default:
			pair.Reason = ReasonNotAvailable
		}

		if pair.Actionable {
			summary.Actionable = true
		}
		summary.Pairs = append(summary.Pairs, pair)
	}

	summary.FullyCheckedIn = len(records) > 0 && checkedIn == len(records)
	summary.PartiallyCheckedIn = checkedIn > 0 && checkedIn < len(records)
	if !summary.Actionable {
		summary.Reason = blockingReason(summary)
	}
	return summary
}

// blockingReason picks the single most useful explanation when no pair is
// actionable. Terminal and hard-blocking states win over the time window.
func blockingReason(summary Summary) Reason {
	if summary.FullyCheckedIn {
		return ReasonAlreadyCheckedIn
	}
	precedence := []Reason{
		ReasonBookingCancelled,
		ReasonBookingNotConfirmed,
		ReasonPaymentPending,
		ReasonWindowNotOpen,
		ReasonWindowClosed,
		ReasonAlreadyCheckedIn,
	}
	for _, reason := range precedence {
		for _, pair := range summary.Pairs {
			if pair.Reason == reason {
				return reason
			}
		}
	}
	return ReasonNotAvailable
}
