package checkin

import (
	"testing"
	"time"

	"github.com/skyfare/booking/internal/domain"
	"github.com/stretchr/testify/assert"
)

var (
	evalNow    = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	evalWindow = 24 * time.Hour
)

func segmentDepartingIn(id int64, in time.Duration) domain.Segment {
	return domain.Segment{
		ID:            id,
		BookingCode:   "AB12CD",
		FlightID:      4,
		CabinClassID:  1,
		DepartureTime: evalNow.Add(in),
	}
}

func TestCanCheckIn(t *testing.T) {
	testCases := []struct {
		name      string
		departsIn time.Duration
		want      bool
	}{
		{"30 hours before departure", 30 * time.Hour, false},
		{"exactly at window open", 24 * time.Hour, true},
		{"10 hours before departure", 10 * time.Hour, true},
		{"one minute before departure", time.Minute, true},
		{"departure already happened", -time.Hour, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			seg := segmentDepartingIn(1, tc.departsIn)
			assert.Equal(t, tc.want, CanCheckIn(seg, evalNow, evalWindow))
		})
	}
}

func TestEvaluate_WindowNotOpen(t *testing.T) {
	segments := []domain.Segment{segmentDepartingIn(1, 30*time.Hour)}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusPending},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.False(t, summary.Actionable)
	assert.Equal(t, ReasonWindowNotOpen, summary.Reason)
	assert.Len(t, summary.Pairs, 1)
	assert.False(t, summary.Pairs[0].WindowOpen)
}

func TestEvaluate_WindowClosed(t *testing.T) {
	segments := []domain.Segment{segmentDepartingIn(1, -time.Hour)}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusEligible},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.False(t, summary.Actionable)
	assert.Equal(t, ReasonWindowClosed, summary.Reason)
}

func TestEvaluate_ActionableInsideWindow(t *testing.T) {
	segments := []domain.Segment{segmentDepartingIn(1, 10*time.Hour)}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusEligible},
		{PassengerID: 2, SegmentID: 1, Status: domain.CheckinStatusPending},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.True(t, summary.Actionable)
	assert.Empty(t, summary.Reason)
	for _, pair := range summary.Pairs {
		assert.True(t, pair.Actionable)
		assert.True(t, pair.WindowOpen)
	}
}

func TestEvaluate_MixedCheckinState(t *testing.T) {
	// Outbound flown, return still open: the booking is partially checked in
	// and the remaining pair stays actionable.
	segments := []domain.Segment{
		segmentDepartingIn(1, -48*time.Hour),
		segmentDepartingIn(2, 10*time.Hour),
	}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusAlreadyCheckedIn},
		{PassengerID: 1, SegmentID: 2, Status: domain.CheckinStatusEligible},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.True(t, summary.Actionable)
	assert.True(t, summary.PartiallyCheckedIn)
	assert.False(t, summary.FullyCheckedIn)
}

func TestEvaluate_FullyCheckedIn(t *testing.T) {
	segments := []domain.Segment{segmentDepartingIn(1, 10*time.Hour)}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusAlreadyCheckedIn},
		{PassengerID: 2, SegmentID: 1, Status: domain.CheckinStatusCompleted},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.False(t, summary.Actionable)
	assert.True(t, summary.FullyCheckedIn)
	assert.False(t, summary.PartiallyCheckedIn)
	assert.Equal(t, ReasonAlreadyCheckedIn, summary.Reason)
}

func TestEvaluate_BlockingStatuses(t *testing.T) {
	testCases := []struct {
		status domain.CheckinStatus
		reason Reason
	}{
		{domain.CheckinStatusBookingCancelled, ReasonBookingCancelled},
		{domain.CheckinStatusBookingNotConfirmed, ReasonBookingNotConfirmed},
		{domain.CheckinStatusPaymentPending, ReasonPaymentPending},
		{domain.CheckinStatusNotAvailable, ReasonNotAvailable},
	}

	for _, tc := range testCases {
		t.Run(string(tc.status), func(t *testing.T) {
			segments := []domain.Segment{segmentDepartingIn(1, 10*time.Hour)}
			records := []domain.CheckinRecord{
				{PassengerID: 1, SegmentID: 1, Status: tc.status},
			}

			summary := Evaluate(segments, records, evalNow, evalWindow)

			assert.False(t, summary.Actionable)
			assert.Equal(t, tc.reason, summary.Reason)
		})
	}
}

func TestEvaluate_CancelledWinsOverWindow(t *testing.T) {
	// A hard-blocking state is a more useful explanation than the window.
	segments := []domain.Segment{segmentDepartingIn(1, 30*time.Hour)}
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 1, Status: domain.CheckinStatusPending},
		{PassengerID: 2, SegmentID: 1, Status: domain.CheckinStatusBookingCancelled},
	}

	summary := Evaluate(segments, records, evalNow, evalWindow)

	assert.False(t, summary.Actionable)
	assert.Equal(t, ReasonBookingCancelled, summary.Reason)
}

func TestEvaluate_UnknownSegment(t *testing.T) {
	records := []domain.CheckinRecord{
		{PassengerID: 1, SegmentID: 42, Status: domain.CheckinStatusEligible},
	}

	summary := Evaluate(nil, records, evalNow, evalWindow)

	assert.False(t, summary.Actionable)
	assert.Equal(t, ReasonNotAvailable, summary.Pairs[0].Reason)
}
