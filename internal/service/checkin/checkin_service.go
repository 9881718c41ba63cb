package checkin

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/kafka"
	"github.com/skyfare/booking/internal/repository"
)

// commitOnceTTL keeps the idempotency key alive long enough to absorb a
// client re-entering the commit path after an app backgrounding event.
const commitOnceTTL = 24 * time.Hour

type CheckinUseCase interface {
	GetEligibility(ctx context.Context, bookingCode, lastName string) (*EligibilityResult, error)
	ComputeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*domain.SeatChangeCalculation, error)
	ProposeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*ProposalResult, error)
	CommitSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error)
	CancelSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error)
	CompleteCheckin(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*PairReadiness, error)
	ExpireProposedChanges(ctx context.Context) ([]domain.SeatChangeProposal, error)
}

// SeatSource supplies the priced seat map for a flight and cabin class.
type SeatSource interface {
	ListSeats(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error)
}

type Cache interface {
	AcquireCommitOnce(ctx context.Context, bookingCode string, passengerID, segmentID int64, ttl time.Duration) (bool, error)
	ReleaseCommitOnce(ctx context.Context, bookingCode string, passengerID, segmentID int64) error
	InvalidateSeatMap(ctx context.Context, flightID, cabinClassID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type EligibilityResult struct {
	BookingCode string           `json:"booking_code"`
	Segments    []domain.Segment `json:"segments"`
	Summary     Summary          `json:"summary"`
}

// ProposalResult pairs a stored proposal with its quote. Committed is true
// when the change was free and applied immediately.
type ProposalResult struct {
	Proposal    *domain.SeatChangeProposal   `json:"proposal"`
	Calculation domain.SeatChangeCalculation `json:"calculation"`
	Committed   bool                         `json:"committed"`
}

type CheckinService struct {
	checkins           repository.CheckinRepository
	seats              SeatSource
	cache              Cache
	producer           Producer
	checkinTopic       string
	notificationsTopic string
	window             time.Duration
	paymentTTL         time.Duration
	now                func() time.Time
	log                *logrus.Logger
}

type CheckinServiceOption func(*CheckinService)

func WithNotificationsTopic(topic string) CheckinServiceOption {
	return func(s *CheckinService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) CheckinServiceOption {
	return func(s *CheckinService) {
		s.now = now
	}
}

func WithLogger(log *logrus.Logger) CheckinServiceOption {
	return func(s *CheckinService) {
		s.log = log
	}
}

func NewCheckinService(
	checkins repository.CheckinRepository,
	seats SeatSource,
	cache Cache,
	producer Producer,
	checkinTopic string,
	window, paymentTTL time.Duration,
	opts ...CheckinServiceOption,
) *CheckinService {
	service := &CheckinService{
		checkins:     checkins,
		seats:        seats,
		cache:        cache,
		producer:     producer,
		checkinTopic: checkinTopic,
		window:       window,
		paymentTTL:   paymentTTL,
		now:          time.Now,
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CheckinService) GetEligibility(ctx context.Context, bookingCode, lastName string) (*EligibilityResult, error) {
	records, segments, err := s.loadBooking(ctx, bookingCode)
	if err != nil {
		return nil, err
	}

	// The lookup is keyed by booking code plus a passenger surname; a code
	// alone must not expose the manifest.
	nameMatches := false
	for _, rec := range records {
		if strings.EqualFold(rec.LastName, lastName) {
			nameMatches = true
			break
		}
	}
	if !nameMatches {
		return nil, domain.NotFound("booking", bookingCode)
	}

	return &EligibilityResult{
		BookingCode: bookingCode,
		Segments:    segments,
		Summary:     Evaluate(segments, records, s.now(), s.window),
	}, nil
}

func (s *CheckinService) ComputeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*domain.SeatChangeCalculation, error) {
	_, current, requested, segment, err := s.resolveChange(ctx, bookingCode, passengerID, segmentID, newSeatID)
	if err != nil {
		return nil, err
	}
	calc := CalculateSeatChange(current, requested, segment.CabinClassName)
	return &calc, nil
}

// ProposeSeatChange quotes and stages a seat change. A free change commits
// immediately; a paid one stays proposed until the payment countdown ends
// or an explicit commit arrives. A new proposal for the same pair
// supersedes the pending one.
func (s *CheckinService) ProposeSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*ProposalResult, error) {
	record, current, requested, segment, err := s.resolveChange(ctx, bookingCode, passengerID, segmentID, newSeatID)
	if err != nil {
		return nil, err
	}
	if blocked := seatChangeBlocked(record.Status); blocked != ReasonNone {
		return nil, domain.Validationf("seat change is not available: %s", blocked)
	}

	calc := CalculateSeatChange(current, requested, segment.CabinClassName)
	proposal := &domain.SeatChangeProposal{
		BookingCode:   bookingCode,
		PassengerID:   passengerID,
		SegmentID:     segmentID,
		CurrentSeatID: current.ID,
		NewSeatID:     requested.ID,
		Charge:        calc.TotalCharge,
		ExpiresAt:     s.now().Add(s.paymentTTL),
	}
	if err := s.checkins.CreateProposal(ctx, proposal); err != nil {
		return nil, err
	}

	result := &ProposalResult{Proposal: proposal, Calculation: calc}
	if calc.RequiresPayment {
		return result, nil
	}

	committed, err := s.applyProposal(ctx, proposal, segment)
	if err != nil {
		return nil, err
	}
	result.Proposal = committed
	result.Committed = true
	return result, nil
}

// CommitSeatChange applies a pending proposal after its payment completed.
// It is idempotent per (booking code, passenger, segment): re-invocation
// after a successful commit returns the committed proposal unchanged.
func (s *CheckinService) CommitSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error) {
	proposal, err := s.checkins.GetLatestProposal(ctx, bookingCode, passengerID, segmentID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, domain.NotFound("seat change proposal", bookingCode)
	}
	switch proposal.Status {
	case domain.ProposalStatusCommitted:
		return proposal, nil
	case domain.ProposalStatusProposed:
	default:
		return nil, domain.Validationf("seat change is %s and cannot be committed", proposal.Status)
	}
	if s.now().After(proposal.ExpiresAt) {
		return nil, domain.Validationf("payment window for seat change elapsed; original seat kept")
	}

	ok, err := s.cache.AcquireCommitOnce(ctx, bookingCode, passengerID, segmentID, commitOnceTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another invocation won the key. Report its outcome instead of
		// re-applying the change.
		latest, err := s.checkins.GetLatestProposal(ctx, bookingCode, passengerID, segmentID)
		if err != nil {
			return nil, err
		}
		if latest != nil && latest.Status == domain.ProposalStatusCommitted {
			return latest, nil
		}
		return nil, domain.Inconsistentf("seat change commit already in progress for booking %s", bookingCode)
	}

	committed, err := s.applyProposal(ctx, proposal, nil)
	if err != nil {
		_ = s.cache.ReleaseCommitOnce(ctx, bookingCode, passengerID, segmentID)
		return nil, err
	}
	return committed, nil
}

func (s *CheckinService) CancelSeatChange(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error) {
	proposal, err := s.checkins.GetLatestProposal(ctx, bookingCode, passengerID, segmentID)
	if err != nil {
		return nil, err
	}
	if proposal == nil || proposal.Status != domain.ProposalStatusProposed {
		return nil, domain.NotFound("pending seat change", bookingCode)
	}
	return s.checkins.CancelProposal(ctx, proposal.ID)
}

// CompleteCheckin finishes check-in for one actionable passenger/segment
// pair.
func (s *CheckinService) CompleteCheckin(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*PairReadiness, error) {
	records, segments, err := s.loadBooking(ctx, bookingCode)
	if err != nil {
		return nil, err
	}

	summary := Evaluate(segments, records, s.now(), s.window)
	for _, pair := range summary.Pairs {
		if pair.PassengerID != passengerID || pair.SegmentID != segmentID {
			continue
		}
		if !pair.Actionable {
			return nil, domain.Validationf("check-in is not available: %s", pair.Reason)
		}
		if err := s.checkins.UpdateRecordStatus(ctx, segmentID, passengerID, domain.CheckinStatusAlreadyCheckedIn); err != nil {
			return nil, err
		}
		pair.Status = domain.CheckinStatusAlreadyCheckedIn
		pair.Actionable = false
		pair.Reason = ReasonAlreadyCheckedIn
		s.publish(ctx, kafka.CheckinEvent{
			Type:        "checkin_completed",
			BookingCode: bookingCode,
			PassengerID: passengerID,
			SegmentID:   segmentID,
			OccurredAt:  s.now(),
		})
		return &pair, nil
	}
	return nil, domain.NotFound("checkin record", segmentID)
}

// ExpireProposedChanges abandons proposals whose payment countdown lapsed.
// The original seat stays in place; nothing was occupied while proposed.
func (s *CheckinService) ExpireProposedChanges(ctx context.Context) ([]domain.SeatChangeProposal, error) {
	expired, err := s.checkins.ExpireProposedBefore(ctx, s.now())
	if err != nil {
		return nil, err
	}
	for _, p := range expired {
		s.publish(ctx, kafka.CheckinEvent{
			Type:        "seat_change_expired",
			BookingCode: p.BookingCode,
			PassengerID: p.PassengerID,
			SegmentID:   p.SegmentID,
			SeatID:      p.NewSeatID,
			Charge:      p.Charge,
			OccurredAt:  s.now(),
		})
	}
	return expired, nil
}

func (s *CheckinService) loadBooking(ctx context.Context, bookingCode string) ([]domain.CheckinRecord, []domain.Segment, error) {
	records, err := s.checkins.GetRecords(ctx, bookingCode)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, domain.NotFound("booking", bookingCode)
	}
	segments, err := s.checkins.GetSegments(ctx, bookingCode)
	if err != nil {
		return nil, nil, err
	}
	return records, segments, nil
}

// resolveChange locates the pair's current and requested seats in the
// segment's seat map. A current seat missing from the map means the seat
// map and the booking disagree; that is never defaulted to a zero charge.
func (s *CheckinService) resolveChange(ctx context.Context, bookingCode string, passengerID, segmentID, newSeatID int64) (*domain.CheckinRecord, domain.Seat, domain.Seat, *domain.Segment, error) {
	var none domain.Seat

	records, segments, err := s.loadBooking(ctx, bookingCode)
	if err != nil {
		return nil, none, none, nil, err
	}

	var record *domain.CheckinRecord
	for i := range records {
		if records[i].PassengerID == passengerID && records[i].SegmentID == segmentID {
			record = &records[i]
			break
		}
	}
	if record == nil {
		return nil, none, none, nil, domain.NotFound("checkin record", segmentID)
	}

	var segment *domain.Segment
	for i := range segments {
		if segments[i].ID == segmentID {
			segment = &segments[i]
			break
		}
	}
	if segment == nil {
		return nil, none, none, nil, domain.NotFound("segment", segmentID)
	}

	seats, err := s.seats.ListSeats(ctx, segment.FlightID, segment.CabinClassID)
	if err != nil {
		return nil, none, none, nil, err
	}

	current, ok := findSeat(seats, record.SeatID)
	if !ok {
		return nil, none, none, nil, domain.Inconsistentf("current seat %d for passenger %d is missing from the seat map of flight %d", record.SeatID, passengerID, segment.FlightID)
	}
	requested, ok := findSeat(seats, newSeatID)
	if !ok {
		return nil, none, none, nil, domain.NotFound("seat", newSeatID)
	}
	// Reselecting the current seat bypasses the availability check.
	if requested.ID != current.ID && requested.Occupied {
		return nil, none, none, nil, &domain.SeatUnavailableError{SeatID: requested.ID}
	}

	return record, current, requested, segment, nil
}

func (s *CheckinService) applyProposal(ctx context.Context, proposal *domain.SeatChangeProposal, segment *domain.Segment) (*domain.SeatChangeProposal, error) {
	committed, err := s.checkins.CommitProposal(ctx, proposal.ID)
	if err != nil {
		return nil, err
	}

	if segment == nil {
		segments, err := s.checkins.GetSegments(ctx, committed.BookingCode)
		if err == nil {
			for i := range segments {
				if segments[i].ID == committed.SegmentID {
					segment = &segments[i]
					break
				}
			}
		}
	}
	if segment != nil {
		_ = s.cache.InvalidateSeatMap(ctx, segment.FlightID, segment.CabinClassID)
	}

	s.publish(ctx, kafka.CheckinEvent{
		Type:        "seat_change_committed",
		BookingCode: committed.BookingCode,
		PassengerID: committed.PassengerID,
		SegmentID:   committed.SegmentID,
		SeatID:      committed.NewSeatID,
		Charge:      committed.Charge,
		OccurredAt:  s.now(),
	})
	return committed, nil
}

func (s *CheckinService) publish(ctx context.Context, event kafka.CheckinEvent) {
	if s.producer == nil || s.checkinTopic == "" {
		return
	}
	if err := s.producer.Publish(ctx, s.checkinTopic, event.BookingCode, event); err != nil {
		s.log.WithError(err).WithField("booking_code", event.BookingCode).Warnf("failed to publish %s event", event.Type)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingCode, event); err != nil {
			s.log.WithError(err).WithField("booking_code", event.BookingCode).Warnf("failed to publish %s notification", event.Type)
		}
	}
}

// seatChangeBlocked maps record statuses that forbid touching the seat.
func seatChangeBlocked(status domain.CheckinStatus) Reason {
	switch status {
	case domain.CheckinStatusBookingCancelled:
		return ReasonBookingCancelled
	case domain.CheckinStatusBookingNotConfirmed:
		return ReasonBookingNotConfirmed
	case domain.CheckinStatusPaymentPending:
		return ReasonPaymentPending
	case domain.CheckinStatusNotAvailable:
		return ReasonNotAvailable
	default:
		return ReasonNone
	}
}

func findSeat(seats []domain.Seat, seatID int64) (domain.Seat, bool) {
	for _, seat := range seats {
		if seat.ID == seatID {
			return seat, true
		}
	}
	return domain.Seat{}, false
}

var _ CheckinUseCase = (*CheckinService)(nil)
