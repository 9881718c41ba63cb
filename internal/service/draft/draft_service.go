package draft

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/kafka"
	"github.com/skyfare/booking/internal/pricing"
	"github.com/skyfare/booking/internal/repository"
	"github.com/skyfare/booking/internal/service/flights"
)

type DraftUseCase interface {
	CreateDraft(ctx context.Context, input CreateDraftInput) (*domain.BookingDraft, error)
	GetDraft(ctx context.Context, id string) (*domain.BookingDraft, error)
	UpdatePassenger(ctx context.Context, draftID string, passengerID int, patch PassengerPatch) (*domain.BookingDraft, error)
	AddPassenger(ctx context.Context, draftID string) (*domain.BookingDraft, error)
	RemovePassenger(ctx context.Context, draftID string, passengerID int) (*domain.BookingDraft, error)
	SelectFlight(ctx context.Context, draftID string, phase domain.Phase, input SelectFlightInput) (*domain.BookingDraft, error)
	SelectSeat(ctx context.Context, draftID string, passengerID int, seatID int64) (*domain.BookingDraft, error)
	SetBaggage(ctx context.Context, draftID string, passengerID int, pkg *domain.BaggagePackage) (*domain.BookingDraft, error)
	SetMeal(ctx context.Context, draftID string, passengerID int, included bool) (*domain.BookingDraft, error)
	SetAncillaries(ctx context.Context, draftID string, passengerID int, serviceIDs []int64) (*domain.BookingDraft, error)
	ReplaceLegSelections(ctx context.Context, draftID string, phase domain.Phase, sel *domain.LegSelections) (*domain.BookingDraft, error)
	AdvancePhase(ctx context.Context, draftID string) (*domain.BookingDraft, error)
	RetreatPhase(ctx context.Context, draftID string) (*domain.BookingDraft, error)
	SubmitDraft(ctx context.Context, draftID string) (*SubmitResult, error)
	ConfirmBooking(ctx context.Context, bookingCode string) (*domain.Booking, error)
}

// Cache is the session store for in-progress drafts.
type Cache interface {
	SaveDraft(ctx context.Context, draft *domain.BookingDraft) error
	GetDraft(ctx context.Context, id string) (*domain.BookingDraft, error)
	DeleteDraft(ctx context.Context, id string) error
	InvalidateSeatMap(ctx context.Context, flightID, cabinClassID int64) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type PassengerCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

type CreateDraftInput struct {
	Counts       PassengerCounts  `json:"counts"`
	Itinerary    domain.Itinerary `json:"itinerary"`
	ContactEmail string           `json:"contact_email"`
}

// PassengerPatch carries field edits; nil fields are left untouched.
// A date-of-birth edit recomputes the passenger category.
type PassengerPatch struct {
	FirstName        *string    `json:"first_name,omitempty"`
	LastName         *string    `json:"last_name,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	IdentityDocument *string    `json:"identity_document,omitempty"`
}

type SelectFlightInput struct {
	FlightID       int64  `json:"flight_id"`
	CabinClassID   int64  `json:"cabin_class_id"`
	CabinClassName string `json:"cabin_class_name"`
}

type SubmitResult struct {
	BookingCode     string `json:"booking_code"`
	Charge          int64  `json:"charge"`
	PaymentRequired bool   `json:"payment_required"`
}

type DraftService struct {
	flights            flights.FlightUseCase
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	reservationsTopic  string
	notificationsTopic string
	agg                pricing.Aggregator
	now                func() time.Time
	log                *logrus.Logger
}

type DraftServiceOption func(*DraftService)

func WithNotificationsTopic(topic string) DraftServiceOption {
	return func(s *DraftService) {
		s.notificationsTopic = topic
	}
}

// WithClock overrides the time source, used by tests that exercise the
// age-derived passenger categories.
func WithClock(now func() time.Time) DraftServiceOption {
	return func(s *DraftService) {
		s.now = now
	}
}

func WithLogger(log *logrus.Logger) DraftServiceOption {
	return func(s *DraftService) {
		s.log = log
	}
}

func NewDraftService(
	flightSvc flights.FlightUseCase,
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	reservationsTopic string,
	agg pricing.Aggregator,
	opts ...DraftServiceOption,
) *DraftService {
	service := &DraftService{
		flights:           flightSvc,
		bookings:          bookings,
		cache:             cache,
		producer:          producer,
		reservationsTopic: reservationsTopic,
		agg:               agg,
		now:               time.Now,
		log:               logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *DraftService) CreateDraft(ctx context.Context, input CreateDraftInput) (*domain.BookingDraft, error) {
	if input.Counts.Adults < 1 {
		return nil, domain.Validationf("at least one adult passenger is required")
	}
	if input.Itinerary.TripType == domain.TripTypeOneWay && input.Itinerary.Return != nil {
		return nil, domain.Validationf("one-way itinerary must not carry a return flight")
	}
	if input.Itinerary.TripType == domain.TripTypeRoundTrip && input.Itinerary.Return == nil {
		return nil, domain.Validationf("round-trip itinerary requires a return flight")
	}

	// Adults first, then children, then infants, ids sequential from 0.
	passengers := make([]domain.Passenger, 0, input.Counts.Adults+input.Counts.Children+input.Counts.Infants)
	id := 0
	for _, group := range []struct {
		count    int
		category domain.PassengerCategory
	}{
		{input.Counts.Adults, domain.PassengerAdult},
		{input.Counts.Children, domain.PassengerChild},
		{input.Counts.Infants, domain.PassengerInfant},
	} {
		for i := 0; i < group.count; i++ {
			passengers = append(passengers, domain.Passenger{ID: id, Category: group.category})
			id++
		}
	}

	now := s.now()
	draft := &domain.BookingDraft{
		ID:           uuid.NewString(),
		Itinerary:    input.Itinerary,
		Passengers:   passengers,
		Legs:         map[domain.Phase]*domain.LegSelections{domain.PhaseDepart: domain.NewLegSelections()},
		CurrentPhase: domain.PhaseDepart,
		ContactEmail: input.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Itinerary.TripType == domain.TripTypeRoundTrip {
		draft.Legs[domain.PhaseReturn] = domain.NewLegSelections()
	}
	draft.TotalPrice = s.agg.ComputeTotal(draft)

	if err := s.cache.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) GetDraft(ctx context.Context, id string) (*domain.BookingDraft, error) {
	return s.loadDraft(ctx, id)
}

func (s *DraftService) UpdatePassenger(ctx context.Context, draftID string, passengerID int, patch PassengerPatch) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	p, ok := draft.FindPassenger(passengerID)
	if !ok {
		return nil, domain.NotFound("passenger", passengerID)
	}

	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Gender != nil {
		p.Gender = *patch.Gender
	}
	if patch.IdentityDocument != nil {
		p.IdentityDocument = *patch.IdentityDocument
	}
	if patch.DateOfBirth != nil {
		p.DateOfBirth = *patch.DateOfBirth
		p.Category = domain.CategoryForAge(p.DateOfBirth, s.now())
	}

	if draft.AdultCount() < 1 {
		return nil, domain.Validationf("at least one adult passenger is required")
	}

	return s.save(ctx, draft)
}

func (s *DraftService) AddPassenger(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	// Ids are monotonic: a removed passenger's id is never reused.
	nextID := 0
	for _, p := range draft.Passengers {
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}
	draft.Passengers = append(draft.Passengers, domain.Passenger{ID: nextID, Category: domain.PassengerAdult})

	return s.save(ctx, draft)
}

func (s *DraftService) RemovePassenger(ctx context.Context, draftID string, passengerID int) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	p, ok := draft.FindPassenger(passengerID)
	if !ok {
		return nil, domain.NotFound("passenger", passengerID)
	}
	if p.Category == domain.PassengerAdult && draft.AdultCount() == 1 {
		return nil, domain.Validationf("at least one adult passenger is required")
	}

	kept := draft.Passengers[:0]
	for _, existing := range draft.Passengers {
		if existing.ID != passengerID {
			kept = append(kept, existing)
		}
	}
	draft.Passengers = kept

	for _, sel := range draft.Legs {
		if sel == nil {
			continue
		}
		delete(sel.SeatByPassenger, passengerID)
		delete(sel.BaggageByPassenger, passengerID)
		delete(sel.MealByPassenger, passengerID)
		delete(sel.AncillaryByPassenger, passengerID)
	}
	if draft.CurrentPassengerIndex >= len(draft.Passengers) {
		draft.CurrentPassengerIndex = 0
	}

	return s.save(ctx, draft)
}

// SelectFlight pins a flight and cabin class for one phase. Replacing an
// existing selection invalidates that phase's seat and service picks, which
// are scoped to the old flight and class.
func (s *DraftService) SelectFlight(ctx context.Context, draftID string, phase domain.Phase, input SelectFlightInput) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if phase == domain.PhaseReturn && draft.Itinerary.TripType != domain.TripTypeRoundTrip {
		return nil, domain.Validationf("one-way itinerary has no return phase")
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, domain.NotFound("flight", input.FlightID)
	}

	selection := domain.FlightSelection{
		FlightID:         flight.ID,
		CabinClassID:     input.CabinClassID,
		CabinClassName:   input.CabinClassName,
		FarePerPassenger: pricing.FareForCabin(flight.BaseFare, input.CabinClassName),
	}

	switch phase {
	case domain.PhaseDepart:
		draft.Itinerary.Outbound = selection
	case domain.PhaseReturn:
		draft.Itinerary.Return = &selection
	default:
		return nil, domain.Validationf("unknown phase %s", phase)
	}
	draft.Legs[phase] = domain.NewLegSelections()

	return s.save(ctx, draft)
}

func (s *DraftService) SelectSeat(ctx context.Context, draftID string, passengerID int, seatID int64) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if _, ok := draft.FindPassenger(passengerID); !ok {
		return nil, domain.NotFound("passenger", passengerID)
	}

	phase := draft.CurrentPhase
	flight, ok := draft.FlightForPhase(phase)
	if !ok {
		return nil, domain.Validationf("no flight selected for phase %s", phase)
	}

	seats, err := s.flights.ListSeats(ctx, flight.FlightID, flight.CabinClassID)
	if err != nil {
		return nil, err
	}
	seat, ok := findSeat(seats, seatID)
	if !ok {
		return nil, domain.NotFound("seat", seatID)
	}

	if err := resolveSeatAssignment(draft, phase, passengerID, seat); err != nil {
		return nil, err
	}
	return s.save(ctx, draft)
}

func (s *DraftService) SetBaggage(ctx context.Context, draftID string, passengerID int, pkg *domain.BaggagePackage) (*domain.BookingDraft, error) {
	return s.mutateSelections(ctx, draftID, passengerID, func(sel *domain.LegSelections) error {
		if pkg == nil {
			delete(sel.BaggageByPassenger, passengerID)
			return nil
		}
		sel.BaggageByPassenger[passengerID] = pkg
		return nil
	})
}

func (s *DraftService) SetMeal(ctx context.Context, draftID string, passengerID int, included bool) (*domain.BookingDraft, error) {
	return s.mutateSelections(ctx, draftID, passengerID, func(sel *domain.LegSelections) error {
		sel.MealByPassenger[passengerID] = included
		return nil
	})
}

func (s *DraftService) SetAncillaries(ctx context.Context, draftID string, passengerID int, serviceIDs []int64) (*domain.BookingDraft, error) {
	return s.mutateSelections(ctx, draftID, passengerID, func(sel *domain.LegSelections) error {
		seen := make(map[int64]bool, len(serviceIDs))
		unique := make([]int64, 0, len(serviceIDs))
		for _, id := range serviceIDs {
			if _, ok := pricing.AncillaryByID(id); !ok {
				return domain.NotFound("ancillary service", id)
			}
			if !seen[id] {
				seen[id] = true
				unique = append(unique, id)
			}
		}
		sel.AncillaryByPassenger[passengerID] = unique
		return nil
	})
}

// ReplaceLegSelections atomically overwrites one phase's selections.
func (s *DraftService) ReplaceLegSelections(ctx context.Context, draftID string, phase domain.Phase, sel *domain.LegSelections) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if phase == domain.PhaseReturn && draft.Itinerary.TripType != domain.TripTypeRoundTrip {
		return nil, domain.Validationf("one-way itinerary has no return phase")
	}
	if sel == nil {
		sel = domain.NewLegSelections()
	}
	sel.Normalize()

	if len(sel.SeatByPassenger) > 0 {
		flight, ok := draft.FlightForPhase(phase)
		if !ok {
			return nil, domain.Validationf("no flight selected for phase %s", phase)
		}
		seats, err := s.flights.ListSeats(ctx, flight.FlightID, flight.CabinClassID)
		if err != nil {
			return nil, err
		}

		seatHolders := make(map[int64]int, len(sel.SeatByPassenger))
		for passengerID, choice := range sel.SeatByPassenger {
			if _, ok := draft.FindPassenger(passengerID); !ok {
				return nil, domain.NotFound("passenger", passengerID)
			}
			if holder, taken := seatHolders[choice.SeatID]; taken {
				return nil, &domain.SeatConflictError{SeatID: choice.SeatID, PassengerID: holder}
			}
			seatHolders[choice.SeatID] = passengerID

			// The seat map for the leg's flight and class is authoritative:
			// a seat outside that class is not listed, and the stored choice
			// carries the server price, not the client's.
			seat, ok := findSeat(seats, choice.SeatID)
			if !ok {
				return nil, domain.NotFound("seat", choice.SeatID)
			}
			if seat.Occupied {
				return nil, &domain.SeatUnavailableError{SeatID: seat.ID}
			}
			sel.SeatByPassenger[passengerID] = domain.SeatChoice{
				SeatID:          seat.ID,
				Number:          seat.Number,
				Category:        seat.Category,
				AdditionalPrice: seat.AdditionalPrice,
			}
		}
	}

	draft.Legs[phase] = sel
	return s.save(ctx, draft)
}

func (s *DraftService) AdvancePhase(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	advancePhase(draft)
	return s.save(ctx, draft)
}

func (s *DraftService) RetreatPhase(ctx context.Context, draftID string) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	retreatPhase(draft)
	return s.save(ctx, draft)
}

// SubmitDraft consumes the draft: the reservation is persisted, every chosen
// seat is occupied, and the draft is dropped from the session store only
// after the write succeeds, so a failed submission can be retried without
// re-entering anything.
func (s *DraftService) SubmitDraft(ctx context.Context, draftID string) (*SubmitResult, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	for _, phase := range draft.Phases() {
		if flight, ok := draft.FlightForPhase(phase); !ok || flight.FlightID == 0 {
			return nil, domain.Validationf("no flight selected for phase %s", phase)
		}
	}

	total := s.agg.ComputeTotal(draft)
	status := domain.BookingStatusConfirmed
	if total > 0 {
		status = domain.BookingStatusPendingPayment
	}

	booking := &domain.Booking{
		Code:         newBookingCode(),
		Status:       status,
		TripType:     draft.Itinerary.TripType,
		TotalPrice:   total,
		ContactEmail: draft.ContactEmail,
	}
	if err := s.bookings.Create(ctx, booking, draft); err != nil {
		return nil, err
	}

	for _, phase := range draft.Phases() {
		if flight, ok := draft.FlightForPhase(phase); ok {
			_ = s.cache.InvalidateSeatMap(ctx, flight.FlightID, flight.CabinClassID)
		}
	}

	result := &SubmitResult{
		BookingCode:     booking.Code,
		Charge:          total,
		PaymentRequired: total > 0,
	}
	s.publish(ctx, "reservation_submitted", booking, draft.ID)

	if err := s.cache.DeleteDraft(ctx, draft.ID); err != nil {
		s.log.WithError(err).WithField("draft_id", draft.ID).Warn("failed to drop submitted draft")
	}
	return result, nil
}

// ConfirmBooking records the out-of-band payment completion: the booking
// becomes CONFIRMED and its check-in records move from PAYMENT_PENDING to
// PENDING.
func (s *DraftService) ConfirmBooking(ctx context.Context, bookingCode string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByCode(ctx, bookingCode)
	if err != nil {
		return nil, domain.NotFound("booking", bookingCode)
	}
	if booking.Status == domain.BookingStatusConfirmed {
		return booking, nil
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, domain.Validationf("booking %s is %s and cannot be confirmed", bookingCode, booking.Status)
	}

	confirmed, err := s.bookings.Confirm(ctx, bookingCode)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, "reservation_confirmed", confirmed, "")
	return confirmed, nil
}

func (s *DraftService) loadDraft(ctx context.Context, id string) (*domain.BookingDraft, error) {
	draft, err := s.cache.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, domain.NotFound("draft", id)
	}
	return draft, nil
}

func (s *DraftService) mutateSelections(ctx context.Context, draftID string, passengerID int, mutate func(*domain.LegSelections) error) (*domain.BookingDraft, error) {
	draft, err := s.loadDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if _, ok := draft.FindPassenger(passengerID); !ok {
		return nil, domain.NotFound("passenger", passengerID)
	}

	sel, ok := draft.Selections(draft.CurrentPhase)
	if !ok || sel == nil {
		sel = domain.NewLegSelections()
		draft.Legs[draft.CurrentPhase] = sel
	}
	if err := mutate(sel); err != nil {
		return nil, err
	}
	return s.save(ctx, draft)
}

// save recomputes the total eagerly and persists the draft. Totals are
// never carried stale across mutations.
func (s *DraftService) save(ctx context.Context, draft *domain.BookingDraft) (*domain.BookingDraft, error) {
	draft.TotalPrice = s.agg.ComputeTotal(draft)
	draft.UpdatedAt = s.now()
	if err := s.cache.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *DraftService) publish(ctx context.Context, eventType string, booking *domain.Booking, draftID string) {
	if s.producer == nil || s.reservationsTopic == "" {
		return
	}
	event := kafka.ReservationEvent{
		Type:            eventType,
		BookingCode:     booking.Code,
		DraftID:         draftID,
		TotalPrice:      booking.TotalPrice,
		PaymentRequired: booking.Status == domain.BookingStatusPendingPayment,
		Email:           booking.ContactEmail,
		OccurredAt:      s.now(),
	}
	if err := s.producer.Publish(ctx, s.reservationsTopic, booking.Code, event); err != nil {
		s.log.WithError(err).WithField("booking_code", booking.Code).Warnf("failed to publish %s event", eventType)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Code, event); err != nil {
			s.log.WithError(err).WithField("booking_code", booking.Code).Warnf("failed to publish %s notification", eventType)
		}
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

// newBookingCode derives a short reference from a fresh uuid.
func newBookingCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:6])
}

var _ DraftUseCase = (*DraftService)(nil)
