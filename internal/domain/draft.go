package domain

import "time"

type TripType string

const (
	TripTypeOneWay    TripType = "ONE_WAY"
	TripTypeRoundTrip TripType = "ROUND_TRIP"
)

// Phase is one direction of travel within an itinerary.
type Phase string

const (
	PhaseDepart Phase = "DEPART"
	PhaseReturn Phase = "RETURN"
)

type PassengerCategory string

const (
	PassengerAdult  PassengerCategory = "ADULT"
	PassengerChild  PassengerCategory = "CHILD"
	PassengerInfant PassengerCategory = "INFANT"
)

// FlightSelection pins a flight and cabin class for one phase. It is
// immutable once chosen; replacing it invalidates that phase's seat and
// service selections, which reference seats scoped to the old flight.
type FlightSelection struct {
	FlightID         int64  `json:"flight_id"`
	CabinClassID     int64  `json:"cabin_class_id"`
	CabinClassName   string `json:"cabin_class_name"`
	FarePerPassenger int64  `json:"fare_per_passenger"`
}

type Itinerary struct {
	TripType TripType         `json:"trip_type"`
	Outbound FlightSelection  `json:"outbound"`
	Return   *FlightSelection `json:"return,omitempty"`
}

type Passenger struct {
	ID               int               `json:"id"`
	FirstName        string            `json:"first_name"`
	LastName         string            `json:"last_name"`
	DateOfBirth      time.Time         `json:"date_of_birth"`
	Gender           string            `json:"gender"`
	IdentityDocument string            `json:"identity_document"`
	Category         PassengerCategory `json:"category"`
}

// SeatChoice is the slice of a Seat that the draft needs to keep: enough to
// render the pick and reprice the draft without refetching the seat map.
type SeatChoice struct {
	SeatID          int64        `json:"seat_id"`
	Number          string       `json:"number"`
	Category        SeatCategory `json:"category"`
	AdditionalPrice int64        `json:"additional_price"`
}

type BaggagePackage struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	WeightKg int    `json:"weight_kg"`
	Price    int64  `json:"price"`
}

// LegSelections holds one phase's per-passenger picks. A seat appears at
// most once across all passengers of the same party within one phase.
type LegSelections struct {
	SeatByPassenger      map[int]SeatChoice      `json:"seat_by_passenger"`
	BaggageByPassenger   map[int]*BaggagePackage `json:"baggage_by_passenger"`
	MealByPassenger      map[int]bool            `json:"meal_by_passenger"`
	AncillaryByPassenger map[int][]int64         `json:"ancillary_by_passenger"`
}

func NewLegSelections() *LegSelections {
	return &LegSelections{
		SeatByPassenger:      make(map[int]SeatChoice),
		BaggageByPassenger:   make(map[int]*BaggagePackage),
		MealByPassenger:      make(map[int]bool),
		AncillaryByPassenger: make(map[int][]int64),
	}
}

// Normalize allocates any nil selection map. Decoded payloads omit maps the
// client did not send; after Normalize the value behaves like a fresh
// LegSelections.
func (s *LegSelections) Normalize() {
	if s.SeatByPassenger == nil {
		s.SeatByPassenger = make(map[int]SeatChoice)
	}
	if s.BaggageByPassenger == nil {
		s.BaggageByPassenger = make(map[int]*BaggagePackage)
	}
	if s.MealByPassenger == nil {
		s.MealByPassenger = make(map[int]bool)
	}
	if s.AncillaryByPassenger == nil {
		s.AncillaryByPassenger = make(map[int][]int64)
	}
}

// SeatTakenBy reports which passenger holds seatID in this phase, if any.
func (s *LegSelections) SeatTakenBy(seatID int64) (int, bool) {
	for passengerID, choice := range s.SeatByPassenger {
		if choice.SeatID == seatID {
			return passengerID, true
		}
	}
	return 0, false
}

// BookingDraft is the aggregate root for an in-progress reservation. It is
// owned by a single client session and lives until checkout succeeds or the
// session expires.
type BookingDraft struct {
	ID                    string                    `json:"id"`
	Itinerary             Itinerary                 `json:"itinerary"`
	Passengers            []Passenger               `json:"passengers"`
	Legs                  map[Phase]*LegSelections  `json:"legs"`
	CurrentPhase          Phase                     `json:"current_phase"`
	CurrentPassengerIndex int                       `json:"current_passenger_index"`
	TotalPrice            int64                     `json:"total_price"`
	ReadyForCheckout      bool                      `json:"ready_for_checkout"`
	ContactEmail          string                    `json:"contact_email"`
	CreatedAt             time.Time                 `json:"created_at"`
	UpdatedAt             time.Time                 `json:"updated_at"`
}

// Phases lists the phases present on this draft, outbound first.
func (d *BookingDraft) Phases() []Phase {
	if d.Itinerary.TripType == TripTypeRoundTrip {
		return []Phase{PhaseDepart, PhaseReturn}
	}
	return []Phase{PhaseDepart}
}

// FlightForPhase returns the flight selection governing the given phase.
func (d *BookingDraft) FlightForPhase(phase Phase) (FlightSelection, bool) {
	switch phase {
	case PhaseDepart:
		return d.Itinerary.Outbound, true
	case PhaseReturn:
		if d.Itinerary.Return != nil {
			return *d.Itinerary.Return, true
		}
	}
	return FlightSelection{}, false
}

func (d *BookingDraft) Selections(phase Phase) (*LegSelections, bool) {
	sel, ok := d.Legs[phase]
	return sel, ok
}

func (d *BookingDraft) FindPassenger(id int) (*Passenger, bool) {
	for i := range d.Passengers {
		if d.Passengers[i].ID == id {
			return &d.Passengers[i], true
		}
	}
	return nil, false
}

func (d *BookingDraft) AdultCount() int {
	n := 0
	for _, p := range d.Passengers {
		if p.Category == PassengerAdult {
			n++
		}
	}
	return n
}

// CategoryForAge derives the passenger category from age in whole years at
// booking time. Callers never set Category directly.
func CategoryForAge(dateOfBirth, now time.Time) PassengerCategory {
	years := now.Year() - dateOfBirth.Year()
	anniversary := dateOfBirth.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	switch {
	case years < 2:
		return PassengerInfant
	case years < 12:
		return PassengerChild
	default:
		return PassengerAdult
	}
}
