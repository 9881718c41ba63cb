package draft

import "github.com/skyfare/booking/internal/domain"

// resolveSeatAssignment applies one seat click for a passenger in the given
// phase, against the server-reported seat. Rules, in order:
//
//  1. clicking the passenger's own seat toggles it off;
//  2. a seat held by another passenger in the party is a conflict;
//  3. a server-occupied seat is unavailable;
//  4. a seat outside the phase's cabin class is not sellable;
//  5. otherwise the seat is assigned, replacing any prior seat.
//
// After a successful assignment the editing pointer advances to the next
// passenger without a seat, if any, without overriding an existing choice.
func resolveSeatAssignment(d *domain.BookingDraft, phase domain.Phase, passengerID int, seat domain.Seat) error {
	flight, ok := d.FlightForPhase(phase)
	if !ok {
		return domain.Validationf("no flight selected for phase %s", phase)
	}

	sel, ok := d.Selections(phase)
	if !ok || sel == nil {
		sel = domain.NewLegSelections()
		d.Legs[phase] = sel
	}

	if current, ok := sel.SeatByPassenger[passengerID]; ok && current.SeatID == seat.ID {
		delete(sel.SeatByPassenger, passengerID)
		return nil
	}

	if holder, taken := sel.SeatTakenBy(seat.ID); taken {
		return &domain.SeatConflictError{SeatID: seat.ID, PassengerID: holder}
	}

	if seat.Occupied {
		return &domain.SeatUnavailableError{SeatID: seat.ID}
	}

	if seat.CabinClassID != flight.CabinClassID {
		return domain.Validationf("seat %d is not sellable at cabin class %s", seat.ID, flight.CabinClassName)
	}

	sel.SeatByPassenger[passengerID] = domain.SeatChoice{
		SeatID:          seat.ID,
		Number:          seat.Number,
		Category:        seat.Category,
		AdditionalPrice: seat.AdditionalPrice,
	}

	advanceEditingPassenger(d, sel, passengerID)
	return nil
}

func advanceEditingPassenger(d *domain.BookingDraft, sel *domain.LegSelections, passengerID int) {
	idx := -1
	for i, p := range d.Passengers {
		if p.ID == passengerID {
			idx = i
			break
		}
	}
	next := idx + 1
	if idx < 0 || next >= len(d.Passengers) {
		return
	}
	if _, hasSeat := sel.SeatByPassenger[d.Passengers[next].ID]; !hasSeat {
		d.CurrentPassengerIndex = next
	}
}
