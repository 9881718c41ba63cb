package draft

import "github.com/skyfare/booking/internal/domain"

// advancePhase confirms the current selection step. On a round trip the
// first advance moves DEPART -> RETURN, resetting the editing-passenger
// pointer but leaving the DEPART selections untouched. Advancing past the
// last applicable phase marks the draft ready for checkout.
func advancePhase(d *domain.BookingDraft) {
	if d.Itinerary.TripType == domain.TripTypeRoundTrip && d.CurrentPhase == domain.PhaseDepart {
		d.CurrentPhase = domain.PhaseReturn
		d.CurrentPassengerIndex = 0
		if d.Legs[domain.PhaseReturn] == nil {
			d.Legs[domain.PhaseReturn] = domain.NewLegSelections()
		}
		return
	}
	d.ReadyForCheckout = true
}

// retreatPhase is back navigation. RETURN -> DEPART restores whatever
// DEPART selections existed; it never clears them. At DEPART it is a no-op.
func retreatPhase(d *domain.BookingDraft) {
	if d.CurrentPhase == domain.PhaseReturn {
		d.CurrentPhase = domain.PhaseDepart
		d.CurrentPassengerIndex = 0
	}
	d.ReadyForCheckout = false
}
