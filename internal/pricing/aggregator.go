package pricing

import "github.com/skyfare/booking/internal/domain"

// Aggregator recomputes a draft's total from its current selections. It is
// invoked eagerly after every draft mutation; totals are never cached across
// mutations.
type Aggregator struct {
	mealPrice int64
}

func NewAggregator(mealPrice int64) Aggregator {
	if mealPrice <= 0 {
		mealPrice = DefaultMealPrice
	}
	return Aggregator{mealPrice: mealPrice}
}

func (a Aggregator) MealPrice() int64 {
	return a.mealPrice
}

// ComputeTotal sums, over every phase present on the draft, the base fare
// per passenger times the passenger count, plus each passenger's seat,
// baggage, meal and ancillary picks for that phase. Add-ons never reduce
// the total below the fare floor.
func (a Aggregator) ComputeTotal(d *domain.BookingDraft) int64 {
	var total int64
	for _, phase := range d.Phases() {
		flight, ok := d.FlightForPhase(phase)
		if !ok {
			continue
		}
		total += flight.FarePerPassenger * int64(len(d.Passengers))

		sel, ok := d.Selections(phase)
		if !ok || sel == nil {
			continue
		}
		for _, p := range d.Passengers {
			if choice, ok := sel.SeatByPassenger[p.ID]; ok {
				total += choice.AdditionalPrice
			}
			if pkg := sel.BaggageByPassenger[p.ID]; pkg != nil {
				total += pkg.Price
			}
			if sel.MealByPassenger[p.ID] {
				total += a.mealPrice
			}
			for _, serviceID := range sel.AncillaryByPassenger[p.ID] {
				total += AncillaryPrice(serviceID)
			}
		}
	}
	return total
}
