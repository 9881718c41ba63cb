package checkin

import (
	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/pricing"
)

var premiumCabins = map[string]bool{
	"Business": true,
	"First":    true,
}

// premiumBundledCategories are seat categories premium cabins bundle for
// free. Hard-coded product rule, pending confirmation with product owners.
var premiumBundledCategories = map[domain.SeatCategory]bool{
	domain.SeatExtraLegroom: true,
	domain.SeatFrontRow:     true,
	domain.SeatAccessible:   true,
}

// CalculateSeatChange quotes the move from the current seat to the
// requested one. Reselecting the current seat is always free. Downgrades
// cost nothing but are never refunded, so the charge floors at zero.
func CalculateSeatChange(current, requested domain.Seat, cabinClassName string) domain.SeatChangeCalculation {
	calc := domain.SeatChangeCalculation{
		OldSeatCategory: current.Category,
		NewSeatCategory: requested.Category,
		OldPrice:        pricing.SeatPrice(current.Category),
		NewPrice:        pricing.SeatPrice(requested.Category),
	}

	if requested.ID == current.ID {
		return calc
	}

	calc.PriceDifference = calc.NewPrice - calc.OldPrice
	if calc.PriceDifference > 0 {
		calc.TotalCharge = calc.PriceDifference
	}

	if premiumCabins[cabinClassName] && premiumBundledCategories[requested.Category] {
		calc.TotalCharge = 0
	}

	calc.RequiresPayment = calc.TotalCharge > 0
	return calc
}
