// Package pricing holds the static fare tables and the draft price
// aggregator. Everything here is pure; amounts are integer minor units.
package pricing

import "github.com/skyfare/booking/internal/domain"

// DefaultMealPrice applies when no override is configured.
const DefaultMealPrice int64 = 80000

var seatCategoryPrices = map[domain.SeatCategory]int64{
	domain.SeatStandard:     0,
	domain.SeatExtraLegroom: 100000,
	domain.SeatExitRow:      150000,
	domain.SeatFrontRow:     120000,
	domain.SeatAccessible:   50000,
}

var cabinMultipliers = map[string]float64{
	"Economy":  1.0,
	"Business": 2.2,
	"First":    3.5,
}

// SeatPrice returns the additional price for a seat category. Unknown
// categories price as standard.
func SeatPrice(category domain.SeatCategory) int64 {
	return seatCategoryPrices[category]
}

// CabinMultiplier scales a flight's base fare for a cabin class. Unknown
// class names fall back to economy.
func CabinMultiplier(cabinClassName string) float64 {
	if m, ok := cabinMultipliers[cabinClassName]; ok {
		return m
	}
	return 1.0
}

// FareForCabin derives the per-passenger fare for a flight sold at the
// given cabin class.
func FareForCabin(baseFare int64, cabinClassName string) int64 {
	return int64(float64(baseFare) * CabinMultiplier(cabinClassName))
}

// PriceSeats fills in AdditionalPrice on seats fetched from inventory.
func PriceSeats(seats []domain.Seat) []domain.Seat {
	for i := range seats {
		seats[i].AdditionalPrice = SeatPrice(seats[i].Category)
	}
	return seats
}

// AncillaryService is a purchasable add-on independent of seat and baggage.
type AncillaryService struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

var ancillaryCatalog = map[int64]AncillaryService{
	1: {ID: 1, Name: "wifi", Price: 60000},
	2: {ID: 2, Name: "priority_boarding", Price: 90000},
	3: {ID: 3, Name: "travel_insurance", Price: 120000},
	4: {ID: 4, Name: "lounge_access", Price: 250000},
}

func AncillaryByID(id int64) (AncillaryService, bool) {
	svc, ok := ancillaryCatalog[id]
	return svc, ok
}

func AncillaryPrice(id int64) int64 {
	return ancillaryCatalog[id].Price
}

// Ancillaries lists the catalog in id order for presentation.
func Ancillaries() []AncillaryService {
	out := make([]AncillaryService, 0, len(ancillaryCatalog))
	for id := int64(1); id <= int64(len(ancillaryCatalog)); id++ {
		if svc, ok := ancillaryCatalog[id]; ok {
			out = append(out, svc)
		}
	}
	return out
}
