package domain

import "time"

type SeatCategory string

const (
	SeatStandard     SeatCategory = "STANDARD"
	SeatExtraLegroom SeatCategory = "EXTRA_LEGROOM"
	SeatExitRow      SeatCategory = "EXIT_ROW"
	SeatFrontRow     SeatCategory = "FRONT_ROW"
	SeatAccessible   SeatCategory = "ACCESSIBLE"
)

// Seat is one physical seat on a flight as reported by the inventory.
// Occupied reflects the server's authoritative view; AdditionalPrice is
// derived from the category via the pricing table, not stored.
type Seat struct {
	ID              int64        `json:"id"`
	FlightID        int64        `json:"flight_id"`
	Number          string       `json:"number"`
	Category        SeatCategory `json:"category"`
	CabinClassID    int64        `json:"cabin_class_id"`
	CabinClassName  string       `json:"cabin_class_name"`
	Occupied        bool         `json:"occupied"`
	AdditionalPrice int64        `json:"additional_price"`
}

type Flight struct {
	ID             int64     `json:"id"`
	FlightNumber   string    `json:"flight_number"`
	FromAirport    string    `json:"from_airport"`
	ToAirport      string    `json:"to_airport"`
	DepartureTime  time.Time `json:"departure_time"`
	ArrivalTime    time.Time `json:"arrival_time"`
	BaseFare       int64     `json:"base_fare"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
