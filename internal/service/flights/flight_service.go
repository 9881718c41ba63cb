package flights

import (
	"context"

	"github.com/skyfare/booking/internal/domain"
	"github.com/skyfare/booking/internal/pricing"
	"github.com/skyfare/booking/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	// ListSeats returns the seat map for one flight and cabin class, with
	// additional prices derived from the pricing table. Occupancy is the
	// server's authoritative view, modulo the cache TTL.
	ListSeats(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetSeatMap(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error)
	SetSeatMap(ctx context.Context, flightID, cabinClassID int64, seats []domain.Seat) error
}

type FlightService struct {
	flights repository.FlightRepository
	seats   repository.SeatRepository
	cache   Cache
}

func NewFlightService(flights repository.FlightRepository, seats repository.SeatRepository, cache Cache) *FlightService {
	return &FlightService{flights: flights, seats: seats, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.flights.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.flights.GetByID(ctx, id)
}

func (s *FlightService) ListSeats(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSeatMap(ctx, flightID, cabinClassID); err == nil && cached != nil {
			return cached, nil
		}
	}

	seats, err := s.seats.ListByFlightClass(ctx, flightID, cabinClassID)
	if err != nil {
		return nil, err
	}
	seats = pricing.PriceSeats(seats)
	if s.cache != nil {
		_ = s.cache.SetSeatMap(ctx, flightID, cabinClassID, seats)
	}
	return seats, nil
}

var _ FlightUseCase = (*FlightService)(nil)
