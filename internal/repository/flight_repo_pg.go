package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/booking/internal/domain"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_number, from_airport, to_airport, departure_time, arrival_time, base_fare, created_at, updated_at FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(&f.ID, &f.FlightNumber, &f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime, &f.BaseFare, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_number, from_airport, to_airport, departure_time, arrival_time, base_fare, created_at, updated_at FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := row.Scan(&f.ID, &f.FlightNumber, &f.FromAirport, &f.ToAirport, &f.DepartureTime, &f.ArrivalTime, &f.BaseFare, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
