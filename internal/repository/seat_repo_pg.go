package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/booking/internal/domain"
)

type SeatRepository interface {
	ListByFlightClass(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error)
	GetByID(ctx context.Context, seatID int64) (*domain.Seat, error)
	Occupy(ctx context.Context, seatID int64) error
	Release(ctx context.Context, seatID int64) error
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

func (r *PGSeatRepository) ListByFlightClass(ctx context.Context, flightID, cabinClassID int64) ([]domain.Seat, error) {
	rows, err := r.db.Query(ctx, `SELECT id, flight_id, seat_number, category, cabin_class_id, cabin_class_name, occupied FROM seats WHERE flight_id=$1 AND cabin_class_id=$2 ORDER BY seat_number`, flightID, cabinClassID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.Number, &s.Category, &s.CabinClassID, &s.CabinClassName, &s.Occupied); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

func (r *PGSeatRepository) GetByID(ctx context.Context, seatID int64) (*domain.Seat, error) {
	row := r.db.QueryRow(ctx, `SELECT id, flight_id, seat_number, category, cabin_class_id, cabin_class_name, occupied FROM seats WHERE id=$1`, seatID)
	var s domain.Seat
	if err := row.Scan(&s.ID, &s.FlightID, &s.Number, &s.Category, &s.CabinClassID, &s.CabinClassName, &s.Occupied); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGSeatRepository) Occupy(ctx context.Context, seatID int64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE seats SET occupied=TRUE, updated_at=now() WHERE id=$1 AND occupied=FALSE`, seatID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return &domain.SeatUnavailableError{SeatID: seatID}
	}
	return nil
}

func (r *PGSeatRepository) Release(ctx context.Context, seatID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE seats SET occupied=FALSE, updated_at=now() WHERE id=$1`, seatID)
	return err
}

var _ SeatRepository = (*PGSeatRepository)(nil)
