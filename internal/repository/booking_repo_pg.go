package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/booking/internal/domain"
)

type BookingRepository interface {
	// Create persists a finalized draft as a booking in one transaction:
	// booking row, passengers, one segment per phase, per-passenger
	// selections and check-in records, and occupancy for every chosen seat.
	Create(ctx context.Context, booking *domain.Booking, draft *domain.BookingDraft) error
	GetByCode(ctx context.Context, code string) (*domain.Booking, error)
	// Confirm marks a booking paid: status moves to CONFIRMED and its
	// check-in records leave PAYMENT_PENDING.
	Confirm(ctx context.Context, code string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, draft *domain.BookingDraft) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (code, status, trip_type, total_price, contact_email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		booking.Code, booking.Status, booking.TripType, booking.TotalPrice, booking.ContactEmail).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	passengerIDs := make(map[int]int64, len(draft.Passengers))
	for _, p := range draft.Passengers {
		var id int64
		if err := tx.QueryRow(ctx, `INSERT INTO booking_passengers (booking_id, ordinal, first_name, last_name, date_of_birth, gender, identity_document, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			booking.ID, p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Gender, p.IdentityDocument, p.Category).
			Scan(&id); err != nil {
			return err
		}
		passengerIDs[p.ID] = id
	}

	initialStatus := initialCheckinStatus(booking.Status)
	for _, phase := range draft.Phases() {
		flight, ok := draft.FlightForPhase(phase)
		if !ok {
			continue
		}

		var segmentID int64
		if err := tx.QueryRow(ctx, `INSERT INTO segments (booking_id, flight_id, phase, cabin_class_id, cabin_class_name, from_airport, to_airport, departure_time)
			SELECT $1, f.id, $2, $3, $4, f.from_airport, f.to_airport, f.departure_time
			FROM flights f WHERE f.id = $5
			RETURNING id`,
			booking.ID, phase, flight.CabinClassID, flight.CabinClassName, flight.FlightID).
			Scan(&segmentID); err != nil {
			return err
		}

		sel, _ := draft.Selections(phase)
		for _, p := range draft.Passengers {
			var seatID *int64
			var baggageName *string
			var baggagePrice int64
			var meal bool
			var ancillaries []int64

			if sel != nil {
				if choice, ok := sel.SeatByPassenger[p.ID]; ok {
					cmd, err := tx.Exec(ctx, `UPDATE seats SET occupied=TRUE, updated_at=now() WHERE id=$1 AND occupied=FALSE`, choice.SeatID)
					if err != nil {
						return err
					}
					if cmd.RowsAffected() == 0 {
						return &domain.SeatUnavailableError{SeatID: choice.SeatID}
					}
					id := choice.SeatID
					seatID = &id
				}
				if pkg := sel.BaggageByPassenger[p.ID]; pkg != nil {
					baggageName = &pkg.Name
					baggagePrice = pkg.Price
				}
				meal = sel.MealByPassenger[p.ID]
				ancillaries = sel.AncillaryByPassenger[p.ID]
			}
			if ancillaries == nil {
				ancillaries = []int64{}
			}

			if _, err := tx.Exec(ctx, `INSERT INTO booking_selections (booking_id, segment_id, passenger_id, seat_id, baggage_name, baggage_price, meal, ancillary_ids)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				booking.ID, segmentID, passengerIDs[p.ID], seatID, baggageName, baggagePrice, meal, ancillaries); err != nil {
				return err
			}

			if _, err := tx.Exec(ctx, `INSERT INTO checkin_records (booking_id, segment_id, passenger_id, seat_id, status)
				VALUES ($1, $2, $3, $4, $5)`,
				booking.ID, segmentID, passengerIDs[p.ID], seatID, initialStatus); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByCode(ctx context.Context, code string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, code, status, trip_type, total_price, contact_email, created_at, updated_at FROM bookings WHERE code=$1`, code)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Code, &b.Status, &b.TripType, &b.TotalPrice, &b.ContactEmail, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Confirm(ctx context.Context, code string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE code=$2
		RETURNING id, code, status, trip_type, total_price, contact_email, created_at, updated_at`,
		domain.BookingStatusConfirmed, code)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Code, &b.Status, &b.TripType, &b.TotalPrice, &b.ContactEmail, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `UPDATE checkin_records SET status=$1, updated_at=now() WHERE booking_id=$2 AND status=$3`,
		domain.CheckinStatusPending, b.ID, domain.CheckinStatusPaymentPending); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &b, nil
}

func initialCheckinStatus(status domain.BookingStatus) domain.CheckinStatus {
	switch status {
	case domain.BookingStatusConfirmed:
		return domain.CheckinStatusPending
	case domain.BookingStatusPendingPayment:
		return domain.CheckinStatusPaymentPending
	case domain.BookingStatusCancelled:
		return domain.CheckinStatusBookingCancelled
	default:
		return domain.CheckinStatusBookingNotConfirmed
	}
}

var _ BookingRepository = (*PGBookingRepository)(nil)
