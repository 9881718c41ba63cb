package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skyfare/booking/internal/domain"
)

type CheckinRepository interface {
	GetSegments(ctx context.Context, bookingCode string) ([]domain.Segment, error)
	GetRecords(ctx context.Context, bookingCode string) ([]domain.CheckinRecord, error)
	UpdateRecordStatus(ctx context.Context, segmentID, passengerID int64, status domain.CheckinStatus) error
	// CreateProposal stores a new PROPOSED seat change, superseding any
	// pending proposal for the same passenger/segment pair.
	CreateProposal(ctx context.Context, p *domain.SeatChangeProposal) error
	// GetLatestProposal returns the most recent proposal for the pair, or
	// (nil, nil) when none exists.
	GetLatestProposal(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error)
	// CommitProposal applies a PROPOSED change: occupies the new seat,
	// releases the old one, repoints the check-in record, and marks the
	// proposal COMMITTED, all in one transaction.
	CommitProposal(ctx context.Context, proposalID int64) (*domain.SeatChangeProposal, error)
	CancelProposal(ctx context.Context, proposalID int64) (*domain.SeatChangeProposal, error)
	ExpireProposedBefore(ctx context.Context, deadline time.Time) ([]domain.SeatChangeProposal, error)
}

type PGCheckinRepository struct {
	db *pgxpool.Pool
}

func NewCheckinRepository(db *pgxpool.Pool) CheckinRepository {
	return &PGCheckinRepository{db: db}
}

func (r *PGCheckinRepository) GetSegments(ctx context.Context, bookingCode string) ([]domain.Segment, error) {
	rows, err := r.db.Query(ctx, `SELECT s.id, b.code, s.flight_id, s.cabin_class_id, s.cabin_class_name, s.from_airport, s.to_airport, s.departure_time
		FROM segments s JOIN bookings b ON b.id = s.booking_id
		WHERE b.code = $1 ORDER BY s.departure_time`, bookingCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	segments := make([]domain.Segment, 0)
	for rows.Next() {
		var s domain.Segment
		if err := rows.Scan(&s.ID, &s.BookingCode, &s.FlightID, &s.CabinClassID, &s.CabinClassName, &s.FromAirport, &s.ToAirport, &s.DepartureTime); err != nil {
			return nil, err
		}
		segments = append(segments, s)
	}
	return segments, rows.Err()
}

func (r *PGCheckinRepository) GetRecords(ctx context.Context, bookingCode string) ([]domain.CheckinRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT cr.passenger_id, cr.segment_id, p.first_name || ' ' || p.last_name, p.last_name, COALESCE(cr.seat_id, 0), cr.status
		FROM checkin_records cr
		JOIN bookings b ON b.id = cr.booking_id
		JOIN booking_passengers p ON p.id = cr.passenger_id
		WHERE b.code = $1 ORDER BY cr.segment_id, cr.passenger_id`, bookingCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.CheckinRecord, 0)
	for rows.Next() {
		var rec domain.CheckinRecord
		if err := rows.Scan(&rec.PassengerID, &rec.SegmentID, &rec.PassengerName, &rec.LastName, &rec.SeatID, &rec.Status); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *PGCheckinRepository) UpdateRecordStatus(ctx context.Context, segmentID, passengerID int64, status domain.CheckinStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE checkin_records SET status=$1, updated_at=now() WHERE segment_id=$2 AND passenger_id=$3`, status, segmentID, passengerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("checkin record", segmentID)
	}
	return nil
}

func (r *PGCheckinRepository) CreateProposal(ctx context.Context, p *domain.SeatChangeProposal) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// A new seat-click supersedes whatever was pending for this pair.
	if _, err := tx.Exec(ctx, `UPDATE seat_change_proposals SET status=$1, updated_at=now()
		WHERE booking_code=$2 AND passenger_id=$3 AND segment_id=$4 AND status=$5`,
		domain.ProposalStatusCancelled, p.BookingCode, p.PassengerID, p.SegmentID, domain.ProposalStatusProposed); err != nil {
		return err
	}

	p.Status = domain.ProposalStatusProposed
	if err := tx.QueryRow(ctx, `INSERT INTO seat_change_proposals (booking_code, passenger_id, segment_id, current_seat_id, new_seat_id, charge, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		p.BookingCode, p.PassengerID, p.SegmentID, p.CurrentSeatID, p.NewSeatID, p.Charge, p.Status, p.ExpiresAt).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PGCheckinRepository) GetLatestProposal(ctx context.Context, bookingCode string, passengerID, segmentID int64) (*domain.SeatChangeProposal, error) {
	row := r.db.QueryRow(ctx, `SELECT id, booking_code, passenger_id, segment_id, current_seat_id, new_seat_id, charge, status, expires_at, created_at, updated_at
		FROM seat_change_proposals
		WHERE booking_code=$1 AND passenger_id=$2 AND segment_id=$3
		ORDER BY created_at DESC LIMIT 1`, bookingCode, passengerID, segmentID)
	var p domain.SeatChangeProposal
	if err := row.Scan(&p.ID, &p.BookingCode, &p.PassengerID, &p.SegmentID, &p.CurrentSeatID, &p.NewSeatID, &p.Charge, &p.Status, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGCheckinRepository) CommitProposal(ctx context.Context, proposalID int64) (*domain.SeatChangeProposal, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT id, booking_code, passenger_id, segment_id, current_seat_id, new_seat_id, charge, status, expires_at, created_at, updated_at
		FROM seat_change_proposals WHERE id=$1 FOR UPDATE`, proposalID)
	var p domain.SeatChangeProposal
	if err := row.Scan(&p.ID, &p.BookingCode, &p.PassengerID, &p.SegmentID, &p.CurrentSeatID, &p.NewSeatID, &p.Charge, &p.Status, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.Status != domain.ProposalStatusProposed {
		return nil, domain.Validationf("proposal %d is %s, not %s", p.ID, p.Status, domain.ProposalStatusProposed)
	}

	if p.NewSeatID != p.CurrentSeatID {
		cmd, err := tx.Exec(ctx, `UPDATE seats SET occupied=TRUE, updated_at=now() WHERE id=$1 AND occupied=FALSE`, p.NewSeatID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, &domain.SeatUnavailableError{SeatID: p.NewSeatID}
		}
		if _, err := tx.Exec(ctx, `UPDATE seats SET occupied=FALSE, updated_at=now() WHERE id=$1`, p.CurrentSeatID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE checkin_records SET seat_id=$1, updated_at=now() WHERE segment_id=$2 AND passenger_id=$3`, p.NewSeatID, p.SegmentID, p.PassengerID); err != nil {
			return nil, err
		}
	}

	if err := tx.QueryRow(ctx, `UPDATE seat_change_proposals SET status=$1, updated_at=now() WHERE id=$2 RETURNING status, updated_at`,
		domain.ProposalStatusCommitted, p.ID).Scan(&p.Status, &p.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGCheckinRepository) CancelProposal(ctx context.Context, proposalID int64) (*domain.SeatChangeProposal, error) {
	row := r.db.QueryRow(ctx, `UPDATE seat_change_proposals SET status=$1, updated_at=now() WHERE id=$2 AND status=$3
		RETURNING id, booking_code, passenger_id, segment_id, current_seat_id, new_seat_id, charge, status, expires_at, created_at, updated_at`,
		domain.ProposalStatusCancelled, proposalID, domain.ProposalStatusProposed)
	var p domain.SeatChangeProposal
	if err := row.Scan(&p.ID, &p.BookingCode, &p.PassengerID, &p.SegmentID, &p.CurrentSeatID, &p.NewSeatID, &p.Charge, &p.Status, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("pending seat change", proposalID)
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGCheckinRepository) ExpireProposedBefore(ctx context.Context, deadline time.Time) ([]domain.SeatChangeProposal, error) {
	rows, err := r.db.Query(ctx, `UPDATE seat_change_proposals SET status=$1, updated_at=now()
		WHERE status=$2 AND expires_at <= $3
		RETURNING id, booking_code, passenger_id, segment_id, current_seat_id, new_seat_id, charge, status, expires_at, created_at, updated_at`,
		domain.ProposalStatusExpired, domain.ProposalStatusProposed, deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expired []domain.SeatChangeProposal
	for rows.Next() {
		var p domain.SeatChangeProposal
		if err := rows.Scan(&p.ID, &p.BookingCode, &p.PassengerID, &p.SegmentID, &p.CurrentSeatID, &p.NewSeatID, &p.Charge, &p.Status, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		expired = append(expired, p)
	}
	return expired, rows.Err()
}

var _ CheckinRepository = (*PGCheckinRepository)(nil)
