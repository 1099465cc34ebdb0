package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	// Update applies patch under a row lock and returns the state before and after it.
	Update(ctx context.Context, bookingID string, patch domain.BookingPatch) (prev, next *domain.Booking, err error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, booking_id, first_name, last_name, phone_number, email, package, event_name, guests,
	event_date, event_time::text, location, description, created_at, is_confirmed, is_achieved`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.BookingID, &b.FirstName, &b.LastName, &b.PhoneNumber, &b.Email, &b.Package, &b.EventName, &b.Guests,
		&b.EventDate, &b.EventTime, &b.Location, &b.Description, &b.CreatedAt, &b.IsConfirmed, &b.IsAchieved); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	err := r.db.QueryRow(ctx, `INSERT INTO bookings (booking_id, first_name, last_name, phone_number, email, package, event_name, guests,
			event_date, event_time, location, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::time, $11, $12)
		RETURNING id, created_at, is_confirmed, is_achieved`,
		booking.BookingID, booking.FirstName, booking.LastName, booking.PhoneNumber, booking.Email, booking.Package, booking.EventName, booking.Guests,
		booking.EventDate, booking.EventTime, booking.Location, booking.Description).
		Scan(&booking.ID, &booking.CreatedAt, &booking.IsConfirmed, &booking.IsAchieved)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBookingIDTaken
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *PGBookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) Update(ctx context.Context, bookingID string, patch domain.BookingPatch) (*domain.Booking, *domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	prev, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1 FOR UPDATE`, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, domain.ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("lock booking: %w", err)
	}

	next := patch.Apply(*prev)
	if _, err := tx.Exec(ctx, `UPDATE bookings SET first_name=$1, last_name=$2, phone_number=$3, email=$4, package=$5, event_name=$6,
			guests=$7, event_date=$8, event_time=$9::time, location=$10, description=$11, is_confirmed=$12, is_achieved=$13
		WHERE id=$14`,
		next.FirstName, next.LastName, next.PhoneNumber, next.Email, next.Package, next.EventName,
		next.Guests, next.EventDate, next.EventTime, next.Location, next.Description, next.IsConfirmed, next.IsAchieved,
		next.ID); err != nil {
		return nil, nil, fmt.Errorf("update booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit booking update: %w", err)
	}
	return prev, &next, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
