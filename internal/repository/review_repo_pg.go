package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ListVerified(ctx context.Context) ([]domain.Review, error)
	TopVerified(ctx context.Context, limit int) ([]domain.Review, error)
	Verify(ctx context.Context, id int64) (*domain.Review, error)
}

type PGReviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &PGReviewRepository{db: db}
}

const reviewWithBookingColumns = `r.id, r.booking_id, r.review_text, r.rating, r.created_at, r.is_verified,
	b.id, b.booking_id, b.first_name, b.last_name, b.phone_number, b.email, b.package, b.event_name, b.guests,
	b.event_date, b.event_time::text, b.location, b.description, b.created_at, b.is_confirmed, b.is_achieved`

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	var b domain.Booking
	if err := row.Scan(&rv.ID, &rv.BookingID, &rv.ReviewText, &rv.Rating, &rv.CreatedAt, &rv.IsVerified,
		&b.ID, &b.BookingID, &b.FirstName, &b.LastName, &b.PhoneNumber, &b.Email, &b.Package, &b.EventName, &b.Guests,
		&b.EventDate, &b.EventTime, &b.Location, &b.Description, &b.CreatedAt, &b.IsConfirmed, &b.IsAchieved); err != nil {
		return nil, err
	}
	rv.Booking = &b
	return &rv, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

// Create relies on the unique booking_id column, so a concurrent duplicate fails here
// even when both requests passed the existence check.
func (r *PGReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reviews (booking_id, review_text, rating)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, is_verified`, review.BookingID, review.ReviewText, review.Rating).
		Scan(&review.ID, &review.CreatedAt, &review.IsVerified)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrReviewExists
		case isForeignKeyViolation(err):
			return domain.ErrBookingNotFound
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *PGReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id=$1)`, bookingID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check review: %w", err)
	}
	return exists, nil
}

func (r *PGReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewWithBookingColumns+`
		FROM reviews r JOIN bookings b ON b.booking_id = r.booking_id
		WHERE r.id=$1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *PGReviewRepository) ListVerified(ctx context.Context) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewWithBookingColumns+`
		FROM reviews r JOIN bookings b ON b.booking_id = r.booking_id
		WHERE r.is_verified
		ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return collectReviews(rows)
}

// TopVerified orders ties on rating by newest first.
func (r *PGReviewRepository) TopVerified(ctx context.Context, limit int) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, `SELECT `+reviewWithBookingColumns+`
		FROM reviews r JOIN bookings b ON b.booking_id = r.booking_id
		WHERE r.is_verified
		ORDER BY r.rating DESC, r.created_at DESC, r.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top reviews: %w", err)
	}
	return collectReviews(rows)
}

func (r *PGReviewRepository) Verify(ctx context.Context, id int64) (*domain.Review, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE reviews SET is_verified = TRUE WHERE id=$1`, id)
	if err != nil {
		return nil, fmt.Errorf("verify review: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return r.GetByID(ctx, id)
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
