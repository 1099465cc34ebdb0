package reviews

import (
	"context"
	"errors"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/validation"
	"github.com/rs/zerolog"
)

// TopLimit is the number of reviews returned by TopReviews.
const TopLimit = 3

type ReviewUseCase interface {
	CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error)
	ListVerified(ctx context.Context) ([]domain.Review, error)
	TopReviews(ctx context.Context) ([]domain.Review, error)
	VerifyReview(ctx context.Context, id int64) (*domain.Review, error)
}

// Cache holds the public review lists. A nil slice with a nil error is a miss.
type Cache interface {
	GetVerifiedReviews(ctx context.Context) ([]domain.Review, error)
	SetVerifiedReviews(ctx context.Context, reviews []domain.Review) error
	GetTopReviews(ctx context.Context) ([]domain.Review, error)
	SetTopReviews(ctx context.Context, reviews []domain.Review) error
	InvalidateReviews(ctx context.Context) error
}

type ReviewService struct {
	reviews  repository.ReviewRepository
	bookings repository.BookingRepository
	cache    Cache
	log      zerolog.Logger
}

type CreateReviewInput struct {
	BookingID  string `json:"booking_id" validate:"required"`
	ReviewText string `json:"review_text" validate:"required"`
	Rating     *int   `json:"rating" validate:"omitempty,min=1,max=2147483647"`
}

func NewReviewService(reviews repository.ReviewRepository, bookings repository.BookingRepository, cache Cache, log zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		bookings: bookings,
		cache:    cache,
		log:      log,
	}
}

// CreateReview accepts a review only for an achieved booking without one.
func (s *ReviewService) CreateReview(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	booking, err := s.bookings.GetByBookingID(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsAchieved {
		return nil, domain.ErrBookingNotAchieved
	}

	exists, err := s.reviews.ExistsForBooking(ctx, booking.BookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrReviewExists
	}

	rating := domain.DefaultRating
	if input.Rating != nil {
		rating = *input.Rating
	}
	review := &domain.Review{
		BookingID:  booking.BookingID,
		ReviewText: input.ReviewText,
		Rating:     rating,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Booking = booking

	s.log.Info().Int64("review_id", review.ID).Str("booking_id", review.BookingID).Int("rating", rating).Msg("review created")
	return review, nil
}

func (s *ReviewService) ListVerified(ctx context.Context) ([]domain.Review, error) {
	return s.cached(ctx, "verified", s.cacheGetVerified, s.cacheSetVerified, s.reviews.ListVerified)
}

func (s *ReviewService) TopReviews(ctx context.Context) ([]domain.Review, error) {
	return s.cached(ctx, "top", s.cacheGetTop, s.cacheSetTop, func(ctx context.Context) ([]domain.Review, error) {
		return s.reviews.TopVerified(ctx, TopLimit)
	})
}

func (s *ReviewService) VerifyReview(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.Verify(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateReviews(ctx); err != nil {
			s.log.Warn().Err(err).Msg("failed to invalidate review cache")
		}
	}
	s.log.Info().Int64("review_id", id).Msg("review verified")
	return review, nil
}

type reviewsFunc func(ctx context.Context) ([]domain.Review, error)

func (s *ReviewService) cached(ctx context.Context, name string, get reviewsFunc, set func(context.Context, []domain.Review) error, load reviewsFunc) ([]domain.Review, error) {
	if s.cache != nil {
		reviews, err := get(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Str("list", name).Msg("review cache read failed")
		case reviews != nil:
			return reviews, nil
		}
	}

	reviews, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	if s.cache != nil {
		if err := set(ctx, reviews); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn().Err(err).Str("list", name).Msg("review cache write failed")
		}
	}
	return reviews, nil
}

func (s *ReviewService) cacheGetVerified(ctx context.Context) ([]domain.Review, error) {
	return s.cache.GetVerifiedReviews(ctx)
}

func (s *ReviewService) cacheSetVerified(ctx context.Context, reviews []domain.Review) error {
	return s.cache.SetVerifiedReviews(ctx, reviews)
}

func (s *ReviewService) cacheGetTop(ctx context.Context) ([]domain.Review, error) {
	return s.cache.GetTopReviews(ctx)
}

func (s *ReviewService) cacheSetTop(ctx context.Context, reviews []domain.Review) error {
	return s.cache.SetTopReviews(ctx, reviews)
}

var _ ReviewUseCase = (*ReviewService)(nil)
