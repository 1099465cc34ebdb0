package reviews

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListVerified(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) TopVerified(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Verify(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, bookingID string, patch domain.BookingPatch) (*domain.Booking, *domain.Booking, error) {
	args := m.Called(ctx, bookingID, patch)
	return args.Get(0).(*domain.Booking), args.Get(1).(*domain.Booking), args.Error(2)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetVerifiedReviews(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockCache) SetVerifiedReviews(ctx context.Context, reviews []domain.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockCache) GetTopReviews(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockCache) SetTopReviews(ctx context.Context, reviews []domain.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *MockCache) InvalidateReviews(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func achievedBooking() *domain.Booking {
	return &domain.Booking{
		ID:          7,
		BookingID:   "aB3dE5gH",
		FirstName:   "Ann",
		Email:       "ann@example.com",
		EventName:   "Wedding",
		EventDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		IsConfirmed: true,
		IsAchieved:  true,
	}
}

func intPtr(v int) *int { return &v }

func newService(reviews *MockReviewRepository, bookings *MockBookingRepository, cache Cache) *ReviewService {
	return NewReviewService(reviews, bookings, cache, zerolog.Nop())
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	reviews := &MockReviewRepository{}
	bookings := &MockBookingRepository{}
	service := newService(reviews, bookings, nil)

	ctx := context.Background()
	booking := achievedBooking()
	bookings.On("GetByBookingID", ctx, booking.BookingID).Return(booking, nil).Once()
	reviews.On("ExistsForBooking", ctx, booking.BookingID).Return(false, nil).Once()
	reviews.On("Create", ctx, mock.MatchedBy(func(r *domain.Review) bool {
		return r.BookingID == booking.BookingID && r.Rating == 5 && r.ReviewText == "Great"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Review).ID = 11
	}).Return(nil).Once()

	review, err := service.CreateReview(ctx, CreateReviewInput{BookingID: booking.BookingID, ReviewText: "Great", Rating: intPtr(5)})

	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
	assert.False(t, review.IsVerified)
	assert.Same(t, booking, review.Booking)
	reviews.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestReviewService_CreateReview_DefaultRating(t *testing.T) {
	reviews := &MockReviewRepository{}
	bookings := &MockBookingRepository{}
	service := newService(reviews, bookings, nil)

	ctx := context.Background()
	booking := achievedBooking()
	bookings.On("GetByBookingID", ctx, booking.BookingID).Return(booking, nil).Once()
	reviews.On("ExistsForBooking", ctx, booking.BookingID).Return(false, nil).Once()
	reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil).Once()

	review, err := service.CreateReview(ctx, CreateReviewInput{BookingID: booking.BookingID, ReviewText: "Fine"})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRating, review.Rating)
}

func TestReviewService_CreateReview_Gate(t *testing.T) {
	notAchieved := achievedBooking()
	notAchieved.IsAchieved = false

	testCases := []struct {
		name        string
		setup       func(ctx context.Context, reviews *MockReviewRepository, bookings *MockBookingRepository)
		expectedErr error
	}{
		{
			name: "unknown booking",
			setup: func(ctx context.Context, _ *MockReviewRepository, bookings *MockBookingRepository) {
				bookings.On("GetByBookingID", ctx, "aB3dE5gH").Return(nil, domain.ErrBookingNotFound).Once()
			},
			expectedErr: domain.ErrBookingNotFound,
		},
		{
			name: "booking not achieved",
			setup: func(ctx context.Context, _ *MockReviewRepository, bookings *MockBookingRepository) {
				bookings.On("GetByBookingID", ctx, "aB3dE5gH").Return(notAchieved, nil).Once()
			},
			expectedErr: domain.ErrBookingNotAchieved,
		},
		{
			name: "review already exists",
			setup: func(ctx context.Context, reviews *MockReviewRepository, bookings *MockBookingRepository) {
				bookings.On("GetByBookingID", ctx, "aB3dE5gH").Return(achievedBooking(), nil).Once()
				reviews.On("ExistsForBooking", ctx, "aB3dE5gH").Return(true, nil).Once()
			},
			expectedErr: domain.ErrReviewExists,
		},
		{
			name: "concurrent duplicate insert",
			setup: func(ctx context.Context, reviews *MockReviewRepository, bookings *MockBookingRepository) {
				bookings.On("GetByBookingID", ctx, "aB3dE5gH").Return(achievedBooking(), nil).Once()
				reviews.On("ExistsForBooking", ctx, "aB3dE5gH").Return(false, nil).Once()
				reviews.On("Create", ctx, mock.Anything).Return(domain.ErrReviewExists).Once()
			},
			expectedErr: domain.ErrReviewExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := &MockReviewRepository{}
			bookings := &MockBookingRepository{}
			service := newService(reviews, bookings, nil)
			ctx := context.Background()
			tc.setup(ctx, reviews, bookings)

			review, err := service.CreateReview(ctx, CreateReviewInput{BookingID: "aB3dE5gH", ReviewText: "Great", Rating: intPtr(4)})

			assert.Nil(t, review)
			assert.ErrorIs(t, err, tc.expectedErr)
			reviews.AssertExpectations(t)
			bookings.AssertExpectations(t)
		})
	}
}

func TestReviewService_CreateReview_ValidationErrors(t *testing.T) {
	bookings := &MockBookingRepository{}
	service := newService(&MockReviewRepository{}, bookings, nil)

	_, err := service.CreateReview(context.Background(), CreateReviewInput{Rating: intPtr(0)})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "booking_id")
	assert.Contains(t, verr.Fields, "review_text")
	assert.Contains(t, verr.Fields, "rating")
	bookings.AssertNotCalled(t, "GetByBookingID", mock.Anything, mock.Anything)
}

func TestReviewService_CreateReview_RatingBeyondIntegerColumn(t *testing.T) {
	reviews := &MockReviewRepository{}
	bookings := &MockBookingRepository{}
	service := newService(reviews, bookings, nil)

	_, err := service.CreateReview(context.Background(), CreateReviewInput{
		BookingID:  "aB3dE5gH",
		ReviewText: "Great",
		Rating:     intPtr(3000000000),
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 2147483647."}, verr.Fields["rating"])
	bookings.AssertNotCalled(t, "GetByBookingID", mock.Anything, mock.Anything)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReviewService_ListVerified_CacheHit(t *testing.T) {
	reviews := &MockReviewRepository{}
	cache := &MockCache{}
	service := newService(reviews, &MockBookingRepository{}, cache)

	ctx := context.Background()
	cached := []domain.Review{{ID: 1, IsVerified: true}}
	cache.On("GetVerifiedReviews", ctx).Return(cached, nil).Once()

	result, err := service.ListVerified(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, result)
	reviews.AssertNotCalled(t, "ListVerified", mock.Anything)
}

func TestReviewService_ListVerified_CacheMissFillsCache(t *testing.T) {
	reviews := &MockReviewRepository{}
	cache := &MockCache{}
	service := newService(reviews, &MockBookingRepository{}, cache)

	ctx := context.Background()
	stored := []domain.Review{{ID: 2, IsVerified: true}}
	cache.On("GetVerifiedReviews", ctx).Return(nil, nil).Once()
	reviews.On("ListVerified", ctx).Return(stored, nil).Once()
	cache.On("SetVerifiedReviews", ctx, stored).Return(nil).Once()

	result, err := service.ListVerified(ctx)

	require.NoError(t, err)
	assert.Equal(t, stored, result)
	cache.AssertExpectations(t)
	reviews.AssertExpectations(t)
}

func TestReviewService_TopReviews_CacheFailureFallsBack(t *testing.T) {
	reviews := &MockReviewRepository{}
	cache := &MockCache{}
	service := newService(reviews, &MockBookingRepository{}, cache)

	ctx := context.Background()
	cache.On("GetTopReviews", ctx).Return(nil, errors.New("redis down")).Once()
	reviews.On("TopVerified", ctx, TopLimit).Return(nil, nil).Once()
	cache.On("SetTopReviews", ctx, []domain.Review{}).Return(errors.New("redis down")).Once()

	result, err := service.TopReviews(ctx)

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	reviews.AssertExpectations(t)
}

func TestReviewService_TopReviews_RepositoryError(t *testing.T) {
	reviews := &MockReviewRepository{}
	service := newService(reviews, &MockBookingRepository{}, nil)

	ctx := context.Background()
	expectedErr := errors.New("database error")
	reviews.On("TopVerified", ctx, TopLimit).Return(nil, expectedErr).Once()

	result, err := service.TopReviews(ctx)

	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)
}

func TestReviewService_VerifyReview_InvalidatesCache(t *testing.T) {
	reviews := &MockReviewRepository{}
	cache := &MockCache{}
	service := newService(reviews, &MockBookingRepository{}, cache)

	ctx := context.Background()
	verified := &domain.Review{ID: 3, IsVerified: true}
	reviews.On("Verify", ctx, int64(3)).Return(verified, nil).Once()
	cache.On("InvalidateReviews", ctx).Return(nil).Once()

	review, err := service.VerifyReview(ctx, 3)

	require.NoError(t, err)
	assert.True(t, review.IsVerified)
	cache.AssertExpectations(t)
}

func TestReviewService_VerifyReview_NotFound(t *testing.T) {
	reviews := &MockReviewRepository{}
	cache := &MockCache{}
	service := newService(reviews, &MockBookingRepository{}, cache)

	ctx := context.Background()
	reviews.On("Verify", ctx, int64(99)).Return(nil, domain.ErrReviewNotFound).Once()

	review, err := service.VerifyReview(ctx, 99)

	assert.Nil(t, review)
	assert.ErrorIs(t, err, domain.ErrReviewNotFound)
	cache.AssertNotCalled(t, "InvalidateReviews", mock.Anything)
}
