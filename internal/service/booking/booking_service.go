package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/eventbooking/internal/bookingid"
	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/Domenick1991/eventbooking/internal/repository"
	"github.com/Domenick1991/eventbooking/internal/validation"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	UpdateBooking(ctx context.Context, bookingID string, input UpdateBookingInput) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	AchieveBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
}

// Notifier receives lifecycle notifications after the booking change is committed.
type Notifier interface {
	Dispatch(ctx context.Context, n domain.Notification) error
}

// ReviewCache is invalidated when a booking changes, since review lists embed their booking.
type ReviewCache interface {
	InvalidateReviews(ctx context.Context) error
}

type BookingService struct {
	bookings   repository.BookingRepository
	notifier   Notifier
	reviews    ReviewCache
	ids        bookingid.Generator
	idAttempts int
	now        func() time.Time
	log        zerolog.Logger
}

type CreateBookingInput struct {
	FirstName   string `json:"first_name" validate:"required,max=50"`
	LastName    string `json:"last_name" validate:"required,max=50"`
	PhoneNumber string `json:"phone_number" validate:"required,max=15"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Package     string `json:"package" validate:"required,max=50"`
	EventName   string `json:"event_name" validate:"required,max=100"`
	Guests      int    `json:"guests" validate:"gt=0,max=2147483647"`
	EventDate   string `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime   string `json:"event_time" validate:"required,eventtime"`
	Location    string `json:"location" validate:"required,max=255"`
	Description string `json:"description" validate:"required"`
}

// UpdateBookingInput amends a booking. Nil fields are left unchanged.
type UpdateBookingInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"`
	Package     *string `json:"package"`
	EventName   *string `json:"event_name"`
	Guests      *int    `json:"guests"`
	EventDate   *string `json:"event_date"`
	EventTime   *string `json:"event_time"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	IsConfirmed *bool   `json:"is_confirmed"`
	IsAchieved  *bool   `json:"is_achieved"`
}

type BookingServiceOption func(*BookingService)

func WithIDGenerator(gen bookingid.Generator) BookingServiceOption {
	return func(s *BookingService) {
		s.ids = gen
	}
}

func WithIDAttempts(n int) BookingServiceOption {
	return func(s *BookingService) {
		if n > 0 {
			s.idAttempts = n
		}
	}
}

func WithReviewCache(cache ReviewCache) BookingServiceOption {
	return func(s *BookingService) {
		s.reviews = cache
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithLogger(log zerolog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(bookings repository.BookingRepository, notifier Notifier, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings:   bookings,
		notifier:   notifier,
		ids:        bookingid.NewRandomGenerator(),
		idAttempts: 3,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	eventDate, err := validation.ParseEventDate(input.EventDate)
	if err != nil {
		return nil, err
	}
	eventTime, err := validation.ParseEventTime(input.EventTime)
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.idAttempts; attempt++ {
		booking := &domain.Booking{
			BookingID:   s.ids.Generate(),
			FirstName:   input.FirstName,
			LastName:    input.LastName,
			PhoneNumber: input.PhoneNumber,
			Email:       input.Email,
			Package:     input.Package,
			EventName:   input.EventName,
			Guests:      input.Guests,
			EventDate:   eventDate,
			EventTime:   eventTime,
			Location:    input.Location,
			Description: input.Description,
		}

		err := s.bookings.Create(ctx, booking)
		if err == nil {
			s.log.Info().Str("booking_id", booking.BookingID).Str("event_name", booking.EventName).Msg("booking created")
			return booking, nil
		}
		if !errors.Is(err, domain.ErrBookingIDTaken) {
			return nil, err
		}
		s.log.Warn().Str("booking_id", booking.BookingID).Int("attempt", attempt).Msg("booking id collision")
	}
	return nil, domain.ErrBookingIDsExhausted
}

func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.GetByBookingID(ctx, bookingID)
}

func (s *BookingService) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.List(ctx)
}

func (s *BookingService) UpdateBooking(ctx context.Context, bookingID string, input UpdateBookingInput) (*domain.Booking, error) {
	patch, err := input.toPatch()
	if err != nil {
		return nil, err
	}
	return s.update(ctx, bookingID, patch)
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	confirmed := true
	return s.update(ctx, bookingID, domain.BookingPatch{IsConfirmed: &confirmed})
}

func (s *BookingService) AchieveBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	achieved := true
	return s.update(ctx, bookingID, domain.BookingPatch{IsAchieved: &achieved})
}

func (s *BookingService) update(ctx context.Context, bookingID string, patch domain.BookingPatch) (*domain.Booking, error) {
	if patch.IsEmpty() {
		return s.bookings.GetByBookingID(ctx, bookingID)
	}

	prev, next, err := s.bookings.Update(ctx, bookingID, patch)
	if err != nil {
		return nil, err
	}

	if next.IsAchieved && !next.IsConfirmed {
		s.log.Warn().Str("booking_id", next.BookingID).Msg("booking marked achieved before it was confirmed")
	}

	if s.reviews != nil {
		if err := s.reviews.InvalidateReviews(ctx); err != nil {
			s.log.Warn().Err(err).Str("booking_id", next.BookingID).Msg("failed to invalidate review cache")
		}
	}

	s.notifyTransitions(ctx, *prev, *next)
	return next, nil
}

// notifyTransitions never fails the update: the change is already committed.
func (s *BookingService) notifyTransitions(ctx context.Context, prev, next domain.Booking) {
	kinds := domain.Transitions(prev, next)
	if len(kinds) == 0 {
		return
	}
	if s.notifier == nil {
		s.log.Warn().Str("booking_id", next.BookingID).Msg("no notifier configured, lifecycle notifications skipped")
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, kind := range kinds {
		n := domain.NewNotification(uuid.NewString(), kind, next, s.now().UTC())
		if err := s.notifier.Dispatch(ctx, n); err != nil {
			s.log.Error().
				Err(err).
				Str("kind", string(kind)).
				Str("booking_id", next.BookingID).
				Msg("failed to dispatch notification")
			continue
		}
		s.log.Info().Str("kind", string(kind)).Str("booking_id", next.BookingID).Msg("notification dispatched")
	}
}

func (in UpdateBookingInput) toPatch() (domain.BookingPatch, error) {
	verr := domain.NewValidationError()
	checkString := func(field string, value *string, tag string) {
		if value != nil {
			validation.Var(verr, field, *value, tag)
		}
	}
	checkString("first_name", in.FirstName, "min=1,max=50")
	checkString("last_name", in.LastName, "min=1,max=50")
	checkString("phone_number", in.PhoneNumber, "min=1,max=15")
	checkString("email", in.Email, "email,max=254")
	checkString("package", in.Package, "min=1,max=50")
	checkString("event_name", in.EventName, "min=1,max=100")
	checkString("location", in.Location, "min=1,max=255")
	checkString("description", in.Description, "min=1")
	checkString("event_date", in.EventDate, "datetime=2006-01-02")
	checkString("event_time", in.EventTime, "eventtime")
	if in.Guests != nil {
		validation.Var(verr, "guests", *in.Guests, "gt=0,max=2147483647")
	}
	if verr.HasErrors() {
		return domain.BookingPatch{}, verr
	}

	patch := domain.BookingPatch{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		PhoneNumber: in.PhoneNumber,
		Email:       in.Email,
		Package:     in.Package,
		EventName:   in.EventName,
		Guests:      in.Guests,
		Location:    in.Location,
		Description: in.Description,
		IsConfirmed: in.IsConfirmed,
		IsAchieved:  in.IsAchieved,
	}
	if in.EventDate != nil {
		date, err := validation.ParseEventDate(*in.EventDate)
		if err != nil {
			return domain.BookingPatch{}, fmt.Errorf("parse event date: %w", err)
		}
		patch.EventDate = &date
	}
	if in.EventTime != nil {
		clock, err := validation.ParseEventTime(*in.EventTime)
		if err != nil {
			return domain.BookingPatch{}, fmt.Errorf("parse event time: %w", err)
		}
		patch.EventTime = &clock
	}
	return patch, nil
}

var _ BookingUseCase = (*BookingService)(nil)
