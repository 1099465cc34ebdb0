package domain

import "time"

const DefaultRating = 1

type Review struct {
	ID         int64
	BookingID  string
	ReviewText string
	Rating     int
	CreatedAt  time.Time
	IsVerified bool

	// Booking is filled by queries that join the owning booking.
	Booking *Booking
}
