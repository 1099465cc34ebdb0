package domain

import "time"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type Booking struct {
	ID          int64
	BookingID   string
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
	Package     string
	EventName   string
	Guests      int
	EventDate   time.Time
	EventTime   string
	Location    string
	Description string
	CreatedAt   time.Time
	IsConfirmed bool
	IsAchieved  bool
}

// BookingPatch carries the fields of an update. Nil fields are left untouched.
type BookingPatch struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	Email       *string
	Package     *string
	EventName   *string
	Guests      *int
	EventDate   *time.Time
	EventTime   *string
	Location    *string
	Description *string
	IsConfirmed *bool
	IsAchieved  *bool
}

// Apply returns a copy of b with the patch applied. BookingID and CreatedAt never change.
func (p BookingPatch) Apply(b Booking) Booking {
	next := b
	if p.FirstName != nil {
		next.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		next.LastName = *p.LastName
	}
	if p.PhoneNumber != nil {
		next.PhoneNumber = *p.PhoneNumber
	}
	if p.Email != nil {
		next.Email = *p.Email
	}
	if p.Package != nil {
		next.Package = *p.Package
	}
	if p.EventName != nil {
		next.EventName = *p.EventName
	}
	if p.Guests != nil {
		next.Guests = *p.Guests
	}
	if p.EventDate != nil {
		next.EventDate = *p.EventDate
	}
	if p.EventTime != nil {
		next.EventTime = *p.EventTime
	}
	if p.Location != nil {
		next.Location = *p.Location
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.IsConfirmed != nil {
		next.IsConfirmed = *p.IsConfirmed
	}
	if p.IsAchieved != nil {
		next.IsAchieved = *p.IsAchieved
	}
	return next
}

func (p BookingPatch) IsEmpty() bool {
	return p == BookingPatch{}
}
