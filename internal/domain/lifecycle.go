package domain

import "time"

type NotificationKind string

const (
	NotificationBookingConfirmed NotificationKind = "booking_confirmed"
	NotificationReviewRequested  NotificationKind = "review_requested"
)

// Transitions compares the persisted state with the committed one and returns the
// notifications the change calls for. Only false->true flips of a flag count.
func Transitions(prev, next Booking) []NotificationKind {
	var kinds []NotificationKind
	if !prev.IsConfirmed && next.IsConfirmed {
		kinds = append(kinds, NotificationBookingConfirmed)
	}
	if !prev.IsAchieved && next.IsAchieved {
		kinds = append(kinds, NotificationReviewRequested)
	}
	return kinds
}

// Notification is the payload handed to the sender after a lifecycle transition.
type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	BookingID string           `json:"booking_id"`
	Email     string           `json:"email"`
	FirstName string           `json:"first_name"`
	EventName string           `json:"event_name"`
	EventDate string           `json:"event_date"`
	Location  string           `json:"location,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewNotification(id string, kind NotificationKind, b Booking, now time.Time) Notification {
	n := Notification{
		ID:        id,
		Kind:      kind,
		BookingID: b.BookingID,
		Email:     b.Email,
		FirstName: b.FirstName,
		EventName: b.EventName,
		EventDate: b.EventDate.Format(DateLayout),
		CreatedAt: now,
	}
	if kind == NotificationReviewRequested {
		n.Location = b.Location
	}
	return n
}
