package email

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Domenick1991/eventbooking/internal/domain"
	"github.com/rs/zerolog"
)

// Message is a rendered plain text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type Config struct {
	ReviewBaseURL string
}

type Sender struct {
	transport Transport
	cfg       Config
	log       zerolog.Logger
}

func NewSender(transport Transport, cfg Config, log zerolog.Logger) *Sender {
	return &Sender{transport: transport, cfg: cfg, log: log}
}

// Send renders the notification and hands it to the transport.
func (s *Sender) Send(ctx context.Context, n domain.Notification) error {
	msg, err := s.Render(n)
	if err != nil {
		return err
	}
	if err := s.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s email for booking %s: %w", n.Kind, n.BookingID, err)
	}
	s.log.Info().
		Str("kind", string(n.Kind)).
		Str("booking_id", n.BookingID).
		Msg("notification email sent")
	return nil
}

func (s *Sender) Render(n domain.Notification) (Message, error) {
	switch n.Kind {
	case domain.NotificationBookingConfirmed:
		return Message{
			To:      n.Email,
			Subject: "Booking Confirmation",
			Body:    confirmationBody(n),
		}, nil
	case domain.NotificationReviewRequested:
		return Message{
			To:      n.Email,
			Subject: "Thank you for using our services - Please leave a review!",
			Body:    reviewRequestBody(n, s.ReviewLink(n.BookingID)),
		}, nil
	default:
		return Message{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
}

func (s *Sender) ReviewLink(bookingID string) string {
	q := url.Values{}
	q.Set("booking_id", bookingID)
	return s.cfg.ReviewBaseURL + "?" + q.Encode()
}

func confirmationBody(n domain.Notification) string {
	return fmt.Sprintf(`Hi %s,

Your booking for %s on %s has been confirmed.
Booking ID: %s

Thank you for choosing us!

Best regards,
Your Event Team
`, n.FirstName, n.EventName, n.EventDate, n.BookingID)
}

func reviewRequestBody(n domain.Notification, link string) string {
	return fmt.Sprintf(`Hi %s,

We hope you enjoyed your event '%s' on %s at %s!

We would love to hear your feedback on our services. Please take a moment to leave a review and rate your experience. Your feedback helps us improve and continue providing the best service possible.

You can review us by clicking the link below:
%s

Booking ID: %s
Event Name: %s
Location: %s

Thank you again for choosing us!

Best regards,
Your Event Team
`, n.FirstName, n.EventName, n.EventDate, n.Location, link, n.BookingID, n.EventName, n.Location)
}
