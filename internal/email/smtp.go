package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/eventbooking/config"
	"github.com/rs/zerolog"
	mail "github.com/wneessen/go-mail"
)

type SMTPTransport struct {
	client *mail.Client
	from   string
}

func NewSMTPTransport(cfg config.SMTPConfig) (*SMTPTransport, error) {
	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Timeout() > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout()))
	}
	if cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPTransport{client: client, from: cfg.From}, nil
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.From(t.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	return t.client.DialAndSendWithContext(ctx, m)
}

// LogTransport writes messages to the log instead of delivering them.
type LogTransport struct {
	log zerolog.Logger
}

func NewLogTransport(log zerolog.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	t.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("email not delivered, smtp is disabled")
	return nil
}

// NewTransport picks SMTP when a host is configured.
func NewTransport(cfg config.SMTPConfig, log zerolog.Logger) (Transport, error) {
	if cfg.Host == "" {
		log.Warn().Msg("smtp host is empty, emails will only be logged")
		return NewLogTransport(log), nil
	}
	return NewSMTPTransport(cfg)
}
