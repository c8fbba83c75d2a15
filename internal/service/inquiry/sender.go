package inquiry

import (
	"context"
	"errors"
)

// ErrDisabled is returned when no mail relay is configured.
var ErrDisabled = errors.New("email relay disabled")

// Mail is a fully addressed plain-text message.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Sender delivers outbound mail.
type Sender interface {
	Send(ctx context.Context, mail Mail) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) Send(_ context.Context, _ Mail) error {
	if s.reason == "" {
		return ErrDisabled
	}
	return errors.Join(ErrDisabled, errors.New(s.reason))
}
