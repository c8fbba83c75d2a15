package inquiry

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/johncabili/portfolio/backend/internal/model/email"
)

var (
	ErrInvalidReplyTo = errors.New("a valid reply address is required")
	ErrEmptyBody      = errors.New("message body is required")
	ErrUnknownKind    = errors.New("unknown inquiry kind")
)

// Inquiry is a visitor message relayed to the site owner when the visitor's
// own mail client cannot be opened.
type Inquiry struct {
	SessionID string     `json:"sessionId,omitempty"`
	Kind      email.Kind `json:"kind"`
	Name      string     `json:"name,omitempty"`
	ReplyTo   string     `json:"replyTo"`
	Body      string     `json:"body"`
}

// Relay turns inquiries into mail addressed to the owner.
type Relay struct {
	sender Sender
	owner  string
	logger *zap.Logger
}

func NewRelay(sender Sender, ownerEmail string, logger *zap.Logger) *Relay {
	if sender == nil {
		sender = NewDisabledSender("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{sender: sender, owner: ownerEmail, logger: logger}
}

// Compose validates in and builds the outbound mail. A blank body falls back
// to the template body, so the blank kind needs a visitor-supplied one.
func (r *Relay) Compose(in Inquiry) (Mail, error) {
	kind := in.Kind
	if kind == "" {
		kind = email.KindGeneral
	}
	tmpl, ok := email.Lookup(kind)
	if !ok {
		return Mail{}, fmt.Errorf("%w: %q", ErrUnknownKind, in.Kind)
	}

	addr, err := mail.ParseAddress(strings.TrimSpace(in.ReplyTo))
	if err != nil {
		return Mail{}, ErrInvalidReplyTo
	}
	if in.Name != "" {
		addr.Name = strings.TrimSpace(in.Name)
	}

	body := strings.TrimSpace(in.Body)
	if body == "" {
		body = tmpl.Body
	}
	if strings.TrimSpace(body) == "" {
		return Mail{}, ErrEmptyBody
	}

	subject := tmpl.Subject
	if subject == "" {
		subject = "Portfolio inquiry"
	}

	return Mail{
		To:      r.owner,
		ReplyTo: addr.String(),
		Subject: subject,
		Body:    body,
	}, nil
}

// Send composes and delivers in.
func (r *Relay) Send(ctx context.Context, in Inquiry) error {
	msg, err := r.Compose(in)
	if err != nil {
		return err
	}
	if err := r.sender.Send(ctx, msg); err != nil {
		r.logger.Warn("inquiry relay failed",
			zap.String("session_id", in.SessionID),
			zap.String("kind", string(in.Kind)),
			zap.Error(err))
		return fmt.Errorf("relay inquiry: %w", err)
	}
	r.logger.Info("inquiry relayed", zap.String("session_id", in.SessionID), zap.String("kind", string(in.Kind)))
	return nil
}
