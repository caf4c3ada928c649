package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/model"
)

// Mailer delivers a contact form submission to the site owner.
type Mailer interface {
	Send(ctx context.Context, msg model.ContactMessage) error
}

// ContactService relays contact form submissions by mail.
//
// Nothing is stored, rate limited or retried: each submission is one
// delivery attempt.
type ContactService struct {
	mailer Mailer
	logger *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(mailer Mailer, logger *slog.Logger) *ContactService {
	return &ContactService{
		mailer: mailer,
		logger: logger,
	}
}

// Submit validates msg and hands it to the mailer. A missing field returns a
// Validation error and the mailer is never called; a delivery failure returns
// a Delivery error wrapping the transport cause.
func (s *ContactService) Submit(ctx context.Context, msg model.ContactMessage) error {
	// whitespace-only counts as missing
	if blank(msg.Name) || blank(msg.Email) || blank(msg.Message) {
		return apperror.ValidationFailed("", "Please provide all required fields")
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("error sending contact email",
			slog.String("from", msg.Email),
			slog.String("error", err.Error()),
		)
		return apperror.DeliveryFailed(err)
	}

	s.logger.Info("contact email sent", slog.String("from", msg.Email))
	return nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
