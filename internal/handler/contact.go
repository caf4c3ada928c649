package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/model"
	"github.com/sakif/portfolio/internal/service"
)

// ContactHandler relays the contact form.
type ContactHandler struct {
	contact *service.ContactService
	// exposeErrors puts the transport error in 500 responses; development only
	exposeErrors bool
	logger       *slog.Logger
}

func NewContactHandler(contact *service.ContactService, exposeErrors bool, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contact:      contact,
		exposeErrors: exposeErrors,
		logger:       logger,
	}
}

// ContactResponse is the body of both the success and the delivery-failure
// responses.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HandleContact validates the submission and mails it to the owner.
//
// HTTP: POST /api/contact {"name": "...", "email": "...", "message": "..."}
//
//	200 {"success": true, "message": "Email sent successfully"}
//	400 {"error": "Please provide all required fields"}
//	500 {"success": false, "message": "Failed to send email", "error": "..."}
func (h *ContactHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		// an unreadable body has no usable fields
		h.logger.Debug("contact: bad request body", slog.String("error", err.Error()))
		msg = model.ContactMessage{}
	}

	err := h.contact.Submit(r.Context(), msg)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, ContactResponse{Success: true, Message: "Email sent successfully"})

	case errors.Is(err, apperror.ErrValidation):
		writeError(w, err)

	default:
		detail := "Internal server error"
		if h.exposeErrors {
			detail = rootCause(err).Error()
		}
		writeJSON(w, http.StatusInternalServerError, ContactResponse{
			Success: false,
			Message: "Failed to send email",
			Error:   detail,
		})
	}
}

// rootCause returns the transport error inside an AppError, or err itself.
func rootCause(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Cause
	}
	return err
}
