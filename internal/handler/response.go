package handler

// RESPONSE HELPERS:
// Every JSON endpoint writes through writeJSON / writeError so the API keeps a
// single error shape:
//
//	{"error": "Please provide all required fields"}
//
// The SPA shows the "error" string to the visitor as-is, so it is always a
// human-readable message, never an error code.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/portfolio/internal/apperror"
)

// maxBodyBytes caps JSON request bodies; a contact message is a few KB.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// writeJSON sends data as JSON with the given status. Headers must be set
// before WriteHeader; anything set afterwards is silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent; all we can do is log
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// statusFor maps a domain error to its HTTP status. The service layer knows
// nothing about HTTP; this is the only place the two meet.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation), errors.Is(err, apperror.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperror.ErrDelivery):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError sends err using the status from statusFor. Only an *AppError's
// Message reaches the client; anything else becomes a generic 500 so SQL or
// file paths never leak.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, statusFor(err), ErrorResponse{
			Error: appErr.Message,
			Field: appErr.Field,
		})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
