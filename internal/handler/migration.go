package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/portfolio/internal/apperror"
	"github.com/sakif/portfolio/internal/service"
)

// MigrationHandler lets a signed-in owner check for and run default-content
// seeding. Both routes sit behind auth.RequireAuth.
type MigrationHandler struct {
	content   *service.ContentService
	migration *service.MigrationService
	logger    *slog.Logger
}

func NewMigrationHandler(content *service.ContentService, migration *service.MigrationService, logger *slog.Logger) *MigrationHandler {
	return &MigrationHandler{
		content:   content,
		migration: migration,
		logger:    logger,
	}
}

// HandleStatus reports whether the owner's own scope is still empty.
//
// HTTP: GET /api/migration/status → {"needsMigration": true}
func (h *MigrationHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	needs, err := h.content.NeedsMigration(r.Context(), viewerFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"needsMigration": needs})
}

// migrationFailure is the 500 body for a partial seed: the error plus what
// was written before it happened.
type migrationFailure struct {
	Error  string                   `json:"error"`
	Report *service.MigrationReport `json:"report,omitempty"`
}

// HandleRun seeds the default content into the owner's scope.
//
// HTTP: POST /api/migration?force=true
func (h *MigrationHandler) HandleRun(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperror.InvalidArgument("force", "force must be true or false"))
			return
		}
		force = v
	}

	report, err := h.migration.Run(r.Context(), viewerFrom(r).UserID, service.MigrationOptions{Force: force})
	if err != nil {
		var appErr *apperror.AppError
		if errors.Is(err, apperror.ErrPartialMigration) && errors.As(err, &appErr) {
			writeJSON(w, http.StatusInternalServerError, migrationFailure{Error: appErr.Message, Report: report})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
